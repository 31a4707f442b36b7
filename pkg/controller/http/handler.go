package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finsight-lab/finsight/pkg/usecase"
	"github.com/finsight-lab/finsight/pkg/utils/errutil"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

// handleError maps use case failures to HTTP responses. Not-found
// conditions become 404 with a structured body; everything else is an
// internal error with the detail kept out of the response.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, usecase.ErrCompanyNotFound):
		writeJSON(w, r, http.StatusNotFound, map[string]string{"error": "company not found"})
	case errors.Is(err, usecase.ErrBenchmarkNotFound):
		writeJSON(w, r, http.StatusNotFound, map[string]string{"error": "no benchmark data for metric"})
	default:
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"service": "finsight",
		"status":  "running",
	})
}

func (s *Server) summaryHandler(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	result, err := s.uc.QuarterlySummary(r.Context(), symbol)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) bullBearHandler(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	result, err := s.uc.BullBearCase(r.Context(), symbol)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) redFlagsHandler(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	result, err := s.uc.RedFlags(r.Context(), symbol)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) benchmarkHandler(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	metricName := r.URL.Query().Get("metric_name")
	if metricName == "" {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "metric_name query parameter is required"})
		return
	}

	result, err := s.uc.Benchmark(r.Context(), symbol, metricName)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

type chatQueryRequest struct {
	CompanySymbol string `json:"company_symbol"`
	Query         string `json:"query"`
}

func (s *Server) chatQueryHandler(w http.ResponseWriter, r *http.Request) {
	var req chatQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.Query == "" {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	answer, err := s.uc.AnswerQuery(r.Context(), req.CompanySymbol, req.Query)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, answer)
}
