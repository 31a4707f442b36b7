package llm

import (
	"context"
	"strings"

	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// gollemGenerator adapts a gollem.LLMClient to the Generator interface.
// A fresh session is created per call; the pipeline is stateless and does
// not carry conversation history across queries.
type gollemGenerator struct {
	client gollem.LLMClient
}

// NewGenerator wraps a gollem LLM client as a Generator
func NewGenerator(client gollem.LLMClient) (Generator, error) {
	if client == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &gollemGenerator{client: client}, nil
}

func (g *gollemGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	session, err := g.client.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.New("no text in LLM response")
	}

	return strings.TrimSpace(strings.Join(resp.Texts, "\n")), nil
}

// Embedder produces embedding vectors for texts
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type gollemEmbedder struct {
	client gollem.LLMClient
}

// NewEmbedder wraps a gollem LLM client as an Embedder
func NewEmbedder(client gollem.LLMClient) (Embedder, error) {
	if client == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &gollemEmbedder{client: client}, nil
}

func (e *gollemEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings, err := e.client.GenerateEmbedding(ctx, model.EmbeddingDimension, texts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embeddings")
	}
	if len(embeddings) != len(texts) {
		return nil, goerr.New("embedding count mismatch",
			goerr.V("texts", len(texts)),
			goerr.V("embeddings", len(embeddings)))
	}

	result := make([][]float32, len(embeddings))
	for i, emb := range embeddings {
		vec := make([]float32, len(emb))
		for j, v := range emb {
			vec[j] = float32(v)
		}
		result[i] = vec
	}

	return result, nil
}
