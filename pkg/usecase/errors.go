package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrCompanyNotFound   = errors.New("company not found")
	ErrBenchmarkNotFound = errors.New("benchmark not found")
)

// UnableToAnswerReply is returned when every model in the fallback chain
// failed. Surfaced as a normal answer, never as a raw error.
const UnableToAnswerReply = "I'm unable to answer right now. Please try again in a moment."
