package llm

import "errors"

var (
	// ErrEmptyResponse is returned when the model answers with no content.
	ErrEmptyResponse = errors.New("model returned an empty response")
	// ErrModelNotFound is returned when the runtime does not have the model installed.
	ErrModelNotFound = errors.New("model not found")
)

// AnalysisError reports a failed model call. Error returns the underlying
// description unchanged so it can be shown to the user as is.
type AnalysisError struct {
	Model string
	Err   error
}

func (e *AnalysisError) Error() string {
	if e.Err == nil {
		return "analysis failed"
	}
	return e.Err.Error()
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
