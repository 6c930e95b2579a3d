package pipeline

import (
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure. The orchestrator maps each kind to
// exactly one HTTP status and JSON shape; stages never write responses
// themselves.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindFetch          Kind = "fetch"
	KindNormalization  Kind = "normalization"
	KindTranscription  Kind = "transcription"
	KindPostProcessing Kind = "post_processing"
	KindInternal       Kind = "internal"
)

// Error is the typed failure surfaced by a pipeline stage. Message is
// safe to return to clients; Err carries the underlying cause and is
// only ever logged.
type Error struct {
	Kind    Kind
	Status  int // optional override of the kind's default status
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus returns the response status for this failure.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindFetch:
		return http.StatusBadRequest
	case KindNormalization, KindTranscription, KindPostProcessing:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
