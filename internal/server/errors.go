package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-templater/internal/db"
	"github.com/jonathan/cv-templater/internal/generator"
	"github.com/jonathan/cv-templater/internal/ingestion"
	"github.com/jonathan/cv-templater/internal/rendering"
	"github.com/jonathan/cv-templater/internal/templates"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		unknownErr    *templates.UnknownTemplateError
		generatorErr  *generator.Error
		maxBytesErr   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &unknownErr):
		return http.StatusBadRequest
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ingestion.ErrUnreadableSource):
		return http.StatusUnprocessableEntity
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, rendering.ErrRendererUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &generatorErr) && generatorErr.Step == generator.StepTemplate:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the message exposed to clients; internal failures are not detailed.
func errorMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
