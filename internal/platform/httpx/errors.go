package httpx

import (
	"errors"
	"log/slog"
	"net/http"
)

// Sentinel errors for the domain layer. Conflicts map to 400 rather than
// 409 because the consuming front-end treats every rejected submission
// the same way and only distinguishes 404.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrConflict   = errors.New("duplicate entry")
	ErrValidation = errors.New("validation failed")
)

type apiError struct {
	kind    error
	mensaje string
}

func (e *apiError) Error() string   { return e.mensaje }
func (e *apiError) Is(target error) bool { return target == e.kind }

// NotFound builds a 404 error with a client-facing message.
func NotFound(mensaje string) error { return &apiError{kind: ErrNotFound, mensaje: mensaje} }

// Conflict builds a duplicate-key error with a client-facing message.
func Conflict(mensaje string) error { return &apiError{kind: ErrConflict, mensaje: mensaje} }

// Invalid builds a validation error with a client-facing message.
func Invalid(mensaje string) error { return &apiError{kind: ErrValidation, mensaje: mensaje} }

// RespondError maps domain errors to JSON responses. Validation and
// conflict errors carry their message to the client; anything else is
// logged server-side and answered with a generic 500 body.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Msg(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict), errors.Is(err, ErrValidation):
		Msg(w, http.StatusBadRequest, err.Error())
	default:
		if logger != nil {
			logger.Error("request failed", slog.Any("error", err))
		}
		Msg(w, http.StatusInternalServerError, "Error en el servidor")
	}
}
