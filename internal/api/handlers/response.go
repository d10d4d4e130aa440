package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zatekoja/mechanicfinder/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/mechanicfinder/pkg/errors"
)

const internalErrorMessage = "internal server error"

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, errorResponse{Error: message})
}

// ErrorResponder maps application errors to a single JSON response
type ErrorResponder struct {
	// ExposeDetails adds the underlying error to server error bodies
	ExposeDetails bool
}

// Respond writes err with the status its type maps to. Storage and other
// server failures get a generic message; client errors carry their own.
func (e ErrorResponder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)

	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeInternal, apperrors.ErrorTypeConstraint, apperrors.ErrorTypeExternal:
		observability.LoggerFromContext(r.Context()).Error().Err(err).
			Str("path", r.URL.Path).Msg("request failed")

		body := errorResponse{Error: internalErrorMessage}
		if e.ExposeDetails {
			body.Detail = err.Error()
		}
		respondWithJSON(w, status, body)
	default:
		respondWithError(w, status, messageOf(err))
	}
}

func messageOf(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
