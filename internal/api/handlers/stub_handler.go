package handlers

import (
	"net/http"

	apperrors "github.com/zatekoja/mechanicfinder/pkg/errors"
)

// NotImplemented answers placeholder routes for auth, bookings and customer
// profiles with 501
func NotImplemented(feature string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := apperrors.NewNotImplementedError(feature + " not implemented")
		respondWithError(w, apperrors.HTTPStatus(err), err.Message)
	}
}
