package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/mechanicfinder/internal/application/services"
	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	"github.com/zatekoja/mechanicfinder/internal/domain/repositories"
)

// MechanicFinder is the part of the mechanic service the API uses
type MechanicFinder interface {
	SearchNearby(ctx context.Context, params repositories.NearbyParams) ([]entities.NearbyMechanic, error)
	GetByID(ctx context.Context, id string) (*entities.MechanicDetail, error)
}

// MechanicHandler handles mechanic-related HTTP requests
type MechanicHandler struct {
	mechanics MechanicFinder
	errors    ErrorResponder
}

// NewMechanicHandler creates a new mechanic handler
func NewMechanicHandler(mechanics MechanicFinder, errors ErrorResponder) *MechanicHandler {
	return &MechanicHandler{mechanics: mechanics, errors: errors}
}

// NearbyResponse is the proximity search body
type NearbyResponse struct {
	Mechanics []entities.NearbyMechanic `json:"mechanics"`
}

// SearchNearby handles GET /api/mechanics/nearby
func (h *MechanicHandler) SearchNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := services.ParseNearbyQuery(services.NearbyQuery{
		Latitude:  q.Get("latitude"),
		Longitude: q.Get("longitude"),
		Radius:    q.Get("radius"),
		Service:   q.Get("service"),
	})
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	mechanics, err := h.mechanics.SearchNearby(r.Context(), params)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	if mechanics == nil {
		mechanics = []entities.NearbyMechanic{}
	}

	respondWithJSON(w, http.StatusOK, NearbyResponse{Mechanics: mechanics})
}

// GetMechanic handles GET /api/mechanics/{id}
func (h *MechanicHandler) GetMechanic(w http.ResponseWriter, r *http.Request) {
	detail, err := h.mechanics.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	if detail.Services == nil {
		detail.Services = []string{}
	}

	respondWithJSON(w, http.StatusOK, detail)
}
