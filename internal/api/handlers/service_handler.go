package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
)

// ServiceCatalog lists the localized service catalog
type ServiceCatalog interface {
	ListServices(ctx context.Context, language string) ([]entities.LocalizedService, string, error)
}

// ServiceHandler handles catalog requests
type ServiceHandler struct {
	catalog ServiceCatalog
	errors  ErrorResponder
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(catalog ServiceCatalog, errors ErrorResponder) *ServiceHandler {
	return &ServiceHandler{catalog: catalog, errors: errors}
}

// ServicesResponse is the catalog body
type ServicesResponse struct {
	Services []entities.LocalizedService `json:"services"`
	Language string                      `json:"language"`
}

// ListServices handles GET /api/services
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	list, language, err := h.catalog.ListServices(r.Context(), r.URL.Query().Get("language"))
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	if list == nil {
		list = []entities.LocalizedService{}
	}

	respondWithJSON(w, http.StatusOK, ServicesResponse{Services: list, Language: language})
}
