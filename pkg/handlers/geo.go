package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/vigia-ops/alvo-engine/pkg/geo"
)

// GeoHandler proxies the IBGE localidades lookups the form's cascading
// dropdowns need, keeping the browser off the third-party API.
type GeoHandler struct {
	client *geo.Client
	logger *zap.Logger
}

// NewGeoHandler creates a new geo handler.
func NewGeoHandler(client *geo.Client, logger *zap.Logger) *GeoHandler {
	return &GeoHandler{client: client, logger: logger}
}

// RegisterRoutes registers the geo handler's routes on the given mux.
func (h *GeoHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /geo/estados", h.Estados)
	mux.HandleFunc("GET /geo/estados/{uf}/municipios", h.Municipios)
}

// Estados handles GET /geo/estados.
func (h *GeoHandler) Estados(w http.ResponseWriter, r *http.Request) {
	estados, err := h.client.Estados(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch estados", zap.Error(err))
		if err := ErrorResponse(w, http.StatusBadGateway, "Erro ao consultar estados"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, estados); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Municipios handles GET /geo/estados/{uf}/municipios.
func (h *GeoHandler) Municipios(w http.ResponseWriter, r *http.Request) {
	uf := r.PathValue("uf")

	municipios, err := h.client.Municipios(r.Context(), uf)
	if err != nil {
		h.logger.Error("Failed to fetch municipios", zap.String("uf", uf), zap.Error(err))
		if err := ErrorResponse(w, http.StatusBadGateway, "Erro ao consultar municípios"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, municipios); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
