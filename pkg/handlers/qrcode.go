package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/vigia-ops/alvo-engine/pkg/apperrors"
	"github.com/vigia-ops/alvo-engine/pkg/services"
)

// qrImageSize is the rendered QR side length in pixels.
const qrImageSize = 256

// QRCodeHandler renders a scannable quick-lookup card for a subject.
type QRCodeHandler struct {
	service services.AlvoService
	logger  *zap.Logger
}

// NewQRCodeHandler creates a new QR code handler.
func NewQRCodeHandler(service services.AlvoService, logger *zap.Logger) *QRCodeHandler {
	return &QRCodeHandler{service: service, logger: logger}
}

// RegisterRoutes registers the QR code handler's routes on the given mux.
func (h *QRCodeHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /qrcode/{id}", h.Gerar)
}

// Gerar handles GET /qrcode/{id}: a PNG encoding the subject's identification
// block (id, name, CPF, RG).
func (h *QRCodeHandler) Gerar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "ID inválido"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	alvo, err := h.service.Detalhes(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "Alvo não encontrado"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to load alvo for QR code",
			zap.String("alvo_id", id.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "Erro ao gerar QR code"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", alvo.ID)
	fmt.Fprintf(&b, "Nome: %s\n", alvo.Nome)
	if alvo.CPFFormatado != "" {
		fmt.Fprintf(&b, "CPF: %s\n", alvo.CPFFormatado)
	}
	if alvo.RG != "" {
		fmt.Fprintf(&b, "RG: %s\n", alvo.RG)
	}

	png, err := qrcode.Encode(b.String(), qrcode.Medium, qrImageSize)
	if err != nil {
		h.logger.Error("Failed to encode QR code",
			zap.String("alvo_id", id.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "Erro ao gerar QR code"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		h.logger.Error("Failed to write QR code response", zap.Error(err))
	}
}
