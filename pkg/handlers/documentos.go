package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vigia-ops/alvo-engine/pkg/apperrors"
	"github.com/vigia-ops/alvo-engine/pkg/services"
)

// DocumentoResponse is the single-document download payload.
type DocumentoResponse struct {
	ArquivoBase64 string `json:"arquivo_base64"`
	MimeType      string `json:"mime_type"`
	NomeArquivo   string `json:"nome_arquivo"`
}

// DocumentosHandler handles document HTTP requests independent of the parent
// subject.
type DocumentosHandler struct {
	service services.AlvoService
	logger  *zap.Logger
}

// NewDocumentosHandler creates a new documentos handler.
func NewDocumentosHandler(service services.AlvoService, logger *zap.Logger) *DocumentosHandler {
	return &DocumentosHandler{service: service, logger: logger}
}

// RegisterRoutes registers the documentos handler's routes on the given mux.
func (h *DocumentosHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /documento/{id}", h.Obter)
	mux.HandleFunc("DELETE /deletar-documento/{id}", h.Deletar)
}

// Obter handles GET /documento/{id}.
func (h *DocumentosHandler) Obter(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "ID inválido"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	doc, err := h.service.ObterDocumento(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "Documento não encontrado"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to get documento",
			zap.String("documento_id", id.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "Erro ao buscar documento"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := DocumentoResponse{
		ArquivoBase64: doc.ArquivoBase64,
		MimeType:      doc.MimeType,
		NomeArquivo:   doc.NomeArquivo,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Deletar handles DELETE /deletar-documento/{id}. Removing one document never
// touches the parent subject or its siblings.
func (h *DocumentosHandler) Deletar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := DeleteFailureResponse(w, http.StatusBadRequest, "ID inválido"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.service.DeletarDocumento(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete documento",
			zap.String("documento_id", id.String()),
			zap.Error(err))
		if err := DeleteFailureResponse(w, http.StatusInternalServerError, "Erro ao remover documento"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Documento removido",
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
