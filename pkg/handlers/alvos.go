package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vigia-ops/alvo-engine/pkg/apperrors"
	"github.com/vigia-ops/alvo-engine/pkg/models"
	"github.com/vigia-ops/alvo-engine/pkg/services"
)

// CadastrarResponse is the success response of the form endpoint.
type CadastrarResponse struct {
	Success          bool   `json:"success"`
	ID               string `json:"id"`
	Message          string `json:"message"`
	DocumentosSalvos int    `json:"documentos_salvos"`
}

// DetalhesResponse is the flattened aggregate the edit form consumes: subject,
// address, intelligence and photo fields at the top level plus the document list.
type DetalhesResponse struct {
	ID             string  `json:"id"`
	Nome           string  `json:"nome"`
	CPF            string  `json:"cpf"`
	RG             string  `json:"rg"`
	DataNascimento *string `json:"data_nascimento"`
	Naturalidade   string  `json:"naturalidade"`
	UFNatural      string  `json:"uf_natural"`
	Mae            string  `json:"mae"`
	Pai            string  `json:"pai"`

	Rua         string `json:"rua"`
	Numero      string `json:"numero"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	UFEndereco  string `json:"uf_endereco"`
	LinkMapa    string `json:"link_mapa"`
	Complemento string `json:"complemento"`
	ObsTaticas  string `json:"obs_tacticas"`

	Foto1 *string `json:"foto1"`
	Foto2 *string `json:"foto2"`
	Foto3 *string `json:"foto3"`

	EnvolvimentoAlvo string `json:"envolvimento_alvo"`
	DetalhesOperacao string `json:"detalhes_operacao"`

	Documentos []DocumentoResumo `json:"documentos"`
}

// DocumentoResumo is one document row in the detalhes response.
type DocumentoResumo struct {
	ID            string `json:"id"`
	TipoDocumento string `json:"tipo_documento"`
	NomeArquivo   string `json:"nome_arquivo"`
	Descricao     string `json:"descricao"`
	ArquivoBase64 string `json:"arquivo_base64"`
	MimeType      string `json:"mime_type"`
	DataUpload    string `json:"data_upload"`
}

// AlvoResumoResponse is the landing-page summary for one subject.
type AlvoResumoResponse struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	LinkMapa string `json:"link_mapa"`
}

// AlvosHandler handles dossier HTTP requests.
type AlvosHandler struct {
	service  services.AlvoService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAlvosHandler creates a new alvos handler.
func NewAlvosHandler(service services.AlvoService, logger *zap.Logger) *AlvosHandler {
	return &AlvosHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the alvos handler's routes on the given mux.
func (h *AlvosHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /cadastrar-alvo", h.Cadastrar)
	mux.HandleFunc("GET /buscar-alvos", h.Buscar)
	mux.HandleFunc("GET /buscar-detalhes/{id}", h.Detalhes)
	mux.HandleFunc("GET /alvo/{id}", h.Resumo)
	mux.HandleFunc("DELETE /deletar-alvo/{id}", h.Deletar)
}

// Cadastrar handles POST /cadastrar-alvo: the hybrid create-or-update form
// submission. The whole aggregate is written in one transaction; on any store
// failure nothing from the submission survives.
func (h *AlvosHandler) Cadastrar(w http.ResponseWriter, r *http.Request) {
	var req CadastrarAlvoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := FailureResponse(w, http.StatusBadRequest, "Corpo da requisição inválido."); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		if err := FailureResponse(w, http.StatusBadRequest, "Nome é obrigatório."); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	alvo, err := req.ToModel()
	if err != nil {
		if err := FailureResponse(w, http.StatusBadRequest, "Campos inválidos."); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	edicao := req.Modo == ModoEdicao
	var idEdicao uuid.UUID
	if edicao {
		idEdicao, err = uuid.Parse(req.EditID())
		if err != nil {
			if err := FailureResponse(w, http.StatusBadRequest, "ID de edição inválido."); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
	}

	resultado, err := h.service.Salvar(r.Context(), alvo, edicao, idEdicao)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			if err := FailureResponse(w, http.StatusBadRequest, "Campos obrigatórios ausentes."); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrNotFound):
			if err := FailureResponse(w, http.StatusNotFound, "Alvo não encontrado para edição."); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Transaction failed", zap.Error(err))
			if err := FailureResponse(w, http.StatusInternalServerError, "Erro interno no banco de dados."); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	message := "Cadastrado"
	if !resultado.Criado {
		message = "Atualizado"
	}

	response := CadastrarResponse{
		Success:          true,
		ID:               resultado.ID.String(),
		Message:          message,
		DocumentosSalvos: resultado.DocumentosSalvos,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Buscar handles GET /buscar-alvos. The query parameter is `nome`; `termo` is
// accepted as a legacy alias from an older form revision. Terms shorter than
// two characters return an empty list without reaching the store.
func (h *AlvosHandler) Buscar(w http.ResponseWriter, r *http.Request) {
	termo := r.URL.Query().Get("nome")
	if termo == "" {
		termo = r.URL.Query().Get("termo")
	}

	resumos, err := h.service.Buscar(r.Context(), termo)
	if err != nil {
		h.logger.Error("Search failed", zap.String("termo", termo), zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "Erro ao buscar alvos"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, resumos); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Detalhes handles GET /buscar-detalhes/{id}.
func (h *AlvosHandler) Detalhes(w http.ResponseWriter, r *http.Request) {
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
		h.logger.Error("Failed to get alvo details",
			zap.String("alvo_id", id.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "Erro ao buscar detalhes"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, buildDetalhesResponse(alvo)); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Resumo handles GET /alvo/{id}: the short summary the landing page loads.
func (h *AlvosHandler) Resumo(w http.ResponseWriter, r *http.Request) {
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
		h.logger.Error("Failed to get alvo summary",
			zap.String("alvo_id", id.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "Erro ao buscar alvo"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := AlvoResumoResponse{
		ID:       alvo.ID.String(),
		Nome:     alvo.Nome,
		LinkMapa: alvo.Endereco.LinkMapa,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Deletar handles DELETE /deletar-alvo/{id}. The cascade removes address,
// photos, intelligence and documents; deleting an absent id still succeeds.
func (h *AlvosHandler) Deletar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := DeleteFailureResponse(w, http.StatusBadRequest, "ID inválido"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.service.Deletar(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete alvo",
			zap.String("alvo_id", id.String()),
			zap.Error(err))
		if err := DeleteFailureResponse(w, http.StatusInternalServerError, "Erro ao remover alvo"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Alvo removido",
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// buildDetalhesResponse flattens the aggregate into the shape the edit form
// expects.
func buildDetalhesResponse(alvo *models.Alvo) DetalhesResponse {
	response := DetalhesResponse{
		ID:               alvo.ID.String(),
		Nome:             alvo.Nome,
		CPF:              alvo.CPFFormatado,
		RG:               alvo.RG,
		Naturalidade:     alvo.Naturalidade,
		UFNatural:        alvo.UFNatural,
		Mae:              alvo.Mae,
		Pai:              alvo.Pai,
		Rua:              alvo.Endereco.Rua,
		Numero:           alvo.Endereco.Numero,
		Bairro:           alvo.Endereco.Bairro,
		Cidade:           alvo.Endereco.Cidade,
		UFEndereco:       alvo.Endereco.UFEndereco,
		LinkMapa:         alvo.Endereco.LinkMapa,
		Complemento:      alvo.Endereco.PontoReferencia,
		ObsTaticas:       alvo.Endereco.ObservacoesTaticas,
		Foto1:            alvo.Fotos.Foto1,
		Foto2:            alvo.Fotos.Foto2,
		Foto3:            alvo.Fotos.Foto3,
		EnvolvimentoAlvo: alvo.Inteligencia.EnvolvimentoAlvo,
		DetalhesOperacao: alvo.Inteligencia.DetalhesOperacao,
		Documentos:       []DocumentoResumo{},
	}

	if alvo.CPF == "" {
		response.CPF = ""
	} else if response.CPF == "" {
		response.CPF = alvo.CPF
	}

	if alvo.DataNascimento != nil {
		nascimento := alvo.DataNascimento.Format(dateLayout)
		response.DataNascimento = &nascimento
	}

	for _, doc := range alvo.Documentos {
		response.Documentos = append(response.Documentos, DocumentoResumo{
			ID:            doc.ID.String(),
			TipoDocumento: doc.TipoDocumento,
			NomeArquivo:   doc.NomeArquivo,
			Descricao:     doc.Descricao,
			ArquivoBase64: doc.ArquivoBase64,
			MimeType:      doc.MimeType,
			DataUpload:    doc.DataUpload.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return response
}
