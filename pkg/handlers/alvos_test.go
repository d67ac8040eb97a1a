package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vigia-ops/alvo-engine/pkg/apperrors"
	"github.com/vigia-ops/alvo-engine/pkg/models"
	"github.com/vigia-ops/alvo-engine/pkg/services"
)

// newAlvosMux builds a mux with the alvos routes backed by the given mock.
func newAlvosMux(service services.AlvoService) *http.ServeMux {
	mux := http.NewServeMux()
	NewAlvosHandler(service, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCadastrar_Create(t *testing.T) {
	createdID := uuid.New()
	var gotAlvo *models.Alvo
	var gotEdicao bool
	service := &mockAlvoService{
		salvarFunc: func(_ context.Context, alvo *models.Alvo, edicao bool, _ uuid.UUID) (*services.SalvarResultado, error) {
			gotAlvo = alvo
			gotEdicao = edicao
			return &services.SalvarResultado{ID: createdID, Criado: true, DocumentosSalvos: 1}, nil
		},
	}
	mux := newAlvosMux(service)

	rec := postJSON(t, mux, "/cadastrar-alvo", map[string]any{
		"modo":            "create",
		"nome":            "Carlos Teste",
		"cpf":             "123.456.789-01",
		"data_nascimento": "1990-05-20",
		"rua":             "Rua A",
		"complemento":     "Fundos",
		"obs_tacticas":    "Portão azul",
		"documentos": []map[string]any{
			{"nome_arquivo": "doc.pdf", "arquivo_base64": "eA==", "mime_type": "application/pdf"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CadastrarResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, createdID.String(), resp.ID)
	assert.Equal(t, "Cadastrado", resp.Message)
	assert.Equal(t, 1, resp.DocumentosSalvos)

	assert.False(t, gotEdicao)
	require.NotNil(t, gotAlvo)
	assert.Equal(t, "Carlos Teste", gotAlvo.Nome)
	assert.Equal(t, "Fundos", gotAlvo.Endereco.PontoReferencia)
	assert.Equal(t, "Portão azul", gotAlvo.Endereco.ObservacoesTaticas)
	require.NotNil(t, gotAlvo.DataNascimento)
	assert.Equal(t, time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC), *gotAlvo.DataNascimento)
	require.Len(t, gotAlvo.Documentos, 1)
	assert.Equal(t, "doc.pdf", gotAlvo.Documentos[0].NomeArquivo)
}

func TestCadastrar_Edicao(t *testing.T) {
	editID := uuid.New()
	var gotID uuid.UUID
	service := &mockAlvoService{
		salvarFunc: func(_ context.Context, _ *models.Alvo, edicao bool, idEdicao uuid.UUID) (*services.SalvarResultado, error) {
			require.True(t, edicao)
			gotID = idEdicao
			return &services.SalvarResultado{ID: idEdicao, Criado: false}, nil
		},
	}
	mux := newAlvosMux(service)

	rec := postJSON(t, mux, "/cadastrar-alvo", map[string]any{
		"modo":     "edicao",
		"idEdicao": editID.String(),
		"nome":     "Carlos Editado",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CadastrarResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Atualizado", resp.Message)
	assert.Equal(t, editID, gotID)
}

func TestCadastrar_Errors(t *testing.T) {
	editID := uuid.New()
	tests := []struct {
		name       string
		body       map[string]any
		serviceErr error
		wantStatus int
	}{
		{
			name:       "missing nome",
			body:       map[string]any{"modo": "create"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid birth date",
			body:       map[string]any{"modo": "create", "nome": "X Y", "data_nascimento": "20/05/1990"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "edit mode without id",
			body:       map[string]any{"modo": "edicao", "nome": "X Y"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "edit mode with malformed id",
			body:       map[string]any{"modo": "edicao", "idEdicao": "not-a-uuid", "nome": "X Y"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "edit target missing",
			body:       map[string]any{"modo": "edicao", "idEdicao": editID.String(), "nome": "X Y"},
			serviceErr: apperrors.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "store failure",
			body:       map[string]any{"modo": "create", "nome": "X Y"},
			serviceErr: errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockAlvoService{
				salvarFunc: func(_ context.Context, _ *models.Alvo, _ bool, idEdicao uuid.UUID) (*services.SalvarResultado, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &services.SalvarResultado{ID: uuid.New(), Criado: true}, nil
				},
			}
			rec := postJSON(t, newAlvosMux(service), "/cadastrar-alvo", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, false, resp["success"])
			assert.NotEmpty(t, resp["message"])
		})
	}
}

func TestCadastrar_StoreFailureMessage(t *testing.T) {
	service := &mockAlvoService{
		salvarFunc: func(_ context.Context, _ *models.Alvo, _ bool, _ uuid.UUID) (*services.SalvarResultado, error) {
			return nil, errors.New("tx aborted")
		},
	}
	rec := postJSON(t, newAlvosMux(service), "/cadastrar-alvo", map[string]any{"nome": "X"})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Erro interno no banco de dados.", resp["message"])
}

func TestCadastrar_MalformedJSON(t *testing.T) {
	mux := newAlvosMux(&mockAlvoService{})
	req := httptest.NewRequest(http.MethodPost, "/cadastrar-alvo", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuscar(t *testing.T) {
	resumos := []models.AlvoResumo{
		{ID: uuid.New(), Nome: "Ana", CPF: "111.222.333-44"},
		{ID: uuid.New(), Nome: "Bruno", CPF: ""},
	}
	var gotTermo string
	service := &mockAlvoService{
		buscarFunc: func(_ context.Context, termo string) ([]models.AlvoResumo, error) {
			gotTermo = termo
			return resumos, nil
		},
	}
	mux := newAlvosMux(service)

	t.Run("nome parameter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/buscar-alvos?nome=ana", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ana", gotTermo)
		var got []models.AlvoResumo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("termo alias still accepted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/buscar-alvos?termo=bruno", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "bruno", gotTermo)
	})

	t.Run("nome wins over termo", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/buscar-alvos?nome=ana&termo=bruno", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ana", gotTermo)
	})
}

func TestBuscar_EmptyResultIsJSONArray(t *testing.T) {
	service := &mockAlvoService{
		buscarFunc: func(_ context.Context, _ string) ([]models.AlvoResumo, error) {
			return []models.AlvoResumo{}, nil
		},
	}
	rec := httptest.NewRecorder()
	newAlvosMux(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/buscar-alvos?nome=x", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestBuscar_StoreFailure(t *testing.T) {
	service := &mockAlvoService{
		buscarFunc: func(_ context.Context, _ string) ([]models.AlvoResumo, error) {
			return nil, errors.New("connection refused")
		},
	}
	rec := httptest.NewRecorder()
	newAlvosMux(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/buscar-alvos?nome=ana", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Erro ao buscar alvos", resp["error"])
}

func TestDetalhes(t *testing.T) {
	id := uuid.New()
	nascimento := time.Date(1985, 12, 1, 0, 0, 0, 0, time.UTC)
	foto := "Zm90bw=="
	docID := uuid.New()
	service := &mockAlvoService{
		detalhesFunc: func(_ context.Context, gotID uuid.UUID) (*models.Alvo, error) {
			require.Equal(t, id, gotID)
			return &models.Alvo{
				ID:             id,
				Nome:           "Carlos Detalhes",
				CPF:            "12345678901",
				CPFFormatado:   "123.456.789-01",
				DataNascimento: &nascimento,
				Endereco: models.Endereco{
					Rua:                "Rua B",
					PontoReferencia:    "Esquina",
					ObservacoesTaticas: "Câmeras na fachada",
				},
				Fotos: models.Fotos{Foto1: &foto},
				Documentos: []models.Documento{
					{ID: docID, NomeArquivo: "doc.pdf", TipoDocumento: "Mandado",
						MimeType: "application/pdf", ArquivoBase64: "eA==", DataUpload: time.Now()},
				},
			}, nil
		},
	}
	rec := httptest.NewRecorder()
	newAlvosMux(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/buscar-detalhes/"+id.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DetalhesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id.String(), resp.ID)
	assert.Equal(t, "123.456.789-01", resp.CPF, "formatted CPF is the display value")
	require.NotNil(t, resp.DataNascimento)
	assert.Equal(t, "1985-12-01", *resp.DataNascimento)
	assert.Equal(t, "Esquina", resp.Complemento)
	assert.Equal(t, "Câmeras na fachada", resp.ObsTaticas)
	require.NotNil(t, resp.Foto1)
	assert.Equal(t, foto, *resp.Foto1)
	assert.Nil(t, resp.Foto2)
	require.Len(t, resp.Documentos, 1)
	assert.Equal(t, docID.String(), resp.Documentos[0].ID)
}

func TestDetalhes_NotFound(t *testing.T) {
	service := &mockAlvoService{
		detalhesFunc: func(_ context.Context, _ uuid.UUID) (*models.Alvo, error) {
			return nil, apperrors.ErrNotFound
		},
	}
	rec := httptest.NewRecorder()
	newAlvosMux(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/buscar-detalhes/"+uuid.NewString(), nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Alvo não encontrado", resp["error"])
}

func TestDetalhes_InvalidID(t *testing.T) {
	rec := httptest.NewRecorder()
	newAlvosMux(&mockAlvoService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/buscar-detalhes/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResumo(t *testing.T) {
	id := uuid.New()
	service := &mockAlvoService{
		detalhesFunc: func(_ context.Context, _ uuid.UUID) (*models.Alvo, error) {
			return &models.Alvo{
				ID:       id,
				Nome:     "Carlos Resumo",
				Endereco: models.Endereco{LinkMapa: "https://maps.example.com/1"},
			}, nil
		},
	}
	rec := httptest.NewRecorder()
	newAlvosMux(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/alvo/"+id.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AlvoResumoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Carlos Resumo", resp.Nome)
	assert.Equal(t, "https://maps.example.com/1", resp.LinkMapa)
}

func TestDeletarAlvo(t *testing.T) {
	id := uuid.New()
	var gotID uuid.UUID
	service := &mockAlvoService{
		deletarFunc: func(_ context.Context, deleteID uuid.UUID) error {
			gotID = deleteID
			return nil
		},
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/deletar-alvo/"+id.String(), nil)
	newAlvosMux(service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, gotID)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Alvo removido", resp["message"])
}

func TestDeletarAlvo_StoreFailure(t *testing.T) {
	service := &mockAlvoService{
		deletarFunc: func(_ context.Context, _ uuid.UUID) error {
			return errors.New("connection refused")
		},
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/deletar-alvo/"+uuid.NewString(), nil)
	newAlvosMux(service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["error"])
}
