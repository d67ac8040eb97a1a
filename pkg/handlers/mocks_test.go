package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/vigia-ops/alvo-engine/pkg/models"
	"github.com/vigia-ops/alvo-engine/pkg/services"
)

// mockAlvoService is a configurable stand-in for services.AlvoService. Each
// test swaps in just the functions it needs.
type mockAlvoService struct {
	salvarFunc           func(ctx context.Context, alvo *models.Alvo, edicao bool, idEdicao uuid.UUID) (*services.SalvarResultado, error)
	buscarFunc           func(ctx context.Context, termo string) ([]models.AlvoResumo, error)
	detalhesFunc         func(ctx context.Context, id uuid.UUID) (*models.Alvo, error)
	deletarFunc          func(ctx context.Context, id uuid.UUID) error
	obterDocumentoFunc   func(ctx context.Context, id uuid.UUID) (*models.Documento, error)
	deletarDocumentoFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *mockAlvoService) Salvar(ctx context.Context, alvo *models.Alvo, edicao bool, idEdicao uuid.UUID) (*services.SalvarResultado, error) {
	if m.salvarFunc != nil {
		return m.salvarFunc(ctx, alvo, edicao, idEdicao)
	}
	return &services.SalvarResultado{ID: uuid.New(), Criado: !edicao}, nil
}

func (m *mockAlvoService) Buscar(ctx context.Context, termo string) ([]models.AlvoResumo, error) {
	if m.buscarFunc != nil {
		return m.buscarFunc(ctx, termo)
	}
	return []models.AlvoResumo{}, nil
}

func (m *mockAlvoService) Detalhes(ctx context.Context, id uuid.UUID) (*models.Alvo, error) {
	if m.detalhesFunc != nil {
		return m.detalhesFunc(ctx, id)
	}
	return &models.Alvo{ID: id}, nil
}

func (m *mockAlvoService) Deletar(ctx context.Context, id uuid.UUID) error {
	if m.deletarFunc != nil {
		return m.deletarFunc(ctx, id)
	}
	return nil
}

func (m *mockAlvoService) ObterDocumento(ctx context.Context, id uuid.UUID) (*models.Documento, error) {
	if m.obterDocumentoFunc != nil {
		return m.obterDocumentoFunc(ctx, id)
	}
	return &models.Documento{ID: id}, nil
}

func (m *mockAlvoService) DeletarDocumento(ctx context.Context, id uuid.UUID) error {
	if m.deletarDocumentoFunc != nil {
		return m.deletarDocumentoFunc(ctx, id)
	}
	return nil
}

var _ services.AlvoService = (*mockAlvoService)(nil)
