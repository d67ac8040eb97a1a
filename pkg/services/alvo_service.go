package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vigia-ops/alvo-engine/pkg/apperrors"
	"github.com/vigia-ops/alvo-engine/pkg/models"
	"github.com/vigia-ops/alvo-engine/pkg/repositories"
)

// SalvarResultado reports the outcome of a create-or-update submission.
type SalvarResultado struct {
	ID               uuid.UUID
	Criado           bool
	DocumentosSalvos int
}

// AlvoService provides the dossier operations behind the HTTP layer.
type AlvoService interface {
	// Salvar creates a new dossier, or updates the one identified by idEdicao
	// when edicao is true.
	Salvar(ctx context.Context, alvo *models.Alvo, edicao bool, idEdicao uuid.UUID) (*SalvarResultado, error)
	Buscar(ctx context.Context, termo string) ([]models.AlvoResumo, error)
	Detalhes(ctx context.Context, id uuid.UUID) (*models.Alvo, error)
	Deletar(ctx context.Context, id uuid.UUID) error
	ObterDocumento(ctx context.Context, id uuid.UUID) (*models.Documento, error)
	DeletarDocumento(ctx context.Context, id uuid.UUID) error
}

type alvoService struct {
	alvos      repositories.AlvoRepository
	documentos repositories.DocumentoRepository
	logger     *zap.Logger
}

// NewAlvoService creates a new alvo service.
func NewAlvoService(alvos repositories.AlvoRepository, documentos repositories.DocumentoRepository, logger *zap.Logger) AlvoService {
	return &alvoService{
		alvos:      alvos,
		documentos: documentos,
		logger:     logger.Named("alvo-service"),
	}
}

var _ AlvoService = (*alvoService)(nil)

func (s *alvoService) Salvar(ctx context.Context, alvo *models.Alvo, edicao bool, idEdicao uuid.UUID) (*SalvarResultado, error) {
	if alvo.Nome == "" {
		return nil, fmt.Errorf("%w: nome is required", apperrors.ErrValidation)
	}

	if edicao {
		if idEdicao == uuid.Nil {
			return nil, fmt.Errorf("%w: idEdicao is required in edit mode", apperrors.ErrValidation)
		}
		if err := s.alvos.Update(ctx, idEdicao, alvo); err != nil {
			s.logger.Error("Failed to update alvo",
				zap.String("alvo_id", idEdicao.String()),
				zap.Error(err))
			return nil, err
		}
		return &SalvarResultado{
			ID:               idEdicao,
			Criado:           false,
			DocumentosSalvos: len(alvo.Documentos),
		}, nil
	}

	id, err := s.alvos.Create(ctx, alvo)
	if err != nil {
		s.logger.Error("Failed to create alvo", zap.Error(err))
		return nil, err
	}
	return &SalvarResultado{
		ID:               id,
		Criado:           true,
		DocumentosSalvos: len(alvo.Documentos),
	}, nil
}

func (s *alvoService) Buscar(ctx context.Context, termo string) ([]models.AlvoResumo, error) {
	resumos, err := s.alvos.Search(ctx, termo)
	if err != nil {
		s.logger.Error("Failed to search alvos", zap.Error(err))
		return nil, err
	}
	return resumos, nil
}

func (s *alvoService) Detalhes(ctx context.Context, id uuid.UUID) (*models.Alvo, error) {
	alvo, err := s.alvos.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Error("Failed to get alvo",
				zap.String("alvo_id", id.String()),
				zap.Error(err))
		}
		return nil, err
	}
	return alvo, nil
}

func (s *alvoService) Deletar(ctx context.Context, id uuid.UUID) error {
	if err := s.alvos.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete alvo",
			zap.String("alvo_id", id.String()),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *alvoService) ObterDocumento(ctx context.Context, id uuid.UUID) (*models.Documento, error) {
	doc, err := s.documentos.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Error("Failed to get documento",
				zap.String("documento_id", id.String()),
				zap.Error(err))
		}
		return nil, err
	}
	return doc, nil
}

func (s *alvoService) DeletarDocumento(ctx context.Context, id uuid.UUID) error {
	if err := s.documentos.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete documento",
			zap.String("documento_id", id.String()),
			zap.Error(err))
		return err
	}
	return nil
}
