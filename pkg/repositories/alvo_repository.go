package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vigia-ops/alvo-engine/pkg/apperrors"
	"github.com/vigia-ops/alvo-engine/pkg/database"
	"github.com/vigia-ops/alvo-engine/pkg/models"
)

// SearchLimit bounds the number of rows a search returns.
const SearchLimit = 20

// MinSearchLength is the shortest search term that reaches the database.
const MinSearchLength = 2

// AlvoRepository defines data access for the dossier aggregate. Every write
// spans the five tables atomically; a failure in any statement leaves no
// partial rows behind.
type AlvoRepository interface {
	Create(ctx context.Context, alvo *models.Alvo) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, alvo *models.Alvo) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Alvo, error)
	Search(ctx context.Context, termo string) ([]models.AlvoResumo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// alvoRepository implements AlvoRepository using PostgreSQL.
type alvoRepository struct {
	db         *database.DB
	documentos DocumentoRepository
}

// NewAlvoRepository creates a new alvo repository.
func NewAlvoRepository(db *database.DB, documentos DocumentoRepository) AlvoRepository {
	return &alvoRepository{db: db, documentos: documentos}
}

// Create inserts the subject row first (to fix the generated id), then the
// three one-to-one dependents and any attached documents, all in one
// transaction.
func (r *alvoRepository) Create(ctx context.Context, alvo *models.Alvo) (uuid.UUID, error) {
	if alvo.ID == uuid.Nil {
		alvo.ID = uuid.New()
	}

	now := time.Now()
	alvo.CriadoEm = now
	alvo.AtualizadoEm = now
	alvo.CPF = models.NormalizeCPF(alvo.CPF)
	alvo.CPFFormatado = models.FormatCPF(alvo.CPF)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	_, err = tx.Exec(ctx, `
		INSERT INTO alvos (id, nome, cpf, cpf_formatado, rg, data_nascimento, naturalidade, uf_natural, mae, pai, criado_em, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		alvo.ID, alvo.Nome, alvo.CPF, alvo.CPFFormatado, alvo.RG, alvo.DataNascimento,
		alvo.Naturalidade, alvo.UFNatural, alvo.Mae, alvo.Pai, alvo.CriadoEm, alvo.AtualizadoEm,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert alvo: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO alvo_enderecos (alvo_id, rua, numero, bairro, cidade, uf_endereco, link_mapa, ponto_referencia, observacoes_taticas)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		alvo.ID, alvo.Endereco.Rua, alvo.Endereco.Numero, alvo.Endereco.Bairro, alvo.Endereco.Cidade,
		alvo.Endereco.UFEndereco, alvo.Endereco.LinkMapa, alvo.Endereco.PontoReferencia, alvo.Endereco.ObservacoesTaticas,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert endereco: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO alvo_fotos (alvo_id, foto1, foto2, foto3)
		VALUES ($1, $2, $3, $4)`,
		alvo.ID, alvo.Fotos.Foto1, alvo.Fotos.Foto2, alvo.Fotos.Foto3,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert fotos: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO alvo_inteligencia (alvo_id, envolvimento_alvo, detalhes_operacao)
		VALUES ($1, $2, $3)`,
		alvo.ID, alvo.Inteligencia.EnvolvimentoAlvo, alvo.Inteligencia.DetalhesOperacao,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert inteligencia: %w", err)
	}

	if _, err := r.documentos.ReplaceAllTx(ctx, tx, alvo.ID, alvo.Documentos); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert documentos: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return alvo.ID, nil
}

// Update rewrites the aggregate keyed by id in one transaction. Photo slots
// use COALESCE so a nil slot preserves the stored value; documents are only
// replaced when a non-empty list is supplied.
func (r *alvoRepository) Update(ctx context.Context, id uuid.UUID, alvo *models.Alvo) error {
	alvo.AtualizadoEm = time.Now()
	alvo.CPF = models.NormalizeCPF(alvo.CPF)
	alvo.CPFFormatado = models.FormatCPF(alvo.CPF)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	result, err := tx.Exec(ctx, `
		UPDATE alvos SET
			nome = $2, cpf = $3, cpf_formatado = $4, rg = $5, data_nascimento = $6,
			naturalidade = $7, uf_natural = $8, mae = $9, pai = $10, atualizado_em = $11
		WHERE id = $1`,
		id, alvo.Nome, alvo.CPF, alvo.CPFFormatado, alvo.RG, alvo.DataNascimento,
		alvo.Naturalidade, alvo.UFNatural, alvo.Mae, alvo.Pai, alvo.AtualizadoEm,
	)
	if err != nil {
		return fmt.Errorf("failed to update alvo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE alvo_enderecos SET
			rua = $2, numero = $3, bairro = $4, cidade = $5, uf_endereco = $6,
			link_mapa = $7, ponto_referencia = $8, observacoes_taticas = $9
		WHERE alvo_id = $1`,
		id, alvo.Endereco.Rua, alvo.Endereco.Numero, alvo.Endereco.Bairro, alvo.Endereco.Cidade,
		alvo.Endereco.UFEndereco, alvo.Endereco.LinkMapa, alvo.Endereco.PontoReferencia, alvo.Endereco.ObservacoesTaticas,
	)
	if err != nil {
		return fmt.Errorf("failed to update endereco: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE alvo_fotos SET
			foto1 = COALESCE($2, foto1),
			foto2 = COALESCE($3, foto2),
			foto3 = COALESCE($4, foto3)
		WHERE alvo_id = $1`,
		id, alvo.Fotos.Foto1, alvo.Fotos.Foto2, alvo.Fotos.Foto3,
	)
	if err != nil {
		return fmt.Errorf("failed to update fotos: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE alvo_inteligencia SET
			envolvimento_alvo = $2, detalhes_operacao = $3
		WHERE alvo_id = $1`,
		id, alvo.Inteligencia.EnvolvimentoAlvo, alvo.Inteligencia.DetalhesOperacao,
	)
	if err != nil {
		return fmt.Errorf("failed to update inteligencia: %w", err)
	}

	if _, err := r.documentos.ReplaceAllTx(ctx, tx, id, alvo.Documentos); err != nil {
		return fmt.Errorf("failed to replace documentos: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID reads the aggregate in a single join across the four 1:1 tables,
// then attaches the document list with a follow-up query.
func (r *alvoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Alvo, error) {
	query := `
		SELECT a.id, a.nome, COALESCE(a.cpf, ''), COALESCE(a.cpf_formatado, ''), COALESCE(a.rg, ''),
		       a.data_nascimento, COALESCE(a.naturalidade, ''), COALESCE(a.uf_natural, ''),
		       COALESCE(a.mae, ''), COALESCE(a.pai, ''), a.criado_em, a.atualizado_em,
		       COALESCE(e.rua, ''), COALESCE(e.numero, ''), COALESCE(e.bairro, ''), COALESCE(e.cidade, ''),
		       COALESCE(e.uf_endereco, ''), COALESCE(e.link_mapa, ''), COALESCE(e.ponto_referencia, ''),
		       COALESCE(e.observacoes_taticas, ''),
		       f.foto1, f.foto2, f.foto3,
		       COALESCE(i.envolvimento_alvo, ''), COALESCE(i.detalhes_operacao, '')
		FROM alvos a
		LEFT JOIN alvo_enderecos e ON a.id = e.alvo_id
		LEFT JOIN alvo_fotos f ON a.id = f.alvo_id
		LEFT JOIN alvo_inteligencia i ON a.id = i.alvo_id
		WHERE a.id = $1`

	var alvo models.Alvo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&alvo.ID, &alvo.Nome, &alvo.CPF, &alvo.CPFFormatado, &alvo.RG,
		&alvo.DataNascimento, &alvo.Naturalidade, &alvo.UFNatural,
		&alvo.Mae, &alvo.Pai, &alvo.CriadoEm, &alvo.AtualizadoEm,
		&alvo.Endereco.Rua, &alvo.Endereco.Numero, &alvo.Endereco.Bairro, &alvo.Endereco.Cidade,
		&alvo.Endereco.UFEndereco, &alvo.Endereco.LinkMapa, &alvo.Endereco.PontoReferencia,
		&alvo.Endereco.ObservacoesTaticas,
		&alvo.Fotos.Foto1, &alvo.Fotos.Foto2, &alvo.Fotos.Foto3,
		&alvo.Inteligencia.EnvolvimentoAlvo, &alvo.Inteligencia.DetalhesOperacao,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get alvo: %w", err)
	}

	documentos, err := r.documentos.ListByAlvo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list documentos: %w", err)
	}
	alvo.Documentos = documentos

	return &alvo, nil
}

// Search matches the term case-insensitively as a name substring, or against
// the normalized CPF digits. Terms shorter than MinSearchLength return an
// empty list without touching the store.
func (r *alvoRepository) Search(ctx context.Context, termo string) ([]models.AlvoResumo, error) {
	termo = strings.TrimSpace(termo)
	if len([]rune(termo)) < MinSearchLength {
		return []models.AlvoResumo{}, nil
	}

	digits := models.NormalizeCPF(termo)

	query := `
		SELECT id, nome, COALESCE(NULLIF(cpf_formatado, ''), cpf, '')
		FROM alvos
		WHERE nome ILIKE '%' || $1 || '%'
		   OR ($2 <> '' AND cpf LIKE '%' || $2 || '%')
		ORDER BY nome
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, termo, digits, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search alvos: %w", err)
	}
	defer rows.Close()

	resumos := []models.AlvoResumo{}
	for rows.Next() {
		var resumo models.AlvoResumo
		if err := rows.Scan(&resumo.ID, &resumo.Nome, &resumo.CPF); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		resumos = append(resumos, resumo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search rows: %w", err)
	}

	return resumos, nil
}

// Delete removes the subject row; the ON DELETE CASCADE constraints take the
// address, photos, intelligence note and documents with it. Deleting an id
// that does not exist is not an error.
func (r *alvoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM alvos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete alvo: %w", err)
	}
	return nil
}

// Ensure alvoRepository implements AlvoRepository at compile time.
var _ AlvoRepository = (*alvoRepository)(nil)
