package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vigia-ops/alvo-engine/pkg/apperrors"
	"github.com/vigia-ops/alvo-engine/pkg/database"
	"github.com/vigia-ops/alvo-engine/pkg/models"
)

// DocumentoRepository defines data access for attached documents. Bulk writes
// join the caller's transaction so the aggregate stays atomic; single-row
// reads and deletes run on the pool.
type DocumentoRepository interface {
	ReplaceAllTx(ctx context.Context, tx pgx.Tx, alvoID uuid.UUID, docs []models.Documento) (int, error)
	ListByAlvo(ctx context.Context, alvoID uuid.UUID) ([]models.Documento, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Documento, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// documentoRepository implements DocumentoRepository using PostgreSQL.
type documentoRepository struct {
	db *database.DB
}

// NewDocumentoRepository creates a new documento repository.
func NewDocumentoRepository(db *database.DB) DocumentoRepository {
	return &documentoRepository{db: db}
}

// ReplaceAllTx deletes every stored document for the subject and inserts the
// supplied set, inside the caller's transaction. An empty set is a no-op:
// an edit that attaches nothing keeps the documents it already has. The
// upload timestamp is assigned by the server on insert.
func (r *documentoRepository) ReplaceAllTx(ctx context.Context, tx pgx.Tx, alvoID uuid.UUID, docs []models.Documento) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM alvo_documentos WHERE alvo_id = $1`, alvoID); err != nil {
		return 0, fmt.Errorf("failed to delete prior documentos: %w", err)
	}

	for i := range docs {
		doc := &docs[i]
		if doc.ID == uuid.Nil {
			doc.ID = uuid.New()
		}
		doc.AlvoID = alvoID
		if doc.TipoDocumento == "" {
			doc.TipoDocumento = models.DefaultTipoDocumento
		}
		if doc.MimeType == "" {
			doc.MimeType = models.DefaultMimeType
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO alvo_documentos (id, alvo_id, tipo_documento, nome_arquivo, descricao, arquivo_base64, mime_type, data_upload)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
			doc.ID, doc.AlvoID, doc.TipoDocumento, doc.NomeArquivo, doc.Descricao, doc.ArquivoBase64, doc.MimeType,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert documento %q: %w", doc.NomeArquivo, err)
		}
	}

	return len(docs), nil
}

// ListByAlvo returns every document attached to the subject, newest first.
func (r *documentoRepository) ListByAlvo(ctx context.Context, alvoID uuid.UUID) ([]models.Documento, error) {
	query := `
		SELECT id, alvo_id, tipo_documento, COALESCE(nome_arquivo, ''), COALESCE(descricao, ''),
		       COALESCE(arquivo_base64, ''), mime_type, data_upload
		FROM alvo_documentos
		WHERE alvo_id = $1
		ORDER BY data_upload DESC, nome_arquivo`

	rows, err := r.db.Query(ctx, query, alvoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documentos: %w", err)
	}
	defer rows.Close()

	docs := []models.Documento{}
	for rows.Next() {
		var doc models.Documento
		if err := rows.Scan(&doc.ID, &doc.AlvoID, &doc.TipoDocumento, &doc.NomeArquivo,
			&doc.Descricao, &doc.ArquivoBase64, &doc.MimeType, &doc.DataUpload); err != nil {
			return nil, fmt.Errorf("failed to scan documento row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documento rows: %w", err)
	}

	return docs, nil
}

// GetByID retrieves a single document by its own id.
func (r *documentoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Documento, error) {
	query := `
		SELECT id, alvo_id, tipo_documento, COALESCE(nome_arquivo, ''), COALESCE(descricao, ''),
		       COALESCE(arquivo_base64, ''), mime_type, data_upload
		FROM alvo_documentos
		WHERE id = $1`

	var doc models.Documento
	err := r.db.QueryRow(ctx, query, id).Scan(&doc.ID, &doc.AlvoID, &doc.TipoDocumento,
		&doc.NomeArquivo, &doc.Descricao, &doc.ArquivoBase64, &doc.MimeType, &doc.DataUpload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get documento: %w", err)
	}

	return &doc, nil
}

// Delete removes a single document without touching its parent subject or
// sibling documents. Deleting an id that does not exist is not an error.
func (r *documentoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM alvo_documentos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete documento: %w", err)
	}
	return nil
}

// Ensure documentoRepository implements DocumentoRepository at compile time.
var _ DocumentoRepository = (*documentoRepository)(nil)
