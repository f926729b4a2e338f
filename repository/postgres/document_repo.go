package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/repository"
)

type documentRepository struct {
	pool *pgxpool.Pool
	id   string
}

// NewDocumentRepository creates a Postgres-backed DocumentRepository bound to
// one document row.
func NewDocumentRepository(pool *pgxpool.Pool, documentID string) repository.DocumentRepository {
	return &documentRepository{pool: pool, id: documentID}
}

func (r *documentRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	const query = `
	SELECT id, version, payload, updated_at
	FROM documents
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, r.id)
	return scanSnapshot(row)
}

// Save writes the payload and bumps the version in one statement, so
// concurrent writers always observe strictly increasing versions.
func (r *documentRepository) Save(ctx context.Context, doc *domain.Document) (int64, error) {
	snap, err := domain.EncodeDocument(r.id, 0, doc)
	if err != nil {
		return 0, err
	}

	const query = `
	INSERT INTO documents (id, version, payload, created_at, updated_at)
	VALUES ($1, 1, $2, NOW(), NOW())
	ON CONFLICT (id) DO UPDATE
	SET version = documents.version + 1,
		payload = EXCLUDED.payload,
		updated_at = NOW()
	RETURNING version
	`

	var version int64
	if err := r.pool.QueryRow(ctx, query, r.id, []byte(snap.Payload)).Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func (r *documentRepository) Version(ctx context.Context) (int64, error) {
	const query = `SELECT version FROM documents WHERE id = $1`

	var version int64
	if err := r.pool.QueryRow(ctx, query, r.id).Scan(&version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return version, nil
}

func (r *documentRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
