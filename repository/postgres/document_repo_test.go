package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/internal/config"
	pgInfra "github.com/fastygo/focusboard/internal/infrastructure/postgres"
)

// newTestPool connects to TEST_DATABASE_URL and applies the schema. The test
// is skipped when no database is configured.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if err := pgInfra.Migrate(dsn, "focusboard_test", nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	pool, err := pgInfra.NewPool(context.Background(), config.DatabaseConfig{URL: dsn, MaxOpenConns: 4}, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestDocumentRepositoryRoundTrip(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	id := "test-" + time.Now().Format("150405.000000000")
	t.Cleanup(func() { _, _ = pool.Exec(context.Background(), `DELETE FROM documents WHERE id = $1`, id) })

	repo := NewDocumentRepository(pool, id)
	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := repo.Load(ctx); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if v, err := repo.Version(ctx); err != nil || v != 0 {
		t.Fatalf("expected version 0, got %d (%v)", v, err)
	}

	doc := domain.NewDocument()
	doc.Tasks = append(doc.Tasks, domain.Task{ID: "t1", Title: "Persisted", Subtasks: []domain.Subtask{}})
	first, err := repo.Save(ctx, doc)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := repo.Save(ctx, doc)
	if err != nil || second != first+1 {
		t.Fatalf("expected version %d, got %d (%v)", first+1, second, err)
	}

	snap, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	loaded, err := snap.Document()
	if err != nil || snap.Version != second || len(loaded.Tasks) != 1 {
		t.Fatalf("unexpected snapshot v%d %+v (%v)", snap.Version, loaded, err)
	}
}
