package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/internal/config"
	redisInfra "github.com/fastygo/focusboard/internal/infrastructure/redis"
)

func newTestClient(t *testing.T) *redislib.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	client, err := redisInfra.NewClient(context.Background(), config.RedisConfig{URL: url}, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestDocumentRepositoryRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	prefix := "focus:test:" + time.Now().Format("150405.000000000") + ":"
	repo := NewDocumentRepository(client, prefix, "default")
	t.Cleanup(func() {
		client.Del(context.Background(), prefix+"default", prefix+"default:version", prefix+"default:updated_at")
	})

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := repo.Load(ctx); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	doc := domain.NewDocument()
	doc.Reminders = append(doc.Reminders, domain.Reminder{ID: "r1", Title: "Backup", Date: "2024-06-03"})
	for want := int64(1); want <= 2; want++ {
		v, err := repo.Save(ctx, doc)
		if err != nil || v != want {
			t.Fatalf("expected version %d, got %d (%v)", want, v, err)
		}
	}

	if v, err := repo.Version(ctx); err != nil || v != 2 {
		t.Fatalf("expected version 2, got %d (%v)", v, err)
	}
	snap, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	loaded, err := snap.Document()
	if err != nil || snap.Version != 2 || len(loaded.Reminders) != 1 || snap.UpdatedAt.IsZero() {
		t.Fatalf("unexpected snapshot %+v (%v)", snap, err)
	}
}
