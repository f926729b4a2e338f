package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/repository"
)

type documentRepository struct {
	client *redislib.Client
	id     string
	prefix string
}

// NewDocumentRepository creates a Redis-backed DocumentRepository. The
// payload lives at <prefix><id> and its version counter at <prefix><id>:version.
func NewDocumentRepository(client *redislib.Client, prefix, documentID string) repository.DocumentRepository {
	if prefix == "" {
		prefix = "focus:doc:"
	}
	return &documentRepository{
		client: client,
		id:     documentID,
		prefix: prefix,
	}
}

func (r *documentRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	values, err := r.client.MGet(ctx, r.payloadKey(), r.versionKey(), r.updatedKey()).Result()
	if err != nil {
		return nil, err
	}
	payload, ok := values[0].(string)
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}

	snap := &domain.Snapshot{DocumentID: r.id, Payload: []byte(payload)}
	if raw, ok := values[1].(string); ok {
		if snap.Version, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, err
		}
	}
	if raw, ok := values[2].(string); ok {
		snap.UpdatedAt, _ = time.Parse(time.RFC3339Nano, raw)
	}
	return snap, nil
}

// Save writes the payload and increments the version inside MULTI/EXEC.
func (r *documentRepository) Save(ctx context.Context, doc *domain.Document) (int64, error) {
	snap, err := domain.EncodeDocument(r.id, 0, doc)
	if err != nil {
		return 0, err
	}

	var incr *redislib.IntCmd
	if _, err := r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.Set(ctx, r.payloadKey(), []byte(snap.Payload), 0)
		pipe.Set(ctx, r.updatedKey(), snap.UpdatedAt.UTC().Format(time.RFC3339Nano), 0)
		incr = pipe.Incr(ctx, r.versionKey())
		return nil
	}); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *documentRepository) Version(ctx context.Context) (int64, error) {
	version, err := r.client.Get(ctx, r.versionKey()).Int64()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return version, nil
}

func (r *documentRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *documentRepository) payloadKey() string { return r.prefix + r.id }

func (r *documentRepository) versionKey() string { return r.payloadKey() + ":version" }

func (r *documentRepository) updatedKey() string { return r.payloadKey() + ":updated_at" }
