// Package memory provides an in-process document store for tests and
// single-node development.
package memory

import (
	"context"
	"sync"

	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/repository"
)

// DocumentRepository keeps one serialized document in memory. Failures can
// be injected per operation to exercise the coordinator's error paths.
type DocumentRepository struct {
	mu  sync.Mutex
	id  string
	doc *domain.Snapshot

	loadErr    error
	saveErr    error
	versionErr error
	pingErr    error

	loads    int
	saves    int
	versions int
}

var _ repository.DocumentRepository = (*DocumentRepository)(nil)

func NewDocumentRepository(id string) *DocumentRepository {
	if id == "" {
		id = "default"
	}
	return &DocumentRepository{id: id}
}

func (r *DocumentRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.doc == nil {
		return nil, domain.ErrDocumentNotFound
	}
	snap := *r.doc
	return &snap, nil
}

func (r *DocumentRepository) Save(ctx context.Context, doc *domain.Document) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return 0, r.saveErr
	}
	return r.putLocked(doc)
}

func (r *DocumentRepository) Version(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions++
	if r.versionErr != nil {
		return 0, r.versionErr
	}
	if r.doc == nil {
		return 0, nil
	}
	return r.doc.Version, nil
}

func (r *DocumentRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pingErr
}

// Put writes doc as if another client had saved it and returns the new version.
func (r *DocumentRepository) Put(doc *domain.Document) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.putLocked(doc)
}

// Bump advances the version without changing the payload.
func (r *DocumentRepository) Bump(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		r.doc = &domain.Snapshot{DocumentID: r.id, Payload: []byte(`{}`)}
	}
	r.doc.Version += n
	return r.doc.Version
}

// Current decodes the stored document.
func (r *DocumentRepository) Current() (*domain.Document, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return nil, 0, domain.ErrDocumentNotFound
	}
	doc, err := r.doc.Document()
	return doc, r.doc.Version, err
}

func (r *DocumentRepository) FailLoad(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadErr = err
}

func (r *DocumentRepository) FailSave(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErr = err
}

func (r *DocumentRepository) FailVersion(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versionErr = err
}

func (r *DocumentRepository) FailPing(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pingErr = err
}

// Calls reports how often Load, Save and Version were called.
func (r *DocumentRepository) Calls() (loads, saves, versions int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads, r.saves, r.versions
}

func (r *DocumentRepository) putLocked(doc *domain.Document) (int64, error) {
	var version int64 = 1
	if r.doc != nil {
		version = r.doc.Version + 1
	}
	snap, err := domain.EncodeDocument(r.id, version, doc)
	if err != nil {
		return 0, err
	}
	r.doc = snap
	return version, nil
}
