package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/focusboard/domain"
)

func scanSnapshot(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Snapshot, error) {
	var (
		snap    domain.Snapshot
		payload []byte
	)

	if err := row.Scan(
		&snap.DocumentID,
		&snap.Version,
		&payload,
		&snap.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}

	snap.Payload = make([]byte, len(payload))
	copy(snap.Payload, payload)
	return &snap, nil
}
