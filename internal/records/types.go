package records

import (
	"context"
	"time"
)

// StoredRecord is one persisted snapshot of the evolving candidate record.
// Sensitive fields in Data are ciphertext; the store never sees plaintext
// contact details.
type StoredRecord struct {
	ID        int64             `json:"id"`
	Data      map[string]string `json:"data"`
	CreatedAt time.Time         `json:"created_at"`
}

// Store is an append-only audit trail of candidate snapshots: one row per
// turn that produced a non-empty record. No update or delete is exposed.
type Store interface {
	Append(ctx context.Context, data map[string]string) error
	List(ctx context.Context) ([]StoredRecord, error)
	Close() error
}
