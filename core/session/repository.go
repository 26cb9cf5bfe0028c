package session

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("session not found")

// Repository persists browser session records.
type Repository interface {
	Get(ctx context.Context, id string) (Record, error)
	Save(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id string) error
}

// Purger is implemented by repositories that do not expire records on their own.
type Purger interface {
	// PurgeExpired deletes the expired records and returns how many were deleted.
	PurgeExpired(ctx context.Context) (int, error)
}
