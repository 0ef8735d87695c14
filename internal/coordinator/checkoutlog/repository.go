package checkoutlog

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("checkout attempt not found")

// Repository persists checkout log entries. The table is append-only.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}

// Reader looks checkout attempts up. GetLatest returns ErrNotFound for an
// attempt with no entries.
type Reader interface {
	GetLatest(ctx context.Context, attemptID string) (*Entry, error)
	History(ctx context.Context, attemptID string) ([]Entry, error)
}

// Store is a Repository that can also be read back.
type Store interface {
	Repository
	Reader
}
