package transactions

import (
	"context"
	"time"
)

// Store persists transactions. Every method touches at most one record, except
// FindByOwner. FindByID does not filter by owner; callers enforce ownership.
// Implementations return ErrNotFound for unknown or malformed ids.
type Store interface {
	// Insert assigns a new id to t and stores it.
	Insert(ctx context.Context, t Transaction) (Transaction, error)
	// FindByOwner returns the owner's transactions, newest date first.
	FindByOwner(ctx context.Context, ownerID string) ([]Transaction, error)
	FindByID(ctx context.Context, id string) (Transaction, error)
	// Update applies p to the record matching both id and ownerID.
	Update(ctx context.Context, id, ownerID string, p Patch, updatedAt time.Time) (Transaction, error)
	// Delete removes the record matching both id and ownerID.
	Delete(ctx context.Context, id, ownerID string) error
	Ping(ctx context.Context) error
}
