package orders

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("order not found")

	// ErrStale: the compare-and-swap on updated_at failed because another
	// writer got there first. Re-read and retry.
	ErrStale = errors.New("order modified concurrently")
)

// Store is the persistence port. The engine depends only on this interface;
// the pgx Repo is the provided implementation, not a contract.
type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)

	// UpdateStatus persists a transition. prevUpdatedAt is the optimistic
	// token: the write applies only if the row still carries it.
	UpdateStatus(ctx context.Context, id string, status Status, prevUpdatedAt, updatedAt time.Time) error
}
