package goal

import "context"

type Repository interface {
	// All goals in insertion order.
	List(ctx context.Context) ([]Goal, error)

	// ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*Goal, error)

	// Appends a new goal; ID must already be set.
	Create(ctx context.Context, g *Goal) error

	// Overwrites an existing goal, keeping its position.
	Save(ctx context.Context, g *Goal) error

	// No error when absent.
	Delete(ctx context.Context, id string) error
}
