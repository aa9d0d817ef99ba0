package uow

import (
	"context"

	"growvest-backend/internal/domain/goal"
	"growvest-backend/internal/domain/profile"
	"growvest-backend/internal/domain/subscription"
)

type Repos struct {
	Goals         goal.Repository
	Profiles      profile.Repository
	Subscriptions subscription.Repository
}

// UnitOfWork serializes operations on the goal collection and the profile.
// Implementations backed by a database also make fn atomic.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
