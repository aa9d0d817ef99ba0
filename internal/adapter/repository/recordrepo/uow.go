package recordrepo

import (
	"context"
	"sync"

	"growvest-backend/internal/domain/record"
	"growvest-backend/internal/domain/uow"
)

func NewRepos(s record.Store) uow.Repos {
	return uow.Repos{
		Goals:         NewGoalRepository(s),
		Profiles:      NewProfileRepository(s),
		Subscriptions: NewSubscriptionRepository(s),
	}
}

// LockingUoW serializes operations over a store that has no transactions
// (redis, memory). Writes are not rolled back; usecases validate before writing.
type LockingUoW struct {
	mu    sync.Mutex
	repos uow.Repos
}

var _ uow.UnitOfWork = (*LockingUoW)(nil)

func NewLockingUoW(s record.Store) *LockingUoW { return &LockingUoW{repos: NewRepos(s)} }

func (u *LockingUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(u.repos)
}
