package gormrepo

import (
	"context"
	"sync"

	"growvest-backend/internal/adapter/repository/recordrepo"
	"growvest-backend/internal/domain/uow"

	"gorm.io/gorm"
)

// UoW runs each operation in one database transaction. The mutex keeps
// operations from this process strictly sequential, so the capacity and
// savings checks never race their own writes.
type UoW struct {
	mu sync.Mutex
	db *gorm.DB
}

var _ uow.UnitOfWork = (*UoW)(nil)

func NewUoW(db *gorm.DB) *UoW { return &UoW{db: db} }

func (u *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(recordrepo.NewRepos(NewRecordStore(tx)))
	})
}
