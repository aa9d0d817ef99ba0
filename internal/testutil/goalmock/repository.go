package goalmock

import (
	"context"

	domain "growvest-backend/internal/domain/goal"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	ListFn    func(ctx context.Context) ([]domain.Goal, error)
	GetByIDFn func(ctx context.Context, id string) (*domain.Goal, error)
	CreateFn  func(ctx context.Context, g *domain.Goal) error
	SaveFn    func(ctx context.Context, g *domain.Goal) error
	DeleteFn  func(ctx context.Context, id string) error
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) List(ctx context.Context) ([]domain.Goal, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Create(ctx context.Context, g *domain.Goal) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, g)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, g *domain.Goal) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, g)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
