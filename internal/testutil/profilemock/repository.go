package profilemock

import (
	"context"

	domain "growvest-backend/internal/domain/profile"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetFn  func(ctx context.Context) (*domain.UserProfile, error)
	SaveFn func(ctx context.Context, p *domain.UserProfile) error
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Get(ctx context.Context) (*domain.UserProfile, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, p *domain.UserProfile) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

// Static returns a mock whose Get always yields a copy of p.
func Static(p domain.UserProfile) *Repo {
	return &Repo{GetFn: func(context.Context) (*domain.UserProfile, error) {
		cp := p
		return &cp, nil
	}}
}
