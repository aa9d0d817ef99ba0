package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"growvest-backend/internal/domain/apperr"
	domain "growvest-backend/internal/domain/subscription"
	"growvest-backend/internal/domain/uow"
	"growvest-backend/pkg/id"
)

type Usecase struct {
	uow uow.UnitOfWork
	now func() time.Time
	log *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{uow: tx, now: time.Now, log: log.Named("subscription")}
}

// WithClock replaces the time source used for new subscriptions.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Get returns the current subscription, starting an active free plan the
// first time it is asked for.
func (u *Usecase) Get(ctx context.Context) (*domain.Subscription, error) {
	var out *domain.Subscription
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := u.loadOrCreate(ctx, r)
		out = s
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) ChangePlan(ctx context.Context, plan domain.Plan) (*domain.Subscription, error) {
	if !plan.Valid() {
		return nil, apperr.Newf(apperr.KindInvalidInput, "Error", "Unknown plan %q.", plan)
	}
	var out *domain.Subscription
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := u.loadOrCreate(ctx, r)
		if err != nil {
			return err
		}
		s.Plan = plan
		s.Status = domain.StatusActive
		if err := r.Subscriptions.Save(ctx, s); err != nil {
			return fmt.Errorf("save subscription: %w", err)
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("plan changed", zap.String("subscription_id", out.ID), zap.String("plan", string(plan)))
	return out, nil
}

func (u *Usecase) loadOrCreate(ctx context.Context, r uow.Repos) (*domain.Subscription, error) {
	s, err := r.Subscriptions.Get(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	s = &domain.Subscription{
		ID:        id.New(),
		Plan:      domain.PlanFree,
		Status:    domain.StatusActive,
		CreatedAt: u.now().UTC(),
	}
	if err := r.Subscriptions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	u.log.Info("free subscription started", zap.String("subscription_id", s.ID))
	return s, nil
}
