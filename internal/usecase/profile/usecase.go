package profile

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"growvest-backend/internal/domain/apperr"
	"growvest-backend/internal/domain/goal"
	domain "growvest-backend/internal/domain/profile"
	"growvest-backend/internal/domain/uow"
	"growvest-backend/internal/usecase/guard"
	"growvest-backend/pkg/currency"
)

type Usecase struct {
	uow uow.UnitOfWork
	log *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{uow: tx, log: log.Named("profile")}
}

func (u *Usecase) Get(ctx context.Context) (*domain.UserProfile, error) {
	var out *domain.UserProfile
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := guard.LoadProfile(ctx, r)
		out = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Save creates or replaces the profile. Savings and capacity may only be
// lowered as far as the goals already allocate.
func (u *Usecase) Save(ctx context.Context, p domain.UserProfile) (*domain.UserProfile, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := validate(p); err != nil {
		return nil, err
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		existing, err := r.Profiles.Get(ctx)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("load profile: %w", err)
		}
		goals, err := r.Goals.List(ctx)
		if err != nil {
			return err
		}

		allocated := goal.TotalCurrent(goals)
		if p.Savings < allocated && (existing == nil || p.Savings < existing.Savings) {
			return apperr.Newf(apperr.KindSavingsExceeded, "Exceeds Available Savings",
				"Your goals already hold %s of principal.", currency.Format(allocated)).
				WithLimit(allocated)
		}
		committed := goal.TotalMonthly(goals)
		if p.MonthlyInvestmentCapacity < committed &&
			(existing == nil || p.MonthlyInvestmentCapacity < existing.MonthlyInvestmentCapacity) {
			return apperr.Newf(apperr.KindCapacityExceeded, "Capacity Exceeded",
				"Your goals already commit %s per month.", currency.Format(committed)).
				WithLimit(committed)
		}
		return r.Profiles.Save(ctx, &p)
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("profile saved",
		zap.Float64("savings", p.Savings),
		zap.Float64("capacity", p.MonthlyInvestmentCapacity))
	return &p, nil
}

func validate(p domain.UserProfile) error {
	switch {
	case !(p.Savings >= 0) || math.IsInf(p.Savings, 1):
		return apperr.New(apperr.KindInvalidAmount, "Error", "Savings cannot be negative.")
	case !(p.MonthlyInvestmentCapacity >= 0) || math.IsInf(p.MonthlyInvestmentCapacity, 1):
		return apperr.New(apperr.KindInvalidAmount, "Error", "Monthly investment capacity cannot be negative.")
	case p.Age < 0:
		return apperr.New(apperr.KindInvalidInput, "Error", "Age cannot be negative.")
	case p.RetirementAge != 0 && p.RetirementAge < p.Age:
		return apperr.New(apperr.KindInvalidInput, "Error", "Retirement age cannot be below current age.")
	case p.RiskTolerance != "" && !p.RiskTolerance.Valid():
		return apperr.Newf(apperr.KindInvalidInput, "Error", "Unknown risk tolerance %q.", p.RiskTolerance)
	}
	return nil
}
