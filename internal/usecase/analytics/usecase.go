package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	domain "growvest-backend/internal/domain/goal"
	"growvest-backend/internal/domain/profile"
	"growvest-backend/internal/domain/uow"
)

// Overview is the dashboard summary of how much of the profile is committed.
type Overview struct {
	Savings             float64 `json:"savings"`
	MonthlyCapacity     float64 `json:"monthlyCapacity"`
	AllocatedPrincipal  float64 `json:"allocatedPrincipal"`
	AllocatedMonthly    float64 `json:"allocatedMonthly"`
	RemainingSavings    float64 `json:"remainingSavings"`
	RemainingCapacity   float64 `json:"remainingCapacity"`
	CapacityUsedPercent int     `json:"capacityUsedPercent"`
	MicroGoals          int     `json:"microGoals"`
	MacroGoals          int     `json:"macroGoals"`
	LoanGoals           int     `json:"loanGoals"`
	CompletedGoals      int     `json:"completedGoals"`
}

type Usecase struct {
	uow uow.UnitOfWork
	log *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{uow: tx, log: log.Named("analytics")}
}

// RemainingMonthlyCapacity is 0 until a profile exists.
func (u *Usecase) RemainingMonthlyCapacity(ctx context.Context) (float64, error) {
	var out float64
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := loadProfile(ctx, r)
		if err != nil || p == nil {
			return err
		}
		goals, err := r.Goals.List(ctx)
		if err != nil {
			return err
		}
		out = RemainingCapacity(p.MonthlyInvestmentCapacity, domain.TotalMonthly(goals))
		return nil
	})
	return out, err
}

// RemainingSavings reports the savings left once totalCurrent is allocated.
func (u *Usecase) RemainingSavings(ctx context.Context, totalCurrent float64) (float64, error) {
	var out float64
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := loadProfile(ctx, r)
		if err != nil || p == nil {
			return err
		}
		out = math.Max(0, p.Savings-totalCurrent)
		return nil
	})
	return out, err
}

func (u *Usecase) Overview(ctx context.Context) (*Overview, error) {
	var o Overview
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := loadProfile(ctx, r)
		if err != nil {
			return err
		}
		goals, err := r.Goals.List(ctx)
		if err != nil {
			return err
		}
		if p != nil {
			o.Savings = p.Savings
			o.MonthlyCapacity = p.MonthlyInvestmentCapacity
		}
		o.AllocatedPrincipal = domain.TotalCurrent(goals)
		o.AllocatedMonthly = domain.TotalMonthly(goals)
		o.RemainingSavings = math.Max(0, o.Savings-o.AllocatedPrincipal)
		o.RemainingCapacity = RemainingCapacity(o.MonthlyCapacity, o.AllocatedMonthly)
		o.CapacityUsedPercent = CapacityUsedPercent(o.MonthlyCapacity, o.RemainingCapacity)

		for _, g := range goals {
			switch {
			case g.IsLoan():
				o.LoanGoals++
			case g.Size() == domain.SizeMicro:
				o.MicroGoals++
			default:
				o.MacroGoals++
			}
			if !g.IsLoan() && g.Completed() {
				o.CompletedGoals++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Debug("overview computed", zap.Int("used_percent", o.CapacityUsedPercent))
	return &o, nil
}

func RemainingCapacity(capacity, committed float64) float64 {
	return math.Max(0, capacity-committed)
}

// CapacityUsedPercent is the share of capacity already committed, in [0,100].
func CapacityUsedPercent(capacity, remaining float64) int {
	if capacity <= 0 {
		return 0
	}
	used := 100 - remaining/capacity*100
	return int(math.Round(math.Max(0, math.Min(100, used))))
}

// loadProfile returns nil without error when onboarding has not happened yet.
func loadProfile(ctx context.Context, r uow.Repos) (*profile.UserProfile, error) {
	p, err := r.Profiles.Get(ctx)
	if errors.Is(err, profile.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}
