package goal

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"growvest-backend/internal/domain/apperr"
	domain "growvest-backend/internal/domain/goal"
	"growvest-backend/internal/domain/uow"
	"growvest-backend/internal/usecase/guard"
	"growvest-backend/pkg/contribution"
	"growvest-backend/pkg/currency"
	"growvest-backend/pkg/id"
)

type Usecase struct {
	uow uow.UnitOfWork
	log *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{uow: tx, log: log.Named("goal")}
}

func (u *Usecase) AddGoal(ctx context.Context, in AddGoalInput) (*domain.Goal, error) {
	g := domain.Goal{
		Title:         strings.TrimSpace(in.Title),
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		Timeline:      in.Timeline,
		Category:      in.Category,
		RiskLevel:     in.RiskLevel,
		Description:   in.Description,
	}
	if err := validate(g, true); err != nil {
		return nil, err
	}
	if in.MonthlyContribution != nil {
		g.MonthlyContribution = *in.MonthlyContribution
	} else {
		g.MonthlyContribution = contribution.MonthlyContribution(g.TargetAmount, g.CurrentAmount, g.Timeline, g.RiskLevel)
	}
	if !(g.MonthlyContribution >= 0) {
		return nil, apperr.New(apperr.KindInvalidAmount, "Error", "Monthly contribution cannot be negative.")
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := guard.LoadProfile(ctx, r)
		if err != nil {
			return err
		}
		goals, err := r.Goals.List(ctx)
		if err != nil {
			return err
		}
		if err := guard.CheckCapacity(domain.TotalMonthly(goals), g.MonthlyContribution, p.MonthlyInvestmentCapacity, "Adding this goal"); err != nil {
			return err
		}
		if err := guard.CheckSavings(domain.TotalCurrent(goals), g.CurrentAmount, p.Savings); err != nil {
			return err
		}

		g.ID = id.New()
		g.RefreshProgress()
		if err := r.Goals.Create(ctx, &g); err != nil {
			return fmt.Errorf("create goal: %w", err)
		}
		return nil
	})
	if err != nil {
		u.log.Debug("add goal rejected", zap.String("title", g.Title), zap.Error(err))
		return nil, err
	}
	u.log.Info("goal added",
		zap.String("goal_id", g.ID),
		zap.String("size", string(g.Size())),
		zap.Float64("target", g.TargetAmount),
		zap.Float64("monthly", g.MonthlyContribution))
	return &g, nil
}

func (u *Usecase) GetGoals(ctx context.Context) ([]domain.Goal, error) {
	var out []domain.Goal
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		goals, err := r.Goals.List(ctx)
		out = goals
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Goal{}
	}
	return out, nil
}

// DeleteGoal is a no-op for unknown ids.
func (u *Usecase) DeleteGoal(ctx context.Context, goalID string) error {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Goals.Delete(ctx, goalID)
	})
	if err == nil {
		u.log.Info("goal deleted", zap.String("goal_id", goalID))
	}
	return err
}

func (u *Usecase) UpdateGoal(ctx context.Context, in UpdateGoalInput) (*domain.Goal, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "Error", "Goal ID is required")
	}

	var updated domain.Goal
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := guard.LoadProfile(ctx, r)
		if err != nil {
			return err
		}
		goals, err := r.Goals.List(ctx)
		if err != nil {
			return err
		}
		idx := guard.Index(goals, in.ID)
		if idx < 0 {
			return guard.GoalNotFound(in.ID)
		}
		existing := goals[idx]

		merged := merge(existing, in)
		sizeOrCategoryChanged := in.Category != nil || in.TargetAmount != nil
		if err := validate(merged, sizeOrCategoryChanged); err != nil {
			return err
		}
		if in.RecalculateContribution {
			merged.MonthlyContribution = contribution.MonthlyContribution(
				merged.TargetAmount, merged.CurrentAmount, merged.Timeline, merged.RiskLevel)
		}
		if !(merged.MonthlyContribution >= 0) {
			return apperr.New(apperr.KindInvalidAmount, "Error", "Monthly contribution cannot be negative.")
		}

		if merged.MonthlyContribution != existing.MonthlyContribution {
			others := guard.Others(goals, idx, guard.Monthly)
			if err := guard.CheckCapacity(others, merged.MonthlyContribution, p.MonthlyInvestmentCapacity, "Updating this goal"); err != nil {
				return err
			}
		}
		if merged.CurrentAmount > existing.CurrentAmount {
			if err := checkCurrent(goals, idx, merged.CurrentAmount, p.Savings); err != nil {
				return err
			}
		}

		merged.RefreshProgress()
		if err := r.Goals.Save(ctx, &merged); err != nil {
			return fmt.Errorf("save goal: %w", err)
		}
		updated = merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("goal updated", zap.String("goal_id", updated.ID), zap.Int("progress", updated.Progress))
	return &updated, nil
}

// ValidateCurrentAmount checks whether goalID may hold newCurrent without the
// goals together exceeding savings. It returns the largest increment over the
// goal's stored amount that would still pass.
func (u *Usecase) ValidateCurrentAmount(ctx context.Context, goalID string, newCurrent float64) (float64, error) {
	if math.IsNaN(newCurrent) || newCurrent < 0 {
		return 0, apperr.New(apperr.KindInvalidAmount, "Error", "Current amount cannot be negative.")
	}
	var maxIncrement float64
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := guard.LoadProfile(ctx, r)
		if err != nil {
			return err
		}
		goals, err := r.Goals.List(ctx)
		if err != nil {
			return err
		}
		idx := guard.Index(goals, goalID)
		if idx < 0 {
			return guard.GoalNotFound(goalID)
		}
		maxIncrement = math.Max(0, p.Savings-guard.Others(goals, idx, guard.Current)-goals[idx].CurrentAmount)
		return checkCurrent(goals, idx, newCurrent, p.Savings)
	})
	return maxIncrement, err
}

// FilterGoals lists non-loan goals of one size class, optionally narrowed to a
// category, ordered by the amount still needed.
func (u *Usecase) FilterGoals(ctx context.Context, in FilterInput) ([]domain.Goal, error) {
	if !in.Size.Valid() {
		return nil, apperr.Newf(apperr.KindInvalidInput, "Error", "Unknown goal size %q", in.Size)
	}
	if in.Category != "" && in.Category != CategoryAll && !domain.Category(in.Category).Valid() {
		return nil, apperr.Newf(apperr.KindInvalidInput, "Error", "Unknown category %q", in.Category)
	}
	goals, err := u.GetGoals(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Goal, 0, len(goals))
	for _, g := range goals {
		if g.IsLoan() || g.Size() != in.Size {
			continue
		}
		if in.Category != "" && in.Category != CategoryAll && string(g.Category) != in.Category {
			continue
		}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].TargetAmount-out[i].CurrentAmount, out[j].TargetAmount-out[j].CurrentAmount
		if in.Order == SortAsc {
			return a < b
		}
		return a > b
	})
	return out, nil
}

func CategoriesFor(size domain.Size) []domain.Category { return domain.CategoriesFor(size) }

func checkCurrent(goals []domain.Goal, idx int, newCurrent, savings float64) error {
	others := guard.Others(goals, idx, guard.Current)
	if others+newCurrent <= savings {
		return nil
	}
	maxIncrement := math.Max(0, savings-others-goals[idx].CurrentAmount)
	return apperr.Newf(apperr.KindSavingsExceeded, "Exceeds Available Savings",
		"The total principal amount across all goals would exceed your initial savings. You can add up to %s more to this goal.",
		currency.Format(maxIncrement)).WithLimit(maxIncrement)
}

func merge(g domain.Goal, in UpdateGoalInput) domain.Goal {
	if in.Title != nil {
		g.Title = strings.TrimSpace(*in.Title)
	}
	if in.TargetAmount != nil {
		g.TargetAmount = *in.TargetAmount
	}
	if in.CurrentAmount != nil {
		g.CurrentAmount = *in.CurrentAmount
	}
	if in.Timeline != nil {
		g.Timeline = *in.Timeline
	}
	if in.Category != nil {
		g.Category = *in.Category
	}
	if in.RiskLevel != nil {
		g.RiskLevel = *in.RiskLevel
	}
	if in.MonthlyContribution != nil {
		g.MonthlyContribution = *in.MonthlyContribution
	}
	if in.Description != nil {
		g.Description = *in.Description
	}
	return g
}

func validate(g domain.Goal, checkCategorySize bool) error {
	switch {
	case g.Title == "":
		return apperr.New(apperr.KindInvalidInput, "Error", "Title is required.")
	case !(g.TargetAmount > 0):
		return apperr.New(apperr.KindInvalidAmount, "Error", "Target amount must be greater than zero.")
	case !(g.CurrentAmount >= 0):
		return apperr.New(apperr.KindInvalidAmount, "Error", "Current amount cannot be negative.")
	case g.Timeline <= 0:
		return apperr.New(apperr.KindInvalidAmount, "Error", "Timeline must be greater than zero.")
	case !g.RiskLevel.Valid():
		return apperr.Newf(apperr.KindInvalidInput, "Error", "Unknown risk level %q.", g.RiskLevel)
	case !g.Category.Valid():
		return apperr.Newf(apperr.KindInvalidInput, "Error", "Unknown category %q.", g.Category)
	case checkCategorySize && !g.Category.AllowedFor(g.Size()):
		return apperr.Newf(apperr.KindInvalidInput, "Error", "Category %s is not available for %s goals.", g.Category, g.Size())
	}
	return nil
}
