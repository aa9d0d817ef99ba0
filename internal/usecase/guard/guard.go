// Package guard holds the allocation checks shared by the goal and transfer
// usecases. Every check is a pure function of already-loaded state so callers
// can run all of them before their first write.
package guard

import (
	"context"
	"errors"
	"fmt"
	"math"

	"growvest-backend/internal/domain/apperr"
	"growvest-backend/internal/domain/goal"
	"growvest-backend/internal/domain/profile"
	"growvest-backend/internal/domain/uow"
	"growvest-backend/pkg/currency"
)

func LoadProfile(ctx context.Context, r uow.Repos) (*profile.UserProfile, error) {
	p, err := r.Profiles.Get(ctx)
	if errors.Is(err, profile.ErrNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "Error", "User profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func LoadGoal(ctx context.Context, r uow.Repos, id string) (*goal.Goal, error) {
	g, err := r.Goals.GetByID(ctx, id)
	if errors.Is(err, goal.ErrNotFound) {
		return nil, GoalNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("load goal %s: %w", id, err)
	}
	return g, nil
}

func GoalNotFound(id string) *apperr.Error {
	return apperr.Newf(apperr.KindNotFound, "Error", "Goal %q not found", id)
}

// Index returns the position of the goal with id, or -1.
func Index(goals []goal.Goal, id string) int {
	for i := range goals {
		if goals[i].ID == id {
			return i
		}
	}
	return -1
}

// Others sums a field over every goal except the one at skip.
func Others(goals []goal.Goal, skip int, field func(goal.Goal) float64) float64 {
	var sum float64
	for i, g := range goals {
		if i == skip {
			continue
		}
		sum += field(g)
	}
	return sum
}

func Current(g goal.Goal) float64 { return g.CurrentAmount }
func Monthly(g goal.Goal) float64 { return g.MonthlyContribution }

// CheckCapacity fails when committed+add would exceed the monthly capacity.
func CheckCapacity(committed, add, capacity float64, action string) error {
	if committed+add <= capacity {
		return nil
	}
	left := math.Max(0, capacity-committed)
	return apperr.Newf(apperr.KindCapacityExceeded, "Capacity Exceeded",
		"%s would exceed your monthly investment capacity. You can commit up to %s more per month.",
		action, currency.Format(left)).WithLimit(left)
}

// CheckSavings fails when allocated+add would exceed the initial savings.
func CheckSavings(allocated, add, savings float64) error {
	if allocated+add <= savings {
		return nil
	}
	left := math.Max(0, savings-allocated)
	return apperr.Newf(apperr.KindSavingsExceeded, "Exceeds Available Savings",
		"The total principal amount across all goals would exceed your initial savings. You can allocate up to %s more.",
		currency.Format(left)).WithLimit(left)
}
