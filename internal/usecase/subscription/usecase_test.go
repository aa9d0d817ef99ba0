package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"growvest-backend/internal/adapter/repository/memory"
	"growvest-backend/internal/adapter/repository/recordrepo"
	"growvest-backend/internal/domain/apperr"
	domain "growvest-backend/internal/domain/subscription"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newUsecase() *Usecase {
	store := memory.NewRecordStore()
	return NewUsecase(recordrepo.NewLockingUoW(store), nil).WithClock(func() time.Time { return fixedNow })
}

func TestGet_CreatesFreePlanOnce(t *testing.T) {
	uc := newUsecase()
	ctx := context.Background()

	first, err := uc.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Plan != domain.PlanFree || first.Status != domain.StatusActive {
		t.Fatalf("want active free plan, got %+v", first)
	}
	if !first.CreatedAt.Equal(fixedNow) || first.ExpiresAt != nil || first.ID == "" {
		t.Fatalf("unexpected subscription: %+v", first)
	}

	second, err := uc.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("subscription recreated: %s != %s", second.ID, first.ID)
	}
}

func TestChangePlan(t *testing.T) {
	uc := newUsecase()
	ctx := context.Background()

	s, err := uc.ChangePlan(ctx, domain.PlanPremium)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Plan != domain.PlanPremium {
		t.Fatalf("plan = %s", s.Plan)
	}
	got, _ := uc.Get(ctx)
	if got.Plan != domain.PlanPremium || got.ID != s.ID {
		t.Fatalf("plan not persisted: %+v", got)
	}
}

func TestChangePlan_Unknown(t *testing.T) {
	_, err := newUsecase().ChangePlan(context.Background(), "enterprise")
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("want invalid input, got %v", err)
	}
}
