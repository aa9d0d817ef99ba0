package goal

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"growvest-backend/internal/adapter/repository/memory"
	"growvest-backend/internal/adapter/repository/recordrepo"
	"growvest-backend/internal/domain/apperr"
	domain "growvest-backend/internal/domain/goal"
	"growvest-backend/internal/domain/profile"
	"growvest-backend/internal/domain/uow"
	"growvest-backend/internal/testutil/goalmock"
	"growvest-backend/internal/testutil/profilemock"
	"growvest-backend/internal/testutil/uowmock"
	"growvest-backend/pkg/contribution"
)

// ----- helpers -----

func newFixture(t *testing.T, p profile.UserProfile) (*Usecase, uow.Repos) {
	t.Helper()
	store := memory.NewRecordStore()
	repos := recordrepo.NewRepos(store)
	if err := repos.Profiles.Save(context.Background(), &p); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return NewUsecase(recordrepo.NewLockingUoW(store), zap.NewNop()), repos
}

func f64(v float64) *float64 { return &v }

func microInput(title string, target, current, monthly float64) AddGoalInput {
	return AddGoalInput{
		Title:               title,
		TargetAmount:        target,
		CurrentAmount:       current,
		Timeline:            1,
		Category:            domain.CategoryElectronics,
		RiskLevel:           domain.RiskModerate,
		MonthlyContribution: f64(monthly),
	}
}

func assertKind(t *testing.T, err error, kind apperr.Kind) *apperr.Error {
	t.Helper()
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("want apperr %s, got %v", kind, err)
	}
	if ae.Kind != kind {
		t.Fatalf("kind = %s, want %s (%v)", ae.Kind, kind, err)
	}
	if ae.Title == "" || ae.Message == "" {
		t.Fatalf("error must carry title and message: %+v", ae)
	}
	return ae
}

// ----- AddGoal -----

func TestAddGoal_Success(t *testing.T) {
	uc, repos := newFixture(t, profile.UserProfile{Savings: 100000, MonthlyInvestmentCapacity: 10000})
	ctx := context.Background()

	g, err := uc.AddGoal(ctx, microInput("Laptop", 80000, 20000, 3000))
	if err != nil {
		t.Fatalf("AddGoal: %v", err)
	}
	if g.ID == "" {
		t.Fatal("id not generated")
	}
	if g.Progress != 25 {
		t.Fatalf("progress = %d, want 25", g.Progress)
	}
	stored, err := repos.Goals.GetByID(ctx, g.ID)
	if err != nil || stored.Title != "Laptop" {
		t.Fatalf("stored = %+v, %v", stored, err)
	}
}

func TestAddGoal_ComputesContributionWhenOmitted(t *testing.T) {
	uc, _ := newFixture(t, profile.UserProfile{Savings: 1e7, MonthlyInvestmentCapacity: 1e6})
	in := AddGoalInput{
		Title: "Retire", TargetAmount: 1200000, Timeline: 10,
		Category: domain.CategoryRetirement, RiskLevel: domain.RiskModerate,
	}
	g, err := uc.AddGoal(context.Background(), in)
	if err != nil {
		t.Fatalf("AddGoal: %v", err)
	}
	want := contribution.MonthlyContribution(1200000, 0, 10, contribution.Moderate)
	if g.MonthlyContribution != want {
		t.Fatalf("monthly = %v, want %v", g.MonthlyContribution, want)
	}
}

func TestAddGoal_SavingsExceeded_NoWrite(t *testing.T) {
	repos := uow.Repos{
		Profiles: profilemock.Static(profile.UserProfile{Savings: 10000, MonthlyInvestmentCapacity: 5000}),
		Goals: &goalmock.Repo{
			ListFn: func(context.Context) ([]domain.Goal, error) {
				return []domain.Goal{{ID: "g1", Title: "Phone", TargetAmount: 20000, CurrentAmount: 8000, MonthlyContribution: 1000}}, nil
			},
			// Create() must never be called when validation fails
			CreateFn: func(context.Context, *domain.Goal) error {
				t.Fatalf("Create must not be called when savings are exceeded")
				return nil
			},
		},
	}
	uc := NewUsecase(uowmock.Passthrough(repos), nil)

	_, err := uc.AddGoal(context.Background(), microInput("Watch", 30000, 2500, 100))
	ae := assertKind(t, err, apperr.KindSavingsExceeded)
	if ae.Limit == nil || *ae.Limit != 2000 {
		t.Fatalf("limit = %v, want 2000", ae.Limit)
	}
}

func TestAddGoal_CapacityExceeded(t *testing.T) {
	uc, repos := newFixture(t, profile.UserProfile{Savings: 100000, MonthlyInvestmentCapacity: 5000})
	ctx := context.Background()
	if _, err := uc.AddGoal(ctx, microInput("A", 10000, 0, 4000)); err != nil {
		t.Fatalf("first AddGoal: %v", err)
	}
	_, err := uc.AddGoal(ctx, microInput("B", 10000, 0, 1001))
	ae := assertKind(t, err, apperr.KindCapacityExceeded)
	if *ae.Limit != 1000 {
		t.Fatalf("limit = %v, want 1000", *ae.Limit)
	}
	goals, _ := repos.Goals.List(ctx)
	if len(goals) != 1 {
		t.Fatalf("goals = %d, want 1", len(goals))
	}
}

func TestAddGoal_InvalidInput(t *testing.T) {
	uc, _ := newFixture(t, profile.UserProfile{Savings: 1e6, MonthlyInvestmentCapacity: 1e6})
	base := microInput("Phone", 10000, 0, 100)

	cases := map[string]struct {
		mut  func(*AddGoalInput)
		kind apperr.Kind
	}{
		"blank title":       {func(in *AddGoalInput) { in.Title = "  " }, apperr.KindInvalidInput},
		"zero target":       {func(in *AddGoalInput) { in.TargetAmount = 0 }, apperr.KindInvalidAmount},
		"negative current":  {func(in *AddGoalInput) { in.CurrentAmount = -1 }, apperr.KindInvalidAmount},
		"zero timeline":     {func(in *AddGoalInput) { in.Timeline = 0 }, apperr.KindInvalidAmount},
		"bad risk":          {func(in *AddGoalInput) { in.RiskLevel = "reckless" }, apperr.KindInvalidInput},
		"bad category":      {func(in *AddGoalInput) { in.Category = "Pets" }, apperr.KindInvalidInput},
		"macro category":    {func(in *AddGoalInput) { in.Category = domain.CategoryHousing }, apperr.KindInvalidInput},
		"negative monthly":  {func(in *AddGoalInput) { in.MonthlyContribution = f64(-5) }, apperr.KindInvalidAmount},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			tc.mut(&in)
			_, err := uc.AddGoal(context.Background(), in)
			assertKind(t, err, tc.kind)
		})
	}
}

func TestAddGoal_ProfileMissing(t *testing.T) {
	uc := NewUsecase(uowmock.Passthrough(uow.Repos{Profiles: &profilemock.Repo{}, Goals: &goalmock.Repo{}}), nil)
	_, err := uc.AddGoal(context.Background(), microInput("Phone", 10000, 0, 100))
	assertKind(t, err, apperr.KindNotFound)
}

// ----- GetGoals / DeleteGoal -----

func TestGetGoals_EmptyAndOrder(t *testing.T) {
	uc, _ := newFixture(t, profile.UserProfile{Savings: 1e6, MonthlyInvestmentCapacity: 1e6})
	ctx := context.Background()

	goals, err := uc.GetGoals(ctx)
	if err != nil || goals == nil || len(goals) != 0 {
		t.Fatalf("empty: %v %v", goals, err)
	}
	for _, title := range []string{"first", "second", "third"} {
		if _, err := uc.AddGoal(ctx, microInput(title, 10000, 0, 10)); err != nil {
			t.Fatalf("AddGoal: %v", err)
		}
	}
	goals, _ = uc.GetGoals(ctx)
	if len(goals) != 3 || goals[0].Title != "first" || goals[2].Title != "third" {
		t.Fatalf("order lost: %+v", goals)
	}
}

func TestDeleteGoal(t *testing.T) {
	uc, _ := newFixture(t, profile.UserProfile{Savings: 1e6, MonthlyInvestmentCapacity: 1e6})
	ctx := context.Background()
	g, _ := uc.AddGoal(ctx, microInput("Phone", 10000, 0, 10))

	if err := uc.DeleteGoal(ctx, "does-not-exist"); err != nil {
		t.Fatalf("absent id must be a no-op: %v", err)
	}
	if err := uc.DeleteGoal(ctx, g.ID); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}
	goals, _ := uc.GetGoals(ctx)
	if len(goals) != 0 {
		t.Fatalf("goals = %+v", goals)
	}
}

// ----- UpdateGoal -----

func TestUpdateGoal_RequiresID(t *testing.T) {
	uc, _ := newFixture(t, profile.UserProfile{})
	_, err := uc.UpdateGoal(context.Background(), UpdateGoalInput{})
	assertKind(t, err, apperr.KindInvalidInput)
}

func TestUpdateGoal_NotFound(t *testing.T) {
	uc, _ := newFixture(t, profile.UserProfile{Savings: 1, MonthlyInvestmentCapacity: 1})
	_, err := uc.UpdateGoal(context.Background(), UpdateGoalInput{ID: "nope", CurrentAmount: f64(1)})
	assertKind(t, err, apperr.KindNotFound)
}

func TestUpdateGoal_CapacityExcludesOwnContribution(t *testing.T) {
	uc, _ := newFixture(t, profile.UserProfile{Savings: 1e6, MonthlyInvestmentCapacity: 5000})
	ctx := context.Background()
	a, _ := uc.AddGoal(ctx, microInput("A", 10000, 0, 3000))
	_, _ = uc.AddGoal(ctx, microInput("B", 10000, 0, 1000))

	// 1000 (B) + 4000 fits exactly even though A already holds 3000
	g, err := uc.UpdateGoal(ctx, UpdateGoalInput{ID: a.ID, MonthlyContribution: f64(4000)})
	if err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}
	if g.MonthlyContribution != 4000 {
		t.Fatalf("monthly = %v", g.MonthlyContribution)
	}

	_, err = uc.UpdateGoal(ctx, UpdateGoalInput{ID: a.ID, MonthlyContribution: f64(4001)})
	assertKind(t, err, apperr.KindCapacityExceeded)
}

func TestUpdateGoal_RecomputesProgressAndMerges(t *testing.T) {
	uc, _ := newFixture(t, profile.UserProfile{Savings: 1e6, MonthlyInvestmentCapacity: 1e6})
	ctx := context.Background()
	a, _ := uc.AddGoal(ctx, microInput("Camera", 40000, 10000, 500))

	title := "Mirrorless camera"
	g, err := uc.UpdateGoal(ctx, UpdateGoalInput{ID: a.ID, Title: &title, TargetAmount: f64(20000)})
	if err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}
	if g.Progress != 50 || g.Title != title || g.CurrentAmount != 10000 || g.MonthlyContribution != 500 {
		t.Fatalf("unexpected merge: %+v", g)
	}
}

func TestUpdateGoal_CurrentIncreaseBoundedBySavings(t *testing.T) {
	uc, repos := newFixture(t, profile.UserProfile{Savings: 10000, MonthlyInvestmentCapacity: 1e6})
	ctx := context.Background()
	a, _ := uc.AddGoal(ctx, microInput("A", 20000, 4000, 10))
	_, _ = uc.AddGoal(ctx, microInput("B", 20000, 5000, 10))

	_, err := uc.UpdateGoal(ctx, UpdateGoalInput{ID: a.ID, CurrentAmount: f64(5001)})
	ae := assertKind(t, err, apperr.KindSavingsExceeded)
	if *ae.Limit != 1000 {
		t.Fatalf("max increment = %v, want 1000", *ae.Limit)
	}
	stored, _ := repos.Goals.GetByID(ctx, a.ID)
	if stored.CurrentAmount != 4000 {
		t.Fatalf("failed update must not write, current = %v", stored.CurrentAmount)
	}

	// decreasing is always allowed
	if _, err := uc.UpdateGoal(ctx, UpdateGoalInput{ID: a.ID, CurrentAmount: f64(100)}); err != nil {
		t.Fatalf("decrease: %v", err)
	}
}

func TestUpdateGoal_RecalculateContribution(t *testing.T) {
	uc, _ := newFixture(t, profile.UserProfile{Savings: 1e6, MonthlyInvestmentCapacity: 1e6})
	ctx := context.Background()
	a, _ := uc.AddGoal(ctx, microInput("Trip", 100000, 0, 1))

	years := 2
	g, err := uc.UpdateGoal(ctx, UpdateGoalInput{ID: a.ID, Timeline: &years, RecalculateContribution: true})
	if err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}
	want := contribution.MonthlyContribution(100000, 0, 2, contribution.Moderate)
	if g.MonthlyContribution != want {
		t.Fatalf("monthly = %v, want %v", g.MonthlyContribution, want)
	}
}

// ----- ValidateCurrentAmount -----

func TestValidateCurrentAmount(t *testing.T) {
	uc, _ := newFixture(t, profile.UserProfile{Savings: 10000, MonthlyInvestmentCapacity: 1e6})
	ctx := context.Background()
	a, _ := uc.AddGoal(ctx, microInput("A", 20000, 3000, 10))
	_, _ = uc.AddGoal(ctx, microInput("B", 20000, 6000, 10))

	maxInc, err := uc.ValidateCurrentAmount(ctx, a.ID, 4000)
	if err != nil {
		t.Fatalf("4000 should fit: %v", err)
	}
	if maxInc != 1000 {
		t.Fatalf("max increment = %v, want 1000", maxInc)
	}

	_, err = uc.ValidateCurrentAmount(ctx, a.ID, 4000.5)
	assertKind(t, err, apperr.KindSavingsExceeded)

	_, err = uc.ValidateCurrentAmount(ctx, "missing", 1)
	assertKind(t, err, apperr.KindNotFound)

	_, err = uc.ValidateCurrentAmount(ctx, a.ID, -1)
	assertKind(t, err, apperr.KindInvalidAmount)
}

// ----- FilterGoals -----

func TestFilterGoals(t *testing.T) {
	store := memory.NewRecordStore()
	repos := recordrepo.NewRepos(store)
	ctx := context.Background()
	seed := []domain.Goal{
		{ID: "1", Title: "Trip", TargetAmount: 50000, CurrentAmount: 10000, Category: domain.CategoryTravel},
		{ID: "2", Title: "Phone", TargetAmount: 30000, CurrentAmount: 0, Category: domain.CategoryElectronics},
		{ID: "3", Title: "House", TargetAmount: 5000000, CurrentAmount: 0, Category: domain.CategoryHousing},
		{ID: "4", Title: "Loan for House", TargetAmount: 100000, Category: domain.CategoryOther},
		{ID: "5", Title: "Bag", TargetAmount: 20000, CurrentAmount: 19000, Category: domain.CategoryAccessories},
	}
	for i := range seed {
		_ = repos.Goals.Create(ctx, &seed[i])
	}
	uc := NewUsecase(recordrepo.NewLockingUoW(store), nil)

	micro, err := uc.FilterGoals(ctx, FilterInput{Size: domain.SizeMicro, Category: CategoryAll, Order: SortDesc})
	if err != nil {
		t.Fatalf("FilterGoals: %v", err)
	}
	ids := ""
	for _, g := range micro {
		ids += g.ID
	}
	if ids != "125" {
		t.Fatalf("micro desc = %q, want 125 (loan excluded)", ids)
	}

	asc, _ := uc.FilterGoals(ctx, FilterInput{Size: domain.SizeMicro, Order: SortAsc})
	if asc[0].ID != "5" {
		t.Fatalf("asc first = %s, want 5", asc[0].ID)
	}

	travel, _ := uc.FilterGoals(ctx, FilterInput{Size: domain.SizeMicro, Category: "Travel"})
	if len(travel) != 1 || travel[0].ID != "1" {
		t.Fatalf("travel = %+v", travel)
	}

	macro, _ := uc.FilterGoals(ctx, FilterInput{Size: domain.SizeMacro})
	if len(macro) != 1 || macro[0].ID != "3" {
		t.Fatalf("macro = %+v", macro)
	}

	_, err = uc.FilterGoals(ctx, FilterInput{Size: "huge"})
	assertKind(t, err, apperr.KindInvalidInput)
	_, err = uc.FilterGoals(ctx, FilterInput{Size: domain.SizeMicro, Category: "Pets"})
	assertKind(t, err, apperr.KindInvalidInput)
}

func TestCategoriesFor(t *testing.T) {
	if got := CategoriesFor(domain.SizeMicro); len(got) != 4 || got[0] != domain.CategoryTravel {
		t.Fatalf("micro categories = %v", got)
	}
}
