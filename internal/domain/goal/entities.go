package goal

import (
	"errors"
	"math"
	"strings"

	"growvest-backend/pkg/contribution"
)

var ErrNotFound = errors.New("goal not found")

const (
	// Goals below this target are micro goals, the rest are macro goals.
	MicroGoalThreshold = 500_000

	// Loan goals are synthetic debt records created by financing.
	LoanTitlePrefix = "Loan for "

	LoanTimelineYears = 2
)

type Size string

const (
	SizeMicro Size = "micro"
	SizeMacro Size = "macro"
)

func (s Size) Valid() bool { return s == SizeMicro || s == SizeMacro }

type Category string

const (
	CategoryRetirement  Category = "Retirement"
	CategoryEducation   Category = "Education"
	CategoryHousing     Category = "Housing"
	CategoryVehicle     Category = "Vehicle"
	CategoryTravel      Category = "Travel"
	CategoryElectronics Category = "Electronics"
	CategoryAccessories Category = "Accessories"
	CategoryOther       Category = "Other"
)

var categorySizes = map[Category][]Size{
	CategoryRetirement:  {SizeMacro},
	CategoryEducation:   {SizeMacro},
	CategoryHousing:     {SizeMacro},
	CategoryVehicle:     {SizeMacro},
	CategoryTravel:      {SizeMicro},
	CategoryElectronics: {SizeMicro},
	CategoryAccessories: {SizeMicro},
	CategoryOther:       {SizeMicro, SizeMacro},
}

func (c Category) Valid() bool {
	_, ok := categorySizes[c]
	return ok
}

// AllowedFor reports whether the category is offered for goals of size s.
func (c Category) AllowedFor(s Size) bool {
	for _, sz := range categorySizes[c] {
		if sz == s {
			return true
		}
	}
	return false
}

// CategoriesFor lists the categories offered for a size class, in display order.
func CategoriesFor(s Size) []Category {
	if s == SizeMicro {
		return []Category{CategoryTravel, CategoryElectronics, CategoryAccessories, CategoryOther}
	}
	return []Category{CategoryRetirement, CategoryEducation, CategoryHousing, CategoryVehicle, CategoryOther}
}

type RiskLevel = contribution.RiskLevel

const (
	RiskConservative = contribution.Conservative
	RiskModerate     = contribution.Moderate
	RiskAggressive   = contribution.Aggressive
)

type Goal struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	TargetAmount        float64   `json:"targetAmount"`
	CurrentAmount       float64   `json:"currentAmount"`
	Timeline            int       `json:"timeline"` // years
	Progress            int       `json:"progress"`
	Category            Category  `json:"category"`
	MonthlyContribution float64   `json:"monthlyContribution"`
	RiskLevel           RiskLevel `json:"riskLevel"`
	Description         string    `json:"description,omitempty"`
}

func SizeOf(target float64) Size {
	if target < MicroGoalThreshold {
		return SizeMicro
	}
	return SizeMacro
}

func (g Goal) Size() Size { return SizeOf(g.TargetAmount) }

func (g Goal) IsLoan() bool { return strings.HasPrefix(g.Title, LoanTitlePrefix) }

// Remaining is the amount still needed to reach the target, never negative.
func (g Goal) Remaining() float64 { return math.Max(0, g.TargetAmount-g.CurrentAmount) }

func (g Goal) Completed() bool { return g.CurrentAmount >= g.TargetAmount }

// Progress is round(100*current/target) clamped to [0,100].
func Progress(current, target float64) int {
	if target <= 0 {
		return 0
	}
	p := math.Round(current / target * 100)
	return int(math.Max(0, math.Min(100, p)))
}

func (g *Goal) RefreshProgress() { g.Progress = Progress(g.CurrentAmount, g.TargetAmount) }

func TotalCurrent(goals []Goal) float64 {
	var sum float64
	for _, g := range goals {
		sum += g.CurrentAmount
	}
	return sum
}

func TotalMonthly(goals []Goal) float64 {
	var sum float64
	for _, g := range goals {
		sum += g.MonthlyContribution
	}
	return sum
}
