package goal

import domain "growvest-backend/internal/domain/goal"

type AddGoalInput struct {
	Title         string           `json:"title"`
	TargetAmount  float64          `json:"targetAmount"`
	CurrentAmount float64          `json:"currentAmount"`
	Timeline      int              `json:"timeline"`
	Category      domain.Category  `json:"category"`
	RiskLevel     domain.RiskLevel `json:"riskLevel"`
	Description   string           `json:"description"`
	// Computed from the contribution model when nil.
	MonthlyContribution *float64 `json:"monthlyContribution"`
}

// UpdateGoalInput is a partial update; nil fields keep their stored value.
type UpdateGoalInput struct {
	ID                  string            `json:"id"`
	Title               *string           `json:"title"`
	TargetAmount        *float64          `json:"targetAmount"`
	CurrentAmount       *float64          `json:"currentAmount"`
	Timeline            *int              `json:"timeline"`
	Category            *domain.Category  `json:"category"`
	RiskLevel           *domain.RiskLevel `json:"riskLevel"`
	MonthlyContribution *float64          `json:"monthlyContribution"`
	Description         *string           `json:"description"`
	// Recompute the monthly contribution from the merged goal; overrides MonthlyContribution.
	RecalculateContribution bool `json:"recalculateContribution"`
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// CategoryAll disables the category filter.
const CategoryAll = "All"

type FilterInput struct {
	Size     domain.Size
	Category string
	Order    SortOrder
}
