package transfer

import (
	domain "growvest-backend/internal/domain/goal"
	"growvest-backend/internal/domain/profile"
)

// OverflowPolicy decides what happens to the part of a rebalance that does
// not fit into the target goal.
type OverflowPolicy string

const (
	// OverflowCap moves only what the target can hold; the rest stays in the source.
	OverflowCap OverflowPolicy = "cap"
	// OverflowDiscard takes the full amount from the source and drops the excess.
	OverflowDiscard OverflowPolicy = "discard"
)

// PolicyRejectionTitle marks errors caused by the configured rebalance
// policy rather than by the request itself.
const PolicyRejectionTitle = "Rebalance Not Allowed"

func (p OverflowPolicy) Valid() bool { return p == OverflowCap || p == OverflowDiscard }

type Config struct {
	Overflow OverflowPolicy
	// MicroOnly restricts rebalancing to pairs of micro goals.
	MicroOnly bool
}

func DefaultConfig() Config {
	return Config{Overflow: OverflowCap, MicroOnly: true}
}

type RebalanceInput struct {
	SourceID string  `json:"sourceGoalId"`
	TargetID string  `json:"targetGoalId"`
	Amount   float64 `json:"amount"`
}

type EmergencyFundInput struct {
	GoalID string  `json:"goalId"`
	Amount float64 `json:"amount"`
}

type FinanceInput struct {
	GoalID          string  `json:"goalId"`
	RemainingAmount float64 `json:"remainingAmount"`
}

// Result carries every record the operation touched so callers can refresh
// their view without reading the store again.
type Result struct {
	Goals     []domain.Goal        `json:"goals"`
	Profile   *profile.UserProfile `json:"profile,omitempty"`
	Moved     float64              `json:"moved"`
	Discarded float64              `json:"discarded"`
}
