package subscription

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("subscription not found")

type Plan string

const (
	PlanFree    Plan = "free"
	PlanPro     Plan = "pro"
	PlanPremium Plan = "premium"
)

func (p Plan) Valid() bool { return p == PlanFree || p == PlanPro || p == PlanPremium }

type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusPastDue  Status = "past_due"
)

type Subscription struct {
	ID        string     `json:"id"`
	Plan      Plan       `json:"plan"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type Repository interface {
	Get(ctx context.Context) (*Subscription, error)
	Save(ctx context.Context, s *Subscription) error
}
