package profile

import (
	"context"
	"errors"

	"growvest-backend/pkg/contribution"
)

var ErrNotFound = errors.New("user profile not found")

// UserProfile is the single tenant's financial context. Only Savings and
// MonthlyInvestmentCapacity take part in goal accounting; the rest is display data.
type UserProfile struct {
	Name                      string                 `json:"name"`
	Age                       int                    `json:"age"`
	Savings                   float64                `json:"savings"`
	MonthlyInvestmentCapacity float64                `json:"monthlyInvestmentCapacity"`
	RelationshipStatus        string                 `json:"relationshipStatus,omitempty"`
	HasKids                   string                 `json:"hasKids,omitempty"`
	RetirementAge             int                    `json:"retirementAge,omitempty"`
	PurchasePlans             string                 `json:"purchasePlans,omitempty"`
	RiskTolerance             contribution.RiskLevel `json:"riskTolerance,omitempty"`
}

type Repository interface {
	// ErrNotFound when onboarding has not completed yet.
	Get(ctx context.Context) (*UserProfile, error)
	Save(ctx context.Context, p *UserProfile) error
}
