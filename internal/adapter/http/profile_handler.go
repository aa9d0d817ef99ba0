package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domain "growvest-backend/internal/domain/profile"
	"growvest-backend/internal/domain/subscription"
	"growvest-backend/internal/usecase/profile"
	subuc "growvest-backend/internal/usecase/subscription"
	"growvest-backend/pkg/contribution"
)

type ProfileHandler struct {
	profiles      *profile.Usecase
	subscriptions *subuc.Usecase
	log           *zap.Logger
}

func NewProfileHandler(p *profile.Usecase, s *subuc.Usecase, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: p, subscriptions: s, log: nopIfNil(log)}
}

type saveProfileReq struct {
	Name                      string  `json:"name"                      validate:"required"`
	Age                       int     `json:"age"                       validate:"gte=0,lte=120"`
	Savings                   float64 `json:"savings"                   validate:"gte=0,dec2"`
	MonthlyInvestmentCapacity float64 `json:"monthlyInvestmentCapacity" validate:"gte=0,dec2"`
	RelationshipStatus        string  `json:"relationshipStatus"`
	HasKids                   string  `json:"hasKids"`
	RetirementAge             int     `json:"retirementAge"             validate:"gte=0,lte=120"`
	PurchasePlans             string  `json:"purchasePlans"`
	RiskTolerance             string  `json:"riskTolerance"             validate:"omitempty,risk"`
}

type changePlanReq struct {
	Plan string `json:"plan" validate:"required,plan"`
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	p, err := h.profiles.Get(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) SaveProfile(c echo.Context) error {
	var req saveProfileReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	p, err := h.profiles.Save(c.Request().Context(), domain.UserProfile{
		Name:                      req.Name,
		Age:                       req.Age,
		Savings:                   req.Savings,
		MonthlyInvestmentCapacity: req.MonthlyInvestmentCapacity,
		RelationshipStatus:        req.RelationshipStatus,
		HasKids:                   req.HasKids,
		RetirementAge:             req.RetirementAge,
		PurchasePlans:             req.PurchasePlans,
		RiskTolerance:             contribution.RiskLevel(req.RiskTolerance),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) GetSubscription(c echo.Context) error {
	s, err := h.subscriptions.Get(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ProfileHandler) ChangePlan(c echo.Context) error {
	var req changePlanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	s, err := h.subscriptions.ChangePlan(c.Request().Context(), subscription.Plan(req.Plan))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, s)
}
