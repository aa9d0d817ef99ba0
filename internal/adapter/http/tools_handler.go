package http

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"growvest-backend/internal/domain/apperr"
	"growvest-backend/pkg/contribution"
	"growvest-backend/pkg/currency"
)

// ToolsHandler serves the stateless calculators.
type ToolsHandler struct{}

func NewToolsHandler() *ToolsHandler { return &ToolsHandler{} }

type contributionReq struct {
	Target  float64 `query:"target"  validate:"finite,gt=0"`
	Current float64 `query:"current" validate:"finite,gte=0"`
	Years   int     `query:"years"   validate:"gte=1,lte=100"`
	Risk    string  `query:"risk"    validate:"required,risk"`
}

type formatReq struct {
	Amount float64 `query:"amount" validate:"finite,gte=0"`
}

type parseReq struct {
	Text string `query:"text" validate:"required"`
}

func (h *ToolsHandler) Contribution(c echo.Context) error {
	var req contributionReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	monthly := contribution.MonthlyContribution(req.Target, req.Current, req.Years, contribution.RiskLevel(req.Risk))
	return c.JSON(http.StatusOK, map[string]any{
		"monthlyContribution": monthly,
		"formatted":           currency.Format(monthly),
		"annualRate":          contribution.AnnualRate(contribution.RiskLevel(req.Risk)),
	})
}

func (h *ToolsHandler) Format(c echo.Context) error {
	var req formatReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"formatted": currency.Format(req.Amount)})
}

func (h *ToolsHandler) Parse(c echo.Context) error {
	var req parseReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	v := currency.Parse(req.Text)
	if math.IsNaN(v) {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   string(apperr.KindInvalidAmount),
			Title:   "Invalid Amount",
			Message: "Could not read an amount from " + req.Text + ".",
		})
	}
	return c.JSON(http.StatusOK, map[string]float64{"amount": v})
}
