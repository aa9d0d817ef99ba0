package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"growvest-backend/internal/usecase/analytics"
)

type AnalyticsHandler struct {
	uc  *analytics.Usecase
	log *zap.Logger
}

func NewAnalyticsHandler(uc *analytics.Usecase, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc, log: nopIfNil(log)}
}

func (h *AnalyticsHandler) Overview(c echo.Context) error {
	o, err := h.uc.Overview(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *AnalyticsHandler) RemainingCapacity(c echo.Context) error {
	v, err := h.uc.RemainingMonthlyCapacity(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]float64{"remainingCapacity": v})
}

// RemainingSavings uses the allocated principal of the stored goals unless
// the caller supplies a total of its own.
func (h *AnalyticsHandler) RemainingSavings(c echo.Context) error {
	ctx := c.Request().Context()

	var v float64
	if raw := c.QueryParam("total"); raw != "" {
		total, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(total >= 0) {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: []FieldError{
				{Field: "total", Message: "must be a number greater than or equal to 0"},
			}})
		}
		if v, err = h.uc.RemainingSavings(ctx, total); err != nil {
			return writeError(c, h.log, err)
		}
	} else {
		o, err := h.uc.Overview(ctx)
		if err != nil {
			return writeError(c, h.log, err)
		}
		v = o.RemainingSavings
	}
	return c.JSON(http.StatusOK, map[string]float64{"remainingSavings": v})
}
