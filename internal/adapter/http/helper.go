package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"growvest-backend/internal/domain/apperr"
)

var kindStatus = map[apperr.Kind]int{
	apperr.KindNotFound:                  http.StatusNotFound,
	apperr.KindInvalidAmount:             http.StatusUnprocessableEntity,
	apperr.KindInvalidInput:              http.StatusUnprocessableEntity,
	apperr.KindCapacityExceeded:          http.StatusConflict,
	apperr.KindSavingsExceeded:           http.StatusConflict,
	apperr.KindInsufficientFunds:         http.StatusConflict,
	apperr.KindInsufficientEmergencyFund: http.StatusConflict,
}

// writeError maps usecase errors to HTTP codes. Anything that is not an
// apperr.Error is logged and reported as a 500 without details.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		code, ok := kindStatus[ae.Kind]
		if !ok {
			code = http.StatusBadRequest
		}
		return c.JSON(code, ErrorResponse{
			Error:   string(ae.Kind),
			Title:   ae.Title,
			Message: ae.Message,
			Limit:   ae.Limit,
		})
	}
	log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// bindAndValidate writes the 400/422 reply itself and reports false when the
// request must not proceed.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

func nopIfNil(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
