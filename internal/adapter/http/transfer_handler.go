package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"growvest-backend/internal/usecase/transfer"
)

type TransferHandler struct {
	uc  *transfer.Usecase
	log *zap.Logger
}

func NewTransferHandler(uc *transfer.Usecase, log *zap.Logger) *TransferHandler {
	return &TransferHandler{uc: uc, log: nopIfNil(log)}
}

type rebalanceReq struct {
	SourceGoalID string  `json:"sourceGoalId" validate:"required"`
	TargetGoalID string  `json:"targetGoalId" validate:"required"`
	Amount       float64 `json:"amount"       validate:"gt=0,dec2"`
}

type emergencyFundReq struct {
	GoalID string  `json:"goalId" validate:"required"`
	Amount float64 `json:"amount" validate:"gt=0,dec2"`
}

type financeReq struct {
	GoalID          string  `json:"goalId"          validate:"required"`
	RemainingAmount float64 `json:"remainingAmount" validate:"finite,gt=0"`
}

// Rebalance answers 422 with title "Rebalance Not Allowed" when the
// configured policy (micro goals only, cap overflow) rejects the pair.
func (h *TransferHandler) Rebalance(c echo.Context) error {
	var req rebalanceReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.uc.Rebalance(c.Request().Context(), transfer.RebalanceInput{
		SourceID: req.SourceGoalID,
		TargetID: req.TargetGoalID,
		Amount:   req.Amount,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *TransferHandler) EmergencyFund(c echo.Context) error {
	var req emergencyFundReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.uc.UseEmergencyFund(c.Request().Context(), transfer.EmergencyFundInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *TransferHandler) Finance(c echo.Context) error {
	var req financeReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.uc.FinanceGoal(c.Request().Context(), transfer.FinanceInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, res)
}
