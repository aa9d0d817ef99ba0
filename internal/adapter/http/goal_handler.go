package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domain "growvest-backend/internal/domain/goal"
	"growvest-backend/internal/usecase/goal"
)

type GoalHandler struct {
	uc  *goal.Usecase
	log *zap.Logger
}

func NewGoalHandler(uc *goal.Usecase, log *zap.Logger) *GoalHandler {
	return &GoalHandler{uc: uc, log: nopIfNil(log)}
}

type createGoalReq struct {
	Title               string   `json:"title"               validate:"required"`
	TargetAmount        float64  `json:"targetAmount"        validate:"gt=0,dec2"`
	CurrentAmount       float64  `json:"currentAmount"       validate:"gte=0,dec2"`
	Timeline            int      `json:"timeline"            validate:"gte=1,lte=100"`
	Category            string   `json:"category"            validate:"required,category"`
	RiskLevel           string   `json:"riskLevel"           validate:"required,risk"`
	MonthlyContribution *float64 `json:"monthlyContribution" validate:"omitempty,gte=0"`
	Description         string   `json:"description"`
}

type updateGoalReq struct {
	Title                   *string  `json:"title"               validate:"omitempty,min=1"`
	TargetAmount            *float64 `json:"targetAmount"        validate:"omitempty,gt=0,dec2"`
	CurrentAmount           *float64 `json:"currentAmount"       validate:"omitempty,gte=0,dec2"`
	Timeline                *int     `json:"timeline"            validate:"omitempty,gte=1,lte=100"`
	Category                *string  `json:"category"            validate:"omitempty,category"`
	RiskLevel               *string  `json:"riskLevel"           validate:"omitempty,risk"`
	MonthlyContribution     *float64 `json:"monthlyContribution" validate:"omitempty,gte=0"`
	Description             *string  `json:"description"`
	RecalculateContribution bool     `json:"recalculateContribution"`
}

type listGoalsReq struct {
	Size     string `query:"size"     validate:"omitempty,oneof=micro macro"`
	Category string `query:"category"`
	Order    string `query:"order"    validate:"omitempty,oneof=asc desc"`
}

type validateCurrentReq struct {
	CurrentAmount float64 `json:"currentAmount" validate:"gte=0,dec2"`
}

func (h *GoalHandler) List(c echo.Context) error {
	var req listGoalsReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	ctx := c.Request().Context()

	if req.Size == "" {
		goals, err := h.uc.GetGoals(ctx)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(http.StatusOK, goals)
	}
	goals, err := h.uc.FilterGoals(ctx, goal.FilterInput{
		Size:     domain.Size(req.Size),
		Category: req.Category,
		Order:    goal.SortOrder(req.Order),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, goals)
}

func (h *GoalHandler) Categories(c echo.Context) error {
	size := domain.Size(c.QueryParam("size"))
	if !size.Valid() {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: []FieldError{
			{Field: "size", Message: "must be one of micro macro"},
		}})
	}
	return c.JSON(http.StatusOK, goal.CategoriesFor(size))
}

func (h *GoalHandler) Create(c echo.Context) error {
	var req createGoalReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	g, err := h.uc.AddGoal(c.Request().Context(), goal.AddGoalInput{
		Title:               req.Title,
		TargetAmount:        req.TargetAmount,
		CurrentAmount:       req.CurrentAmount,
		Timeline:            req.Timeline,
		Category:            domain.Category(req.Category),
		RiskLevel:           domain.RiskLevel(req.RiskLevel),
		Description:         req.Description,
		MonthlyContribution: req.MonthlyContribution,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, g)
}

func (h *GoalHandler) Update(c echo.Context) error {
	goalID := c.Param("goal_id")
	if goalID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing goal_id path param"})
	}
	var req updateGoalReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	in := goal.UpdateGoalInput{
		ID:                      goalID,
		Title:                   req.Title,
		TargetAmount:            req.TargetAmount,
		CurrentAmount:           req.CurrentAmount,
		Timeline:                req.Timeline,
		MonthlyContribution:     req.MonthlyContribution,
		Description:             req.Description,
		RecalculateContribution: req.RecalculateContribution,
	}
	if req.Category != nil {
		cat := domain.Category(*req.Category)
		in.Category = &cat
	}
	if req.RiskLevel != nil {
		risk := domain.RiskLevel(*req.RiskLevel)
		in.RiskLevel = &risk
	}
	g, err := h.uc.UpdateGoal(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GoalHandler) Delete(c echo.Context) error {
	if err := h.uc.DeleteGoal(c.Request().Context(), c.Param("goal_id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *GoalHandler) ValidateCurrent(c echo.Context) error {
	var req validateCurrentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	maxIncrement, err := h.uc.ValidateCurrentAmount(c.Request().Context(), c.Param("goal_id"), req.CurrentAmount)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"valid":        true,
		"maxIncrement": maxIncrement,
	})
}
