package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health    *Handler
	Goals     *GoalHandler
	Transfers *TransferHandler
	Analytics *AnalyticsHandler
	Profile   *ProfileHandler
	Tools     *ToolsHandler
}

// Register mounts every route on e. transferMW wraps the transfer endpoints
// only (idempotency when redis is configured).
func Register(e *echo.Echo, h Handlers, transferMW ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	e.GET("/profile", h.Profile.GetProfile)
	e.PUT("/profile", h.Profile.SaveProfile)
	e.GET("/subscription", h.Profile.GetSubscription)
	e.PUT("/subscription/plan", h.Profile.ChangePlan)

	g := e.Group("/goals")
	g.GET("", h.Goals.List)
	g.GET("/categories", h.Goals.Categories)
	g.POST("", h.Goals.Create)
	g.PATCH("/:goal_id", h.Goals.Update)
	g.DELETE("/:goal_id", h.Goals.Delete)
	g.POST("/:goal_id/validate-current", h.Goals.ValidateCurrent)

	t := e.Group("/transfers", transferMW...)
	t.POST("/rebalance", h.Transfers.Rebalance)
	t.POST("/emergency-fund", h.Transfers.EmergencyFund)
	t.POST("/finance", h.Transfers.Finance)

	a := e.Group("/analytics")
	a.GET("/overview", h.Analytics.Overview)
	a.GET("/remaining-capacity", h.Analytics.RemainingCapacity)
	a.GET("/remaining-savings", h.Analytics.RemainingSavings)

	e.GET("/calculator/contribution", h.Tools.Contribution)
	e.GET("/currency/format", h.Tools.Format)
	e.GET("/currency/parse", h.Tools.Parse)
}
