package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger checks that the backing store answers.
type Pinger func(ctx context.Context) error

type Handler struct{ ping Pinger }

// NewHandler builds the health handler; a nil ping reports ok unconditionally.
func NewHandler(ping ...Pinger) *Handler {
	h := &Handler{}
	if len(ping) > 0 {
		h.ping = ping[0]
	}
	return h
}

func (h *Handler) Health(c echo.Context) error {
	body := map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			body["status"] = "degraded"
			body["store"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, body)
		}
	}
	return c.JSON(http.StatusOK, body)
}
