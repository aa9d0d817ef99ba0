package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type IdempotencyConfig struct {
	// TTL of a completed entry.
	TTL time.Duration
	// LockTTL bounds how long a crashed request can hold its key.
	LockTTL time.Duration
	// MaxSkew is the accepted distance between Ax-Request-At and now.
	MaxSkew time.Duration
	Prefix  string
	Now     func() time.Time
}

func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     5 * time.Minute,
		LockTTL: 60 * time.Second,
		MaxSkew: 10 * time.Minute,
		Prefix:  "idemp:growvest:",
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

func (c IdempotencyConfig) withDefaults() IdempotencyConfig {
	d := DefaultIdempotencyConfig()
	if c.TTL <= 0 {
		c.TTL = d.TTL
	}
	if c.LockTTL <= 0 {
		c.LockTTL = d.LockTTL
	}
	if c.MaxSkew <= 0 {
		c.MaxSkew = d.MaxSkew
	}
	if c.Prefix == "" {
		c.Prefix = d.Prefix
	}
	if c.Now == nil {
		c.Now = d.Now
	}
	return c
}

type capture struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *capture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *capture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

type problem struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func reject(c echo.Context, code int, kind, msg string) error {
	return c.JSON(code, problem{Error: kind, Message: msg})
}

// Idempotency deduplicates mutating requests by Ax-Request-Id. The first
// request with an id runs the handler and its response is kept for cfg.TTL;
// retries with the same body get that response back, retries with another
// body or while the first is still running get 409. 5xx responses are
// dropped so the client may retry them.
func Idempotency(rdb *redis.Client, cfg IdempotencyConfig, log *zap.Logger) echo.MiddlewareFunc {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("idempotency")
	l := &ledger{rdb: rdb, prefix: cfg.Prefix, lockTTL: cfg.LockTTL, ttl: cfg.TTL}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			meta, err := readMeta(req.Header, cfg.Now(), cfg.MaxSkew)
			if err != nil {
				return reject(c, http.StatusBadRequest, "invalid_idempotency_headers", err.Error())
			}

			var body []byte
			if req.Body != nil {
				if body, err = io.ReadAll(req.Body); err != nil {
					return reject(c, http.StatusBadRequest, "invalid_body", "could not read request body")
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			fp := fingerprint(body)

			key := l.key(req.Method, c.Path(), meta.ID)
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			pending := entry{
				Route:       c.Path(),
				Fingerprint: fp,
				RequestID:   meta.ID,
				RequestAtMS: meta.At.UnixMilli(),
				StoredAt:    cfg.Now(),
			}
			ok, err := l.reserve(ctx, key, pending)
			if err != nil {
				log.Error("idempotency store unavailable", zap.String("key", key), zap.Error(err))
				return reject(c, http.StatusServiceUnavailable, "idempotency_unavailable", "idempotency store unavailable")
			}
			if !ok {
				return replay(ctx, c, l, key, fp, log)
			}

			w := &capture{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may already be done once the handler returned
			bg := context.Background()
			if w.status >= http.StatusInternalServerError {
				if err := l.release(bg, key); err != nil {
					log.Warn("release idempotency key", zap.String("key", key), zap.Error(err))
				}
				return nil
			}
			done := pending
			done.Status = w.status
			done.Body = w.buf.Bytes()
			done.StoredAt = cfg.Now()
			if err := l.complete(bg, key, done); err != nil {
				log.Warn("store idempotent response", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}

func replay(ctx context.Context, c echo.Context, l *ledger, key, fp string, log *zap.Logger) error {
	prev, err := l.load(ctx, key)
	if err != nil {
		log.Warn("load idempotency entry", zap.String("key", key), zap.Error(err))
	}
	if prev.Fingerprint != "" && prev.Fingerprint != fp {
		return reject(c, http.StatusConflict, "idempotency_key_reused", HeaderRequestID+" reused with a different body")
	}
	if prev.Pending || prev.Status == 0 {
		return reject(c, http.StatusConflict, "request_in_progress", "request is already in progress")
	}
	log.Debug("replaying stored response", zap.String("key", key), zap.Int("status", prev.Status))
	c.Response().Header().Set(HeaderReplayed, "true")
	return c.Blob(prev.Status, echo.MIMEApplicationJSON, prev.Body)
}
