package main

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadp "growvest-backend/internal/adapter/http"
	idemp "growvest-backend/internal/adapter/middleware"
	"growvest-backend/internal/adapter/repository/gormrepo"
	"growvest-backend/internal/adapter/repository/memory"
	"growvest-backend/internal/adapter/repository/recordrepo"
	"growvest-backend/internal/adapter/repository/redisrepo"
	"growvest-backend/internal/config"
	"growvest-backend/internal/domain/uow"
	"growvest-backend/internal/infrastructure/cache"
	"growvest-backend/internal/infrastructure/db"
	"growvest-backend/internal/usecase/analytics"
	"growvest-backend/internal/usecase/goal"
	"growvest-backend/internal/usecase/profile"
	"growvest-backend/internal/usecase/subscription"
	"growvest-backend/internal/usecase/transfer"
	"growvest-backend/pkg/id"
)

const redisPrefix = "growvest"

type store struct {
	tx    uow.UnitOfWork
	ping  httpadp.Pinger
	close func()
}

func openStore(cfg *config.Config, rdb *redis.Client) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverMySQL, config.DriverSQLite:
		var (
			gdb *gorm.DB
			err error
		)
		if cfg.StoreDriver == config.DriverMySQL {
			gdb, err = db.OpenGorm(cfg.MySQLDSN())
		} else {
			gdb, err = db.OpenSQLite(cfg.SQLitePath)
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.StoreDriver, err)
		}
		if err := gormrepo.Migrate(gdb); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		return &store{
			tx:    gormrepo.NewUoW(gdb),
			ping:  sqlDB.PingContext,
			close: func() { _ = sqlDB.Close() },
		}, nil
	case config.DriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis store requires a redis client")
		}
		return &store{
			tx:    recordrepo.NewLockingUoW(redisrepo.NewRecordStore(rdb, redisPrefix)),
			ping:  func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			close: func() {},
		}, nil
	default:
		return &store{
			tx:    recordrepo.NewLockingUoW(memory.NewRecordStore()),
			close: func() {},
		}, nil
	}
}

// newServer builds the echo server and returns a cleanup that releases the
// store and redis connections.
func newServer(cfg *config.Config, log *zap.Logger) (*echo.Echo, func(), error) {
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		c, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis: %w", err)
		}
		rdb = c
	}

	st, err := openStore(cfg, rdb)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, nil, err
	}
	cleanup := func() {
		st.close()
		if rdb != nil {
			_ = rdb.Close()
		}
	}

	transferCfg := transfer.Config{
		Overflow:  transfer.OverflowPolicy(cfg.RebalanceOverflow),
		MicroOnly: cfg.RebalanceMicroOnly,
	}

	h := httpadp.Handlers{
		Health:    httpadp.NewHandler(st.ping),
		Goals:     httpadp.NewGoalHandler(goal.NewUsecase(st.tx, log), log),
		Transfers: httpadp.NewTransferHandler(transfer.NewUsecase(st.tx, transferCfg, log), log),
		Analytics: httpadp.NewAnalyticsHandler(analytics.NewUsecase(st.tx, log), log),
		Profile: httpadp.NewProfileHandler(
			profile.NewUsecase(st.tx, log),
			subscription.NewUsecase(st.tx, log),
			log,
		),
		Tools: httpadp.NewToolsHandler(),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		middleware.Recover(),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: id.NewHex32}),
		requestLogger(log),
	)

	var transferMW []echo.MiddlewareFunc
	if rdb != nil {
		icfg := idemp.DefaultIdempotencyConfig()
		icfg.TTL = time.Duration(cfg.IdempTTLSecs) * time.Second
		transferMW = append(transferMW, idemp.Idempotency(rdb, icfg, log))
	} else {
		log.Warn("redis not configured, transfer idempotency disabled")
	}
	httpadp.Register(e, h, transferMW...)

	return e, cleanup, nil
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}
