package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PoolOptions struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

var DefaultPool = PoolOptions{
	MaxOpen:     30,
	MaxIdle:     10,
	MaxLifetime: 30 * time.Minute,
	MaxIdleTime: 10 * time.Minute,
}

// sqlite serializes writers, and ":memory:" is per connection.
var SQLitePool = PoolOptions{MaxOpen: 1, MaxIdle: 1}

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

func OpenSQLite(path string) (*gorm.DB, error) {
	return OpenGormWithDialector(sqlite.Open(path), SQLitePool)
}

// OpenGormWithDialector opens gorm over dial, applies the pool (DefaultPool
// unless one is given) and pings exactly once.
func OpenGormWithDialector(dial gorm.Dialector, pool ...PoolOptions) (*gorm.DB, error) {
	p := DefaultPool
	if len(pool) > 0 {
		p = pool[0]
	}
	cfg := &gorm.Config{
		Logger: logger.New(zap.NewStdLog(zap.L().Named("gorm")), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		DisableAutomaticPing: true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(p.MaxOpen)
	sqlDB.SetMaxIdleConns(p.MaxIdle)
	sqlDB.SetConnMaxLifetime(p.MaxLifetime)
	sqlDB.SetConnMaxIdleTime(p.MaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	zap.L().Info("gorm: connected", zap.String("dialect", dial.Name()))
	return db, nil
}
