package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Config struct {
	AppPort string

	// StoreDriver selects the record store backend.
	StoreDriver string
	SQLitePath  string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisPass string
	RedisDB   int

	IdempTTLSecs int

	LogLevel       string
	LogDevelopment bool

	RebalanceOverflow  string
	RebalanceMicroOnly bool
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

// LoadDotEnv reads .env files into the process environment without
// overriding variables that are already set. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := files[:0:0]
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func Load() *Config {
	return &Config{
		AppPort:     getenv("APP_PORT", "8080"),
		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", DriverSQLite)),
		SQLitePath:  getenv("SQLITE_PATH", "growvest.db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "growvest"),
		MySQLUser: getenv("MYSQL_USER", "growvest"),
		MySQLPass: getenv("MYSQL_PASS", "growvest"),

		RedisAddr: getenv("REDIS_ADDR", ""),
		RedisPass: getenv("REDIS_PASSWORD", ""),
		RedisDB:   getenvInt("REDIS_DB", 0),

		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogDevelopment: getenvBool("LOG_DEVELOPMENT", false),

		RebalanceOverflow:  strings.ToLower(getenv("REBALANCE_OVERFLOW", "cap")),
		RebalanceMicroOnly: getenvBool("REBALANCE_MICRO_ONLY", true),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.StoreDriver {
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			return errors.New("STORE_DRIVER=redis requires REDIS_ADDR")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want mysql, sqlite, redis or memory)", c.StoreDriver)
	}
	switch c.RebalanceOverflow {
	case "cap", "discard":
	default:
		return fmt.Errorf("invalid REBALANCE_OVERFLOW %q (want cap or discard)", c.RebalanceOverflow)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
