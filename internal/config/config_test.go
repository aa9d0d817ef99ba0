package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "STORE_DRIVER", "REDIS_ADDR", "REBALANCE_OVERFLOW", "REBALANCE_MICRO_ONLY", "IDEMPOTENCY_TTL_SECONDS"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.AppPort != "8080" || c.StoreDriver != DriverSQLite || c.IdempTTLSecs != 300 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.RebalanceOverflow != "cap" || !c.RebalanceMicroOnly {
		t.Fatalf("unexpected rebalance defaults: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MySQL")
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("MYSQL_PORT", "3307")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REBALANCE_MICRO_ONLY", "false")
	t.Setenv("REBALANCE_OVERFLOW", "discard")
	t.Setenv("LOG_DEVELOPMENT", "true")

	c := Load()
	if c.StoreDriver != DriverMySQL || c.RedisDB != 3 || c.RebalanceMicroOnly || !c.LogDevelopment {
		t.Fatalf("env not applied: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if dsn := c.MySQLDSN(); !strings.Contains(dsn, "@tcp(db.internal:3307)/growvest?") {
		t.Fatalf("dsn = %s", dsn)
	}
}

func TestValidate_Errors(t *testing.T) {
	base := func() *Config {
		return &Config{AppPort: "8080", StoreDriver: DriverMemory, RebalanceOverflow: "cap", IdempTTLSecs: 60}
	}
	cases := map[string]func(c *Config){
		"no port":        func(c *Config) { c.AppPort = "" },
		"unknown driver": func(c *Config) { c.StoreDriver = "postgres" },
		"redis no addr":  func(c *Config) { c.StoreDriver = DriverRedis },
		"sqlite no path": func(c *Config) { c.StoreDriver = DriverSQLite },
		"mysql bad port": func(c *Config) {
			c.StoreDriver = DriverMySQL
			c.MySQLHost, c.MySQLDB, c.MySQLUser, c.MySQLPort = "h", "d", "u", "not-a-port"
		},
		"bad overflow": func(c *Config) { c.RebalanceOverflow = "spill" },
		"bad ttl":      func(c *Config) { c.IdempTTLSecs = 0 },
	}
	if err := base().Validate(); err != nil {
		t.Fatalf("base config should validate: %v", err)
	}
	for name, mut := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mut(c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("GROWVEST_TEST_KEY=from-file\nAPP_PORT=9999\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_PORT", "7000")
	t.Setenv("GROWVEST_TEST_KEY", "")
	os.Unsetenv("GROWVEST_TEST_KEY")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("GROWVEST_TEST_KEY"); got != "from-file" {
		t.Fatalf("GROWVEST_TEST_KEY = %q", got)
	}
	if got := os.Getenv("APP_PORT"); got != "7000" {
		t.Fatalf("existing env must win, APP_PORT = %q", got)
	}
}
