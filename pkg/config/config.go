package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/kitchenops/pkg/enums"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Production   ProductionConfig
	Pricing      PricingConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Production.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KITCHENOPS_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"KITCHENOPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KITCHENOPS_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"KITCHENOPS_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"KITCHENOPS_SERVICE_KIND" default:"production-worker"`
}

type DBConfig struct {
	DSN    string `envconfig:"KITCHENOPS_DB_DSN"`
	Driver string `envconfig:"KITCHENOPS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KITCHENOPS_DB_HOST"`
	LegacyPort     int    `envconfig:"KITCHENOPS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KITCHENOPS_DB_USER"`
	LegacyPassword string `envconfig:"KITCHENOPS_DB_PASSWORD"`
	LegacyName     string `envconfig:"KITCHENOPS_DB_NAME"`
	LegacySSLMode  string `envconfig:"KITCHENOPS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KITCHENOPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KITCHENOPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KITCHENOPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KITCHENOPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"KITCHENOPS_REDIS_URL"`
	Address      string        `envconfig:"KITCHENOPS_REDIS_ADDR"`
	Password     string        `envconfig:"KITCHENOPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"KITCHENOPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KITCHENOPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KITCHENOPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KITCHENOPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KITCHENOPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KITCHENOPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type ProductionConfig struct {
	AggregateTTL      time.Duration `envconfig:"KITCHENOPS_AGGREGATE_TTL" default:"36h"`
	RecomputeInterval time.Duration `envconfig:"KITCHENOPS_AGGREGATE_RECOMPUTE_INTERVAL" default:"15m"`
	Timezone          string        `envconfig:"KITCHENOPS_PRODUCTION_TIMEZONE" default:"UTC"`
	DeductionPolicy   string        `envconfig:"KITCHENOPS_PARTIAL_DEDUCTION_POLICY" default:"first_event_full"`
}

// Location resolves the configured production timezone.
func (p ProductionConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(p.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", name, err)
	}
	return loc, nil
}

// Policy returns the parsed partial deduction policy.
func (p ProductionConfig) Policy() enums.PartialDeductionPolicy {
	policy, err := enums.ParsePartialDeductionPolicy(strings.TrimSpace(p.DeductionPolicy))
	if err != nil {
		return enums.PartialDeductionFirstEventFull
	}
	return policy
}

func (p ProductionConfig) validate() error {
	if _, err := enums.ParsePartialDeductionPolicy(strings.TrimSpace(p.DeductionPolicy)); err != nil {
		return fmt.Errorf("%s: %w", EnvPartialDeductionPolicy, err)
	}
	if _, err := p.Location(); err != nil {
		return fmt.Errorf("%s: %w", EnvProductionTimezone, err)
	}
	return nil
}

type PricingConfig struct {
	Currency        string  `envconfig:"KITCHENOPS_CURRENCY" default:"MAD"`
	Locale          string  `envconfig:"KITCHENOPS_LOCALE" default:"fr-MA"`
	ChangeThreshold float64 `envconfig:"KITCHENOPS_PRICE_CHANGE_THRESHOLD" default:"0.005"`
	StaleZeroGuard  bool    `envconfig:"KITCHENOPS_PRICE_STALE_ZERO_GUARD" default:"true"`
}

func (p PricingConfig) validate() error {
	if _, err := enums.ParseCurrency(p.Currency); err != nil {
		return fmt.Errorf("%s: %w", EnvCurrency, err)
	}
	if p.ChangeThreshold <= 0 {
		return fmt.Errorf("%s must be positive", EnvPriceChangeThreshold)
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KITCHENOPS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
