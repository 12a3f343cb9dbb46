package config

const EnvPrefix = "KITCHENOPS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv                 = "KITCHENOPS_APP_ENV"
	EnvLogLevel               = "KITCHENOPS_LOG_LEVEL"
	EnvDBDSN                  = "KITCHENOPS_DB_DSN"
	EnvDBDriver               = "KITCHENOPS_DB_DRIVER"
	EnvDBHost                 = "KITCHENOPS_DB_HOST"
	EnvDBPort                 = "KITCHENOPS_DB_PORT"
	EnvDBUser                 = "KITCHENOPS_DB_USER"
	EnvDBPassword             = "KITCHENOPS_DB_PASSWORD"
	EnvDBName                 = "KITCHENOPS_DB_NAME"
	EnvRedisURL               = "KITCHENOPS_REDIS_URL"
	EnvAggregateTTL           = "KITCHENOPS_AGGREGATE_TTL"
	EnvRecomputeInterval      = "KITCHENOPS_AGGREGATE_RECOMPUTE_INTERVAL"
	EnvProductionTimezone     = "KITCHENOPS_PRODUCTION_TIMEZONE"
	EnvPartialDeductionPolicy = "KITCHENOPS_PARTIAL_DEDUCTION_POLICY"
	EnvCurrency               = "KITCHENOPS_CURRENCY"
	EnvLocale                 = "KITCHENOPS_LOCALE"
	EnvPriceChangeThreshold   = "KITCHENOPS_PRICE_CHANGE_THRESHOLD"
	EnvPriceStaleZeroGuard    = "KITCHENOPS_PRICE_STALE_ZERO_GUARD"
	EnvAutoMigrate            = "KITCHENOPS_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
