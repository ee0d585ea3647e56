package config

const EnvPrefix = "COUPONS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "COUPONS_APP_ENV"
	EnvPort     = "COUPONS_APP_PORT"
	EnvLogLevel = "COUPONS_LOG_LEVEL"
	EnvLogFmt   = "COUPONS_LOG_FORMAT"

	EnvDBDSN      = "COUPONS_DB_DSN"
	EnvDBHost     = "COUPONS_DB_HOST"
	EnvDBPort     = "COUPONS_DB_PORT"
	EnvDBUser     = "COUPONS_DB_USER"
	EnvDBPassword = "COUPONS_DB_PASSWORD"
	EnvDBName     = "COUPONS_DB_NAME"

	EnvRedisURL = "COUPONS_REDIS_URL"

	EnvUseSQLite   = "COUPONS_USE_SQLITE"
	EnvAutoMigrate = "COUPONS_AUTO_MIGRATE"

	EnvRateLimitWindow = "COUPONS_RATE_LIMIT_WINDOW"
	EnvRateLimit       = "COUPONS_RATE_LIMIT_EVALUATIONS"

	EnvCORSAllowedOrigins = "COUPONS_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
