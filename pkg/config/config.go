package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		if cfg.App.IsProd() {
			return nil, fmt.Errorf("%s is not allowed when %s=%s", EnvUseSQLite, EnvAppEnv, AppEnvProd)
		}
		cfg.DB.Driver = DriverSQLite
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"COUPONS_APP_ENV" required:"true"`
	Port         string `envconfig:"COUPONS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"COUPONS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"COUPONS_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"COUPONS_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"COUPONS_DB_DSN"`
	Driver     string `envconfig:"COUPONS_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"COUPONS_SQLITE_PATH" default:"coupons.db"`

	LegacyHost     string `envconfig:"COUPONS_DB_HOST"`
	LegacyPort     int    `envconfig:"COUPONS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"COUPONS_DB_USER"`
	LegacyPassword string `envconfig:"COUPONS_DB_PASSWORD"`
	LegacyName     string `envconfig:"COUPONS_DB_NAME"`
	LegacySSLMode  string `envconfig:"COUPONS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"COUPONS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"COUPONS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"COUPONS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"COUPONS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional. With neither URL nor Address set the API runs
// without rate limiting.
type RedisConfig struct {
	URL          string        `envconfig:"COUPONS_REDIS_URL"`
	Address      string        `envconfig:"COUPONS_REDIS_ADDR"`
	Password     string        `envconfig:"COUPONS_REDIS_PASSWORD"`
	DB           int           `envconfig:"COUPONS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"COUPONS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"COUPONS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"COUPONS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"COUPONS_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"COUPONS_REDIS_WRITE_TIMEOUT" default:"3s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"COUPONS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"COUPONS_AUTO_MIGRATE" default:"false"`
}

// RateLimitConfig bounds evaluation requests per client IP in a fixed window.
// A zero limit disables the check.
type RateLimitConfig struct {
	Window time.Duration `envconfig:"COUPONS_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"COUPONS_RATE_LIMIT_EVALUATIONS" default:"120"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"COUPONS_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
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
