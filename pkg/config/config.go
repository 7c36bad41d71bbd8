package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Pricing       PricingConfig
	CategoryCache CategoryCacheConfig
	LegacyBackend LegacyBackendConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MARKETA_APP_ENV" required:"true"`
	Port         string `envconfig:"MARKETA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MARKETA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MARKETA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MARKETA_DB_DSN"`
	Driver string `envconfig:"MARKETA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MARKETA_DB_HOST"`
	LegacyPort     int    `envconfig:"MARKETA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MARKETA_DB_USER"`
	LegacyPassword string `envconfig:"MARKETA_DB_PASSWORD"`
	LegacyName     string `envconfig:"MARKETA_DB_NAME"`
	LegacySSLMode  string `envconfig:"MARKETA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MARKETA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MARKETA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MARKETA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MARKETA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MARKETA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MARKETA_REDIS_ADDR"`
	Password     string        `envconfig:"MARKETA_REDIS_PASSWORD"`
	DB           int           `envconfig:"MARKETA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MARKETA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MARKETA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MARKETA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MARKETA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MARKETA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MARKETA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MARKETA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MARKETA_JWT_EXPIRATION_MINUTES" required:"true"`
	CookieName        string `envconfig:"MARKETA_JWT_COOKIE_NAME" default:"marketa_session"`
	CookieSecure      bool   `envconfig:"MARKETA_JWT_COOKIE_SECURE" default:"true"`
}

// AccessTokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MARKETA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MARKETA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MARKETA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MARKETA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MARKETA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"MARKETA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"MARKETA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"MARKETA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"MARKETA_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"MARKETA_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"MARKETA_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MARKETA_AUTO_MIGRATE" default:"false"`
}

// PricingConfig carries the display-price parameters. ExchangeRate is the
// CNY→USD rate; MarkupPercent is the storefront margin. Both are decimal
// strings so the converter never touches binary floats.
type PricingConfig struct {
	ExchangeRate  string `envconfig:"MARKETA_PRICING_EXCHANGE_RATE" default:"0.14"`
	MarkupPercent string `envconfig:"MARKETA_PRICING_MARKUP_PERCENT" default:"15"`
	USDCurrencyID int64  `envconfig:"MARKETA_PRICING_USD_CURRENCY_ID" default:"2"`
}

type CategoryCacheConfig struct {
	TreeTTL     time.Duration `envconfig:"MARKETA_CATEGORY_TREE_CACHE_TTL" default:"5m"`
	ExcludedTTL time.Duration `envconfig:"MARKETA_CATEGORY_EXCLUDED_CACHE_TTL" default:"5m"`
}

type LegacyBackendConfig struct {
	BaseURL          string        `envconfig:"MARKETA_LEGACY_BACKEND_URL"`
	CacheSecret      string        `envconfig:"MARKETA_LEGACY_CACHE_SECRET"`
	PushTimeout      time.Duration `envconfig:"MARKETA_LEGACY_PUSH_TIMEOUT" default:"10s"`
	CacheBustTimeout time.Duration `envconfig:"MARKETA_LEGACY_CACHE_BUST_TIMEOUT" default:"5s"`
	ShippingTimeout  time.Duration `envconfig:"MARKETA_LEGACY_SHIPPING_TIMEOUT" default:"10s"`
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
