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
	RateLimit     RateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Stripe        StripeConfig
	Ads           AdsConfig
	Sendgrid      SendgridConfig
	Notifier      NotifierConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Ads.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"BABYDEALS_APP_ENV" required:"true"`
	Port         string   `envconfig:"BABYDEALS_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"BABYDEALS_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"BABYDEALS_LOG_WARN_STACK" default:"false"`
	PublicOrigin string   `envconfig:"BABYDEALS_PUBLIC_ORIGIN" default:"http://localhost:5173"`
	CORSOrigins  []string `envconfig:"BABYDEALS_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Origin returns the public web origin without a trailing slash.
func (a AppConfig) Origin() string {
	return strings.TrimRight(strings.TrimSpace(a.PublicOrigin), "/")
}

type DBConfig struct {
	DSN    string `envconfig:"BABYDEALS_DB_DSN"`
	Driver string `envconfig:"BABYDEALS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BABYDEALS_DB_HOST"`
	LegacyPort     int    `envconfig:"BABYDEALS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BABYDEALS_DB_USER"`
	LegacyPassword string `envconfig:"BABYDEALS_DB_PASSWORD"`
	LegacyName     string `envconfig:"BABYDEALS_DB_NAME"`
	LegacySSLMode  string `envconfig:"BABYDEALS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BABYDEALS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BABYDEALS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BABYDEALS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BABYDEALS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BABYDEALS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BABYDEALS_REDIS_ADDR"`
	Password     string        `envconfig:"BABYDEALS_REDIS_PASSWORD"`
	DB           int           `envconfig:"BABYDEALS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BABYDEALS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BABYDEALS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BABYDEALS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BABYDEALS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BABYDEALS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BABYDEALS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BABYDEALS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BABYDEALS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BABYDEALS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BABYDEALS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BABYDEALS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BABYDEALS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BABYDEALS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BABYDEALS_ARGON_KEY_LEN" default:"32"`
}

// AuthRateLimitConfig throttles the sign in, sign up and contact forms.
type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BABYDEALS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BABYDEALS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BABYDEALS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BABYDEALS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BABYDEALS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BABYDEALS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	ContactWindow      time.Duration `envconfig:"BABYDEALS_CONTACT_RATE_LIMIT_WINDOW" default:"10m"`
	ContactEmailLimit  int           `envconfig:"BABYDEALS_CONTACT_RATE_LIMIT_EMAIL_LIMIT" default:"3"`
	ContactIPLimit     int           `envconfig:"BABYDEALS_CONTACT_RATE_LIMIT_IP_LIMIT" default:"10"`
}

// RateLimitConfig throttles the unauthenticated public API per client IP.
type RateLimitConfig struct {
	PublicRPS   float64       `envconfig:"BABYDEALS_PUBLIC_RATE_LIMIT_RPS" default:"10"`
	PublicBurst int           `envconfig:"BABYDEALS_PUBLIC_RATE_LIMIT_BURST" default:"30"`
	IdleTTL     time.Duration `envconfig:"BABYDEALS_PUBLIC_RATE_LIMIT_IDLE_TTL" default:"10m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BABYDEALS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BABYDEALS_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	APIKey     string `envconfig:"BABYDEALS_STRIPE_API_KEY"`
	Secret     string `envconfig:"BABYDEALS_STRIPE_SECRET"`
	Env        string `envconfig:"BABYDEALS_STRIPE_ENV" default:"test"`
	Currency   string `envconfig:"BABYDEALS_STRIPE_CURRENCY" default:"usd"`
	SuccessURL string `envconfig:"BABYDEALS_STRIPE_SUCCESS_URL"`
	CancelURL  string `envconfig:"BABYDEALS_STRIPE_CANCEL_URL"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

// AdsConfig prices homepage banner placements.
type AdsConfig struct {
	DayRateCents int64 `envconfig:"BABYDEALS_ADS_DAY_RATE_CENTS" default:"1000"`
	MaxDays      int   `envconfig:"BABYDEALS_ADS_MAX_DAYS" default:"90"`
}

func (a AdsConfig) validate() error {
	if a.DayRateCents <= 0 {
		return fmt.Errorf("%s must be positive", EnvAdsDayRate)
	}
	if a.MaxDays <= 0 {
		return fmt.Errorf("%s must be positive", EnvAdsMaxDays)
	}
	return nil
}

type SendgridConfig struct {
	APIKey      string `envconfig:"BABYDEALS_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"BABYDEALS_SENDGRID_FROM_EMAIL" default:"noreply@babydeals.app"`
	FromName    string `envconfig:"BABYDEALS_SENDGRID_FROM_NAME" default:"Baby Deals"`
}

type NotifierConfig struct {
	BatchSize      int    `envconfig:"BABYDEALS_NOTIFIER_BATCH_SIZE" default:"50"`
	PollIntervalMS int    `envconfig:"BABYDEALS_NOTIFIER_POLL_MS" default:"1000"`
	MaxAttempts    int    `envconfig:"BABYDEALS_NOTIFIER_MAX_ATTEMPTS" default:"10"`
	MetricsPort    string `envconfig:"BABYDEALS_NOTIFIER_METRICS_PORT" default:"9091"`
}

// PollInterval returns the poll interval, falling back to one second.
func (n NotifierConfig) PollInterval() time.Duration {
	if n.PollIntervalMS <= 0 {
		return time.Second
	}
	return time.Duration(n.PollIntervalMS) * time.Millisecond
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
