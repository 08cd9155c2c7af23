package config

const EnvPrefix = "BABYDEALS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "BABYDEALS_APP_ENV"
	EnvPort                   = "BABYDEALS_APP_PORT"
	EnvLogLevel               = "BABYDEALS_LOG_LEVEL"
	EnvDBDSN                  = "BABYDEALS_DB_DSN"
	EnvDBHost                 = "BABYDEALS_DB_HOST"
	EnvDBUser                 = "BABYDEALS_DB_USER"
	EnvDBName                 = "BABYDEALS_DB_NAME"
	EnvDBPassword             = "BABYDEALS_DB_PASSWORD"
	EnvRedisURL               = "BABYDEALS_REDIS_URL"
	EnvJWTSecret              = "BABYDEALS_JWT_SECRET"
	EnvJWTIssuer              = "BABYDEALS_JWT_ISSUER"
	EnvJWTExpMins             = "BABYDEALS_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "BABYDEALS_REFRESH_TOKEN_TTL_MINUTES"
	EnvAdsDayRate             = "BABYDEALS_ADS_DAY_RATE_CENTS"
	EnvAdsMaxDays             = "BABYDEALS_ADS_MAX_DAYS"
	EnvPublicOrigin           = "BABYDEALS_PUBLIC_ORIGIN"
	EnvCORSOrigins            = "BABYDEALS_CORS_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
