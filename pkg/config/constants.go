package config

// EnvPrefix scopes every environment variable read by Load.
const EnvPrefix = "CONSTRUPLAZA"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                 = "CONSTRUPLAZA_APP_ENV"
	EnvPort                   = "CONSTRUPLAZA_APP_PORT"
	EnvDBDSN                  = "CONSTRUPLAZA_DB_DSN"
	EnvDBHost                 = "CONSTRUPLAZA_DB_HOST"
	EnvDBUser                 = "CONSTRUPLAZA_DB_USER"
	EnvDBName                 = "CONSTRUPLAZA_DB_NAME"
	EnvRedisURL               = "CONSTRUPLAZA_REDIS_URL"
	EnvJWTSecret              = "CONSTRUPLAZA_JWT_SECRET"
	EnvJWTIssuer              = "CONSTRUPLAZA_JWT_ISSUER"
	EnvJWTExpMins             = "CONSTRUPLAZA_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "CONSTRUPLAZA_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
