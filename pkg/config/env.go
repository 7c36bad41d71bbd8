package config

// EnvPrefix is the envconfig prefix shared by every MARKETA_* variable.
const EnvPrefix = "marketa"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "MARKETA_APP_ENV"
	EnvPort       = "MARKETA_APP_PORT"
	EnvDBDSN      = "MARKETA_DB_DSN"
	EnvDBHost     = "MARKETA_DB_HOST"
	EnvDBUser     = "MARKETA_DB_USER"
	EnvDBName     = "MARKETA_DB_NAME"
	EnvRedisURL   = "MARKETA_REDIS_URL"
	EnvJWTSecret  = "MARKETA_JWT_SECRET"
	EnvJWTIssuer  = "MARKETA_JWT_ISSUER"
	EnvJWTExpMins = "MARKETA_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
