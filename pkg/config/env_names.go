package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "FRESHKART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "FRESHKART_APP_ENV"
	EnvPort       = "FRESHKART_APP_PORT"
	EnvRedisURL   = "FRESHKART_REDIS_URL"
	EnvJWTSecret  = "FRESHKART_JWT_SECRET"
	EnvJWTIssuer  = "FRESHKART_JWT_ISSUER"
	EnvJWTExpMins = "FRESHKART_JWT_EXPIRATION_MINUTES"
)

const (
	EnvDBDSN  = "FRESHKART_DB_DSN"
	EnvDBHost = "FRESHKART_DB_HOST"
	EnvDBUser = "FRESHKART_DB_USER"
	EnvDBName = "FRESHKART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
