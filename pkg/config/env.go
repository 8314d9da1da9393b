package config

const (
	EnvPrefix = "MEDISTORE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv      = "MEDISTORE_APP_ENV"
	EnvPort        = "MEDISTORE_APP_PORT"
	EnvLogLevel    = "MEDISTORE_LOG_LEVEL"
	EnvDBDSN       = "MEDISTORE_DB_DSN"
	EnvDBHost      = "MEDISTORE_DB_HOST"
	EnvDBUser      = "MEDISTORE_DB_USER"
	EnvDBName      = "MEDISTORE_DB_NAME"
	EnvRedisAddr   = "MEDISTORE_REDIS_ADDR"
	EnvJWTSecret   = "MEDISTORE_JWT_SECRET"
	EnvJWTIssuer   = "MEDISTORE_JWT_ISSUER"
	EnvJWTExpMins  = "MEDISTORE_JWT_EXPIRATION_MINUTES"
	EnvUseSQLite   = "MEDISTORE_USE_SQLITE"
	EnvAutoMigrate = "MEDISTORE_AUTO_MIGRATE"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
