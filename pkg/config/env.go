package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "SHADOW"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
	StorageDriverSQL    = "sql"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv        = "SHADOW_APP_ENV"
	EnvPort          = "SHADOW_APP_PORT"
	EnvStorageDriver = "SHADOW_STORAGE_DRIVER"
	EnvDBDSN         = "SHADOW_DB_DSN"
	EnvDBDriver      = "SHADOW_DB_DRIVER"
	EnvDBHost        = "SHADOW_DB_HOST"
	EnvDBUser        = "SHADOW_DB_USER"
	EnvDBName        = "SHADOW_DB_NAME"
	EnvRedisURL      = "SHADOW_REDIS_URL"
	EnvRedisAddr     = "SHADOW_REDIS_ADDR"
	EnvSessionSecret = "SHADOW_SESSION_SECRET"
)

var dbHostEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
