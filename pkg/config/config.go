package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	DB       DBConfig
	Redis    RedisConfig
	Session  SessionConfig
	CORS     CORSConfig
	Checkout CheckoutConfig
	Forms    FormsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.Driver == StorageDriverRedis && !cfg.Redis.Configured() {
		return nil, fmt.Errorf("%s or %s is required for the redis storage driver", EnvRedisURL, EnvRedisAddr)
	}
	if cfg.Storage.Driver == StorageDriverSQL {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHADOW_APP_ENV" required:"true"`
	Port         string `envconfig:"SHADOW_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHADOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHADOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the backend that holds session-scoped storage.
type StorageConfig struct {
	Driver      string        `envconfig:"SHADOW_STORAGE_DRIVER" default:"memory"`
	TTL         time.Duration `envconfig:"SHADOW_STORAGE_TTL" default:"720h"`
	AutoMigrate bool          `envconfig:"SHADOW_STORAGE_AUTO_MIGRATE" default:"false"`

	// PurgeInterval paces the expired-entry sweep of the sql driver.
	PurgeInterval time.Duration `envconfig:"SHADOW_STORAGE_PURGE_INTERVAL" default:"1h"`
}

func (s StorageConfig) validate() error {
	switch s.Driver {
	case StorageDriverMemory, StorageDriverRedis, StorageDriverSQL:
		return nil
	}
	return fmt.Errorf("%s must be one of %s, %s, %s", EnvStorageDriver, StorageDriverMemory, StorageDriverRedis, StorageDriverSQL)
}

type DBConfig struct {
	DSN    string `envconfig:"SHADOW_DB_DSN"`
	Driver string `envconfig:"SHADOW_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SHADOW_DB_HOST"`
	Port     int    `envconfig:"SHADOW_DB_PORT" default:"5432"`
	User     string `envconfig:"SHADOW_DB_USER"`
	Password string `envconfig:"SHADOW_DB_PASSWORD"`
	Name     string `envconfig:"SHADOW_DB_NAME"`
	SSLMode  string `envconfig:"SHADOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHADOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHADOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHADOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHADOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// SlowQuery logs statements slower than this at warn; 0 disables it.
	SlowQuery time.Duration `envconfig:"SHADOW_DB_SLOW_QUERY" default:"200ms"`
}

// IsSQLite reports whether the configured SQL driver is sqlite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SHADOW_REDIS_URL"`
	Address      string        `envconfig:"SHADOW_REDIS_ADDR"`
	Password     string        `envconfig:"SHADOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHADOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHADOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHADOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHADOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHADOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHADOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether a Redis endpoint was supplied.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

type SessionConfig struct {
	Secret     string        `envconfig:"SHADOW_SESSION_SECRET" required:"true"`
	Issuer     string        `envconfig:"SHADOW_SESSION_ISSUER" default:"shadowstrength"`
	CookieName string        `envconfig:"SHADOW_SESSION_COOKIE" default:"ss_session"`
	TTL        time.Duration `envconfig:"SHADOW_SESSION_TTL" default:"720h"`
	Secure     bool          `envconfig:"SHADOW_SESSION_SECURE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SHADOW_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type CheckoutConfig struct {
	CompletionRedirect string `envconfig:"SHADOW_CHECKOUT_REDIRECT" default:"index.html"`
}

// FormsConfig throttles the demo forms. Limits apply only with Redis configured.
type FormsConfig struct {
	RateWindow time.Duration `envconfig:"SHADOW_FORMS_RATE_WINDOW" default:"10m"`
	IPLimit    int           `envconfig:"SHADOW_FORMS_IP_LIMIT" default:"20"`
	EmailLimit int           `envconfig:"SHADOW_FORMS_EMAIL_LIMIT" default:"5"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbHostEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
