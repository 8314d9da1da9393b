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
	Idempotency   IdempotencyConfig
	Cron          CronConfig
	Outbox        OutboxConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"MEDISTORE_APP_ENV" required:"true"`
	Port           string   `envconfig:"MEDISTORE_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"MEDISTORE_LOG_LEVEL" default:"info"`
	LogFormat      string   `envconfig:"MEDISTORE_LOG_FORMAT" default:"json"`
	LogWarnStack   bool     `envconfig:"MEDISTORE_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"MEDISTORE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"MEDISTORE_DB_DSN"`
	Driver string `envconfig:"MEDISTORE_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"MEDISTORE_DB_HOST"`
	Port     int    `envconfig:"MEDISTORE_DB_PORT" default:"5432"`
	User     string `envconfig:"MEDISTORE_DB_USER"`
	Password string `envconfig:"MEDISTORE_DB_PASSWORD"`
	Name     string `envconfig:"MEDISTORE_DB_NAME"`
	SSLMode  string `envconfig:"MEDISTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEDISTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEDISTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEDISTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEDISTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MEDISTORE_REDIS_URL"`
	Address      string        `envconfig:"MEDISTORE_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"MEDISTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEDISTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEDISTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEDISTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEDISTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEDISTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEDISTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MEDISTORE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MEDISTORE_JWT_ISSUER" default:"medistore"`
	ExpirationMinutes int    `envconfig:"MEDISTORE_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MEDISTORE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MEDISTORE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MEDISTORE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MEDISTORE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MEDISTORE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MEDISTORE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MEDISTORE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MEDISTORE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MEDISTORE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MEDISTORE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MEDISTORE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"MEDISTORE_IDEMPOTENCY_TTL" default:"24h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"MEDISTORE_CRON_INTERVAL" default:"30s"`
	LockTTL  time.Duration `envconfig:"MEDISTORE_CRON_LOCK_TTL" default:"2m"`
}

type OutboxConfig struct {
	BatchSize   int           `envconfig:"MEDISTORE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	MaxAttempts int           `envconfig:"MEDISTORE_OUTBOX_MAX_ATTEMPTS" default:"10"`
	Retention   time.Duration `envconfig:"MEDISTORE_OUTBOX_RETENTION" default:"168h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MEDISTORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MEDISTORE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN(sqlite bool) error {
	if db.DSN != "" {
		return nil
	}
	if sqlite {
		db.DSN = "file:medistore.db?cache=shared&_busy_timeout=5000"
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
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
