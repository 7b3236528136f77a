package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "VELOMART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "VELOMART_APP_ENV"
	EnvAppPort  = "VELOMART_APP_PORT"
	EnvRedisURL = "VELOMART_REDIS_URL"
	EnvDBDSN    = "VELOMART_DB_DSN"
	EnvDBHost   = "VELOMART_DB_HOST"
	EnvDBUser   = "VELOMART_DB_USER"
	EnvDBName   = "VELOMART_DB_NAME"
	EnvDBPass   = "VELOMART_DB_PASSWORD"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Locks        LockConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"VELOMART_APP_ENV" required:"true"`
	Port         string `envconfig:"VELOMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VELOMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VELOMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"VELOMART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"VELOMART_DB_DSN"`
	Driver string `envconfig:"VELOMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VELOMART_DB_HOST"`
	LegacyPort     int    `envconfig:"VELOMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VELOMART_DB_USER"`
	LegacyPassword string `envconfig:"VELOMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"VELOMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"VELOMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VELOMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VELOMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VELOMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VELOMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VELOMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VELOMART_REDIS_ADDR"`
	Password     string        `envconfig:"VELOMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"VELOMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VELOMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VELOMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VELOMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VELOMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VELOMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VELOMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VELOMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VELOMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VELOMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VELOMART_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VELOMART_AUTO_MIGRATE" default:"false"`
}

// LockConfig tunes the per-assignment transition lock.
type LockConfig struct {
	LeaseTTL    time.Duration `envconfig:"VELOMART_LOCK_LEASE_TTL" default:"10s"`
	RetryDelay  time.Duration `envconfig:"VELOMART_LOCK_RETRY_DELAY" default:"50ms"`
	MaxAttempts int           `envconfig:"VELOMART_LOCK_MAX_ATTEMPTS" default:"10"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"VELOMART_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"VELOMART_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"VELOMART_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	AssignmentTopic          string `envconfig:"VELOMART_PUBSUB_ASSIGNMENT_TOPIC" default:"vm-assignment-events"`
	AssignmentSubscription   string `envconfig:"VELOMART_PUBSUB_ASSIGNMENT_SUBSCRIPTION"`
	NotificationTopic        string `envconfig:"VELOMART_PUBSUB_NOTIFICATION_TOPIC" default:"vm-notification-events"`
	NotificationSubscription string `envconfig:"VELOMART_PUBSUB_NOTIFICATION_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"VELOMART_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int           `envconfig:"VELOMART_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int           `envconfig:"VELOMART_OUTBOX_MAX_ATTEMPTS" default:"10"`
	IdempotencyTTL time.Duration `envconfig:"VELOMART_OUTBOX_IDEMPOTENCY_TTL" default:"168h"`
	MetricsPort    string        `envconfig:"VELOMART_OUTBOX_METRICS_PORT" default:"9091"`
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
