package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "LENDAHAND"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names shared with tests and deploy tooling.
const (
	EnvAppEnv       = "LENDAHAND_APP_ENV"
	EnvPort         = "LENDAHAND_APP_PORT"
	EnvDBDSN        = "LENDAHAND_DB_DSN"
	EnvDBHost       = "LENDAHAND_DB_HOST"
	EnvDBUser       = "LENDAHAND_DB_USER"
	EnvDBName       = "LENDAHAND_DB_NAME"
	EnvRedisURL     = "LENDAHAND_REDIS_URL"
	EnvGCPProjectID = "LENDAHAND_GCP_PROJECT_ID"
	EnvPubSubTopic  = "LENDAHAND_PUBSUB_DOMAIN_TOPIC"
	EnvPubSubSub    = "LENDAHAND_PUBSUB_DOMAIN_SUBSCRIPTION"
	EnvSOSRadiusKm  = "LENDAHAND_SOS_RADIUS_KM"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	SOS          SOSConfig
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
	Env          string `envconfig:"LENDAHAND_APP_ENV" required:"true"`
	Port         string `envconfig:"LENDAHAND_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LENDAHAND_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LENDAHAND_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LENDAHAND_DB_DSN"`
	Driver string `envconfig:"LENDAHAND_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LENDAHAND_DB_HOST"`
	LegacyPort     int    `envconfig:"LENDAHAND_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LENDAHAND_DB_USER"`
	LegacyPassword string `envconfig:"LENDAHAND_DB_PASSWORD"`
	LegacyName     string `envconfig:"LENDAHAND_DB_NAME"`
	LegacySSLMode  string `envconfig:"LENDAHAND_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LENDAHAND_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LENDAHAND_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LENDAHAND_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LENDAHAND_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LENDAHAND_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LENDAHAND_REDIS_ADDR"`
	Password     string        `envconfig:"LENDAHAND_REDIS_PASSWORD"`
	DB           int           `envconfig:"LENDAHAND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LENDAHAND_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LENDAHAND_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LENDAHAND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LENDAHAND_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LENDAHAND_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LENDAHAND_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LENDAHAND_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"LENDAHAND_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"LENDAHAND_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"LENDAHAND_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"LENDAHAND_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"LENDAHAND_PUBSUB_DOMAIN_TOPIC" required:"true"`
	DomainSubscription string `envconfig:"LENDAHAND_PUBSUB_DOMAIN_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"LENDAHAND_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"LENDAHAND_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"LENDAHAND_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// SOSConfig tunes the emergency alert fan-out.
type SOSConfig struct {
	RadiusKm float64 `envconfig:"LENDAHAND_SOS_RADIUS_KM" default:"5"`
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
