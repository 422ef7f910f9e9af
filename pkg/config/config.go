package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "LEADFLOW_DB_DSN"
	EnvDBHost = "LEADFLOW_DB_HOST"
	EnvDBUser = "LEADFLOW_DB_USER"
	EnvDBName = "LEADFLOW_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
	OpenAI       OpenAIConfig
	Attribution  AttributionConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = "file::memory:?cache=shared"
		}
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LEADFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"LEADFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LEADFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LEADFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LEADFLOW_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"LEADFLOW_DB_DSN"`
	Driver string `envconfig:"LEADFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LEADFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"LEADFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LEADFLOW_DB_USER"`
	LegacyPassword string `envconfig:"LEADFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"LEADFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"LEADFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LEADFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LEADFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LEADFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LEADFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LEADFLOW_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LEADFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"LEADFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"LEADFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LEADFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LEADFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LEADFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LEADFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LEADFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"LEADFLOW_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LEADFLOW_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LEADFLOW_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"LEADFLOW_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"LEADFLOW_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"LEADFLOW_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	AttributionTopic        string `envconfig:"LEADFLOW_PUBSUB_ATTRIBUTION_TOPIC" default:"lf-attribution-events"`
	AttributionSubscription string `envconfig:"LEADFLOW_PUBSUB_ATTRIBUTION_SUBSCRIPTION"`
}

type BigQueryConfig struct {
	Dataset               string `envconfig:"LEADFLOW_BIGQUERY_DATASET" default:"leadflow"`
	ConversionEventsTable string `envconfig:"LEADFLOW_BIGQUERY_CONVERSIONS_TABLE" default:"conversion_events"`
}

type OpenAIConfig struct {
	APIKey      string  `envconfig:"LEADFLOW_OPENAI_API_KEY"`
	Model       string  `envconfig:"LEADFLOW_OPENAI_MODEL" default:"gpt-4o-mini"`
	Temperature float32 `envconfig:"LEADFLOW_OPENAI_TEMPERATURE" default:"0.2"`
	MaxTokens   int     `envconfig:"LEADFLOW_OPENAI_MAX_TOKENS" default:"600"`
}

type AttributionConfig struct {
	DefaultWindowDays int `envconfig:"LEADFLOW_ATTRIBUTION_DEFAULT_WINDOW_DAYS" default:"30"`
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
