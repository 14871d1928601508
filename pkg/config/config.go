package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "FEASTLY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

var legacyDBEnvVars = []string{
	"FEASTLY_DB_HOST",
	"FEASTLY_DB_USER",
	"FEASTLY_DB_NAME",
}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Checkout      CheckoutConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Cron          CronConfig
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
	Env          string `envconfig:"FEASTLY_APP_ENV" required:"true"`
	Port         string `envconfig:"FEASTLY_APP_PORT" required:"true"`
	MetricsPort  string `envconfig:"FEASTLY_METRICS_PORT" default:"9091"`
	LogLevel     string `envconfig:"FEASTLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FEASTLY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FEASTLY_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"FEASTLY_DB_DSN"`
	Driver string `envconfig:"FEASTLY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FEASTLY_DB_HOST"`
	LegacyPort     int    `envconfig:"FEASTLY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FEASTLY_DB_USER"`
	LegacyPassword string `envconfig:"FEASTLY_DB_PASSWORD"`
	LegacyName     string `envconfig:"FEASTLY_DB_NAME"`
	LegacySSLMode  string `envconfig:"FEASTLY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FEASTLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FEASTLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FEASTLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FEASTLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FEASTLY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FEASTLY_REDIS_ADDR"`
	Password     string        `envconfig:"FEASTLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"FEASTLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FEASTLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FEASTLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FEASTLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FEASTLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FEASTLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FEASTLY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FEASTLY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FEASTLY_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FEASTLY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FEASTLY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FEASTLY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FEASTLY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FEASTLY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FEASTLY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FEASTLY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FEASTLY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FEASTLY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FEASTLY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FEASTLY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FEASTLY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CheckoutConfig struct {
	EstimatedDeliveryMinutes int `envconfig:"FEASTLY_CHECKOUT_ETA_MINUTES" default:"45"`
	TaxRateBasisPoints       int `envconfig:"FEASTLY_CHECKOUT_TAX_RATE_BP" default:"800"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FEASTLY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FEASTLY_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FEASTLY_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"FEASTLY_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"FEASTLY_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic          string `envconfig:"FEASTLY_PUBSUB_ORDERS_TOPIC" default:"feastly-order-events"`
	OrdersSubscription   string `envconfig:"FEASTLY_PUBSUB_ORDERS_SUBSCRIPTION"`
	DispatchTopic        string `envconfig:"FEASTLY_PUBSUB_DISPATCH_TOPIC" default:"feastly-dispatch-events"`
	DispatchSubscription string `envconfig:"FEASTLY_PUBSUB_DISPATCH_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"FEASTLY_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"FEASTLY_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"FEASTLY_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval        time.Duration `envconfig:"FEASTLY_CRON_INTERVAL" default:"5m"`
	PendingOrderTTL time.Duration `envconfig:"FEASTLY_CRON_PENDING_ORDER_TTL" default:"1h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		"FEASTLY_DB_HOST": db.LegacyHost,
		"FEASTLY_DB_USER": db.LegacyUser,
		"FEASTLY_DB_NAME": db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either FEASTLY_DB_DSN or %s are required", strings.Join(missing, ", "))
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
