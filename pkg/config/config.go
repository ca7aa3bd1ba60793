package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Admin        AdminConfig
	Password     PasswordConfig
	Cart         CartConfig
	Checkout     CheckoutConfig
	Tracking     TrackingConfig
	Cron         CronConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"KITCHENIA_APP_ENV" required:"true"`
	Port         string `envconfig:"KITCHENIA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KITCHENIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KITCHENIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KITCHENIA_DB_DSN"`
	Driver string `envconfig:"KITCHENIA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KITCHENIA_DB_HOST"`
	LegacyPort     int    `envconfig:"KITCHENIA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KITCHENIA_DB_USER"`
	LegacyPassword string `envconfig:"KITCHENIA_DB_PASSWORD"`
	LegacyName     string `envconfig:"KITCHENIA_DB_NAME"`
	LegacySSLMode  string `envconfig:"KITCHENIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KITCHENIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KITCHENIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KITCHENIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KITCHENIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KITCHENIA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KITCHENIA_REDIS_ADDR"`
	Password     string        `envconfig:"KITCHENIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"KITCHENIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KITCHENIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KITCHENIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KITCHENIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KITCHENIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KITCHENIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KITCHENIA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KITCHENIA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"KITCHENIA_JWT_EXPIRATION_MINUTES" required:"true"`
}

// AdminConfig holds the single back-office credential. The storefront itself
// requires no accounts; only the admin surface is authenticated.
type AdminConfig struct {
	Email        string `envconfig:"KITCHENIA_ADMIN_EMAIL"`
	PasswordHash string `envconfig:"KITCHENIA_ADMIN_PASSWORD_HASH"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KITCHENIA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KITCHENIA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KITCHENIA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KITCHENIA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KITCHENIA_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	KeyNamespace string        `envconfig:"KITCHENIA_CART_KEY_NAMESPACE" default:"kitchenia:cart"`
	TTL          time.Duration `envconfig:"KITCHENIA_CART_TTL" default:"720h"`
}

type CheckoutConfig struct {
	OrderCodePrefix string        `envconfig:"KITCHENIA_ORDER_CODE_PREFIX" default:"CK"`
	OrderCodeStart  int           `envconfig:"KITCHENIA_ORDER_CODE_START" default:"1001"`
	DeliveryWindow  time.Duration `envconfig:"KITCHENIA_DELIVERY_WINDOW" default:"45m"`
}

type TrackingConfig struct {
	PollInterval time.Duration `envconfig:"KITCHENIA_TRACKING_POLL_INTERVAL" default:"15s"`
}

type CronConfig struct {
	Interval        time.Duration `envconfig:"KITCHENIA_CRON_INTERVAL" default:"1h"`
	StaleOrderAfter time.Duration `envconfig:"KITCHENIA_CRON_STALE_ORDER_AFTER" default:"2h"`
	LockKey         string        `envconfig:"KITCHENIA_CRON_LOCK_KEY" default:"kitchenia:cron:lock"`
	LockTTL         time.Duration `envconfig:"KITCHENIA_CRON_LOCK_TTL" default:"55m"`
}

// GCPConfig is optional; when the project id is empty the eventing path is
// disabled and the API degrades to poll-only refresh.
type GCPConfig struct {
	ProjectID              string `envconfig:"KITCHENIA_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"KITCHENIA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"KITCHENIA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"KITCHENIA_PUBSUB_ORDERS_TOPIC" default:"kitchenia-order-events"`
	OrdersSubscription string `envconfig:"KITCHENIA_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KITCHENIA_AUTO_MIGRATE" default:"false"`
}

// EventingEnabled reports whether the Pub/Sub change-notification channel is
// configured at all.
func (c *Config) EventingEnabled() bool {
	return strings.TrimSpace(c.GCP.ProjectID) != ""
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
