package config

// EnvPrefix is passed to envconfig when processing the environment.
const EnvPrefix = "kitchenia"

// App environments.
const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv   = "KITCHENIA_APP_ENV"
	EnvPort     = "KITCHENIA_APP_PORT"
	EnvDBDSN    = "KITCHENIA_DB_DSN"
	EnvDBHost   = "KITCHENIA_DB_HOST"
	EnvDBUser   = "KITCHENIA_DB_USER"
	EnvDBName   = "KITCHENIA_DB_NAME"
	EnvRedisURL = "KITCHENIA_REDIS_URL"

	EnvJWTSecret  = "KITCHENIA_JWT_SECRET"
	EnvJWTIssuer  = "KITCHENIA_JWT_ISSUER"
	EnvJWTExpMins = "KITCHENIA_JWT_EXPIRATION_MINUTES"

	EnvAdminEmail        = "KITCHENIA_ADMIN_EMAIL"
	EnvAdminPasswordHash = "KITCHENIA_ADMIN_PASSWORD_HASH"

	EnvGCPProjectID         = "KITCHENIA_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic    = "KITCHENIA_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub      = "KITCHENIA_PUBSUB_ORDERS_SUBSCRIPTION"
	EnvOrderCodePrefix      = "KITCHENIA_ORDER_CODE_PREFIX"
	EnvOrderCodeStart       = "KITCHENIA_ORDER_CODE_START"
	EnvDeliveryWindow       = "KITCHENIA_DELIVERY_WINDOW"
	EnvTrackingPollInterval = "KITCHENIA_TRACKING_POLL_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
