package config

const (
	EnvPrefix = "PEKUNDEN"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv            = "PEKUNDEN_APP_ENV"
	EnvPort              = "PEKUNDEN_APP_PORT"
	EnvDBDSN             = "PEKUNDEN_DB_DSN"
	EnvDBDriver          = "PEKUNDEN_DB_DRIVER"
	EnvDBHost            = "PEKUNDEN_DB_HOST"
	EnvDBUser            = "PEKUNDEN_DB_USER"
	EnvDBName            = "PEKUNDEN_DB_NAME"
	EnvSQLitePath        = "PEKUNDEN_SQLITE_PATH"
	EnvUseSQLite         = "PEKUNDEN_USE_SQLITE"
	EnvRedisURL          = "PEKUNDEN_REDIS_URL"
	EnvCartTokenSecret   = "PEKUNDEN_CART_TOKEN_SECRET"
	EnvCMSBaseURL        = "PEKUNDEN_CMS_BASE_URL"
	EnvCMSCacheTTL       = "PEKUNDEN_CMS_CACHE_TTL"
	EnvWhatsAppNumber    = "PEKUNDEN_WHATSAPP_NUMBER"
	EnvShippingOrigin    = "PEKUNDEN_SHIPPING_ORIGIN"
	EnvCORSOrigins       = "PEKUNDEN_CORS_ORIGINS"
	EnvHandoffRetention  = "PEKUNDEN_HANDOFF_RETENTION"
	EnvAssistantIPLimit  = "PEKUNDEN_RATE_LIMIT_ASSISTANT_IP_LIMIT"
	EnvGeminiModel       = "PEKUNDEN_GEMINI_MODEL"
	EnvGeocoderUserAgent = "PEKUNDEN_GEOCODER_USER_AGENT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
