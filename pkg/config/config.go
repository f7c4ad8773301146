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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	CartToken    CartTokenConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
	CMS          CMSConfig
	Gemini       GeminiConfig
	Geocoder     GeocoderConfig
	Shipping     ShippingConfig
	WhatsApp     WhatsAppConfig
	RateLimit    RateLimitConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PEKUNDEN_APP_ENV" required:"true"`
	Port         string `envconfig:"PEKUNDEN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PEKUNDEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PEKUNDEN_LOG_WARN_STACK" default:"false"`
	// PublicURL prefixes relative CMS media paths when building image URLs.
	PublicURL      string   `envconfig:"PEKUNDEN_PUBLIC_URL"`
	AllowedOrigins []string `envconfig:"PEKUNDEN_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PEKUNDEN_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PEKUNDEN_DB_DSN"`
	Driver string `envconfig:"PEKUNDEN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PEKUNDEN_DB_HOST"`
	LegacyPort     int    `envconfig:"PEKUNDEN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PEKUNDEN_DB_USER"`
	LegacyPassword string `envconfig:"PEKUNDEN_DB_PASSWORD"`
	LegacyName     string `envconfig:"PEKUNDEN_DB_NAME"`
	LegacySSLMode  string `envconfig:"PEKUNDEN_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"PEKUNDEN_SQLITE_PATH" default:"pekunden.db"`

	MaxOpenConns    int           `envconfig:"PEKUNDEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PEKUNDEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PEKUNDEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PEKUNDEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"PEKUNDEN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PEKUNDEN_REDIS_ADDR"`
	Password     string        `envconfig:"PEKUNDEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"PEKUNDEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PEKUNDEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PEKUNDEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PEKUNDEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PEKUNDEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PEKUNDEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CartTokenConfig struct {
	Secret   string `envconfig:"PEKUNDEN_CART_TOKEN_SECRET" required:"true"`
	Issuer   string `envconfig:"PEKUNDEN_CART_TOKEN_ISSUER" default:"pekunden-marketplace"`
	TTLHours int    `envconfig:"PEKUNDEN_CART_TOKEN_TTL_HOURS" default:"720"`
}

// TTL returns the cart token lifetime.
func (c CartTokenConfig) TTL() time.Duration {
	if c.TTLHours <= 0 {
		return 0
	}
	return time.Duration(c.TTLHours) * time.Hour
}

type CartConfig struct {
	StateTTL time.Duration `envconfig:"PEKUNDEN_CART_STATE_TTL" default:"720h"`
	LockTTL  time.Duration `envconfig:"PEKUNDEN_CART_LOCK_TTL" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PEKUNDEN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PEKUNDEN_AUTO_MIGRATE" default:"false"`
}

type CMSConfig struct {
	BaseURL            string        `envconfig:"PEKUNDEN_CMS_BASE_URL" required:"true"`
	APIKey             string        `envconfig:"PEKUNDEN_CMS_API_KEY"`
	APIKeyCollection   string        `envconfig:"PEKUNDEN_CMS_API_KEY_COLLECTION" default:"users"`
	ProductsCollection string        `envconfig:"PEKUNDEN_CMS_PRODUCTS_COLLECTION" default:"products"`
	CategoryCollection string        `envconfig:"PEKUNDEN_CMS_CATEGORY_COLLECTION" default:"productCategories"`
	Depth              int           `envconfig:"PEKUNDEN_CMS_DEPTH" default:"2"`
	Timeout            time.Duration `envconfig:"PEKUNDEN_CMS_TIMEOUT" default:"10s"`
	CacheTTL           time.Duration `envconfig:"PEKUNDEN_CMS_CACHE_TTL" default:"5m"`
}

type GeminiConfig struct {
	APIKey      string        `envconfig:"PEKUNDEN_GEMINI_API_KEY"`
	BaseURL     string        `envconfig:"PEKUNDEN_GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	Model       string        `envconfig:"PEKUNDEN_GEMINI_MODEL" default:"gemini-2.5-flash"`
	Temperature float64       `envconfig:"PEKUNDEN_GEMINI_TEMPERATURE" default:"0"`
	Timeout     time.Duration `envconfig:"PEKUNDEN_GEMINI_TIMEOUT" default:"30s"`
}

type GeocoderConfig struct {
	BaseURL      string        `envconfig:"PEKUNDEN_GEOCODER_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	UserAgent    string        `envconfig:"PEKUNDEN_GEOCODER_USER_AGENT" default:"KarangTaruna/1.0"`
	CountryCodes string        `envconfig:"PEKUNDEN_GEOCODER_COUNTRY_CODES" default:"id"`
	Limit        int           `envconfig:"PEKUNDEN_GEOCODER_LIMIT" default:"5"`
	Timeout      time.Duration `envconfig:"PEKUNDEN_GEOCODER_TIMEOUT" default:"10s"`
}

type ShippingConfig struct {
	Origin       string  `envconfig:"PEKUNDEN_SHIPPING_ORIGIN" default:"Jl. Pekunden Selatan No.1168, Semarang Tengah"`
	FreeRadiusKm float64 `envconfig:"PEKUNDEN_SHIPPING_FREE_RADIUS_KM" default:"3"`
	StepKm       float64 `envconfig:"PEKUNDEN_SHIPPING_STEP_KM" default:"2"`
	StepFee      int64   `envconfig:"PEKUNDEN_SHIPPING_STEP_FEE" default:"5000"`
}

type WhatsAppConfig struct {
	Number    string `envconfig:"PEKUNDEN_WHATSAPP_NUMBER" required:"true"`
	StoreName string `envconfig:"PEKUNDEN_STORE_NAME" default:"Karang Taruna Pekunden Marketplace"`
}

type RateLimitConfig struct {
	AssistantWindow  time.Duration `envconfig:"PEKUNDEN_RATE_LIMIT_ASSISTANT_WINDOW" default:"1m"`
	AssistantIPLimit int           `envconfig:"PEKUNDEN_RATE_LIMIT_ASSISTANT_IP_LIMIT" default:"20"`
}

type CronConfig struct {
	Interval         time.Duration `envconfig:"PEKUNDEN_CRON_INTERVAL" default:"10m"`
	HandoffRetention time.Duration `envconfig:"PEKUNDEN_HANDOFF_RETENTION" default:"2160h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	if db.IsSQLite() {
		path := strings.TrimSpace(db.SQLitePath)
		if path == "" {
			return fmt.Errorf("%s is required when using sqlite", EnvSQLitePath)
		}
		db.DSN = path
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
