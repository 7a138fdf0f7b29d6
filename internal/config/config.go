package config

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env         string   `mapstructure:"env" validate:"oneof=development production test"`
		Port        string   `mapstructure:"port" validate:"required"`
		LogLevel    string   `mapstructure:"log_level"`
		CORSOrigins []string `mapstructure:"cors_origins"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn" validate:"required"`
	} `mapstructure:"db"`
	Redis struct {
		Addr       string        `mapstructure:"addr"`
		Password   string        `mapstructure:"password"`
		DB         int           `mapstructure:"db"`
		ProfileTTL time.Duration `mapstructure:"profile_ttl"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers   []string `mapstructure:"brokers"`
		ViewTopic string   `mapstructure:"view_topic" validate:"required"`
		GroupID   string   `mapstructure:"group_id" validate:"required"`
	} `mapstructure:"kafka"`
	Mongo struct {
		URI      string `mapstructure:"uri"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mongo"`
	Auth struct {
		JWTSecret       string `mapstructure:"jwt_secret"`
		JWKSURL         string `mapstructure:"jwks_url"`
		SupabaseURL     string `mapstructure:"supabase_url"`
		SupabaseAnonKey string `mapstructure:"supabase_anon_key"`
		AccessCookie    string `mapstructure:"access_cookie" validate:"required"`
		RefreshCookie   string `mapstructure:"refresh_cookie" validate:"required"`
		CookieSecure    bool   `mapstructure:"cookie_secure"`
	} `mapstructure:"auth"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
	I18n struct {
		SupportedLocales []string `mapstructure:"supported_locales" validate:"required,min=1,dive,required"`
		DefaultLocale    string   `mapstructure:"default_locale" validate:"required"`
		CookieName       string   `mapstructure:"cookie_name" validate:"required"`
	} `mapstructure:"i18n"`
	Routing struct {
		ReservedPrefixes []string `mapstructure:"reserved_prefixes" validate:"required,min=1"`
	} `mapstructure:"routing"`
	Views struct {
		Store              string        `mapstructure:"store" validate:"oneof=postgres mongo"`
		Workers            int           `mapstructure:"workers" validate:"min=1"`
		QueueSize          int           `mapstructure:"queue_size" validate:"min=1"`
		RecordTimeout      time.Duration `mapstructure:"record_timeout" validate:"required"`
		DedupTTL           time.Duration `mapstructure:"dedup_ttl"`
		VisitorCookie      string        `mapstructure:"visitor_cookie" validate:"required"`
		IssueVisitorCookie bool          `mapstructure:"issue_visitor_cookie"`
	} `mapstructure:"views"`
}

// DefaultReservedPrefixes are first path segments that never name a profile
// and never receive a locale prefix.
var DefaultReservedPrefixes = []string{
	"api", "auth", "dashboard", "static", "assets", "healthz", "metrics",
	"login", "register", "privacy", "terms",
	"favicon.ico", "robots.txt", "sitemap.xml",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.log_level", "")
	v.SetDefault("app.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.profile_ttl", 5*time.Minute)
	v.SetDefault("kafka.view_topic", "view.events")
	v.SetDefault("kafka.group_id", "view-recorder-group")
	v.SetDefault("mongo.database", "folio")
	v.SetDefault("auth.access_cookie", "sb-access-token")
	v.SetDefault("auth.refresh_cookie", "sb-refresh-token")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("i18n.supported_locales", []string{"en", "id"})
	v.SetDefault("i18n.default_locale", "en")
	v.SetDefault("i18n.cookie_name", "locale")
	v.SetDefault("routing.reserved_prefixes", DefaultReservedPrefixes)
	v.SetDefault("views.store", "postgres")
	v.SetDefault("views.workers", 4)
	v.SetDefault("views.queue_size", 1024)
	v.SetDefault("views.record_timeout", 5*time.Second)
	v.SetDefault("views.dedup_ttl", 24*time.Hour)
	v.SetDefault("views.visitor_cookie", "visitor_id")
	v.SetDefault("views.issue_visitor_cookie", true)
}

// LoadConfig reads .env, then config.yaml from the given paths (or "."),
// then environment variables. The result is validated; a validation error
// is a startup failure.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	for _, p := range paths {
		if loadErr := godotenv.Load(strings.TrimSuffix(p, "/") + "/.env"); loadErr == nil {
			break
		}
	}

	v := viper.New()
	setDefaults(v)

	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if readErr := v.ReadInConfig(); readErr != nil {
		log.Printf("note: config.yaml not found, using defaults and env. Error: %v", readErr)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.log_level", "LOG_LEVEL")
	v.BindEnv("app.cors_origins", "CORS_ORIGINS")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("mongo.uri", "MONGODB_URI")
	v.BindEnv("auth.jwt_secret", "SUPABASE_JWT_SECRET")
	v.BindEnv("auth.jwks_url", "SUPABASE_JWKS_URL")
	v.BindEnv("auth.supabase_url", "SUPABASE_URL")
	v.BindEnv("auth.supabase_anon_key", "SUPABASE_ANON_KEY")
	v.BindEnv("jaeger.otlp_endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	err = cfg.Validate()
	return
}

var validate = validator.New()

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if !slices.Contains(c.I18n.SupportedLocales, c.I18n.DefaultLocale) {
		return fmt.Errorf("invalid config: default locale %q is not in supported locales %v",
			c.I18n.DefaultLocale, c.I18n.SupportedLocales)
	}
	if c.Views.Store == "mongo" && c.Mongo.URI == "" {
		return fmt.Errorf("invalid config: views.store=mongo requires mongo.uri")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
