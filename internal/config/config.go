package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDR" env-default:":8080"`
}

type Database struct {
	Host            string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password        string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name            string        `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode         string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`
	MaxOpenConns    int           `yaml:"PG_MAX_OPEN_CONNS" env:"PG_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"PG_MAX_IDLE_CONNS" env:"PG_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"PG_CONN_MAX_LIFETIME" env:"PG_CONN_MAX_LIFETIME" env-default:"30m"`
	ConnMaxIdleTime time.Duration `yaml:"PG_CONN_MAX_IDLE_TIME" env:"PG_CONN_MAX_IDLE_TIME" env-default:"5m"`
}

type RedisConnect struct {
	Addr     string `yaml:"REDIS_ADDR" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-default:""`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type Shopify struct {
	StoreDomain     string `yaml:"SHOPIFY_STORE_DOMAIN" env:"SHOPIFY_STORE_DOMAIN" env-required:"true"`
	StorefrontToken string `yaml:"SHOPIFY_STOREFRONT_TOKEN" env:"SHOPIFY_STOREFRONT_TOKEN" env-required:"true"`
	APIVersion      string `yaml:"SHOPIFY_API_VERSION" env:"SHOPIFY_API_VERSION" env-default:"2024-10"`
}

// RateLimitPolicy bounds attempts per source IP over a trailing window.
type RateLimitPolicy struct {
	MaxRequests   int `yaml:"MAX_REQUESTS" env-default:"5"`
	WindowMinutes int `yaml:"WINDOW_MINUTES" env-default:"60"`
}

type RateLimits struct {
	Contact    RateLimitPolicy `yaml:"contact" env-prefix:"RATE_CONTACT_"`
	Newsletter RateLimitPolicy `yaml:"newsletter" env-prefix:"RATE_NEWSLETTER_"`
}

type SendGrid struct {
	APIKey       string `yaml:"SENDGRID_API_KEY" env:"SENDGRID_API_KEY" env-default:""`
	FromEmail    string `yaml:"SENDGRID_FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:""`
	FromName     string `yaml:"SENDGRID_FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"nfluential"`
	ContactInbox string `yaml:"SENDGRID_CONTACT_INBOX" env:"SENDGRID_CONTACT_INBOX" env-default:""`
}

type Security struct {
	JWTKey string `yaml:"JWT_KEY" env:"JWT_KEY" env-required:"true"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"ALLOWED_ORIGINS" env:"ALLOWED_ORIGINS" env-default:"https://nfluential.lovable.app,https://nfluential.us,https://www.nfluential.us"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"CACHE_DEFAULT_TTL" env:"CACHE_DEFAULT_TTL" env-default:"15m"`
	ProductTTL time.Duration `yaml:"CACHE_PRODUCT_TTL" env:"CACHE_PRODUCT_TTL" env-default:"5m"`
	CartTTL    time.Duration `yaml:"CACHE_CART_TTL" env:"CACHE_CART_TTL" env-default:"720h"`
}

type Telemetry struct {
	Enabled  bool   `yaml:"OTEL_ENABLED" env:"OTEL_ENABLED" env-default:"false"`
	Endpoint string `yaml:"OTEL_EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_ENDPOINT" env-default:"localhost:4318"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	Shopify      Shopify      `yaml:"shopify"`
	RateLimits   RateLimits   `yaml:"rate_limits"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Security     Security     `yaml:"security"`
	CORS         CORS         `yaml:"cors"`
	Cache        CacheConfig  `yaml:"cache"`
	Telemetry    Telemetry    `yaml:"telemetry"`
}

func MustLoad() *Config {

	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {

			log.Fatal("Config path is not set")

		}

	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {

		log.Fatalf("can not read config file: %s", err.Error())
	}

	return &cfg

}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *RedisConnect) GetDSN() string {
	if r.Password != "" {
		return fmt.Sprintf("redis://%s:%s@%s/%d", r.Username, r.Password, r.Addr, r.DB)
	}

	return fmt.Sprintf("redis://%s/%d", r.Addr, r.DB)
}

// GraphQLEndpoint is the Storefront API URL for the configured shop.
func (s *Shopify) GraphQLEndpoint() string {
	return fmt.Sprintf("https://%s/api/%s/graphql.json", s.StoreDomain, s.APIVersion)
}

func (p *RateLimitPolicy) Window() time.Duration {
	return time.Duration(p.WindowMinutes) * time.Minute
}
