package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	SessionStoreMySQL = "mysql"
	SessionStoreRedis = "redis"
)

// Config is the gateway service configuration. The worker binary reads the same struct
// through LoadWorker, which does not require the gateway secrets.
type Config struct {
	Env              string `env:"ENV" env-required:"true"`
	LogLevel         string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	SessionStore     string `env:"SESSION_STORE" env-default:"mysql" env-description:"session backend, one of mysql/redis"`
	InternalAPIToken string `env:"INTERNAL_API_TOKEN" env-description:"shared secret for /internal routes, required by the gateway"`
	HttpServer       HttpServer
	Database         Database
	Limiter          Limiter
	Auth             AuthConfig
	SMTP             SMTPConfig
	Email            EmailConfig
	Cache            Cache
	Worker           Worker
}

// Discussions is the discussions service configuration.
type Discussions struct {
	Env            string `env:"ENV" env-required:"true"`
	LogLevel       string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	GatewayBaseURL string `env:"GATEWAY_BASE_URL" env-required:"true" env-description:"base url of the gateway service"`
	HttpServer     HttpServer
	HttpClient     HttpClient
	Limiter        Limiter
}

type HttpServer struct {
	Port           string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout        time.Duration `env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	SwaggerEnabled bool          `env:"HTTP_SWAGGER_ENABLED" env-default:"false"`
	CORSOrigins    []string      `env:"HTTP_CORS_ORIGINS" env-separator:"," env-default:"http://localhost:3000" env-description:"allowed CORS origins, * allows any"`
}

type HttpClient struct {
	Timeout             time.Duration `env:"HTTP_CLIENT_TIMEOUT" env-default:"5s"`
	MaxIdleConns        int           `env:"HTTP_CLIENT_MAX_IDLE_CONNS" env-default:"100"`
	MaxIdleConnsPerHost int           `env:"HTTP_CLIENT_MAX_IDLE_CONNS_PER_HOST" env-default:"20"`
	IdleConnTimeout     time.Duration `env:"HTTP_CLIENT_IDLE_CONN_TIMEOUT" env-default:"90s"`
}

type Database struct {
	Net                string        `env:"DB_NET" env-default:"tcp"`
	Server             string        `env:"DB_SERVER"`
	DBName             string        `env:"DB_NAME"`
	User               string        `env:"DB_USER"`
	Password           string        `env:"DB_PASSWORD"`
	TimeZone           string        `env:"DB_TIMEZONE" env-default:"UTC"`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	QueryTimeout       time.Duration `env:"DB_QUERY_TIMEOUT" env-default:"3s"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"40"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"40"`
	AutoMigrate        bool          `env:"DB_AUTO_MIGRATE" env-default:"false"`
}

type Limiter struct {
	RPS   int           `env:"LIMITER_RPS" env-default:"10"`
	Burst int           `env:"LIMITER_BURST" env-default:"20"`
	TTL   time.Duration `env:"LIMITER_TTL" env-default:"10m"`
}

type AuthConfig struct {
	JWT JWTConfig
}

type JWTConfig struct {
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" env-default:"240h"`
	SigningKey      string        `env:"JWT_SIGNING_KEY" env-description:"required by the gateway"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST"`
	Port int    `env:"SMTP_PORT" env-default:"587"`
	From string `env:"SMTP_FROM"`
	Pass string `env:"SMTP_PASS"`
}

type EmailConfig struct {
	Enabled   bool `env:"EMAIL_ENABLED" env-default:"false"`
	Templates EmailTemplates
}

type EmailTemplates struct {
	Dir             string `env:"EMAIL_TEMPLATES_DIR" env-default:"./templates"`
	SessionsRevoked string `env:"EMAIL_TEMPLATE_SESSIONS_REVOKED" env-default:"sessions_revoked.html"`
}

type Cache struct {
	Type  string `env:"REDIS_TYPE" env-default:"redis" env-description:"specifies provider, one of redis/redisCluster"`
	Redis struct {
		Address  string `env:"REDIS_ADDR" env-default:"localhost:6379" env-description:"redis host:port single instance"`
		Password string `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
	RedisCluster struct {
		Addresses []string `env:"REDIS_CLUSTER_ADDRS" env-default:"" env-description:"redis cluster nodes: ['172.27.29.90:7000','172.27.29.91:7001'', '172.27.29.92:7002'']"`
		Password  string   `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize  int      `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
}

type Worker struct {
	Concurrency int    `env:"WORKER_CONCURRENCY" env-default:"10"`
	PurgeCron   string `env:"WORKER_PURGE_CRON" env-default:"@every 10m"`
}

// Load reads the gateway config from the environment, and from path first when it is not empty.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := read(path, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

// LoadWorker reads the worker config. Gateway secrets are not required.
func LoadWorker(path string) (*Config, error) {
	var cfg Config

	if err := read(path, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.ValidateWorker(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoadWorker(path string) *Config {
	cfg, err := LoadWorker(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func LoadDiscussions(path string) (*Discussions, error) {
	var cfg Discussions

	if err := read(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the gateway config.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}

	if c.InternalAPIToken == "" {
		return errors.New("INTERNAL_API_TOKEN is required")
	}

	if c.Auth.JWT.SigningKey == "" {
		return errors.New("JWT_SIGNING_KEY is required")
	}

	return nil
}

// ValidateWorker checks the worker config.
func (c *Config) ValidateWorker() error {
	if err := c.validateStore(); err != nil {
		return err
	}

	if c.Email.Enabled && (c.SMTP.Host == "" || c.SMTP.From == "") {
		return errors.New("SMTP_HOST and SMTP_FROM are required when EMAIL_ENABLED is set")
	}

	return nil
}

func (c *Config) validateStore() error {
	switch c.SessionStore {
	case SessionStoreMySQL:
		if c.Database.Server == "" || c.Database.DBName == "" || c.Database.User == "" {
			return errors.New("DB_SERVER, DB_NAME and DB_USER are required for the mysql session store")
		}
	case SessionStoreRedis:
		if c.Cache.Type == "redisCluster" {
			return errors.New("redis session store does not support redis cluster")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.SessionStore)
	}

	return nil
}

func read(path string, cfg any) error {
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
		return nil
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read config from environment: %w", err)
	}

	return nil
}
