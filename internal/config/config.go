package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	App      AppConfig      `mapstructure:"app"`
}

type ServerConfig struct {
	Port           string `mapstructure:"port"`
	Mode           string `mapstructure:"mode"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type AppConfig struct {
	Env        string `mapstructure:"env"`
	Backend    string `mapstructure:"backend"` // "postgres" or "memory"
	AdminEmail string `mapstructure:"admin_email"`
}

// Origins splits the configured allowed origins into a slice.
func (s ServerConfig) Origins() []string {
	if s.AllowedOrigins == "" {
		return []string{"*"}
	}
	return strings.Split(s.AllowedOrigins, ",")
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.App.Backend == "postgres" && (c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "") {
		return errors.New("database configuration is incomplete")
	}
	return nil
}

// Load reads configuration from configs/config.yaml (if present), a local
// .env file, and the process environment, in increasing precedence.
func Load() (*Config, error) {
	// Silent failure if no .env exists, which is fine.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.allowed_origins", "*")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("jwt.expire_hours", 72)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("app.backend", "postgres")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Flat env vars used in deployment take precedence over the yaml keys.
	overrides := map[string]*string{
		"PORT":        &cfg.Server.Port,
		"DB_HOST":     &cfg.Database.Host,
		"DB_PORT":     &cfg.Database.Port,
		"DB_USER":     &cfg.Database.User,
		"DB_PASSWORD": &cfg.Database.Password,
		"DB_NAME":     &cfg.Database.Name,
		"DB_SSLMODE":  &cfg.Database.SSLMode,
		"REDIS_ADDR":  &cfg.Redis.Addr,
		"JWT_SECRET":  &cfg.JWT.Secret,
		"ADMIN_EMAIL": &cfg.App.AdminEmail,
		"BACKEND":     &cfg.App.Backend,
	}
	for key, dst := range overrides {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
