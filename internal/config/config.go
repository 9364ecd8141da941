package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Auth     AuthConfig     `mapstructure:"auth"`
	ERP      ERPConfig      `mapstructure:"erp"`
	Import   ImportConfig   `mapstructure:"import"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AuthConfig holds request authentication and credential encryption configuration
type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	EncryptionKey string `mapstructure:"encryption_key"`
}

// ERPConfig holds ERP gateway configuration
type ERPConfig struct {
	APIVersion       string `mapstructure:"api_version"`
	RequestTimeout   int    `mapstructure:"request_timeout"`
	MaxRetries       int    `mapstructure:"max_retries"`
	RetryBaseDelayMs int    `mapstructure:"retry_base_delay_ms"`
}

// ImportConfig holds import pipeline configuration
type ImportConfig struct {
	BatchSize      int `mapstructure:"batch_size"`
	BatchDelayMs   int `mapstructure:"batch_delay_ms"`
	LookupCacheTTL int `mapstructure:"lookup_cache_ttl"`
}

// LoadConfig loads configuration from environment and config files
func LoadConfig() (*Config, error) {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", 30)
	// Import runs stream inside the response; write timeout must outlast them
	viper.SetDefault("server.write_timeout", 1800)
	viper.SetDefault("server.idle_timeout", 120)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.dbname", "erp_import")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("erp.api_version", "24.200.001")
	viper.SetDefault("erp.request_timeout", 30)
	viper.SetDefault("erp.max_retries", 3)
	viper.SetDefault("erp.retry_base_delay_ms", 1000)
	viper.SetDefault("import.batch_size", 10)
	viper.SetDefault("import.batch_delay_ms", 500)
	viper.SetDefault("import.lookup_cache_ttl", 300)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	viper.SetEnvPrefix("ERP_IMPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file is optional; defaults plus environment are enough
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
