package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Costing  CostingConfig  `mapstructure:"costing"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpire time.Duration `mapstructure:"access_token_expire"`
	Issuer            string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TechnicianTierConfig is one row of the weight-tiered technician cost
// table. A row with up_to_grams <= 0 is open-ended.
type TechnicianTierConfig struct {
	UpToGrams float64 `mapstructure:"up_to_grams"`
	Cost      float64 `mapstructure:"cost"`
}

// CostingConfig carries every tunable of the cost engine. The silver,
// casting and plating rates here are only seeds for the persisted
// settings row; the technician table, tolerances and verdict cutoffs
// are configuration proper.
type CostingConfig struct {
	SilverPriceGram     float64                `mapstructure:"silver_price_gram"`
	CastingRateGram     float64                `mapstructure:"casting_rate_gram"`
	PlatingRateGram     float64                `mapstructure:"plating_rate_gram"`
	TechnicianTiers     []TechnicianTierConfig `mapstructure:"technician_tiers"`
	ReconcileTolerance  float64                `mapstructure:"reconcile_tolerance"`
	MarkupToleranceGram float64                `mapstructure:"markup_tolerance_gram"`
	LaborSimilarityBand float64                `mapstructure:"labor_similarity_band"`
	VerdictExcellentMax float64                `mapstructure:"verdict_excellent_max"`
	VerdictFairMax      float64                `mapstructure:"verdict_fair_max"`
	VerdictExpensiveMax float64                `mapstructure:"verdict_expensive_max"`
	DefaultMargin       float64                `mapstructure:"default_margin"`
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file; environment variables and defaults apply.
	}

	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("jwt.access_token_expire", "24h")
	v.SetDefault("jwt.issuer", "ilios")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("costing.silver_price_gram", 0.80)
	v.SetDefault("costing.casting_rate_gram", 0.15)
	v.SetDefault("costing.plating_rate_gram", 0.10)
	v.SetDefault("costing.reconcile_tolerance", 0.005)
	v.SetDefault("costing.markup_tolerance_gram", 0.05)
	v.SetDefault("costing.labor_similarity_band", 0.15)
	v.SetDefault("costing.verdict_excellent_max", 5)
	v.SetDefault("costing.verdict_fair_max", 15)
	v.SetDefault("costing.verdict_expensive_max", 30)
	v.SetDefault("costing.default_margin", 0.55)
	v.SetDefault("costing.technician_tiers", []map[string]interface{}{
		{"up_to_grams": 2, "cost": 0.30},
		{"up_to_grams": 5, "cost": 0.50},
		{"up_to_grams": 10, "cost": 0.90},
		{"up_to_grams": 20, "cost": 1.50},
		{"up_to_grams": 0, "cost": 2.20},
	})
}

func bindEnvVariables(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// Database
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")
}

// GetEnvOrDefault returns an environment variable or a fallback.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
