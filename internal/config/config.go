package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the server. Values come from an
// environment-specific properties file (application-<env>.properties) with
// environment variables taking precedence.
type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	RedisURL    string   `mapstructure:"REDIS_URL"`
	JWTSecret   string   `mapstructure:"JWT_SECRET"`
	JWTTTLHours int      `mapstructure:"JWT_TTL_HOURS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
	MigrateDir  string   `mapstructure:"MIGRATE_DIR"`
	ExportDir   string   `mapstructure:"EXPORT_DIR"`
}

// ResolveEnv returns the active environment profile: the explicit argument if
// non-empty, then the APP_ENV environment variable, defaulting to "dev".
func ResolveEnv(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "dev"
}

// Load reads application-<env>.properties (if present) and environment
// variables into a Config. The properties file is optional so containerized
// deployments can run on environment variables alone.
func Load(env string) (*Config, error) {
	env = ResolveEnv(env)

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("application-%s.properties", env))
	v.SetConfigType("properties")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8091")
	v.SetDefault("ENV", env)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("JWT_TTL_HOURS", 8)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MIGRATE_DIR", "./migrations")
	v.SetDefault("EXPORT_DIR", "./exports")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"REDIS_URL", "JWT_SECRET", "JWT_TTL_HOURS", "CORS_ORIGINS",
		"MIGRATE_DIR", "EXPORT_DIR",
	} {
		v.BindEnv(key)
	}

	// Missing profile file is fine; env vars and defaults still apply.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required (profile %q)", env)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

// Validate checks settings that only matter at serve time. The JWT secret is
// allowed to be empty in dev, where a throwaway secret is generated at startup.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ENV is %q", c.Env)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}
