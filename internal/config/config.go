package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverBadger = "badger"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
)

// minJWTSecret mirrors the auth service's HMAC secret requirement.
const minJWTSecret = 32

// Config holds the tastebud API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Demo      DemoConfig      `yaml:"demo"`
	Recommend RecommendConfig `yaml:"recommend"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds session token and account bootstrap settings.
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	BcryptCost    int    `yaml:"bcrypt_cost"`
	AdminUsername string `yaml:"admin_username"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // badger, redis, valkey (default: badger)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	Path             string   `yaml:"path"`      // badger data directory
	InMemory         bool     `yaml:"in_memory"` // badger without disk
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CatalogConfig holds the restaurant seed settings.
type CatalogConfig struct {
	SeedPath string `yaml:"seed_path"`
}

// DemoConfig describes an optional diner account created at startup with a
// preference profile. An empty username disables it.
type DemoConfig struct {
	Username  string   `yaml:"username"`
	Email     string   `yaml:"email"`
	Password  string   `yaml:"password"`
	Dietary   []string `yaml:"dietary"`
	Cuisines  []string `yaml:"cuisines"`
	PriceMin  int      `yaml:"price_min"`
	PriceMax  int      `yaml:"price_max"`
	Allergies []string `yaml:"allergies"`
}

// RecommendConfig holds recommendation settings.
type RecommendConfig struct {
	EmptyCuisinePolicy string `yaml:"empty_cuisine_policy"` // open (default), closed
}

// CORSConfig holds browser cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAgeSec      int      `yaml:"max_age_sec"`
}

// RateLimitConfig limits login attempts per client IP.
type RateLimitConfig struct {
	LoginRequests  int `yaml:"login_requests"`
	LoginWindowSec int `yaml:"login_window_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded into the
// process environment first; variables already set win.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverBadger
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 24
	}
	if c.Auth.BcryptCost <= 0 {
		c.Auth.BcryptCost = 10
	}
	if c.Catalog.SeedPath == "" {
		c.Catalog.SeedPath = filepath.Join("config", "catalog.yaml")
	}
	if c.Recommend.EmptyCuisinePolicy == "" {
		c.Recommend.EmptyCuisinePolicy = "open"
	}
	if c.CORS.MaxAgeSec <= 0 {
		c.CORS.MaxAgeSec = 300
	}
	if c.RateLimit.LoginRequests <= 0 {
		c.RateLimit.LoginRequests = 10
	}
	if c.RateLimit.LoginWindowSec <= 0 {
		c.RateLimit.LoginWindowSec = 60
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverRedis, DriverValkey:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	case DriverBadger:
		if !c.Database.InMemory && c.Database.Path == "" {
			return fmt.Errorf("database.path is required unless database.in_memory is set")
		}
	default:
		return fmt.Errorf("database.driver must be %q, %q or %q, got %q",
			DriverBadger, DriverRedis, DriverValkey, c.Database.Driver)
	}
	if len(c.Auth.JWTSecret) < minJWTSecret {
		return fmt.Errorf("auth.jwt_secret must be at least %d bytes", minJWTSecret)
	}
	if !allOrNone(c.Auth.AdminUsername, c.Auth.AdminEmail, c.Auth.AdminPassword) {
		return fmt.Errorf("auth.admin_username, auth.admin_email and auth.admin_password must be set together")
	}
	if !allOrNone(c.Demo.Username, c.Demo.Email, c.Demo.Password) {
		return fmt.Errorf("demo.username, demo.email and demo.password must be set together")
	}
	if c.Demo.PriceMin != 0 || c.Demo.PriceMax != 0 {
		if c.Demo.PriceMin < 1 || c.Demo.PriceMin > c.Demo.PriceMax || c.Demo.PriceMax > 4 {
			return fmt.Errorf("demo.price_min and demo.price_max must satisfy 1 <= min <= max <= 4, got %d..%d",
				c.Demo.PriceMin, c.Demo.PriceMax)
		}
	}
	switch c.Recommend.EmptyCuisinePolicy {
	case "open", "closed":
		// ok
	default:
		return fmt.Errorf(
			"recommend.empty_cuisine_policy must be \"open\" or \"closed\", got %q",
			c.Recommend.EmptyCuisinePolicy,
		)
	}
	return nil
}

// allOrNone reports whether the values are either all set or all blank.
func allOrNone(values ...string) bool {
	set := 0
	for _, v := range values {
		if v != "" {
			set++
		}
	}
	return set == 0 || set == len(values)
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
