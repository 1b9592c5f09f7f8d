package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv   string         `yaml:"app_env"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	FR24     FR24Config     `yaml:"fr24"`
	Import   ImportConfig   `yaml:"import"`
	Noise    NoiseConfig    `yaml:"noise"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps"`
	RateLimitBurst int           `yaml:"rate_limit_burst"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type FR24Config struct {
	APIToken      string        `yaml:"api_token"`
	BaseURL       string        `yaml:"base_url"`
	Plan          string        `yaml:"plan"` // EXPLORER, ESSENTIAL, ADVANCED or empty for no pacing
	Timeout       time.Duration `yaml:"timeout"`
	UsageInterval time.Duration `yaml:"usage_interval"` // 0 disables the usage monitor
}

type BoundingBox struct {
	LatitudeMin  float64 `yaml:"latitude_min"`
	LatitudeMax  float64 `yaml:"latitude_max"`
	LongitudeMin float64 `yaml:"longitude_min"`
	LongitudeMax float64 `yaml:"longitude_max"`
}

type AirportRunways struct {
	ICAO    string   `yaml:"icao"`
	IATA    string   `yaml:"iata"`
	Runways []string `yaml:"runways"`
}

type ImportConfig struct {
	Airports      []string        `yaml:"airports"`
	BoundingBox   BoundingBox     `yaml:"bounding_box"`
	Origin        *AirportRunways `yaml:"origin"`
	Destination   *AirportRunways `yaml:"destination"`
	WindowHours   int             `yaml:"window_hours"`
	Schedule      bool            `yaml:"schedule"`
	Interval      time.Duration   `yaml:"interval"`
	Lookback      time.Duration   `yaml:"lookback"`
	AircraftTypes string          `yaml:"aircraft_types_dir"`
}

type POIConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Altitude  float64 `yaml:"altitude"`
}

type NoiseConfig struct {
	InterpolationSteps int           `yaml:"interpolation_steps"`
	Workers            int           `yaml:"workers"`
	DefaultPOI         POIConfig     `yaml:"default_poi"`
	CategoryCacheTTL   time.Duration `yaml:"category_cache_ttl"`
}

// LogConfig enables a rotated log file in addition to stdout.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// Load builds a Config from defaults, an optional YAML file and the
// environment, in that order.
func Load(configPath string) (*Config, error) {
	config := &Config{}

	config.setDefaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.loadFromEnv()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func (c *Config) setDefaults() {
	c.AppEnv = "development"

	c.Server.Port = 8080
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 60 * time.Second
	c.Server.IdleTimeout = 60 * time.Second
	c.Server.AllowedOrigins = []string{"https://*", "http://localhost:8081"}
	c.Server.RateLimitRPS = 5
	c.Server.RateLimitBurst = 20

	c.Database.Driver = "sqlite"
	c.Database.DSN = "planes.sqlite3"

	c.Redis.Host = "localhost"
	c.Redis.Port = "6379"

	c.FR24.BaseURL = "https://fr24api.flightradar24.com/api"
	c.FR24.Timeout = 30 * time.Second
	c.FR24.UsageInterval = time.Hour

	// Zurich runway corridor
	c.Import.Airports = []string{"ZRH"}
	c.Import.BoundingBox = BoundingBox{
		LatitudeMin:  47.24,
		LatitudeMax:  47.7,
		LongitudeMin: 8.3,
		LongitudeMax: 8.8,
	}
	c.Import.WindowHours = 6
	c.Import.Interval = 6 * time.Hour
	c.Import.Lookback = 48 * time.Hour

	c.Noise.InterpolationSteps = 100
	c.Noise.Workers = 4
	c.Noise.DefaultPOI = POIConfig{Latitude: 47.45, Longitude: 8.55, Altitude: 430}
	c.Noise.CategoryCacheTTL = time.Hour

	c.Auth.TokenTTL = 24 * time.Hour

	c.Log.MaxSizeMB = 64
	c.Log.MaxAgeDays = 14
	c.Log.Compress = true
}

func (c *Config) loadFromEnv() {
	if env := os.Getenv("APP_ENV"); env != "" {
		c.AppEnv = env
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	} else if host := os.Getenv("PG_HOST"); host != "" && c.Database.Driver == "postgres" {
		c.Database.DSN = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			os.Getenv("PG_USER"), os.Getenv("PG_PASSWORD"), host, os.Getenv("PG_PORT"), os.Getenv("PG_DB"))
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		c.Redis.Enabled = true
		c.Redis.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		c.Redis.Port = port
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.Redis.Password = password
	}

	if token := os.Getenv("FR24_API_TOKEN"); token != "" {
		c.FR24.APIToken = token
	}
	if baseURL := os.Getenv("FR24_BASE_URL"); baseURL != "" {
		c.FR24.BaseURL = baseURL
	}
	if plan := os.Getenv("FR24_PLAN"); plan != "" {
		c.FR24.Plan = strings.ToUpper(plan)
	}

	if airports := os.Getenv("IMPORT_AIRPORTS"); airports != "" {
		c.Import.Airports = strings.Split(airports, ",")
	}
	if schedule := os.Getenv("IMPORT_SCHEDULE"); schedule != "" {
		c.Import.Schedule = schedule == "true" || schedule == "1"
	}

	if steps := os.Getenv("NOISE_INTERPOLATION_STEPS"); steps != "" {
		if s, err := strconv.Atoi(steps); err == nil {
			c.Noise.InterpolationSteps = s
		}
	}
	if workers := os.Getenv("NOISE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil {
			c.Noise.Workers = w
		}
	}

	if file := os.Getenv("LOG_FILE"); file != "" {
		c.Log.File = file
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("database driver must be 'sqlite' or 'postgres'")
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN cannot be empty")
	}

	if c.FR24.BaseURL == "" {
		return fmt.Errorf("fr24 base URL cannot be empty")
	}

	switch c.FR24.Plan {
	case "", "EXPLORER", "ESSENTIAL", "ADVANCED":
	default:
		return fmt.Errorf("fr24 plan must be 'EXPLORER', 'ESSENTIAL' or 'ADVANCED'")
	}

	bb := c.Import.BoundingBox
	if bb.LatitudeMin > bb.LatitudeMax || bb.LongitudeMin > bb.LongitudeMax {
		return fmt.Errorf("bounding box minimums must not exceed maximums")
	}

	if c.Import.WindowHours < 1 {
		return fmt.Errorf("import window must be at least 1 hour")
	}

	if c.Import.Schedule && c.Import.Interval <= 0 {
		return fmt.Errorf("import interval must be positive when scheduling is enabled")
	}

	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}

	if c.Noise.CategoryCacheTTL <= 0 {
		return fmt.Errorf("category cache TTL must be positive")
	}

	if c.Noise.Workers < 1 {
		return fmt.Errorf("noise workers must be at least 1")
	}

	return nil
}
