package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Resolver  ResolverConfig
	Snapshots SnapshotsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig verifies bearer tokens issued by the main filmWithAi backend.
type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig tunes the shooting-schedule optimizer.
type SchedulerConfig struct {
	// ShootingRatio converts one on-screen minute into real shooting minutes.
	ShootingRatio float64
	// FallbackOnScreenMinutes is used when the duration text cannot be parsed.
	FallbackOnScreenMinutes float64
	// DailyCapMinutes bounds shooting plus rehearsal plus setup time per day.
	DailyCapMinutes int
	// MaxScenesPerDay bounds how many scenes a single day may hold.
	MaxScenesPerDay int
	// SetupMinutes is charged when consecutive scenes use different real locations.
	SetupMinutes int
	// RehearsalRatio is the rehearsal share of each scene's shooting time.
	RehearsalRatio float64
	// DayStart is the wall-clock daily start, in minutes from midnight.
	DayStart        int
	AssemblyMinutes int
	TravelMinutes   int
	MealMinutes     int
	WrapMinutes     int

	ProposalTTL time.Duration
	CacheTTL    time.Duration
}

// ResolverConfig points at the external location registry.
type ResolverConfig struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	Concurrency int
	MaxRetries  int
	RetryDelay  time.Duration
}

// SnapshotsConfig gates schedule snapshot persistence.
type SnapshotsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		ShootingRatio:           v.GetFloat64("SCHEDULER_SHOOTING_RATIO"),
		FallbackOnScreenMinutes: v.GetFloat64("SCHEDULER_FALLBACK_MINUTES"),
		DailyCapMinutes:         v.GetInt("SCHEDULER_DAILY_CAP_MINUTES"),
		MaxScenesPerDay:         v.GetInt("SCHEDULER_MAX_SCENES_PER_DAY"),
		SetupMinutes:            v.GetInt("SCHEDULER_SETUP_MINUTES"),
		RehearsalRatio:          v.GetFloat64("SCHEDULER_REHEARSAL_RATIO"),
		DayStart:                v.GetInt("SCHEDULER_DAY_START_MINUTES"),
		AssemblyMinutes:         v.GetInt("SCHEDULER_ASSEMBLY_MINUTES"),
		TravelMinutes:           v.GetInt("SCHEDULER_TRAVEL_MINUTES"),
		MealMinutes:             v.GetInt("SCHEDULER_MEAL_MINUTES"),
		WrapMinutes:             v.GetInt("SCHEDULER_WRAP_MINUTES"),
		ProposalTTL:             parseDuration(v.GetString("SCHEDULER_PROPOSAL_TTL"), 30*time.Minute),
		CacheTTL:                parseDuration(v.GetString("SCHEDULER_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Resolver = ResolverConfig{
		BaseURL:     v.GetString("LOCATION_REGISTRY_URL"),
		Token:       v.GetString("LOCATION_REGISTRY_TOKEN"),
		Timeout:     parseDuration(v.GetString("LOCATION_REGISTRY_TIMEOUT"), 5*time.Second),
		Concurrency: v.GetInt("LOCATION_REGISTRY_CONCURRENCY"),
		MaxRetries:  v.GetInt("LOCATION_REGISTRY_MAX_RETRIES"),
		RetryDelay:  parseDuration(v.GetString("LOCATION_REGISTRY_RETRY_DELAY"), 500*time.Millisecond),
	}

	cfg.Snapshots = SnapshotsConfig{
		Enabled: v.GetBool("ENABLE_SNAPSHOTS"),
	}

	return cfg, nil
}

// Validate rejects scheduler settings that would make packing meaningless.
// Called once at startup; a failure here is fatal.
func (c *Config) Validate() error {
	s := c.Scheduler
	if s.DailyCapMinutes <= 0 {
		return fmt.Errorf("SCHEDULER_DAILY_CAP_MINUTES must be > 0, got %d", s.DailyCapMinutes)
	}
	if s.ShootingRatio <= 0 {
		return fmt.Errorf("SCHEDULER_SHOOTING_RATIO must be > 0, got %v", s.ShootingRatio)
	}
	if s.FallbackOnScreenMinutes <= 0 {
		return fmt.Errorf("SCHEDULER_FALLBACK_MINUTES must be > 0, got %v", s.FallbackOnScreenMinutes)
	}
	if s.MaxScenesPerDay <= 0 {
		return fmt.Errorf("SCHEDULER_MAX_SCENES_PER_DAY must be > 0, got %d", s.MaxScenesPerDay)
	}
	if s.RehearsalRatio < 0 || s.RehearsalRatio >= 1 {
		return fmt.Errorf("SCHEDULER_REHEARSAL_RATIO must be in [0,1), got %v", s.RehearsalRatio)
	}
	if s.SetupMinutes < 0 {
		return fmt.Errorf("SCHEDULER_SETUP_MINUTES must be >= 0, got %d", s.SetupMinutes)
	}
	if c.Resolver.Concurrency <= 0 {
		return fmt.Errorf("LOCATION_REGISTRY_CONCURRENCY must be > 0, got %d", c.Resolver.Concurrency)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "film_with_ai")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_SHOOTING_RATIO", 60.0)
	v.SetDefault("SCHEDULER_FALLBACK_MINUTES", 5.0)
	v.SetDefault("SCHEDULER_DAILY_CAP_MINUTES", 360)
	v.SetDefault("SCHEDULER_MAX_SCENES_PER_DAY", 8)
	v.SetDefault("SCHEDULER_SETUP_MINUTES", 30)
	v.SetDefault("SCHEDULER_REHEARSAL_RATIO", 0.2)
	v.SetDefault("SCHEDULER_DAY_START_MINUTES", 6*60)
	v.SetDefault("SCHEDULER_ASSEMBLY_MINUTES", 60)
	v.SetDefault("SCHEDULER_TRAVEL_MINUTES", 60)
	v.SetDefault("SCHEDULER_MEAL_MINUTES", 60)
	v.SetDefault("SCHEDULER_WRAP_MINUTES", 60)
	v.SetDefault("SCHEDULER_PROPOSAL_TTL", "30m")
	v.SetDefault("SCHEDULER_CACHE_TTL", "10m")

	v.SetDefault("LOCATION_REGISTRY_URL", "http://localhost:5001/api")
	v.SetDefault("LOCATION_REGISTRY_TOKEN", "")
	v.SetDefault("LOCATION_REGISTRY_TIMEOUT", "5s")
	v.SetDefault("LOCATION_REGISTRY_CONCURRENCY", 8)
	v.SetDefault("LOCATION_REGISTRY_MAX_RETRIES", 2)
	v.SetDefault("LOCATION_REGISTRY_RETRY_DELAY", "500ms")

	v.SetDefault("ENABLE_SNAPSHOTS", false)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
