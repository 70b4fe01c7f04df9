// Package config loads server configuration from defaults, an optional YAML
// file and the environment, in that order of precedence.
package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// Store backends
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Auth      AuthConfig      `koanf:"auth"`
	Recommend RecommendConfig `koanf:"recommend"`
	Media     MediaConfig     `koanf:"media"`
	Logging   LoggingConfig   `koanf:"logging"`
	Socket    SocketConfig    `koanf:"socket"`
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	CORSOrigins    []string      `koanf:"cors_origins"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`
}

type StoreConfig struct {
	Backend         string `koanf:"backend" validate:"oneof=memory sqlite dynamodb"`
	SQLitePath      string `koanf:"sqlite_path" validate:"required_if=Backend sqlite"`
	SeedPath        string `koanf:"seed_path"` // optional JSON file loaded at startup
	DynamoRegion    string `koanf:"dynamo_region"`
	DynamoEndpoint  string `koanf:"dynamo_endpoint"`
	CandidatesTable string `koanf:"candidates_table" validate:"required"`
	JudgmentsTable  string `koanf:"judgments_table" validate:"required"`
	PreferenceTable string `koanf:"preferences_table" validate:"required"`
	ChannelsTable   string `koanf:"channels_table" validate:"required"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required,min=16"`
}

// RecommendConfig mirrors services.ScoringConfig so it can be set from YAML or env
type RecommendConfig struct {
	DefaultLimit      int     `koanf:"default_limit" validate:"gt=0"`
	MaxLimit          int     `koanf:"max_limit" validate:"gtefield=DefaultLimit"`
	ExplicitWeight    float64 `koanf:"explicit_weight" validate:"gte=0,lte=1"`
	ImplicitWeight    float64 `koanf:"implicit_weight" validate:"gte=0,lte=1"`
	PopularityPerLike float64 `koanf:"popularity_per_like" validate:"gte=0"`
	PopularityCap     float64 `koanf:"popularity_cap" validate:"gte=0,lte=1"`
	FallbackMin       float64 `koanf:"fallback_min" validate:"gte=0,lte=1"`
	FallbackMax       float64 `koanf:"fallback_max" validate:"gtfield=FallbackMin,lte=1"`
	SpecialNeedsCost  float64 `koanf:"special_needs_penalty" validate:"gte=0"`
	SpeciesPoints     float64 `koanf:"species_points" validate:"gt=0"`
	RandomSeed        int64   `koanf:"random_seed"` // 0 seeds from the clock

	// Implicit fit per-dimension weights, must sum to 1
	ImplicitSpecies       float64 `koanf:"implicit_species" validate:"gte=0,lte=1"`
	ImplicitSize          float64 `koanf:"implicit_size" validate:"gte=0,lte=1"`
	ImplicitAgeClass      float64 `koanf:"implicit_age_class" validate:"gte=0,lte=1"`
	ImplicitSex           float64 `koanf:"implicit_sex" validate:"gte=0,lte=1"`
	ImplicitCompatibility float64 `koanf:"implicit_compatibility" validate:"gte=0,lte=1"`
}

// ImplicitWeightSum adds up the implicit per-dimension weights
func (r RecommendConfig) ImplicitWeightSum() float64 {
	return r.ImplicitSpecies + r.ImplicitSize + r.ImplicitAgeClass + r.ImplicitSex + r.ImplicitCompatibility
}

type MediaConfig struct {
	Bucket     string        `koanf:"bucket"`
	Region     string        `koanf:"region"`
	PresignTTL time.Duration `koanf:"presign_ttl" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type SocketConfig struct {
	Enabled bool `koanf:"enabled"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			CORSOrigins:    []string{"*"},
			RequestTimeout: 5 * time.Second,
		},
		Store: StoreConfig{
			Backend:         BackendMemory,
			SQLitePath:      "petmatch.db",
			CandidatesTable: "Candidates",
			JudgmentsTable:  "Judgments",
			PreferenceTable: "Preferences",
			ChannelsTable:   "Channels",
		},
		Recommend: RecommendConfig{
			DefaultLimit:      5,
			MaxLimit:          50,
			ExplicitWeight:    0.6,
			ImplicitWeight:    0.4,
			PopularityPerLike: 0.02,
			PopularityCap:     0.1,
			FallbackMin:       0.3,
			FallbackMax:       0.5,
			SpecialNeedsCost:  0.5,
			SpeciesPoints:     2,

			ImplicitSpecies:       0.40,
			ImplicitSize:          0.20,
			ImplicitAgeClass:      0.15,
			ImplicitSex:           0.15,
			ImplicitCompatibility: 0.10,
		},
		Media: MediaConfig{
			PresignTTL: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Socket: SocketConfig{Enabled: true},
	}
}

// Load reads .env (if present), then layers defaults, the config file and env vars
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if origins, ok := k.Get("server.cors_origins").(string); ok {
		if err := k.Set("server.cors_origins", splitList(origins)); err != nil {
			return nil, fmt.Errorf("failed to set cors origins: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks struct constraints and the implicit weight sum
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if sum := c.Recommend.ImplicitWeightSum(); math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("recommend implicit weights must sum to 1, got %.4f", sum)
	}
	return nil
}

const weightSumTolerance = 1e-6

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envMappings maps environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"port":                  "server.port",
	"cors_origins":          "server.cors_origins",
	"request_timeout":       "server.request_timeout",
	"store_backend":         "store.backend",
	"sqlite_path":           "store.sqlite_path",
	"seed_path":             "store.seed_path",
	"aws_region":            "store.dynamo_region",
	"dynamodb_endpoint":     "store.dynamo_endpoint",
	"candidates_table":      "store.candidates_table",
	"judgments_table":       "store.judgments_table",
	"preferences_table":     "store.preferences_table",
	"channels_table":        "store.channels_table",
	"jwt_secret":            "auth.jwt_secret",
	"recommend_limit":       "recommend.default_limit",
	"recommend_max_limit":   "recommend.max_limit",
	"recommend_seed":        "recommend.random_seed",
	"explicit_weight":       "recommend.explicit_weight",
	"implicit_weight":       "recommend.implicit_weight",
	"s3_bucket_name":        "media.bucket",
	"s3_region":             "media.region",
	"presign_ttl":           "media.presign_ttl",
	"log_level":             "logging.level",
	"log_format":            "logging.format",
	"socket_enabled":        "socket.enabled",
	"special_needs_penalty": "recommend.special_needs_penalty",
	"species_points":        "recommend.species_points",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
