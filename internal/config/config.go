// Package config centralizes application configuration loading.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderRedis = "redis"
	ProviderFile  = "file"
	ProviderEnv   = "env"
)

type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Policy   PolicyConfig
	LogLevel string
}

type ServerConfig struct {
	Port string
}

// ProviderConfig selects where the policy is assembled from: a Redis store,
// a YAML file, or directly from the environment.
type ProviderConfig struct {
	Type  string
	Redis RedisConfig
	File  FileConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type FileConfig struct {
	Path string
}

// PolicyConfig carries the direct-construction policy used when the provider
// type is "env": global flags and rates only, no per-key rules.
type PolicyConfig struct {
	IPThrottling         bool
	ClientThrottling     bool
	EndpointThrottling   bool
	StackBlockedRequests bool

	LimitPerSecond *int64
	LimitPerMinute *int64
	LimitPerHour   *int64
	LimitPerDay    *int64
	LimitPerWeek   *int64
}

func Load() (Config, error) {
	_ = godotenv.Load()

	server := ServerConfig{Port: getEnv("SERVER_PORT", "8080")}

	provider, err := buildProviderConfig()
	if err != nil {
		return Config{}, err
	}

	policy, err := buildPolicyConfig()
	if err != nil {
		return Config{}, err
	}

	return Config{
		Server:   server,
		Provider: provider,
		Policy:   policy,
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

func buildProviderConfig() (ProviderConfig, error) {
	providerType := getEnv("POLICY_PROVIDER", ProviderEnv)
	switch providerType {
	case ProviderRedis, ProviderFile, ProviderEnv:
	default:
		return ProviderConfig{}, fmt.Errorf("unsupported POLICY_PROVIDER: %s", providerType)
	}

	redisPort, err := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	return ProviderConfig{
		Type: providerType,
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     redisPort,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		File: FileConfig{
			Path: getEnv("POLICY_FILE", "./policy.yaml"),
		},
	}, nil
}

func buildPolicyConfig() (PolicyConfig, error) {
	policy := PolicyConfig{
		IPThrottling:         getEnvBool("THROTTLE_IP", false),
		ClientThrottling:     getEnvBool("THROTTLE_CLIENT", false),
		EndpointThrottling:   getEnvBool("THROTTLE_ENDPOINT", false),
		StackBlockedRequests: getEnvBool("THROTTLE_STACK_BLOCKED_REQUESTS", false),
	}

	var err error
	if policy.LimitPerSecond, err = getEnvLimit("THROTTLE_LIMIT_PER_SECOND"); err != nil {
		return PolicyConfig{}, err
	}
	if policy.LimitPerMinute, err = getEnvLimit("THROTTLE_LIMIT_PER_MINUTE"); err != nil {
		return PolicyConfig{}, err
	}
	if policy.LimitPerHour, err = getEnvLimit("THROTTLE_LIMIT_PER_HOUR"); err != nil {
		return PolicyConfig{}, err
	}
	if policy.LimitPerDay, err = getEnvLimit("THROTTLE_LIMIT_PER_DAY"); err != nil {
		return PolicyConfig{}, err
	}
	if policy.LimitPerWeek, err = getEnvLimit("THROTTLE_LIMIT_PER_WEEK"); err != nil {
		return PolicyConfig{}, err
	}

	return policy, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvLimit keeps "not configured" distinct from zero: an unset variable
// yields nil, never a sentinel.
func getEnvLimit(key string) (*int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	if parsed < 0 {
		return nil, fmt.Errorf("%s must be non-negative, got %d", key, parsed)
	}
	return &parsed, nil
}
