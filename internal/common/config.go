package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	LLM      LLMConfig
	Pipeline PipelineConfig
	Layout   LayoutConfig
}

// LLMConfig holds completion-service configuration
type LLMConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
	MaxAttempts int
	MaxTokens   int
	Enabled     bool
}

// PipelineConfig holds segmentation and stage-2 behavior
type PipelineConfig struct {
	ChunkSize     int
	ChunkOverlap  int
	Lookback      int
	Stage1Timeout time.Duration
}

// LayoutConfig holds row-reconstruction tolerances
type LayoutConfig struct {
	BandTolerance float64
	ColumnGap     float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			MaxAttempts: getEnvAsInt("LLM_MAX_ATTEMPTS", 3),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 4096),
			Enabled:     getEnv("OPENAI_API_KEY", "") != "",
		},
		Pipeline: PipelineConfig{
			ChunkSize:     getEnvAsInt("PIPELINE_CHUNK_SIZE", 6000),
			ChunkOverlap:  getEnvAsInt("PIPELINE_CHUNK_OVERLAP", 200),
			Lookback:      getEnvAsInt("PIPELINE_CHUNK_LOOKBACK", 600),
			Stage1Timeout: getEnvAsDuration("PIPELINE_STAGE1_TIMEOUT", 2*time.Second),
		},
		Layout: LayoutConfig{
			BandTolerance: getEnvAsFloat64("LAYOUT_BAND_TOLERANCE", 3.0),
			ColumnGap:     getEnvAsFloat64("LAYOUT_COLUMN_GAP", 18.0),
		},
	}
}

// Validate validates the loaded configuration. The API key is only required
// when the AI-assisted stage is enabled; the deterministic path runs without it.
func (c *Config) Validate() error {
	if c.LLM.Enabled && c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required when stage 2 is enabled", ErrInvalidInput)
	}
	if c.Pipeline.ChunkSize <= 0 {
		return NewAppError("CONFIG_ERROR", "PIPELINE_CHUNK_SIZE must be positive", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
