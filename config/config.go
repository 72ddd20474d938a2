package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/maze-chain/chain"
	"github.com/lixenwraith/maze-chain/parameter"
)

var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New()

// Config holds every runtime setting of the maze-chain host
type Config struct {
	Chain   chain.Config  `yaml:"chain"`
	Host    HostConfig    `yaml:"host"`
	Feed    FeedConfig    `yaml:"feed"`
	Audio   AudioConfig   `yaml:"audio"`
	Logging LoggingConfig `yaml:"logging"`
}

// HostConfig holds terminal host loop settings
type HostConfig struct {
	TickInterval  time.Duration `yaml:"tick_interval" validate:"gt=0"`
	FrameInterval time.Duration `yaml:"frame_interval" validate:"gt=0"`
}

// FeedConfig holds the spectator websocket feed settings
type FeedConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Addr         string        `yaml:"addr" validate:"required_if=Enabled true"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gt=0"`
	PingInterval time.Duration `yaml:"ping_interval" validate:"gt=0"`
}

// AudioConfig holds cue playback settings
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume" validate:"gte=0,lte=1"`
	SampleRate int     `yaml:"sample_rate" validate:"gte=8000"`
}

// LoggingConfig holds debug log file settings
type LoggingConfig struct {
	Debug   bool   `yaml:"debug"`
	Dir     string `yaml:"dir" validate:"required"`
	File    string `yaml:"file" validate:"required"`
	MaxSize int64  `yaml:"max_size" validate:"gt=0"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Chain: chain.DefaultConfig(),
		Host: HostConfig{
			TickInterval:  parameter.TickInterval,
			FrameInterval: parameter.FrameUpdateInterval,
		},
		Feed: FeedConfig{
			Addr:         parameter.DefaultFeedAddr,
			WriteTimeout: parameter.FeedWriteTimeout,
			PingInterval: parameter.FeedPingInterval,
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     parameter.DefaultAudioVolume,
			SampleRate: parameter.AudioSampleRate,
		},
		Logging: LoggingConfig{
			Dir:     parameter.LogDir,
			File:    parameter.LogFileName,
			MaxSize: parameter.MaxLogSize,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (optional),
// a .env file in the working directory and MAZE_CHAIN_* environment variables, in that order
func Load(path string) (*Config, error) {
	return load(path, parameter.DefaultEnvFile)
}

func load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Existing environment variables win over .env entries
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: ignoring %s: %v", envFile, err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Chain.Seed = getInt64Env("SEED", c.Chain.Seed)
	c.Chain.BaseSize = getIntEnv("BASE_SIZE", c.Chain.BaseSize)
	c.Chain.SizeIncrement = getIntEnv("SIZE_INCREMENT", c.Chain.SizeIncrement)
	c.Chain.AlignmentX = getIntEnv("ALIGNMENT_X", c.Chain.AlignmentX)
	c.Chain.CellSize = getFloatEnv("CELL_SIZE", c.Chain.CellSize)
	c.Chain.Spacing = getFloatEnv("SPACING", c.Chain.Spacing)
	c.Chain.LookAhead = getIntEnv("LOOK_AHEAD", c.Chain.LookAhead)
	c.Chain.MaxSegments = getIntEnv("MAX_SEGMENTS", c.Chain.MaxSegments)

	c.Host.TickInterval = getDurationEnv("TICK_INTERVAL", c.Host.TickInterval)

	c.Feed.Enabled = getBoolEnv("FEED_ENABLED", c.Feed.Enabled)
	c.Feed.Addr = getEnv("FEED_ADDR", c.Feed.Addr)

	c.Audio.Enabled = getBoolEnv("AUDIO_ENABLED", c.Audio.Enabled)
	c.Audio.Volume = getFloatEnv("AUDIO_VOLUME", c.Audio.Volume)

	c.Logging.Debug = getBoolEnv("DEBUG", c.Logging.Debug)
	c.Logging.Dir = getEnv("LOG_DIR", c.Logging.Dir)
}

// Validate checks every section, chain bounds included
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Helper functions for environment variable access, keys are prefixed with MAZE_CHAIN_

func getEnv(key, defaultValue string) string {
	value := os.Getenv(parameter.ConfigEnvPrefix + key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("config: invalid integer for %s%s: %s, using %d", parameter.ConfigEnvPrefix, key, value, defaultValue)
		return defaultValue
	}
	return intValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("config: invalid integer for %s%s: %s, using %d", parameter.ConfigEnvPrefix, key, value, defaultValue)
		return defaultValue
	}
	return intValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("config: invalid number for %s%s: %s, using %v", parameter.ConfigEnvPrefix, key, value, defaultValue)
		return defaultValue
	}
	return floatValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("config: invalid boolean for %s%s: %s, using %v", parameter.ConfigEnvPrefix, key, value, defaultValue)
		return defaultValue
	}
	return boolValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("config: invalid duration for %s%s: %s, using %v", parameter.ConfigEnvPrefix, key, value, defaultValue)
		return defaultValue
	}
	return duration
}
