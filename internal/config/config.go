package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Redis   RedisConfig   `yaml:"redis"`
	Game    GameConfig    `yaml:"game"`
	Cleanup CleanupConfig `yaml:"cleanup"`
}

// ServerConfig configures the HTTP/WebSocket listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig configures the redis connection.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig configures match parameters.
type GameConfig struct {
	TurnTimeLimit int `yaml:"turn_time_limit"` // seconds, default for new lobbies
	MaxAttempts   int `yaml:"max_attempts"`    // guesses per player per round
	BotDelayMin   int `yaml:"bot_delay_min"`   // seconds before a bot moves
	BotDelayMax   int `yaml:"bot_delay_max"`
}

// CleanupConfig configures the lobby reclamation sweep.
type CleanupConfig struct {
	Interval    int `yaml:"interval"`      // minutes between sweeps
	LobbyMaxAge int `yaml:"lobby_max_age"` // minutes before a lobby is reclaimed
	BatchSize   int `yaml:"batch_size"`    // lobbies scanned per sweep
}

// TurnTimeLimitDuration returns the default turn time limit.
func (c *GameConfig) TurnTimeLimitDuration() time.Duration {
	return time.Duration(c.TurnTimeLimit) * time.Second
}

// BotDelayRange returns the bot move delay bounds.
func (c *GameConfig) BotDelayRange() (time.Duration, time.Duration) {
	return time.Duration(c.BotDelayMin) * time.Second, time.Duration(c.BotDelayMax) * time.Second
}

// IntervalDuration returns the sweep period.
func (c *CleanupConfig) IntervalDuration() time.Duration {
	return time.Duration(c.Interval) * time.Minute
}

// LobbyMaxAgeDuration returns the reclamation age cutoff.
func (c *CleanupConfig) LobbyMaxAgeDuration() time.Duration {
	return time.Duration(c.LobbyMaxAge) * time.Minute
}

// Load reads a config file and applies defaults for missing values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.TurnTimeLimit == 0 {
		cfg.Game.TurnTimeLimit = 120
	}
	if cfg.Game.MaxAttempts == 0 {
		cfg.Game.MaxAttempts = 6
	}
	if cfg.Game.BotDelayMin == 0 {
		cfg.Game.BotDelayMin = 2
	}
	if cfg.Game.BotDelayMax == 0 {
		cfg.Game.BotDelayMax = 5
	}
	if cfg.Cleanup.Interval == 0 {
		cfg.Cleanup.Interval = 5
	}
	if cfg.Cleanup.LobbyMaxAge == 0 {
		cfg.Cleanup.LobbyMaxAge = 30
	}
	if cfg.Cleanup.BatchSize == 0 {
		cfg.Cleanup.BatchSize = 1000
	}
}
