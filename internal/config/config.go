package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAdminPIN is the built-in fallback when no PIN is configured. It is a
// plaintext shared secret, kept only because the quiz deliberately has no
// stronger gate; deployments should always set their own.
const DefaultAdminPIN = "801112Pm@"

// Config is the service configuration, loaded from YAML with environment
// overrides for the deployment-specific values.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`
	Admin struct {
		PIN       string `yaml:"pin"`
		JWTSecret string `yaml:"jwtSecret"`
	} `yaml:"admin"`
	Game struct {
		TimerDurationSec         int `yaml:"timerDurationSec"`
		ReviewSec                int `yaml:"reviewSec"`
		OpenGraceMs              int `yaml:"openGraceMs"`
		AdvanceFallbackMs        int `yaml:"advanceFallbackMs"`
		AggregationDefaultDurSec int `yaml:"aggregationDefaultDurSec"`
	} `yaml:"game"`
	Questions struct {
		Path string `yaml:"path"`
	} `yaml:"questions"`
	Sounds struct {
		Correct string `yaml:"correct"`
		Wrong   string `yaml:"wrong"`
	} `yaml:"sounds"`
}

// Load reads YAML config from path and applies environment overrides.
// A missing file is not an error; defaults and env cover everything.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		} else if !os.IsNotExist(err) {
			return cfg, err
		}
	}

	cfg.Server.Port = getEnvOrDefault("PORT", defaultString(cfg.Server.Port, "8080"))
	cfg.Redis.Addr = getEnvOrDefault("REDIS_URI", defaultString(cfg.Redis.Addr, "localhost:6379"))
	cfg.Mongo.URI = getEnvOrDefault("MONGO_URI", defaultString(cfg.Mongo.URI, "mongodb://localhost:27017"))
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "quizlive"
	}
	cfg.Admin.PIN = getEnvOrDefault("ADMIN_PIN", cfg.Admin.PIN)
	cfg.Admin.JWTSecret = getEnvOrDefault("JWT_SECRET", defaultString(cfg.Admin.JWTSecret, "super-secret-key-change-in-production"))
	if cfg.Questions.Path == "" {
		cfg.Questions.Path = "config/questions.json"
	}
	return cfg, nil
}

// TimerDuration returns the per-question countdown length.
func (c Config) TimerDuration() time.Duration {
	return secondsOrDefault(c.Game.TimerDurationSec, 240*time.Second)
}

// ReviewDuration returns the post-lock review window length.
func (c Config) ReviewDuration() time.Duration {
	return secondsOrDefault(c.Game.ReviewSec, 15*time.Second)
}

// OpenGrace returns the input-suppression window after a question opens.
func (c Config) OpenGrace() time.Duration {
	return millisOrDefault(c.Game.OpenGraceMs, 350*time.Millisecond)
}

// AdvanceFallback returns the slack added to the redundant advance timer.
func (c Config) AdvanceFallback() time.Duration {
	return millisOrDefault(c.Game.AdvanceFallbackMs, 250*time.Millisecond)
}

func secondsOrDefault(sec int, fallback time.Duration) time.Duration {
	if sec <= 0 {
		return fallback
	}
	return time.Duration(sec) * time.Second
}

func millisOrDefault(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
