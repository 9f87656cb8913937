package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port      int
		JWTSecret string
	}
	Database struct {
		Path string
	}
	Engine struct {
		SimulationEnabled  bool
		GenerationInterval time.Duration
		EvaluationInterval time.Duration
		RetentionInterval  time.Duration
		DedupWindow        time.Duration
		RetentionWindow    time.Duration
		StalenessBound     time.Duration
	}
	Alert struct {
		Slack struct {
			Token   string
			Channel string
		}
		Email struct {
			SMTPHost string
			SMTPPort int
			From     string
			Password string
		}
	}
	Log struct {
		Level string
	}
}

// LoadConfig reads config.yaml from the working directory, with AQUAEYE_*
// environment variables overriding any key (AQUAEYE_ENGINE_DEDUPWINDOW etc).
// Missing file or keys fall back to defaults.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("aquaeye")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.jwtsecret", "")
	viper.SetDefault("database.path", "data/aquaeye.db")
	viper.SetDefault("engine.simulationenabled", true)
	viper.SetDefault("engine.generationinterval", 5*time.Second)
	viper.SetDefault("engine.evaluationinterval", 2*time.Minute)
	viper.SetDefault("engine.retentioninterval", 24*time.Hour)
	viper.SetDefault("engine.dedupwindow", 30*time.Minute)
	viper.SetDefault("engine.retentionwindow", 30*24*time.Hour)
	viper.SetDefault("engine.stalenessbound", time.Hour)
	viper.SetDefault("alert.email.smtpport", 587)
	viper.SetDefault("log.level", "info")
}
