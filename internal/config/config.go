package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel    string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort    string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort  string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	SessionTTL  time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"1h"`
	MoveTimeout time.Duration `yaml:"move-timeout" env:"MOVE_TIMEOUT" env-default:"5m"`
	Redis       Redis         `yaml:"redis"`
	Oracle      Oracle        `yaml:"oracle"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Oracle points at a remote move service. Without a URL the server picks
// moves itself.
type Oracle struct {
	URL     string        `yaml:"url" env:"ORACLE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"ORACLE_TIMEOUT" env-default:"10s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// SlogLevel maps log-level to a slog level, info when it is unknown.
func (that *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(that.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return level
}
