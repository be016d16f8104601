package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string    `yaml:"socket-port" env:"PORT" env-default:"8080"`
	Redis      Redis     `yaml:"redis"`
	Game       Game      `yaml:"game"`
	WebSocket  WebSocket `yaml:"websocket"`
}

type Redis struct {
	Enabled bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	DB      int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL     time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"1h"`
}

// Game holds rule-independent gameplay policies.
type Game struct {
	// ReportIllegalMoves sends an error event back to the mover instead of dropping the move silently.
	ReportIllegalMoves bool `yaml:"report-illegal-moves" env:"REPORT_ILLEGAL_MOVES" env-default:"false"`
}

type WebSocket struct {
	SendBuffer     int           `yaml:"send-buffer" env-default:"64"`
	WriteTimeout   time.Duration `yaml:"write-timeout" env-default:"10s"`
	PongTimeout    time.Duration `yaml:"pong-timeout" env-default:"60s"`
	PingPeriod     time.Duration `yaml:"ping-period" env-default:"30s"`
	MaxMessageSize int64         `yaml:"max-message-size" env-default:"4096"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load - reads config.yml and applies environment overrides.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
