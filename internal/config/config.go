package config

import (
	"fmt"
	"strconv"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	minPort = 1024
	maxPort = 65535
)

type Config struct {
	LogLevel         string `yaml:"log-level" env-default:"info"`
	GamePort         string `yaml:"game-port" env-default:"8002"`
	HTTPPort         string `yaml:"http-port" env-default:"9090"`
	UserDatabasePath string `yaml:"user-database" env-default:"./users.db"`
	Redis            Redis  `yaml:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env-default:""`
	Port string `yaml:"port" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	port, err := strconv.Atoi(config.GamePort)
	if err != nil || port < minPort || port > maxPort {
		panic(fmt.Errorf("game port %q out of range [%d, %d]", config.GamePort, minPort, maxPort))
	}

	return config
}

// GetRedisAddr returns an empty string when no Redis host is
// configured; the match archive is disabled in that case.
func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
