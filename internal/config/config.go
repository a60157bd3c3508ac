package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"

	"github.com/avolkov/locstat/internal/analyzer"
	"github.com/avolkov/locstat/internal/provider"
	"github.com/avolkov/locstat/internal/server"
)

// Config represents the main application configuration. Component
// sections validate themselves when the component is constructed.
type Config struct {
	Provider provider.Config `yaml:"provider"`
	Analyzer analyzer.Config `yaml:"analyzer"`
	Server   server.Config   `yaml:"server"`
	Output   OutputConfig    `yaml:"output"`
}

// OutputConfig controls where CLI runs place their artifacts.
type OutputConfig struct {
	Dir    string `yaml:"dir" env:"OUTPUT_DIR"`
	Charts bool   `yaml:"charts" env:"OUTPUT_CHARTS"`
}

func (c *OutputConfig) PrepareAndValidate() error {
	c.Dir = lang.Check(c.Dir, "output")
	return nil
}

// Load reads configuration from the YAML file at path, falling back to
// environment variables only when no path is given. Environment variables
// override file values either way.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, errm.Wrap(err, "failed to read config from environment")
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return Config{}, errm.Wrap(err, "failed to read config file")
	}
	return cfg, nil
}
