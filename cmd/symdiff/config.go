package main

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config holds settings read from a TOML file. Command line flags override
// it.
type Config struct {
	// Parallelism is the number of chunks rows are split into for
	// evaluation. 1 evaluates sequentially; 0 uses every CPU.
	Parallelism int `toml:"parallelism"`
	// LogLevel is a logrus level name.
	LogLevel string `toml:"log_level"`
	// Wrt is the variable to differentiate with respect to.
	Wrt string `toml:"wrt"`
	// Format is the fmt verb used to print results.
	Format string `toml:"format"`
}

func defaultConfig() Config {
	return Config{
		Parallelism: 1,
		LogLevel:    "warning",
		Wrt:         "x",
		Format:      "%g",
	}
}

// loadConfig reads the config file at path over the defaults. An empty path
// gives the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if und := md.Undecoded(); len(und) != 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, errors.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.validate()
}

func (cfg *Config) validate() error {
	if cfg.Parallelism < 0 {
		return errors.Errorf("parallelism (%d) must not be negative", cfg.Parallelism)
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return errors.Wrap(err, "bad log level")
	}
	if cfg.Wrt == "" {
		return errors.New("wrt must name a variable")
	}
	if !strings.Contains(cfg.Format, "%") {
		return errors.Errorf("format %q has no verb", cfg.Format)
	}
	return nil
}
