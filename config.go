package metalisp

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the metalisp command.
type Config struct {
	// Prompt is shown before each REPL line.
	Prompt string `yaml:"prompt"`
	// MaxDepth limits nested function calls; 0 means no limit.
	MaxDepth int `yaml:"max_depth"`
	// Prelude loads the bundled and/or/null definitions at startup.
	Prelude bool `yaml:"prelude"`
	// Color enables colored error reports on a terminal.
	Color bool `yaml:"color"`
	// History is the REPL history file; empty disables history.
	History string `yaml:"history"`
}

func DefaultConfig() Config {
	return Config{
		Prompt:   "> ",
		MaxDepth: DefaultMaxDepth,
		Prelude:  true,
		Color:    true,
	}
}

// LoadConfig reads a YAML file over the defaults. Unknown keys are an
// error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrapf(ErrResource, "config %v: %v", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrapf(err, "config %v", path)
	}
	if cfg.MaxDepth < 0 {
		return cfg, errors.Errorf("config %v: max_depth must not be negative", path)
	}
	return cfg, nil
}

// Apply configures env from cfg.
func (cfg Config) Apply(env *Env) error {
	env.SetMaxDepth(cfg.MaxDepth)
	if cfg.Prelude {
		return LoadLib(env)
	}
	return nil
}
