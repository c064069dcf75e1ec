package cmd

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// defaultConfigFile is picked up from the working directory when no
// --config flag is given.
const defaultConfigFile = "larder.hcl"

// Config is the CLI-level configuration: where the data root lives and
// which category directories it contains. The library itself takes the
// root explicitly per call; this only exists so the commands have one.
type Config struct {
	Root       string   `hcl:"root,optional"`
	Categories []string `hcl:"categories,optional"`
}

func defaultConfig() Config {
	return Config{
		Root:       ".",
		Categories: []string{"diets", "allergens", "ingredients", "cuisines"},
	}
}

// loadConfig resolves the effective configuration. Precedence: flags
// over config file over built-in defaults.
func loadConfig() (Config, error) {
	var cfg Config

	path := cfgPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if path != "" {
		if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if rootDir != "" {
		cfg.Root = rootDir
	}
	if err := mergo.Merge(&cfg, defaultConfig()); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
