package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// projectConfig is the optional lexgen.toml project file: defaults for
// flags a user doesn't want to retype on every invocation.
type projectConfig struct {
	RuleFile    string `toml:"rule_file"`
	TableOut    string `toml:"table_out"`
	TokenOut    string `toml:"token_out"`
	TableName   string `toml:"table_name"`
	TokenName   string `toml:"token_name"`
	MachineName string `toml:"machine_name"`
	CacheDir    string `toml:"cache_dir"`
}

func loadProjectConfig(path string) (*projectConfig, error) {
	var cfg projectConfig
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
