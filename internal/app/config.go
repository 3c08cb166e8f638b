package app

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the application configuration, loadable from environment
// variables (SHOPLITE_ prefix) or YAML config files. Command line arguments
// are left to the subcommand flag sets.
type Config struct {
	DatabasePath string `default:"shop.db" usage:"Path to the SQLite store file"`
	ReportsDir   string `default:"reports" usage:"Directory for generated analytics reports"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOPLITE",
		SkipFlags: true,
		Files:     []string{"config.yaml", "/etc/shoplite/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return &cfg, nil
}
