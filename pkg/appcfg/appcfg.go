package appcfg

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Language             string `yaml:"language"`  // "ru" | "en"
	LogLevel             string `yaml:"log_level"` // "debug"|"info"|"warn"|"error"
	HideSecretsInConsole bool   `yaml:"hide_secrets_in_console"`
	Cores                int    `yaml:"cores"`    // generation workers, 0 = GOMAXPROCS
	LogsDir              string `yaml:"logs_dir"` // per-run app.log + summary.json, "" disables

	Generate Generate `yaml:"generate"`
	Scan     Scan     `yaml:"scan"`
}

type Generate struct {
	Count         int    `yaml:"count"`
	Words         int    `yaml:"words"`
	OutputDir     string `yaml:"output_dir"`
	BatchSize     int    `yaml:"batch_size"`
	ProgressEvery int    `yaml:"progress_every"` // 0 disables, 10000 when absent
}

type Scan struct {
	Workers   int           `yaml:"workers"`
	ResultDir string        `yaml:"result_dir"`
	InputDir  string        `yaml:"input_dir"`
	Endpoint  string        `yaml:"endpoint"`
	Timeout   time.Duration `yaml:"timeout"`
	Journal   string        `yaml:"journal"`

	// extra request headers, e.g. an API key for a private LCD
	EndpointHeaders map[string]string `yaml:"endpoint_headers"`
}

// Default is the configuration used when no file is present.
func Default() *Config {
	c := preset()
	c.applyDefaults()
	return c
}

// preset holds defaults for keys whose zero value is meaningful, so they are
// only used when the key is absent from the file.
func preset() *Config {
	return &Config{Generate: Generate{ProgressEvery: 10_000}}
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open app config %q", path)
	}
	defer f.Close()

	c := preset()
	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return nil, errors.Wrapf(err, "decode app yaml %q", path)
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = "en"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Generate.Count == 0 {
		c.Generate.Count = 1_000_000
	}
	if c.Generate.Words == 0 {
		c.Generate.Words = 24
	}
	if c.Generate.OutputDir == "" {
		c.Generate.OutputDir = "wallets"
	}
	if c.Generate.BatchSize == 0 {
		c.Generate.BatchSize = 100_000
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = 20
	}
	if c.Scan.ResultDir == "" {
		c.Scan.ResultDir = "found_wallets"
	}
	if c.Scan.InputDir == "" {
		c.Scan.InputDir = "."
	}
	if c.Scan.Endpoint == "" {
		c.Scan.Endpoint = "https://lcd.osmosis.zone"
	}
	if c.Scan.Timeout == 0 {
		c.Scan.Timeout = 10 * time.Second
	}
}
