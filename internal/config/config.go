package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "handbits.hcl"

// Config is the complete handbits configuration
type Config struct {
	LogLevel string          `hcl:"log_level,optional"`
	Seed     *int64          `hcl:"seed,optional"`
	Survey   *SurveySettings `hcl:"survey,block"`
	Server   *ServerSettings `hcl:"server,block"`
}

// SurveySettings configures Monte Carlo category surveys
type SurveySettings struct {
	Hands   int    `hcl:"hands,optional"`
	Workers int    `hcl:"workers,optional"`
	Verify  bool   `hcl:"verify,optional"`
	Oracle  string `hcl:"oracle,optional"`
}

// ServerSettings configures the websocket classification service
type ServerSettings struct {
	Address      string `hcl:"address,optional"`
	WriteTimeout int    `hcl:"write_timeout_ms,optional"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Survey: &SurveySettings{
			Hands:   100000,
			Workers: 0,
			Oracle:  "histogram",
		},
		Server: &ServerSettings{
			Address:      ":8080",
			WriteTimeout: 1000,
		},
	}
}

// Load reads an HCL config file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills in defaults for anything unset.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Survey == nil {
		c.Survey = def.Survey
	} else {
		if c.Survey.Hands == 0 {
			c.Survey.Hands = def.Survey.Hands
		}
		if c.Survey.Oracle == "" {
			c.Survey.Oracle = def.Survey.Oracle
		}
	}
	if c.Server == nil {
		c.Server = def.Server
	} else {
		if c.Server.Address == "" {
			c.Server.Address = def.Server.Address
		}
		if c.Server.WriteTimeout == 0 {
			c.Server.WriteTimeout = def.Server.WriteTimeout
		}
	}
}

// Validate rejects settings no command can run with
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Survey.Hands < 0 {
		return fmt.Errorf("survey hands must be positive, got %d", c.Survey.Hands)
	}
	if c.Survey.Workers < 0 {
		return fmt.Errorf("survey workers must not be negative, got %d", c.Survey.Workers)
	}
	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server write_timeout_ms must not be negative, got %d", c.Server.WriteTimeout)
	}
	return nil
}
