package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	envConfigPath = "LOOM_CONFIG"
	envVocabFile  = "LOOM_VOCAB_FILE"
)

// Config represents persistent defaults loaded from the user config file.
// Pointer fields distinguish "absent" from zero values.
type Config struct {
	VocabFile string `yaml:"vocab_file"`
	Hidden    *int64 `yaml:"hidden"`

	Length            *int64   `yaml:"length"`
	Samples           *int64   `yaml:"samples"`
	Parallel          *int64   `yaml:"parallel"`
	Temperature       *float64 `yaml:"temperature"`
	TopK              *int64   `yaml:"top_k"`
	TopP              *float64 `yaml:"top_p"`
	RepetitionPenalty *float64 `yaml:"repetition_penalty"`
	Seed              *int64   `yaml:"seed"`

	ServerAddress string `yaml:"server_address"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// configPath returns the config file location. LOOM_CONFIG overrides the
// default of ~/.config/loom/config.yaml.
func configPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "loom", "config.yaml")
}

// LoadConfig reads the config file. A missing or unreadable file yields an
// empty config; flags keep their built-in defaults.
func LoadConfig() Config {
	var cfg Config
	path := configPath()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyGenerateConfig lays config file values under the model, sampling and
// logging flags, touching only flags not set on the command line.
func applyGenerateConfig(c *cli.Command, cfg Config) {
	if cfg.VocabFile != "" && !c.IsSet("vocab") {
		vocabPath = cfg.VocabFile
	}
	if cfg.Hidden != nil && !c.IsSet("hidden") {
		hiddenSize = *cfg.Hidden
	}
	if cfg.Length != nil && !c.IsSet("length") && !c.IsSet("n") {
		genLength = *cfg.Length
	}
	if cfg.Samples != nil && !c.IsSet("samples") && !c.IsSet("nsamples") {
		genSamples = *cfg.Samples
	}
	if cfg.Parallel != nil && !c.IsSet("parallel") {
		genParallel = *cfg.Parallel
	}
	if cfg.Temperature != nil && !c.IsSet("temperature") && !c.IsSet("temp") && !c.IsSet("t") {
		genTemperature = *cfg.Temperature
	}
	if cfg.TopK != nil && !c.IsSet("top-k") && !c.IsSet("top_k") && !c.IsSet("topk") {
		genTopK = *cfg.TopK
	}
	if cfg.TopP != nil && !c.IsSet("top-p") && !c.IsSet("top_p") && !c.IsSet("topp") {
		genTopP = *cfg.TopP
	}
	if cfg.RepetitionPenalty != nil && !c.IsSet("repetition-penalty") && !c.IsSet("repetition_penalty") && !c.IsSet("repeat-penalty") {
		genRepeatPenalty = *cfg.RepetitionPenalty
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		genSeed = *cfg.Seed
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyServeConfig lays the config file server address under the addr flag.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}
