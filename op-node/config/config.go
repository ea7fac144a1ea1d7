package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"

	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup"
	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup/driver"
	oplog "github.com/ethereum-optimism/optimistic-specs/op-service/log"
	opmetrics "github.com/ethereum-optimism/optimistic-specs/op-service/metrics"
)

// Config is the complete configuration of op-blockgen.
type Config struct {
	Rollup  rollup.Config
	Log     oplog.CLIConfig
	Metrics opmetrics.CLIConfig

	// Generator holds the settings of the generate command.
	Generator GeneratorConfig
}

// GeneratorConfig describes the L1 chain produced by the generate command. It can be loaded
// from a TOML file.
type GeneratorConfig struct {
	Blocks int `toml:"blocks"`

	// Simple selects a simple rollup chain: one encoded L2 block in the first event of every
	// L1 block, and no sequencer batches.
	Simple    bool          `toml:"simple"`
	Rollup    rollup.Config `toml:"rollup"`
	Sequencer driver.Config `toml:"sequencer"`
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Blocks:    20,
		Rollup:    *rollup.DefaultConfig(),
		Sequencer: driver.DefaultConfig(),
	}
}

// LoadGeneratorConfig reads a TOML generator file on top of the defaults. Keys the file does not
// mention keep their default.
func LoadGeneratorConfig(path string) (GeneratorConfig, error) {
	cfg := DefaultGeneratorConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read generator config: %w", err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to decode generator config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown keys in generator config %s: %v", path, undecoded)
	}
	return cfg, nil
}

func (c *GeneratorConfig) Check() error {
	var result error
	if c.Blocks < 0 {
		result = multierror.Append(result, fmt.Errorf("negative number of blocks %d", c.Blocks))
	}
	if err := c.Rollup.Check(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.Sequencer.Check(); err != nil {
		result = multierror.Append(result, err)
	}
	return result
}

// Check verifies that the config is usable, reporting every problem it finds.
func (c *Config) Check() error {
	var result error
	if err := c.Rollup.Check(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.Metrics.Check(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.Generator.Check(); err != nil {
		result = multierror.Append(result, err)
	}
	return result
}
