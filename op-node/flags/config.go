package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/optimistic-specs/op-node/config"
	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup"
	oplog "github.com/ethereum-optimism/optimistic-specs/op-service/log"
	opmetrics "github.com/ethereum-optimism/optimistic-specs/op-service/metrics"
)

// ConfigFromCLI assembles the configuration from the flags of the running command. Generator
// settings start from the defaults, then the TOML file if one is given, then the flags that are
// explicitly set.
func ConfigFromCLI(ctx *cli.Context) (*config.Config, error) {
	cfg := &config.Config{
		Rollup: rollup.Config{
			SequencerTimeout: ctx.Uint64(SequencerTimeout.Name),
			BatchCacheSize:   ctx.Int(BatchCacheSize.Name),
		},
		Log:       oplog.ReadCLIConfig(ctx),
		Metrics:   opmetrics.ReadCLIConfig(ctx),
		Generator: config.DefaultGeneratorConfig(),
	}

	gen := &cfg.Generator
	if path := ctx.Path(GeneratorConfig.Name); path != "" {
		loaded, err := config.LoadGeneratorConfig(path)
		if err != nil {
			return nil, err
		}
		*gen = loaded
		if !ctx.IsSet(SequencerTimeout.Name) {
			cfg.Rollup.SequencerTimeout = gen.Rollup.SequencerTimeout
		}
		if !ctx.IsSet(BatchCacheSize.Name) {
			cfg.Rollup.BatchCacheSize = gen.Rollup.BatchCacheSize
		}
	}
	gen.Rollup = cfg.Rollup

	if ctx.IsSet(Blocks.Name) {
		gen.Blocks = ctx.Int(Blocks.Name)
	}
	if ctx.IsSet(SimpleChain.Name) {
		gen.Simple = ctx.Bool(SimpleChain.Name)
	}
	if ctx.IsSet(SequencerMode.Name) {
		if err := gen.Sequencer.Mode.UnmarshalText([]byte(ctx.String(SequencerMode.Name))); err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", SequencerMode.Name, err)
		}
	}
	if ctx.IsSet(BlocksPerBatch.Name) {
		gen.Sequencer.BlocksPerBatch = ctx.Int(BlocksPerBatch.Name)
	}
	if ctx.IsSet(Compress.Name) {
		gen.Sequencer.Compress = ctx.Bool(Compress.Name)
	}
	if ctx.IsSet(Seed.Name) {
		gen.Sequencer.Seed = ctx.Int64(Seed.Name)
	}

	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}
