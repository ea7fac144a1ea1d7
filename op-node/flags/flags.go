package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup"
	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup/driver"
	service "github.com/ethereum-optimism/optimistic-specs/op-service"
	oplog "github.com/ethereum-optimism/optimistic-specs/op-service/log"
	opmetrics "github.com/ethereum-optimism/optimistic-specs/op-service/metrics"
)

const EnvVarPrefix = "OP_BLOCKGEN"

func prefixEnvVars(name string) []string {
	return service.PrefixEnvVar(EnvVarPrefix, name)
}

var (
	/* Global flags */

	SequencerTimeout = &cli.Uint64Flag{
		Name:    "sequencer.timeout",
		Usage:   "Number of L1 blocks after an epoch's anchor during which the sequencer may submit blocks for it",
		Value:   rollup.DefaultSequencerTimeout,
		EnvVars: prefixEnvVars("SEQUENCER_TIMEOUT"),
	}
	BatchCacheSize = &cli.IntFlag{
		Name:    "batch.cache-size",
		Usage:   "Number of decoded L1 batches kept by the incremental pipeline. 0 covers one sequencer window",
		Value:   rollup.DefaultBatchCacheSize,
		EnvVars: prefixEnvVars("BATCH_CACHE_SIZE"),
	}

	/* generate */

	GeneratorConfig = &cli.PathFlag{
		Name:    "config",
		Usage:   "TOML file with the rollup and sequencer settings. Flags that are set take precedence",
		EnvVars: prefixEnvVars("CONFIG"),
	}
	Blocks = &cli.IntFlag{
		Name:    "blocks",
		Usage:   "Number of L1 blocks to generate",
		Value:   20,
		EnvVars: prefixEnvVars("BLOCKS"),
	}
	SimpleChain = &cli.BoolFlag{
		Name:    "simple",
		Usage:   "Generate a simple rollup chain, carrying one L2 block per L1 block instead of sequencer batches",
		EnvVars: prefixEnvVars("SIMPLE"),
	}
	SequencerMode = &cli.StringFlag{
		Name:    "sequencer.mode",
		Usage:   fmt.Sprintf("How the sequencer picks target epochs: %s, %s or %s", driver.Fixed, driver.Random, driver.Idle),
		Value:   driver.Fixed.String(),
		EnvVars: prefixEnvVars("SEQUENCER_MODE"),
	}
	BlocksPerBatch = &cli.IntFlag{
		Name:    "sequencer.blocks-per-batch",
		Usage:   "Number of sequencer blocks submitted in each L1 block",
		Value:   1,
		EnvVars: prefixEnvVars("SEQUENCER_BLOCKS_PER_BATCH"),
	}
	Compress = &cli.BoolFlag{
		Name:    "sequencer.compress",
		Usage:   "Snappy-compress sequencer batches",
		EnvVars: prefixEnvVars("SEQUENCER_COMPRESS"),
	}
	Seed = &cli.Int64Flag{
		Name:    "seed",
		Usage:   "Seed of the random sequencer",
		Value:   driver.DefaultConfig().Seed,
		EnvVars: prefixEnvVars("SEED"),
	}

	/* derive, simple, inspect */

	L1ChainFile = &cli.PathFlag{
		Name:     "l1",
		Usage:    "JSON file holding the L1 chain",
		Required: true,
		EnvVars:  prefixEnvVars("L1"),
	}
	OutFile = &cli.PathFlag{
		Name:    "out",
		Usage:   "JSON file to write the resulting chain to. The chain is not written if empty",
		EnvVars: prefixEnvVars("OUT"),
	}
	GenerateOutFile = &cli.PathFlag{
		Name:     "out",
		Usage:    "JSON file to write the generated L1 chain to",
		Required: true,
		EnvVars:  prefixEnvVars("OUT"),
	}
	Watch = &cli.BoolFlag{
		Name:    "watch",
		Usage:   "Keep deriving as the L1 chain file changes",
		EnvVars: prefixEnvVars("WATCH"),
	}
	ChainFile = &cli.PathFlag{
		Name:     "chain",
		Usage:    "JSON file holding the chain to inspect",
		Required: true,
	}
	ShowBatches = &cli.BoolFlag{
		Name:  "batches",
		Usage: "Also decode and list the sequencer batch of every block",
	}
)

// Flags contains the global configuration options of the binary.
var Flags []cli.Flag

var globalFlags = []cli.Flag{
	SequencerTimeout,
	BatchCacheSize,
}

var GenerateFlags = []cli.Flag{
	GeneratorConfig,
	Blocks,
	SimpleChain,
	SequencerMode,
	BlocksPerBatch,
	Compress,
	Seed,
	GenerateOutFile,
}

var DeriveFlags = []cli.Flag{
	L1ChainFile,
	OutFile,
	Watch,
}

var SimpleFlags = []cli.Flag{
	L1ChainFile,
	OutFile,
}

var InspectFlags = []cli.Flag{
	ChainFile,
	ShowBatches,
}

func init() {
	Flags = append(Flags, oplog.CLIFlags(EnvVarPrefix)...)
	Flags = append(Flags, opmetrics.CLIFlags(EnvVarPrefix)...)
	Flags = append(Flags, globalFlags...)
}
