package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup"
	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup/driver"
	oplog "github.com/ethereum-optimism/optimistic-specs/op-service/log"
	opmetrics "github.com/ethereum-optimism/optimistic-specs/op-service/metrics"
)

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "generator.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGeneratorConfig(t *testing.T) {
	path := writeFile(t, `
blocks = 50

[rollup]
sequencer_timeout = 4

[sequencer]
mode = "random"
blocks_per_batch = 3
compress = true
`)
	cfg, err := LoadGeneratorConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Check())
	require.Equal(t, 50, cfg.Blocks)
	require.Equal(t, uint64(4), cfg.Rollup.SequencerTimeout)
	require.Equal(t, rollup.DefaultBatchCacheSize, cfg.Rollup.BatchCacheSize, "default kept")
	require.Equal(t, driver.Random, cfg.Sequencer.Mode)
	require.Equal(t, 3, cfg.Sequencer.BlocksPerBatch)
	require.True(t, cfg.Sequencer.Compress)
	require.Equal(t, driver.DefaultConfig().Seed, cfg.Sequencer.Seed)
}

func TestLoadGeneratorConfigErrors(t *testing.T) {
	_, err := LoadGeneratorConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadGeneratorConfig(writeFile(t, `[sequencer]
mode = "eager"
`))
	require.ErrorContains(t, err, driver.ErrUnknownMode.Error())

	_, err = LoadGeneratorConfig(writeFile(t, `timeout = 3`))
	require.ErrorContains(t, err, "unknown keys")
}

func TestConfigCheck(t *testing.T) {
	cfg := Config{
		Rollup:    *rollup.DefaultConfig(),
		Log:       oplog.DefaultCLIConfig(),
		Metrics:   opmetrics.DefaultCLIConfig(),
		Generator: DefaultGeneratorConfig(),
	}
	require.NoError(t, cfg.Check())

	cfg.Rollup.SequencerTimeout = rollup.MaxSequencerTimeout + 1
	cfg.Metrics.Enabled = true
	cfg.Metrics.ListenPort = -1
	err := cfg.Check()
	require.ErrorIs(t, err, rollup.ErrInvalidConfig)
	require.ErrorIs(t, err, opmetrics.ErrInvalidPort)
}
