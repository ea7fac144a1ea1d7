package rollup

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

const (
	// MaxSequencerTimeout bounds the sequencer window so a window always fits in memory.
	MaxSequencerTimeout = 1 << 16

	DefaultSequencerTimeout = 10
	DefaultBatchCacheSize   = 1000
)

var ErrInvalidConfig = errors.New("invalid rollup config")

// Config holds the derivation parameters of a sequencer rollup.
type Config struct {
	// SequencerTimeout is the number of L1 blocks after an epoch's anchor during which the
	// sequencer may still submit blocks for that epoch.
	SequencerTimeout uint64 `json:"sequencer_timeout" toml:"sequencer_timeout"`
	// BatchCacheSize is the number of decoded L1 batches the incremental pipeline keeps.
	// Zero selects a size that covers one sequencer window.
	BatchCacheSize int `json:"batch_cache_size" toml:"batch_cache_size"`
}

func DefaultConfig() *Config {
	return &Config{
		SequencerTimeout: DefaultSequencerTimeout,
		BatchCacheSize:   DefaultBatchCacheSize,
	}
}

// Check verifies that the configuration is usable, reporting every problem it finds.
func (c *Config) Check() error {
	var result error
	if c.SequencerTimeout > MaxSequencerTimeout {
		result = multierror.Append(result, fmt.Errorf("%w: sequencer timeout %d exceeds max %d",
			ErrInvalidConfig, c.SequencerTimeout, MaxSequencerTimeout))
	}
	if c.BatchCacheSize < 0 {
		result = multierror.Append(result, fmt.Errorf("%w: negative batch cache size %d",
			ErrInvalidConfig, c.BatchCacheSize))
	}
	return result
}

// CacheSize returns the effective batch cache size.
func (c *Config) CacheSize() int {
	if c.BatchCacheSize > 0 {
		return c.BatchCacheSize
	}
	return int(c.SequencerTimeout) + 1
}
