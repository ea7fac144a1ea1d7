package driver

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup"
	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup/derive"
	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
)

type SequencerMode uint64

const (
	// Fixed targets the epoch halfway back through the sequencer window.
	Fixed SequencerMode = iota
	// Random targets a random epoch that is still open, never below the previous target.
	Random
	// Idle never submits batches, which yields a deposit-only L2 chain.
	Idle
)

var ErrUnknownMode = errors.New("unknown sequencer mode")

func (m SequencerMode) String() string {
	switch m {
	case Fixed:
		return "fixed"
	case Random:
		return "random"
	case Idle:
		return "idle"
	default:
		return fmt.Sprintf("mode(%d)", uint64(m))
	}
}

func (m SequencerMode) MarshalText() ([]byte, error) {
	if m > Idle {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, uint64(m))
	}
	return []byte(m.String()), nil
}

func (m *SequencerMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "fixed":
		*m = Fixed
	case "random":
		*m = Random
	case "idle":
		*m = Idle
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, string(text))
	}
	return nil
}

// Config controls how the sequencer fills its batches.
type Config struct {
	Mode           SequencerMode `toml:"mode"`
	BlocksPerBatch int           `toml:"blocks_per_batch"`
	Compress       bool          `toml:"compress"`
	Seed           int64         `toml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Mode:           Fixed,
		BlocksPerBatch: 1,
		Seed:           1234,
	}
}

func (c *Config) Check() error {
	if c.Mode > Idle {
		return fmt.Errorf("%w: %d", ErrUnknownMode, uint64(c.Mode))
	}
	if c.BlocksPerBatch < 1 {
		return fmt.Errorf("blocks per batch must be at least 1, got %d", c.BlocksPerBatch)
	}
	return nil
}

// InProgressBatch holds the sequencer blocks queued for the next L1 block.
type InProgressBatch struct {
	// number of the L1 block the batch will be included in
	onto   uint64
	blocks eth.SequencerBatch
}

// Sequencer produces sequencer batches and embeds them in L1 blocks. It is the producing
// counterpart of the derivation: every block it submits targets an epoch whose sequencer window
// still contains the L1 block carrying it.
type Sequencer struct {
	log    log.Logger
	config *rollup.Config
	seqCfg Config
	rng    *rand.Rand

	// highest target epoch submitted so far
	lastTarget uint64
	submitted  []eth.SequencerBlock

	pending *InProgressBatch
}

func NewSequencer(log log.Logger, cfg *rollup.Config, seqCfg Config) (*Sequencer, error) {
	if err := seqCfg.Check(); err != nil {
		return nil, err
	}
	return &Sequencer{
		log:    log,
		config: cfg,
		seqCfg: seqCfg,
		rng:    rand.New(rand.NewSource(seqCfg.Seed)),
	}, nil
}

// OpenEpochs returns the range of epochs a batch included in L1 block `onto` can still target:
// the anchors of the `timeout` blocks before it. ok is false if no epoch is open.
func OpenEpochs(onto uint64, timeout uint64) (first, last uint64, ok bool) {
	if onto < 2 || timeout == 0 {
		return 0, 0, false
	}
	last = onto - 1
	first = 1
	if onto > timeout {
		first = onto - timeout
	}
	return first, last, true
}

// nextTarget picks the target epoch for the next block of a batch included in L1 block `onto`.
func (d *Sequencer) nextTarget(onto uint64) (uint64, bool) {
	first, last, ok := OpenEpochs(onto, d.config.SequencerTimeout)
	if !ok {
		return 0, false
	}
	// never regress below an earlier submission, or the derivation drops the block
	if d.lastTarget > first {
		first = d.lastTarget
	}
	if first > last {
		return 0, false
	}
	switch d.seqCfg.Mode {
	case Fixed:
		target := first
		if back := (d.config.SequencerTimeout + 1) / 2; onto > back && onto-back > first {
			target = onto - back
		}
		return target, true
	case Random:
		return first + uint64(d.rng.Int63n(int64(last-first+1))), true
	default:
		return 0, false
	}
}

// PlanBatch queues the blocks of the batch for L1 block `onto`, according to the sequencer mode.
func (d *Sequencer) PlanBatch(onto uint64) {
	if d.pending == nil || d.pending.onto != onto {
		d.pending = &InProgressBatch{onto: onto}
	}
	for i := 0; i < d.seqCfg.BlocksPerBatch; i++ {
		target, ok := d.nextTarget(onto)
		if !ok {
			return
		}
		d.AddBlock(d.newBlock(target))
	}
}

// AddBlock queues a sequencer block for the pending batch. Blocks added without a pending batch
// are dropped.
func (d *Sequencer) AddBlock(block eth.SequencerBlock) {
	if d.pending == nil {
		d.log.Warn("no pending batch, dropping sequencer block", "target_epoch", block.TargetEpoch)
		return
	}
	d.pending.blocks = append(d.pending.blocks, block)
	if block.TargetEpoch > d.lastTarget {
		d.lastTarget = block.TargetEpoch
	}
}

func (d *Sequencer) newBlock(target uint64) eth.SequencerBlock {
	seq := len(d.submitted)
	if d.pending != nil {
		seq += len(d.pending.blocks)
	}
	return eth.SequencerBlock{
		Block: eth.Block{
			BlockHash:   fmt.Sprintf("seqblockhash%d-%d", target, seq),
			BaseFee:     fmt.Sprintf("seqbasefee%d", target),
			BlockNumber: target,
			Timestamp:   target,
			Events:      []eth.Event{},
			Txs: []eth.Transaction{
				{Data: randomData(d.rng, 8)},
				{Data: hexutil.Bytes(fmt.Sprintf("seq tx %d", seq))},
			},
		},
		TargetEpoch: target,
	}
}

// SealBatch encodes the pending batch into a transaction payload and clears it. A nil payload
// means there was nothing to submit.
func (d *Sequencer) SealBatch() ([]byte, error) {
	batch := d.pending
	d.pending = nil
	if batch == nil || len(batch.blocks) == 0 {
		return nil, nil
	}
	var payload []byte
	var err error
	if d.seqCfg.Compress {
		payload, err = derive.EncodeBatchCompressed(batch.blocks)
	} else {
		payload, err = derive.EncodeBatch(batch.blocks)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to seal batch for L1 block %d: %w", batch.onto, err)
	}
	d.submitted = append(d.submitted, batch.blocks...)
	d.log.Debug("sealed sequencer batch", "onto", batch.onto, "blocks", len(batch.blocks),
		"targets", batch.blocks.TargetEpochs(), "size", len(payload))
	return payload, nil
}

// Submitted returns every sealed sequencer block in submission order.
func (d *Sequencer) Submitted() []eth.SequencerBlock {
	return append([]eth.SequencerBlock(nil), d.submitted...)
}

// BuildL1Chain produces an L1 chain of n deposit-carrying blocks numbered from 1. Each block's
// first transaction carries the batch the sequencer planned for it, when there is one.
func (d *Sequencer) BuildL1Chain(n int) ([]*eth.Block, error) {
	chain := make([]*eth.Block, 0, n)
	for i := 1; i <= n; i++ {
		block := l1Block(uint64(i))
		d.PlanBatch(uint64(i))
		payload, err := d.SealBatch()
		if err != nil {
			return nil, err
		}
		if payload != nil {
			block.Txs[0].Data = payload
		}
		chain = append(chain, block)
	}
	d.log.Info("built L1 chain", "blocks", n, "sequencer_blocks", len(d.submitted), "mode", d.seqCfg.Mode)
	return chain, nil
}
