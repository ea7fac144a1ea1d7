package derive

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup"
	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
)

type Metrics interface {
	RecordL1Block(number uint64)
	RecordBatch(present bool, blocks int)
	RecordEpoch(epoch uint64, depositTxs int, sequencerBlocks int)
	RecordPendingEpochs(count int)
}

type decodedBatch struct {
	batch eth.SequencerBatch
	err   error
}

// Pipeline derives the L2 chain incrementally as confirmed L1 blocks arrive. Each L1 block is
// scanned by up to SequencerTimeout windows, so decoded batches are cached.
//
// The output of a Pipeline fed the blocks of an L1 chain in order equals DeriveChain on that chain.
type Pipeline struct {
	log     log.Logger
	cfg     *rollup.Config
	metrics Metrics

	mu sync.Mutex
	l1 []*eth.Block
	l2 []*eth.Block
	// number of epochs finalized so far, also the index of the next anchor
	finalized int

	batches *lru.Cache[uint64, decodedBatch]
}

func NewPipeline(log log.Logger, cfg *rollup.Config, metrics Metrics) (*Pipeline, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	cache, err := lru.New[uint64, decodedBatch](cfg.CacheSize())
	if err != nil {
		return nil, fmt.Errorf("failed to create batch cache: %w", err)
	}
	return &Pipeline{
		log:     log,
		cfg:     cfg,
		metrics: metrics,
		batches: cache,
	}, nil
}

// AddL1Block extends the tracked L1 chain by one block and returns the L2 blocks of every
// epoch that became final.
func (p *Pipeline) AddL1Block(block *eth.Block) ([]*eth.Block, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if block == nil {
		return nil, fmt.Errorf("%w: nil block", ErrNonSequentialBlock)
	}
	if want := uint64(len(p.l1)) + 1; block.BlockNumber != want {
		return nil, fmt.Errorf("%w: got block %d, expected %d", ErrNonSequentialBlock, block.BlockNumber, want)
	}
	p.l1 = append(p.l1, block)
	p.metrics.RecordL1Block(block.BlockNumber)

	timeout := p.cfg.SequencerTimeout
	var out []*eth.Block
	for target := FinalizedEpochs(len(p.l1), timeout); p.finalized < target; p.finalized++ {
		anchor := p.l1[p.finalized]
		window := p.l1[p.finalized+1 : p.finalized+1+int(timeout)]
		if err := CheckWindow(anchor, window, timeout); err != nil {
			// unreachable while block numbers are checked on insertion
			return nil, err
		}
		blocks := deriveEpoch(p.log, anchor, window, p.batchOf)
		p.metrics.RecordEpoch(anchor.BlockNumber, len(blocks[0].Txs), len(blocks)-1)
		out = append(out, blocks...)
	}
	p.l2 = append(p.l2, out...)
	p.metrics.RecordPendingEpochs(len(p.l1) - p.finalized)
	if len(out) > 0 {
		p.log.Info("finalized epochs", "l1_head", block.ID(), "finalized", p.finalized, "l2_blocks", len(out))
	}
	return out, nil
}

func (p *Pipeline) batchOf(l1Block *eth.Block) (eth.SequencerBatch, error) {
	if cached, ok := p.batches.Get(l1Block.BlockNumber); ok {
		return cached.batch, cached.err
	}
	batch, err := extractBatch(l1Block)
	p.batches.Add(l1Block.BlockNumber, decodedBatch{batch: batch, err: err})
	p.metrics.RecordBatch(err == nil, len(batch))
	return batch, err
}

// L2Chain returns the finalized L2 chain derived so far.
func (p *Pipeline) L2Chain() []*eth.Block {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*eth.Block(nil), p.l2...)
}

// L1Head returns the latest tracked L1 block, or nil if none was added yet.
func (p *Pipeline) L1Head() *eth.Block {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.l1) == 0 {
		return nil
	}
	return p.l1[len(p.l1)-1]
}

// FinalizedEpochs returns the number of epochs finalized so far.
func (p *Pipeline) FinalizedEpochs() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finalized
}

// Pending returns the number of tracked epochs whose sequencer window is still open.
func (p *Pipeline) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.l1) - p.finalized
}
