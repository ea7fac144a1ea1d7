package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/optimistic-specs/op-node/chainio"
	"github.com/ethereum-optimism/optimistic-specs/op-node/flags"
	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup"
	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup/derive"
	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup/driver"
	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
	oplog "github.com/ethereum-optimism/optimistic-specs/op-service/log"
)

func Generate(ctx *cli.Context) error {
	cfg, logger, _, cleanup, err := setup(ctx, "generate")
	if err != nil {
		return err
	}
	defer cleanup()

	gen := cfg.Generator
	var l1 []*eth.Block
	if gen.Simple {
		l1, _, err = driver.BuildSimpleL1Chain(gen.Blocks, gen.Sequencer.Seed)
		if err != nil {
			return err
		}
	} else {
		seq, err := driver.NewSequencer(logger, &gen.Rollup, gen.Sequencer)
		if err != nil {
			return err
		}
		l1, err = seq.BuildL1Chain(gen.Blocks)
		if err != nil {
			return err
		}
	}
	out := ctx.Path(flags.GenerateOutFile.Name)
	if err := chainio.WriteChain(out, l1); err != nil {
		return err
	}
	logger.Info("wrote L1 chain", "path", out, "blocks", len(l1), "simple", gen.Simple,
		"sequencer_timeout", gen.Rollup.SequencerTimeout)
	return nil
}

func Derive(ctx *cli.Context) error {
	cfg, logger, m, cleanup, err := setup(ctx, "derive")
	if err != nil {
		return err
	}
	defer cleanup()

	l1Path := ctx.Path(flags.L1ChainFile.Name)
	if !ctx.Bool(flags.Watch.Name) {
		l1, err := chainio.ReadChain(l1Path)
		if err != nil {
			return err
		}
		l2, err := derive.DeriveChain(logger, l1, cfg.Rollup.SequencerTimeout)
		if err != nil {
			return err
		}
		return report(ctx, logger, l2)
	}

	f := &follower{log: logger, cfg: &cfg.Rollup, metrics: m}
	return chainio.Watch(ctx.Context, logger, l1Path, func(l1 []*eth.Block) error {
		l2, err := f.Update(l1)
		if errors.Is(err, derive.ErrInvalidChainIndexing) {
			logger.Warn("ignoring invalid L1 chain file", "err", err)
			return nil
		} else if err != nil {
			return err
		}
		return report(ctx, logger, l2)
	})
}

func Simple(ctx *cli.Context) error {
	_, logger, _, cleanup, err := setup(ctx, "simple")
	if err != nil {
		return err
	}
	defer cleanup()

	l1, err := chainio.ReadChain(ctx.Path(flags.L1ChainFile.Name))
	if err != nil {
		return err
	}
	l2, err := derive.DeriveSimpleChain(logger, l1)
	if err != nil {
		return err
	}
	return report(ctx, logger, l2)
}

// report prints the commitment of the derived chain and writes the chain out, if requested.
func report(ctx *cli.Context, logger log.Logger, l2 []*eth.Block) error {
	comm := eth.ChainCommitment(l2)
	if _, err := fmt.Fprintf(oplog.AppOut(ctx), "l2_blocks=%d commitment=%s\n", len(l2), comm); err != nil {
		return err
	}
	if out := ctx.Path(flags.OutFile.Name); out != "" {
		if err := chainio.WriteChain(out, l2); err != nil {
			return err
		}
		logger.Info("wrote L2 chain", "path", out, "blocks", len(l2), "commitment", comm)
	}
	return nil
}

// follower keeps an incremental pipeline in sync with an L1 chain that is usually extended,
// but may be replaced entirely.
type follower struct {
	log     log.Logger
	cfg     *rollup.Config
	metrics derive.Metrics

	pipeline *derive.Pipeline
	l1       []*eth.Block
}

// Update feeds the new blocks of the chain to the pipeline and returns the finalized L2 chain.
// A chain that does not extend the previous one restarts the derivation.
func (f *follower) Update(l1 []*eth.Block) ([]*eth.Block, error) {
	if err := derive.ValidateChain(l1); err != nil {
		return nil, err
	}
	if f.pipeline == nil || !extends(f.l1, l1) {
		if f.pipeline != nil {
			f.log.Warn("L1 chain was replaced, restarting derivation", "old_len", len(f.l1), "new_len", len(l1))
		}
		p, err := derive.NewPipeline(f.log, f.cfg, f.metrics)
		if err != nil {
			return nil, err
		}
		f.pipeline = p
		f.l1 = nil
	}
	for _, block := range l1[len(f.l1):] {
		if _, err := f.pipeline.AddL1Block(block); err != nil {
			return nil, err
		}
	}
	f.l1 = l1
	return f.pipeline.L2Chain(), nil
}

func extends(prev, next []*eth.Block) bool {
	if len(next) < len(prev) {
		return false
	}
	for i := range prev {
		if !prev[i].Equal(next[i]) {
			return false
		}
	}
	return true
}

func Inspect(ctx *cli.Context) error {
	chain, err := chainio.ReadChain(ctx.Path(flags.ChainFile.Name))
	if err != nil {
		return err
	}
	showBatches := ctx.Bool(flags.ShowBatches.Name)

	out := oplog.AppOut(ctx)
	// full hashes do not fit narrow terminals
	width, isTerm := oplog.TerminalWidth(out)
	short := isTerm && width < wideTableWidth

	table := tablewriter.NewWriter(out)
	header := []string{"Number", "Hash", "Base fee", "Timestamp", "Events", "Txs"}
	if showBatches {
		header = append(header, "Batch targets")
	}
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	for _, b := range chain {
		hash := b.BlockHash
		if short {
			hash = b.ID().TerminalString()
		}
		row := []string{
			strconv.FormatUint(b.BlockNumber, 10),
			hash,
			b.BaseFee,
			strconv.FormatUint(b.Timestamp, 10),
			strconv.Itoa(len(b.Events)),
			strconv.Itoa(len(b.Txs)),
		}
		if showBatches {
			row = append(row, describeBatch(b))
		}
		table.Append(row)
	}
	table.Render()
	return nil
}

// wideTableWidth is the terminal width below which inspect abbreviates block hashes.
const wideTableWidth = 160

func describeBatch(b *eth.Block) string {
	if len(b.Txs) == 0 {
		return "-"
	}
	batch, err := derive.DecodeBatchErr(b.Txs[0].Data)
	if err != nil {
		return "none"
	}
	return fmt.Sprint(batch.TargetEpochs())
}
