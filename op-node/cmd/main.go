package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/optimistic-specs/op-node/config"
	"github.com/ethereum-optimism/optimistic-specs/op-node/flags"
	"github.com/ethereum-optimism/optimistic-specs/op-node/metrics"
	oplog "github.com/ethereum-optimism/optimistic-specs/op-service/log"
	opmetrics "github.com/ethereum-optimism/optimistic-specs/op-service/metrics"
)

var (
	Version     = "0.0.0"
	GitCommit   = ""
	GitDate     = ""
	VersionMeta = "dev"
)

// VersionWithMeta holds the textual version string including the metadata.
var VersionWithMeta = func() string {
	v := Version
	if GitCommit != "" {
		v += "-" + GitCommit[:8]
	}
	if GitDate != "" {
		v += "-" + GitDate
	}
	if VersionMeta != "" {
		v += "-" + VersionMeta
	}
	return v
}()

func main() {
	// Set up logger with a default INFO level in case we fail to parse flags,
	// otherwise the final critical log won't show what the parsing error was.
	log.SetDefault(oplog.NewLogger(os.Stdout, oplog.DefaultCLIConfig()))

	app := NewApp()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func NewApp() *cli.App {
	app := cli.NewApp()
	app.Flags = flags.Flags
	app.Version = VersionWithMeta
	app.Name = "op-blockgen"
	app.Usage = "Sequencer rollup block derivation"
	app.Description = "Generates L1 chains carrying sequencer batches and derives the L2 chain from them."
	app.Commands = []*cli.Command{
		{
			Name:   "generate",
			Usage:  "Generate a dummy L1 chain whose blocks carry sequencer batches",
			Flags:  flags.GenerateFlags,
			Action: Generate,
		},
		{
			Name:   "derive",
			Usage:  "Derive the finalized L2 chain of an L1 chain file",
			Flags:  flags.DeriveFlags,
			Action: Derive,
		},
		{
			Name:   "simple",
			Usage:  "Derive the L2 chain of a simple rollup, one L2 block per L1 block",
			Flags:  flags.SimpleFlags,
			Action: Simple,
		},
		{
			Name:   "inspect",
			Usage:  "Print a chain file as a table",
			Flags:  flags.InspectFlags,
			Action: Inspect,
		},
	}
	return app
}

// setup reads the config of the running command and builds its logger and metrics. The
// returned cleanup stops the metrics server, if one was started.
func setup(ctx *cli.Context, procName string) (*config.Config, log.Logger, metrics.Metricer, func(), error) {
	cfg, err := flags.ConfigFromCLI(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger := oplog.NewLogger(oplog.AppOut(ctx), cfg.Log)
	log.SetDefault(logger)

	if !cfg.Metrics.Enabled {
		return cfg, logger, metrics.NoopMetrics, func() {}, nil
	}
	m := metrics.NewMetrics(procName)
	m.RecordInfo(VersionWithMeta)
	srv, err := opmetrics.StartServer(m.Registry(), cfg.Metrics.ListenAddr, cfg.Metrics.ListenPort)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger.Info("started metrics server", "addr", srv.Addr())
	m.RecordUp()
	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("failed to stop metrics server", "err", err)
		}
	}
	return cfg, logger, m, cleanup, nil
}
