package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const Namespace = "op_blockgen"

type Metricer interface {
	RecordInfo(version string)
	RecordUp()

	RecordL1Block(number uint64)
	RecordBatch(present bool, blocks int)
	RecordEpoch(epoch uint64, depositTxs int, sequencerBlocks int)
	RecordPendingEpochs(count int)
}

type Metrics struct {
	ns       string
	registry *prometheus.Registry

	Info *prometheus.GaugeVec
	Up   prometheus.Gauge

	L1Head        prometheus.Gauge
	Batches       *prometheus.CounterVec
	BatchBlocks   prometheus.Histogram
	Epochs        prometheus.Counter
	EpochHead     prometheus.Gauge
	L2Blocks      *prometheus.CounterVec
	DepositTxs    prometheus.Counter
	PendingEpochs prometheus.Gauge
}

var _ Metricer = (*Metrics)(nil)

func NewMetrics(procName string) *Metrics {
	if procName == "" {
		procName = "default"
	}
	ns := Namespace + "_" + procName

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		ns:       ns,
		registry: registry,

		Info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "info",
			Help:      "Pseudo-metric tracking version and config info",
		}, []string{
			"version",
		}),
		Up: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "up",
			Help:      "1 if the derivation has finished starting up",
		}),
		L1Head: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "l1_head",
			Help:      "Number of the latest L1 block fed to the derivation",
		}),
		Batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "l1_batches_total",
			Help:      "Count of scanned L1 blocks, by whether they carried a sequencer batch",
		}, []string{
			"result",
		}),
		BatchBlocks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "batch_blocks",
			Help:      "Number of sequencer blocks per decoded batch",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
		Epochs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "epochs_total",
			Help:      "Count of finalized epochs",
		}),
		EpochHead: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "epoch_head",
			Help:      "Number of the latest finalized epoch",
		}),
		L2Blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "l2_blocks_total",
			Help:      "Count of derived L2 blocks, by kind",
		}, []string{
			"kind",
		}),
		DepositTxs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "deposit_txs_total",
			Help:      "Count of deposit transactions in derived deposit blocks",
		}),
		PendingEpochs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "pending_epochs",
			Help:      "Number of epochs whose sequencer window is still open",
		}),
	}
	registry.MustRegister(m.Info, m.Up, m.L1Head, m.Batches, m.BatchBlocks, m.Epochs,
		m.EpochHead, m.L2Blocks, m.DepositTxs, m.PendingEpochs)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordInfo sets a pseudo-metric that contains versioning and config info.
func (m *Metrics) RecordInfo(version string) {
	m.Info.WithLabelValues(version).Set(1)
}

// RecordUp sets the up metric to 1.
func (m *Metrics) RecordUp() {
	m.Up.Set(1)
}

func (m *Metrics) RecordL1Block(number uint64) {
	m.L1Head.Set(float64(number))
}

func (m *Metrics) RecordBatch(present bool, blocks int) {
	if !present {
		m.Batches.WithLabelValues("absent").Inc()
		return
	}
	m.Batches.WithLabelValues("decoded").Inc()
	m.BatchBlocks.Observe(float64(blocks))
}

func (m *Metrics) RecordEpoch(epoch uint64, depositTxs int, sequencerBlocks int) {
	m.Epochs.Inc()
	m.EpochHead.Set(float64(epoch))
	m.DepositTxs.Add(float64(depositTxs))
	m.L2Blocks.WithLabelValues("deposit").Inc()
	m.L2Blocks.WithLabelValues("sequencer").Add(float64(sequencerBlocks))
}

func (m *Metrics) RecordPendingEpochs(count int) {
	m.PendingEpochs.Set(float64(count))
}

type noopMetricer struct{}

var NoopMetrics Metricer = new(noopMetricer)

func (*noopMetricer) RecordInfo(version string)                                     {}
func (*noopMetricer) RecordUp()                                                     {}
func (*noopMetricer) RecordL1Block(number uint64)                                   {}
func (*noopMetricer) RecordBatch(present bool, blocks int)                          {}
func (*noopMetricer) RecordEpoch(epoch uint64, depositTxs int, sequencerBlocks int) {}
func (*noopMetricer) RecordPendingEpochs(count int)                                 {}
