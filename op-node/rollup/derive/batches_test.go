package derive

import (
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/optimistic-specs/op-service/testlog"
	"github.com/ethereum-optimism/optimistic-specs/op-service/testutils"
)

func TestCheckSequencerBlock(t *testing.T) {
	logger := testlog.Logger(t, log.LevelTrace)
	type step struct {
		target    uint64
		validity  BatchValidity
		watermark uint64
	}
	tests := []struct {
		name  string
		epoch uint64
		steps []step
	}{
		{"accept", 3, []step{{3, BatchAccept, 3}}},
		{"past", 3, []step{{2, BatchDrop, 2}, {3, BatchAccept, 3}}},
		{"future then regress", 3, []step{{5, BatchFuture, 5}, {3, BatchDrop, 5}, {1, BatchDrop, 5}}},
		{"past at watermark", 3, []step{{3, BatchAccept, 3}, {1, BatchAccept, 3}}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var w Watermark
			for i, s := range tt.steps {
				block := testutils.DummySequencerBlock(s.target)
				got := CheckSequencerBlock(LogContext(logger, &block), tt.epoch, &w, &block)
				require.Equal(t, s.validity, got, "step %d", i)
				require.Equal(t, s.watermark, uint64(w), "step %d", i)
			}
		})
	}
}

func TestWatermarkNeverLowers(t *testing.T) {
	var w Watermark
	for _, target := range []uint64{2, 7, 3, 0, 7, 9, 1} {
		before := w
		w.Advance(target)
		require.GreaterOrEqual(t, uint64(w), uint64(before))
	}
	require.Equal(t, Watermark(9), w)
}

func TestBatchValidityString(t *testing.T) {
	require.Equal(t, "drop", BatchDrop.String())
	require.Equal(t, "accept", BatchAccept.String())
	require.Equal(t, "future", BatchFuture.String())
	require.Equal(t, "unknown", BatchValidity(42).String())
}
