package log

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestLevelFromString(t *testing.T) {
	for _, tc := range []struct {
		in  string
		lvl string
	}{
		{"trace", "trace"},
		{"DEBUG", "debug"},
		{"info", "info"},
		{" warn ", "warn"},
		{"eror", "error"},
		{"crit", "crit"},
	} {
		lvl, err := LevelFromString(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.lvl, LevelFlagValue(lvl).String())
	}
	_, err := LevelFromString("loud")
	require.ErrorContains(t, err, "unknown level")
}

func TestFormatFlagValue(t *testing.T) {
	fv := NewFormatFlagValue(FormatText)
	require.NoError(t, fv.Set("json"))
	require.Equal(t, FormatJSON, fv.FormatType())
	require.Error(t, fv.Set("xml"))
	require.Equal(t, FormatJSON, fv.FormatType())
}

func TestReadCLIConfig(t *testing.T) {
	app := cli.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range CLIFlags("TEST") {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse([]string{"--log.level=debug", "--log.format=json", "--log.color=false"}))
	cfg := ReadCLIConfig(cli.NewContext(app, set, nil))
	require.Equal(t, log.LevelDebug, cfg.Level)
	require.Equal(t, FormatJSON, cfg.Format)
	require.False(t, cfg.Color)
}

func TestNewLoggerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, CLIConfig{Level: log.LevelWarn, Format: FormatLogFmt})
	logger.Info("hidden")
	require.Zero(t, buf.Len())
	logger.Warn("shown", "epoch", 3)
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "epoch=3")
}

func TestTerminalWidth(t *testing.T) {
	_, ok := TerminalWidth(&bytes.Buffer{})
	require.False(t, ok)

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()
	_, ok = TerminalWidth(f)
	require.False(t, ok, "regular files are not terminals")
}
