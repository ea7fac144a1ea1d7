package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	opservice "github.com/ethereum-optimism/optimistic-specs/op-service"
)

const (
	LevelFlagName  = "log.level"
	FormatFlagName = "log.format"
	ColorFlagName  = "log.color"
)

func CLIFlags(envPrefix string) []cli.Flag {
	return []cli.Flag{
		&cli.GenericFlag{
			Name:    LevelFlagName,
			Usage:   "The lowest log level that will be output",
			Value:   NewLevelFlagValue(log.LevelInfo),
			EnvVars: opservice.PrefixEnvVar(envPrefix, "LOG_LEVEL"),
		},
		&cli.GenericFlag{
			Name:    FormatFlagName,
			Usage:   "Format the log output. Supported formats: 'text', 'terminal', 'logfmt', 'json'",
			Value:   NewFormatFlagValue(FormatText),
			EnvVars: opservice.PrefixEnvVar(envPrefix, "LOG_FORMAT"),
		},
		&cli.BoolFlag{
			Name:    ColorFlagName,
			Usage:   "Color the log output if in terminal mode",
			EnvVars: opservice.PrefixEnvVar(envPrefix, "LOG_COLOR"),
		},
	}
}

// LevelFlagValue is a value type for cli.GenericFlag
type LevelFlagValue slog.Level

var _ cli.Generic = (*LevelFlagValue)(nil)

func NewLevelFlagValue(lvl slog.Level) *LevelFlagValue {
	return (*LevelFlagValue)(&lvl)
}

func (fv *LevelFlagValue) Set(value string) error {
	lvl, err := LevelFromString(value)
	if err != nil {
		return err
	}
	*fv = LevelFlagValue(lvl)
	return nil
}

func (fv LevelFlagValue) String() string {
	switch slog.Level(fv) {
	case log.LevelTrace:
		return "trace"
	case log.LevelCrit:
		return "crit"
	default:
		return strings.ToLower(slog.Level(fv).String())
	}
}

func (fv LevelFlagValue) Level() slog.Level {
	return slog.Level(fv)
}

// LevelFromString returns the appropriate level from a string name.
func LevelFromString(lvlString string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(lvlString)) {
	case "trace", "trce":
		return log.LevelTrace, nil
	case "debug", "dbug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error", "eror":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return log.LevelDebug, fmt.Errorf("unknown level: %v", lvlString)
	}
}

type FormatType string

const (
	FormatText     FormatType = "text"
	FormatTerminal FormatType = "terminal"
	FormatLogFmt   FormatType = "logfmt"
	FormatJSON     FormatType = "json"
)

// FormatHandler returns the correct slog handler factory for the provided format.
func FormatHandler(ft FormatType, color bool) func(io.Writer, slog.Level) slog.Handler {
	termColorHandler := func(w io.Writer, lvl slog.Level) slog.Handler {
		return log.NewTerminalHandlerWithLevel(w, lvl, color)
	}
	switch ft {
	case FormatJSON:
		return log.JSONHandlerWithLevel
	case FormatText:
		if color {
			return termColorHandler
		}
		return log.LogfmtHandlerWithLevel
	case FormatTerminal:
		return termColorHandler
	case FormatLogFmt:
		return log.LogfmtHandlerWithLevel
	default:
		panic(fmt.Errorf("failed to create slog.Handler factory for format-type=%q and color=%v", ft, color))
	}
}

func (ft FormatType) String() string {
	return string(ft)
}

// FormatFlagValue is a value type for cli.GenericFlag
type FormatFlagValue FormatType

var _ cli.Generic = (*FormatFlagValue)(nil)

func NewFormatFlagValue(fmtType FormatType) *FormatFlagValue {
	return (*FormatFlagValue)(&fmtType)
}

func (fv *FormatFlagValue) Set(value string) error {
	switch FormatType(value) {
	case FormatText, FormatTerminal, FormatLogFmt, FormatJSON:
		*fv = FormatFlagValue(value)
		return nil
	default:
		return fmt.Errorf("unrecognized log-format: %q", value)
	}
}

func (fv FormatFlagValue) String() string {
	return FormatType(fv).String()
}

func (fv FormatFlagValue) FormatType() FormatType {
	return FormatType(fv)
}

type CLIConfig struct {
	Level  slog.Level
	Color  bool
	Format FormatType
}

// AppOut returns an io.Writer to write app output to, like logs.
func AppOut(ctx *cli.Context) io.Writer {
	if ctx.App.Writer != nil {
		return ctx.App.Writer
	}
	return os.Stdout
}

// TerminalWidth returns the number of columns of w if it is a terminal.
func TerminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}

// ReadCLIConfig reads the logger config from the CLI context. Color defaults to whether the
// output is a terminal.
func ReadCLIConfig(ctx *cli.Context) CLIConfig {
	cfg := DefaultCLIConfig()
	if lvl, ok := ctx.Generic(LevelFlagName).(*LevelFlagValue); ok {
		cfg.Level = lvl.Level()
	}
	if ft, ok := ctx.Generic(FormatFlagName).(*FormatFlagValue); ok {
		cfg.Format = ft.FormatType()
	}
	if ctx.IsSet(ColorFlagName) {
		cfg.Color = ctx.Bool(ColorFlagName)
	} else if f, ok := AppOut(ctx).(*os.File); ok {
		cfg.Color = isatty.IsTerminal(f.Fd())
	}
	return cfg
}

func DefaultCLIConfig() CLIConfig {
	return CLIConfig{
		Level:  log.LevelInfo,
		Format: FormatText,
		Color:  isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// NewLogger creates a new configured logger.
func NewLogger(wr io.Writer, cfg CLIConfig) log.Logger {
	h := FormatHandler(cfg.Format, cfg.Color)(wr, cfg.Level)
	return log.NewLogger(h)
}
