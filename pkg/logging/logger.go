package logging

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var Logger zerolog.Logger

func init() {
	SetGlobalLogger(zerolog.Nop())
}

func SetGlobalLogger(logger zerolog.Logger) {
	Logger = logger
	zerolog.DefaultContextLogger = &Logger
}

// Configure installs a console logger writing to w at the named level.
// An empty level disables logging. Colors are only used on terminals.
func Configure(w io.Writer, level string) error {
	if level == "" {
		SetGlobalLogger(zerolog.Nop())
		return nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	console := zerolog.ConsoleWriter{Out: w, NoColor: noColor}
	SetGlobalLogger(zerolog.New(console).Level(lvl).With().Timestamp().Logger())
	return nil
}

func Debug() *zerolog.Event { return Logger.Debug() }

func Info() *zerolog.Event { return Logger.Info() }

func Warn() *zerolog.Event { return Logger.Warn() }
