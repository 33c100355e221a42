package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Options selects the writer, format and level of the logger.
//   - format: empty (autodetect color support), color, json, text
//   - level:  disabled, trace, debug, info, warn, error...
type Options struct {
	Format string
	Level  string
	Output io.Writer
}

// New builds the process logger. An empty Output means stderr so that
// command results on stdout stay machine readable.
func New(opts Options) zerolog.Logger {
	writer := opts.Output
	if writer == nil {
		writer = os.Stderr
	}

	if opts.Format != "json" {
		console := zerolog.ConsoleWriter{Out: writer, TimeFormat: "15:04:05.000"}

		switch opts.Format {
		case "text":
			console.NoColor = true
		case "color":
			console.NoColor = false
		default:
			console.NoColor = !isTerminal(writer)
		}

		writer = console
	}

	lvl, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

// Module returns a child logger tagged with the component name.
func Module(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("module", name).Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
