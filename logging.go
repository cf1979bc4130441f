package cfp

import (
	"io"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

func logColors(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	if !isatty.IsTerminal(f.Fd()) {
		return false
	}

	return os.Getenv("TERM") != "dumb"
}

func logLevel(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func GetSlogHandler(debug bool, out io.Writer) slog.Handler {
	return tint.NewHandler(out, &tint.Options{
		AddSource: true,
		Level:     logLevel(debug),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if _, ok := attr.Value.Any().(error); attr.Key == "err" || ok {
				return tint.Attr(9, attr)
			}
			return attr
		},
		TimeFormat: time.RFC3339,
		NoColor:    !logColors(out),
	})
}

// NewLogger writes human readable logs to out and, if logDir is set, JSON logs to a rotated file inside it.
func NewLogger(debug bool, out io.Writer, logDir string) *slog.Logger {
	if logDir == "" {
		return slog.New(GetSlogHandler(debug, out))
	}
	file := &lumberjack.Logger{
		Filename:   path.Join(logDir, "cfp.log"),
		MaxSize:    50, // MB
		MaxBackups: 5,
		Compress:   true,
	}
	return slog.New(slogmulti.Fanout(
		GetSlogHandler(debug, out),
		slog.NewJSONHandler(file, &slog.HandlerOptions{Level: logLevel(debug)}),
	))
}

// AccessLogWriter returns the rotated writer used for HTTP request logs.
func AccessLogWriter(logDir string) io.Writer {
	if logDir == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename: path.Join(logDir, "access.log"),
	}
}
