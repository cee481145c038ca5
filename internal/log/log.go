package log

import (
	"io"
	"log/slog"
	"sync"

	charmlog "github.com/charmbracelet/log/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

var initOnce sync.Once

// Setup installs the default slog logger, writing JSON lines to a rotating
// file at logFile. It only takes effect once per process.
func Setup(logFile string, debug bool) {
	initOnce.Do(func() {
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,    // Max size in MB
			MaxBackups: 0,     // Number of backups
			MaxAge:     30,    // Days
			Compress:   false, // Enable compression
		}
		slog.SetDefault(slog.New(newHandler(rotator, debug)))
	})
}

func newHandler(w io.Writer, debug bool) *charmlog.Logger {
	level := charmlog.InfoLevel
	if debug {
		level = charmlog.DebugLevel
	}
	return charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
		Formatter:       charmlog.JSONFormatter,
	})
}
