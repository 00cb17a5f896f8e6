package cli

import (
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps are "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// boardLogger returns a child logger that tags every line with the board
// file it is working on.
func boardLogger(l *log.Logger, path string) *log.Logger {
	return l.With("board", filepath.Base(path))
}

// progress times one step of a command. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with kv and the elapsed time, e.g.
//
//	14:32:01.45 INFO route searched nodes=6 cached=false elapsed=1ms
func (p *progress) done(msg string, kv ...any) {
	kv = append(kv, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, kv...)
}
