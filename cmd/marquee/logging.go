package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pkt.systems/pslog"

	"github.com/lixenwraith/marquee/config"
)

const maxLogSize = 10 * 1024 * 1024 // 10MB

// setupLogging builds the run logger. Stdout and stderr belong to the console
// while it runs, so logs go to the configured file or are discarded.
// The returned close func is always non-nil.
func setupLogging(cfg config.LogConfig) (pslog.Logger, func(), error) {
	var w io.Writer = io.Discard
	closeFn := func() {}

	if cfg.File != "" {
		f, err := openLogFile(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { f.Close() }
	}

	logger := newLogger(w, cfg.Level)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)
	return logger, closeFn, nil
}

func newLogger(w io.Writer, level string) pslog.Logger {
	opts := pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	}
	switch strings.ToLower(level) {
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "warn":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	}
	return pslog.NewWithOptions(w, opts)
}

// openLogFile opens path for appending, rotating it first when it exceeds maxLogSize
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		if err := os.Rename(path, rotatedName(path, time.Now())); err != nil {
			return nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}

// rotatedName turns marquee.log into marquee_20060102_150405.log
func rotatedName(path string, now time.Time) string {
	ext := filepath.Ext(path)
	if ext == "" {
		ext = ".log"
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + "_" + now.Format("20060102_150405") + ext
}
