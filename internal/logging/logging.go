// Package logging builds the process logger: a console stream at the
// configured level and a free-text log file that receives every event.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amosWeiskopf/sitearchiver/pkg/records"
)

// Options configures New.
type Options struct {
	Level   string    // console level, e.g. "info"
	Format  string    // "text" or "json"
	Console io.Writer // defaults to os.Stdout
	File    string    // log file path; empty disables the file
}

// New returns a logger whose output is routed through hooks.
func New(opts Options) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	// The file hook wants debug events even when the console does not.
	if level > logrus.DebugLevel {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	var consoleFormatter logrus.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04",
	}
	if opts.Format == "json" {
		consoleFormatter = &logrus.JSONFormatter{}
	}
	logger.AddHook(&writerHook{
		writer:    console,
		formatter: consoleFormatter,
		levels:    logrus.AllLevels[:level+1],
	})

	if opts.File != "" {
		logger.AddHook(&writerHook{
			writer: records.AppendFile{Path: opts.File},
			formatter: &logrus.TextFormatter{
				DisableColors:   true,
				FullTimestamp:   true,
				TimestampFormat: time.DateTime,
			},
			levels: logrus.AllLevels,
		})
	}

	return logger, nil
}

type writerHook struct {
	writer    io.Writer
	formatter logrus.Formatter
	levels    []logrus.Level
}

func (h *writerHook) Levels() []logrus.Level {
	return h.levels
}

func (h *writerHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}
