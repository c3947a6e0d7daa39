// Package log writes structured diagnostics to a daily file under the logs directory.
//
// Nothing is emitted unless logs.write is enabled, so the TUI never has its screen corrupted.
package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/key"
	"github.com/vlog-app/vlog/where"
)

var enabled bool

// Fields is an alias so callers do not import logrus directly.
type Fields = logrus.Fields

// Setup opens today's log file and applies the configured format and level.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
	if !lo.Must(filesystem.API().Exists(path)) {
		lo.Must(filesystem.API().Create(path))
	}

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	return nil
}

// Entry is a field-scoped logger that respects the enabled gate.
type Entry struct {
	entry *logrus.Entry
}

// WithFields returns an entry carrying the given fields.
func WithFields(fields Fields) Entry {
	return Entry{entry: logrus.WithFields(fields)}
}

func (e Entry) Error(args ...any) {
	if enabled {
		e.entry.Error(args...)
	}
}

func (e Entry) Warn(args ...any) {
	if enabled {
		e.entry.Warn(args...)
	}
}

func (e Entry) Info(args ...any) {
	if enabled {
		e.entry.Info(args...)
	}
}

func (e Entry) Debug(args ...any) {
	if enabled {
		e.entry.Debug(args...)
	}
}

func Error(args ...any) {
	if enabled {
		logrus.Error(args...)
	}
}

func Errorf(format string, args ...any) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}

func Warn(args ...any) {
	if enabled {
		logrus.Warn(args...)
	}
}

func Warnf(format string, args ...any) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}

func Info(args ...any) {
	if enabled {
		logrus.Info(args...)
	}
}

func Infof(format string, args ...any) {
	if enabled {
		logrus.Infof(format, args...)
	}
}

func Debug(args ...any) {
	if enabled {
		logrus.Debug(args...)
	}
}

func Debugf(format string, args ...any) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}

func Tracef(format string, args ...any) {
	if enabled {
		logrus.Tracef(format, args...)
	}
}
