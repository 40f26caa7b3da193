// Package logging holds the logrus setup shared by the command line
// tool and the key store.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is the leveled logger handed to the storage engine.
type Logger interface {
	Errorf(string, ...interface{})
	Warningf(string, ...interface{})
	Infof(string, ...interface{})
	Debugf(string, ...interface{})
}

// Discard is a logger that writes nothing.
var Discard Logger = &logrus.Logger{
	Out:       io.Discard,
	Formatter: &SilentFormatter{},
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.PanicLevel,
}

// Copy returns a copy of the logrus standard logger
func Copy() *logrus.Logger {
	l := logrus.StandardLogger()
	return &logrus.Logger{
		Out:          l.Out,
		Hooks:        l.Hooks,
		Formatter:    l.Formatter,
		ReportCaller: l.ReportCaller,
		Level:        l.Level,
		ExitFunc:     l.ExitFunc,
	}
}

// Prefixed returns a copy of the standard logger that formats every
// entry with a prefix.
func Prefixed(prefix string, nocolor bool) *logrus.Logger {
	l := Copy()
	l.Formatter = &PrefixedFormatter{Prefix: prefix, NoColor: nocolor}
	return l
}

// Hook writes formatted entries for a set of levels to a writer. It is
// used to send console output somewhere other than the logger's Out.
type Hook struct {
	Writer    io.Writer
	LogLevels []logrus.Level
	Formatter logrus.Formatter
}

// Levels returns the hook's levels
func (h *Hook) Levels() []logrus.Level {
	return h.LogLevels
}

// Fire writes the entry
func (h *Hook) Fire(e *logrus.Entry) error {
	var (
		b   []byte
		err error
	)
	if h.Formatter != nil {
		b, err = h.Formatter.Format(e)
	} else {
		b, err = e.Bytes()
	}
	if err != nil {
		return err
	}
	_, err = h.Writer.Write(b)
	return err
}

// NewLogFileHook will create a logrus hook that logs to a log file
// for all logging levels
func NewLogFileHook(file io.Writer, formatter logrus.Formatter) logrus.Hook {
	return &Hook{
		Writer:    file,
		LogLevels: logrus.AllLevels,
		Formatter: formatter,
	}
}
