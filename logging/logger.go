// Package logging provides the structured logger used throughout the planner: a thin
// wrapper around zap that fans entries out to a set of Appenders, the way the planner's
// teacher carries its own logging package rather than reaching for zap directly everywhere.
package logging

import (
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface used by every package in this module. It never reaches
// for a process-wide default; every planner component that logs takes one as a parameter.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Named(name string) Logger
	With(keysAndValues ...interface{}) Logger
}

type impl struct {
	sugar *zap.SugaredLogger
}

// New constructs a Logger named `name` at the given level, fanning entries out to every
// supplied Appender. With no appenders, a stdout ConsoleAppender is used.
func New(name string, level zapcore.Level, appenders ...Appender) Logger {
	if len(appenders) == 0 {
		appenders = []Appender{NewStdoutAppender()}
	}
	core := &fanoutCore{level: zap.NewAtomicLevelAt(level), appenders: appenders}
	zl := zap.New(core, zap.AddCaller()).Named(name).Sugar()
	return &impl{sugar: zl}
}

// NewTestLogger returns a Logger that writes through t.Logf, for use in _test.go files in
// the style of the teacher's own logging.NewTestLogger(t).
func NewTestLogger(t testing.TB) Logger {
	return New(t.Name(), zapcore.DebugLevel, NewWriterAppender(&testWriter{t}))
}

type testWriter struct {
	t testing.TB
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Logf("%s", p)
	return len(p), nil
}

func (l *impl) Debug(args ...interface{})                        { l.sugar.Debug(args...) }
func (l *impl) Debugf(template string, args ...interface{})      { l.sugar.Debugf(template, args...) }
func (l *impl) Debugw(msg string, kv ...interface{})             { l.sugar.Debugw(msg, kv...) }
func (l *impl) Info(args ...interface{})                         { l.sugar.Info(args...) }
func (l *impl) Infof(template string, args ...interface{})       { l.sugar.Infof(template, args...) }
func (l *impl) Infow(msg string, kv ...interface{})              { l.sugar.Infow(msg, kv...) }
func (l *impl) Warn(args ...interface{})                         { l.sugar.Warn(args...) }
func (l *impl) Warnf(template string, args ...interface{})       { l.sugar.Warnf(template, args...) }
func (l *impl) Warnw(msg string, kv ...interface{})              { l.sugar.Warnw(msg, kv...) }
func (l *impl) Error(args ...interface{})                        { l.sugar.Error(args...) }
func (l *impl) Errorf(template string, args ...interface{})      { l.sugar.Errorf(template, args...) }
func (l *impl) Errorw(msg string, kv ...interface{})             { l.sugar.Errorw(msg, kv...) }

func (l *impl) Named(name string) Logger {
	return &impl{sugar: l.sugar.Named(name)}
}

func (l *impl) With(keysAndValues ...interface{}) Logger {
	return &impl{sugar: l.sugar.With(keysAndValues...)}
}

// fanoutCore is a zapcore.Core that writes every entry to each configured Appender, the
// same "subset of zapcore.Core" relationship the Appender interface documents.
type fanoutCore struct {
	level     zap.AtomicLevel
	appenders []Appender
}

func (c *fanoutCore) Enabled(lvl zapcore.Level) bool { return c.level.Enabled(lvl) }

func (c *fanoutCore) With(fields []zapcore.Field) zapcore.Core {
	return &fanoutCoreWithFields{fanoutCore: c, fields: fields}
}

func (c *fanoutCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *fanoutCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	var firstErr error
	for _, a := range c.appenders {
		if err := a.Write(entry, fields); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("appender write: %w", err)
		}
	}
	return firstErr
}

func (c *fanoutCore) Sync() error {
	var firstErr error
	for _, a := range c.appenders {
		if err := a.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// fanoutCoreWithFields carries fields accumulated via With, merging them in ahead of
// per-call fields on Write.
type fanoutCoreWithFields struct {
	*fanoutCore
	fields []zapcore.Field
}

func (c *fanoutCoreWithFields) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &fanoutCoreWithFields{fanoutCore: c.fanoutCore, fields: merged}
}

func (c *fanoutCoreWithFields) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *fanoutCoreWithFields) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)
	return c.fanoutCore.Write(entry, all)
}
