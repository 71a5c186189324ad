// Package logging builds the application's zap logger. Besides the console
// output every entry is mirrored to a Sink, which the UI renders as the
// append-only log pane and the status line.
package logging

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const statusKey = "status"

// Sink receives rendered log lines
type Sink interface {
	// Log appends a line to the log pane
	Log(line string)
	// Status replaces the status line
	Status(line string)
}

// SinkFuncs adapts two functions to a Sink; nil functions are ignored
type SinkFuncs struct {
	LogFn    func(string)
	StatusFn func(string)
}

func (s SinkFuncs) Log(line string) {
	if s.LogFn != nil {
		s.LogFn(line)
	}
}

func (s SinkFuncs) Status(line string) {
	if s.StatusFn != nil {
		s.StatusFn(line)
	}
}

// Status marks an entry that should also replace the status line
func Status() zap.Field {
	return zap.Bool(statusKey, true)
}

// New returns a zap logger. When debug is true the console output uses the
// development config (human-readable, debug level); otherwise production
// config (JSON, info level). A nil sink yields a console-only logger.
func New(sink Sink, debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	console, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	if sink == nil {
		return console, nil
	}
	return console.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, NewSinkCore(sink, zapcore.InfoLevel))
	})), nil
}

// NewSinkCore returns a core forwarding entries at or above level to sink
func NewSinkCore(sink Sink, level zapcore.LevelEnabler) zapcore.Core {
	return &sinkCore{LevelEnabler: level, sink: sink}
}

type sinkCore struct {
	zapcore.LevelEnabler
	sink   Sink
	fields []zapcore.Field
}

func (c *sinkCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &sinkCore{LevelEnabler: c.LevelEnabler, sink: c.sink}
	clone.fields = append(append(clone.fields, c.fields...), fields...)
	return clone
}

func (c *sinkCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *sinkCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	line, status := Render(ent, append(append([]zapcore.Field(nil), c.fields...), fields...))
	c.sink.Log(line)
	if status {
		c.sink.Status(line)
	}
	return nil
}

func (c *sinkCore) Sync() error {
	return nil
}

// Render formats an entry for the log pane: the message, then key=value pairs
// in key order. The status marker is reported separately.
func Render(ent zapcore.Entry, fields []zapcore.Field) (string, bool) {
	enc := zapcore.NewMapObjectEncoder()
	status := false
	for _, f := range fields {
		if f.Key == statusKey {
			status = true
			continue
		}
		f.AddTo(enc)
	}

	var b strings.Builder
	b.WriteString(ent.Message)
	if ent.Level >= zapcore.WarnLevel {
		b.Reset()
		b.WriteString(strings.ToUpper(ent.Level.String()))
		b.WriteString(": ")
		b.WriteString(ent.Message)
	}

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, enc.Fields[k])
	}
	return b.String(), status
}
