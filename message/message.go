// Package message implements the structured diagnostics sink for sprite
// processing. Parse and lookup failures are reported here as warnings with
// the stylesheet and line they originated from and never abort the run.
package message

import (
	"fmt"

	"go.uber.org/zap"
)

type Level int8

const (
	LevelInfo Level = iota
	LevelWarn
)

// Message is a single diagnostic event scoped to a stylesheet location.
type Message struct {
	Level   Level
	Text    string
	CSSFile string
	Line    int
}

func (m Message) String() string {
	if len(m.CSSFile) == 0 {
		return m.Text
	}
	if m.Line <= 0 {
		return fmt.Sprintf("%s: %s", m.CSSFile, m.Text)
	}
	return fmt.Sprintf("%s:%d: %s", m.CSSFile, m.Line, m.Text)
}

// Log accumulates diagnostics while keeping track of the stylesheet and
// line currently being processed. Messages are mirrored to the program
// logger and retained for later inspection (summary, fail-on-warning mode,
// tests).
//
// NOTE: not safe for concurrent use, the pipeline is strictly sequential.
type Log struct {
	log     *zap.Logger
	cssFile string
	line    int
	msgs    []Message
}

func NewLog(log *zap.Logger) *Log {
	if log == nil {
		log = zap.NewNop()
	}
	return &Log{log: log.Named("css")}
}

// SetCSSFile sets the stylesheet subsequent messages refer to. Resets the
// current line.
func (l *Log) SetCSSFile(name string) {
	l.cssFile = name
	l.line = 0
}

// SetLine sets the 1-based line subsequent messages refer to.
func (l *Log) SetLine(n int) {
	l.line = n
}

func (l *Log) Info(format string, args ...any) {
	l.emit(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Log) Warn(format string, args ...any) {
	l.emit(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Log) emit(lvl Level, text string) {
	m := Message{Level: lvl, Text: text, CSSFile: l.cssFile, Line: l.line}
	l.msgs = append(l.msgs, m)

	fields := make([]zap.Field, 0, 2)
	if len(m.CSSFile) > 0 {
		fields = append(fields, zap.String("css", m.CSSFile))
	}
	if m.Line > 0 {
		fields = append(fields, zap.Int("line", m.Line))
	}
	if lvl == LevelWarn {
		l.log.Warn(text, fields...)
		return
	}
	l.log.Info(text, fields...)
}

// Messages returns all diagnostics collected so far in emission order.
func (l *Log) Messages() []Message {
	return l.msgs
}

// Warnings returns collected warnings only.
func (l *Log) Warnings() []Message {
	var out []Message
	for _, m := range l.msgs {
		if m.Level == LevelWarn {
			out = append(out, m)
		}
	}
	return out
}

// WarningCount reports the number of warnings collected so far.
func (l *Log) WarningCount() int {
	n := 0
	for _, m := range l.msgs {
		if m.Level == LevelWarn {
			n++
		}
	}
	return n
}
