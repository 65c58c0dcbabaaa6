package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// VerboseChecker reports whether debug output is enabled
type VerboseChecker interface {
	IsVerbose() bool
}

// Logger writes component-tagged lines to stderr. Debug and Info are only
// emitted in verbose mode; Warn and Error always are.
type Logger struct {
	component      string
	verboseChecker VerboseChecker
	writer         io.Writer
	mu             *sync.Mutex
	fields         []Field
}

// Field is a key-value pair appended to a log line
type Field struct {
	Key   string
	Value interface{}
}

// New creates a logger for a component
func New(component string, verboseChecker VerboseChecker) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: verboseChecker,
		writer:         os.Stderr,
		mu:             &sync.Mutex{},
	}
}

// NewWithCallback creates a logger whose verbosity is read from a callback
func NewWithCallback(component string, verboseCheck func() bool) *Logger {
	return New(component, &callbackChecker{callback: verboseCheck})
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	l := New("", nil)
	l.writer = io.Discard
	return l
}

// WithComponent derives a logger for another component sharing the output
func (l *Logger) WithComponent(component string) *Logger {
	c := l.clone()
	c.component = component
	return c
}

// WithWriter derives a logger writing to w
func (l *Logger) WithWriter(w io.Writer) *Logger {
	c := l.clone()
	c.writer = w
	c.mu = &sync.Mutex{}
	return c
}

// With derives a logger that appends fields to every line
func (l *Logger) With(fields ...Field) *Logger {
	c := l.clone()
	c.fields = append(append([]Field{}, l.fields...), fields...)
	return c
}

func (l *Logger) clone() *Logger {
	return &Logger{
		component:      l.component,
		verboseChecker: l.verboseChecker,
		writer:         l.writer,
		mu:             l.mu,
		fields:         l.fields,
	}
}

type callbackChecker struct {
	callback func() bool
}

func (c *callbackChecker) IsVerbose() bool {
	if c.callback == nil {
		return false
	}
	return c.callback()
}

func (l *Logger) verbose() bool {
	return l.verboseChecker != nil && l.verboseChecker.IsVerbose()
}

// Debug logs a message in verbose mode
func (l *Logger) Debug(msg string, fields ...Field) {
	if l.verbose() {
		l.write("DEBUG", msg, fields)
	}
}

// Info logs a message in verbose mode
func (l *Logger) Info(msg string, fields ...Field) {
	if l.verbose() {
		l.write("INFO", msg, fields)
	}
}

// Warn logs a message unconditionally
func (l *Logger) Warn(msg string, fields ...Field) {
	l.write("WARN", msg, fields)
}

// Error logs a message unconditionally
func (l *Logger) Error(msg string, fields ...Field) {
	l.write("ERROR", msg, fields)
}

func (l *Logger) write(level, msg string, fields []Field) {
	component := l.component
	if component == "" {
		component = "main"
	}

	all := append(append([]Field{}, l.fields...), fields...)
	var fieldsStr string
	if len(all) > 0 {
		parts := make([]string, 0, len(all))
		for _, f := range all {
			parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		fieldsStr = " [" + strings.Join(parts, " ") + "]"
	}

	line := fmt.Sprintf("[%s] %s [%s] %s%s\n", time.Now().Format("15:04:05.000"), level, component, msg, fieldsStr)

	l.mu.Lock()
	defer l.mu.Unlock()
	// Nothing sensible to do when the log sink itself fails.
	_, _ = io.WriteString(l.writer, line)
}

// F builds an arbitrary field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d.Round(time.Millisecond)}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

func Status(code int) Field {
	return Field{Key: "status", Value: code}
}

func Submission(id string) Field {
	return Field{Key: "submission", Value: id}
}

// Workflow accepts anything with a String method so this package stays
// free of domain imports.
func Workflow(w fmt.Stringer) Field {
	return Field{Key: "workflow", Value: w.String()}
}
