// Package fault centralizes the four fatal-error categories the engine
// recognizes (spec §7: programmer/topology error, realtime-invariant
// violation, plugin failure, resource exhaustion). None of these are
// recovered or retried — the teacher's ErrorHandler pattern (errors.go:
// DefaultErrorHandler/LoggingErrorHandler/PanicErrorHandler) is kept as the
// dispatch mechanism, with structured logging added as the sink and a
// panic always following the log line.
package fault

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
)

// Category names one of the spec's four fatal-error kinds.
type Category string

const (
	CategoryProgrammer Category = "programmer"
	CategoryInvariant  Category = "invariant"
	CategoryPlugin     Category = "plugin"
	CategoryResource   Category = "resource"
)

// Handler is the engine-wide error sink, generalizing the teacher's
// ErrorHandler interface from a single HandleError method to a
// category-aware Fault call.
type Handler interface {
	Fault(cat Category, msg string)
}

// LogPanicHandler logs at fatal level with caller context. charmbracelet/log's
// Fatal exits the process, so the panic that Fault raises after a handler
// returns is never reached with this handler. This is the engine's default
// handler (analogous to the teacher's PanicErrorHandler, with
// LoggingErrorHandler's sink folded in).
type LogPanicHandler struct {
	Logger *log.Logger
}

// NewLogPanicHandler returns a handler that logs to logger (or a new
// default charmbracelet/log logger if nil) at fatal level, which exits the
// process.
func NewLogPanicHandler(logger *log.Logger) *LogPanicHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &LogPanicHandler{Logger: logger}
}

func (h *LogPanicHandler) Fault(cat Category, msg string) {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file, line = "unknown", 0
	}
	h.Logger.Fatal(msg, "category", cat, "at", fmt.Sprintf("%s:%d", file, line))
}

// defaultHandler is used by the package-level Fault helper when no handler
// has been installed. Tests that want to assert on fault behavior should
// install their own Handler via SetDefault rather than relying on the
// process-ending default.
var defaultHandler Handler = NewLogPanicHandler(nil)

// SetDefault installs the package-level handler used by Fault.
func SetDefault(h Handler) {
	if h != nil {
		defaultHandler = h
	}
}

// Fault routes msg through the installed handler. charmbracelet/log's
// Fatal calls os.Exit, so in production this never returns; a handler
// installed for tests may instead panic or record, so callers should not
// assume process termination is the only possible outcome.
func Fault(cat Category, format string, args ...interface{}) {
	defaultHandler.Fault(cat, fmt.Sprintf(format, args...))
	panic(fmt.Sprintf("fault: %s: %s", cat, fmt.Sprintf(format, args...)))
}
