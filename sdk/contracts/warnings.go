package contracts

import (
	"fmt"
	"sync"
)

// Warning records a non-fatal condition encountered by a pipeline stage.
type Warning struct {
	Stage   string // Pipeline stage that raised the warning.
	Message string // Human-readable description.
}

// Warnings accumulates non-fatal conditions across the pipeline so they can
// be summarized after playback. Safe for concurrent use.
type Warnings struct {
	mu     sync.Mutex
	items  []Warning
	logger Logger
}

// NewWarnings creates a collector that also logs each warning as it arrives.
func NewWarnings(logger Logger) *Warnings {
	return &Warnings{logger: logger}
}

// Addf records a warning and logs it at warn level.
func (w *Warnings) Addf(stage, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	w.mu.Lock()
	w.items = append(w.items, Warning{Stage: stage, Message: msg})
	w.mu.Unlock()

	if w.logger != nil {
		w.logger.Warn(msg, w.logger.Field().String("stage", stage))
	}
}

// All returns a copy of the recorded warnings in arrival order.
func (w *Warnings) All() []Warning {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]Warning, len(w.items))
	copy(out, w.items)
	return out
}

// Count reports how many warnings have been recorded.
func (w *Warnings) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}
