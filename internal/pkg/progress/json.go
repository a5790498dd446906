package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONProgress выводит события прогресса в формате JSON-lines.
type JSONProgress struct {
	counter
	opts     Options
	encoder  *json.Encoder
	lastEmit time.Time
}

// NewJSONProgress создаёт JSON progress.
func NewJSONProgress(opts Options) *JSONProgress {
	return &JSONProgress{opts: opts, encoder: json.NewEncoder(opts.Output)}
}

// Start выводит событие progress_start.
func (p *JSONProgress) Start(total int64, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.start(total)
	p.lastEmit = time.Time{}
	p.emit(Event{Type: "progress_start", Total: total, Message: message})
}

// Advance выводит событие progress не чаще ThrottleInterval.
// Последняя единица работы выводится всегда.
func (p *JSONProgress) Advance(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.advance()
	last := p.current == p.total
	if !last && p.opts.ThrottleInterval > 0 && time.Since(p.lastEmit) < p.opts.ThrottleInterval {
		return
	}
	p.lastEmit = time.Now()
	p.emit(Event{
		Type:    "progress",
		Current: p.current,
		Total:   p.total,
		Percent: p.percent(),
		Message: message,
	})
}

// Finish выводит событие progress_end.
func (p *JSONProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.emit(Event{
		Type:       "progress_end",
		Current:    p.current,
		Total:      p.total,
		Percent:    p.percent(),
		DurationMs: time.Since(p.startTime).Milliseconds(),
	})
}

func (p *JSONProgress) emit(e Event) {
	if err := p.encoder.Encode(e); err != nil {
		fmt.Fprintf(os.Stderr, "progress: encode error: %v\n", err) //nolint:errcheck // writing to stderr
	}
}
