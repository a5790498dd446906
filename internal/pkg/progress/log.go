package progress

import (
	"time"

	"github.com/Kargones/connector-migrator/internal/pkg/logging"
)

// LogProgress пишет прогресс в лог при пересечении каждых 10% (CI, pipes).
type LogProgress struct {
	counter
	log          logging.Logger
	lastReported int
}

// NewLogProgress создаёт progress поверх логгера. nil даёт NopLogger.
func NewLogProgress(logger logging.Logger) *LogProgress {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &LogProgress{log: logger}
}

// Start пишет сообщение о начале.
func (p *LogProgress) Start(total int64, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.start(total)
	p.lastReported = 0
	p.log.Info("Операция начата", "message", message, "total", total)
}

// Advance пишет в лог только на границах 10%, 20% и далее до 90%.
func (p *LogProgress) Advance(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.advance()
	threshold := p.percent() / 10 * 10
	if threshold > p.lastReported && threshold < 100 {
		p.lastReported = threshold
		p.log.Info("Прогресс операции",
			"percent", threshold,
			"current", p.current,
			"elapsed", FormatDuration(time.Since(p.startTime)),
			"message", message)
	}
}

// Finish пишет итог.
func (p *LogProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.Info("Операция завершена",
		"processed", p.current,
		"duration", FormatDuration(time.Since(p.startTime)))
}
