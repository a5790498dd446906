package progress

import (
	"fmt"
	"strings"
	"time"
)

// barWidth — ширина progress bar в символах.
const barWidth = 30

// TTYProgress рисует progress bar в терминале.
type TTYProgress struct {
	counter
	opts     Options
	lastDraw time.Time
	message  string
}

// NewTTYProgress создаёт TTY progress bar.
func NewTTYProgress(opts Options) *TTYProgress {
	return &TTYProgress{opts: opts}
}

// Start инициализирует progress bar.
func (p *TTYProgress) Start(total int64, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.start(total)
	p.message = message
	p.lastDraw = time.Time{}
	p.draw()
}

// Advance увеличивает счётчик и перерисовывает bar не чаще ThrottleInterval.
func (p *TTYProgress) Advance(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.advance()
	if message != "" {
		p.message = message
	}
	if p.opts.ThrottleInterval > 0 && time.Since(p.lastDraw) < p.opts.ThrottleInterval {
		return
	}
	p.lastDraw = time.Now()
	p.draw()
}

// Finish рисует финальное состояние и переводит строку.
func (p *TTYProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.message = fmt.Sprintf("готово за %s", FormatDuration(time.Since(p.startTime)))
	p.draw()
	_, _ = fmt.Fprintln(p.opts.Output) //nolint:errcheck // terminal output
}

// draw выводит строку вида: [=====>    ] 45% 9/20 | mqtt.json
func (p *TTYProgress) draw() {
	line := fmt.Sprintf("\r%s %d%% %d/%d", renderBar(p.percent()), p.percent(), p.current, p.total)
	if p.message != "" {
		line += " | " + p.message
	}
	// Очистка до конца строки
	line += "\033[K"
	_, _ = fmt.Fprint(p.opts.Output, line) //nolint:errcheck // terminal output
}

// renderBar рисует bar. При 0% стрелка не выводится.
func renderBar(percent int) string {
	filled := min(percent*barWidth/100, barWidth)

	var bar strings.Builder
	bar.WriteString("[")
	for i := range barWidth {
		switch {
		case i < filled:
			bar.WriteString("=")
		case i == filled && filled > 0:
			bar.WriteString(">")
		default:
			bar.WriteString(" ")
		}
	}
	bar.WriteString("]")
	return bar.String()
}
