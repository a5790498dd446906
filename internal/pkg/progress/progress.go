// Package progress отображает ход пакетной миграции каталога записей.
// Все реализации безопасны для вызова Advance из нескольких горутин.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Progress отображает прогресс обработки известного числа единиц работы.
type Progress interface {
	// Start задаёт общее число единиц и начальное сообщение.
	Start(total int64, message string)
	// Advance отмечает завершение одной единицы работы.
	Advance(message string)
	// Finish выводит итог.
	Finish()
}

// Options конфигурирует вывод прогресса.
type Options struct {
	// Output — куда выводить (обычно os.Stderr, чтобы не ломать stdout).
	Output io.Writer
	// ThrottleInterval — минимальный интервал между обновлениями.
	ThrottleInterval time.Duration
}

// Event — JSON-событие прогресса.
type Event struct {
	Type       string `json:"type"` // "progress_start", "progress", "progress_end"
	Current    int64  `json:"current"`
	Total      int64  `json:"total"`
	Percent    int    `json:"percent"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// counter — общий счётчик реализаций.
type counter struct {
	mu        sync.Mutex
	total     int64
	current   int64
	startTime time.Time
}

func (c *counter) start(total int64) {
	c.total = total
	c.current = 0
	c.startTime = time.Now()
}

// advance увеличивает счётчик. Вызывается под c.mu.
func (c *counter) advance() {
	if c.current < c.total {
		c.current++
	}
}

func (c *counter) percent() int {
	if c.total <= 0 {
		return 100
	}
	return int(c.current * 100 / c.total)
}

// IsTTY проверяет, является ли writer терминалом.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// FormatDuration форматирует duration в читаемый вид (1h 7m 30s, 5m 30s, 45s).
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		return "0s"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0 && s == 0:
		return fmt.Sprintf("%dm", m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
