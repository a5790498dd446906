package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const summaryDivider = "──────────────────────────────────────────"

// TextWriter печатает Result в человекочитаемом виде.
type TextWriter struct{}

// NewTextWriter создаёт TextWriter.
func NewTextWriter() *TextWriter { return &TextWriter{} }

// Write печатает заголовок, ошибку или данные, затем сводку.
// Для результата с ошибкой сводка не печатается.
func (t *TextWriter) Write(w io.Writer, result *Result) error {
	if result == nil {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", result.Command, result.Status)

	if result.Error != nil {
		fmt.Fprintf(&b, "Error [%s]: %s\n", result.Error.Code, result.Error.Message)
	}

	if result.DryRun && result.Plan != nil {
		if err := result.Plan.WriteText(&b); err != nil {
			return err
		}
	} else if result.Data != nil {
		if r, ok := result.Data.(TextRenderer); ok {
			if err := r.WriteText(&b); err != nil {
				return err
			}
		} else {
			data, err := json.MarshalIndent(result.Data, "", "  ")
			if err != nil {
				return fmt.Errorf("не удалось сериализовать data: %w", err)
			}
			fmt.Fprintf(&b, "Data: %s\n", data)
		}
	}

	if result.Status != StatusError {
		writeSummary(&b, result)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSummary(b *strings.Builder, result *Result) {
	hasDuration := result.Metadata != nil && result.Metadata.DurationMs > 0
	hasSummary := result.Summary != nil && (len(result.Summary.KeyMetrics) > 0 || result.Summary.WarningsCount > 0)
	if !hasDuration && !hasSummary {
		return
	}

	fmt.Fprintf(b, "\n%s\nСводка\n", summaryDivider)
	if hasDuration {
		fmt.Fprintf(b, "Время выполнения: %s\n", formatDuration(result.Metadata.DurationMs))
	}
	if result.Summary != nil {
		for _, m := range result.Summary.KeyMetrics {
			if m.Unit != "" {
				fmt.Fprintf(b, "%s: %s %s\n", m.Name, m.Value, m.Unit)
			} else {
				fmt.Fprintf(b, "%s: %s\n", m.Name, m.Value)
			}
		}
		if result.Summary.WarningsCount > 0 {
			fmt.Fprintf(b, "Предупреждений: %d\n", result.Summary.WarningsCount)
			for _, warn := range result.Summary.Warnings {
				fmt.Fprintf(b, "  - %s\n", warn)
			}
		}
	}
	fmt.Fprintf(b, "%s\n", summaryDivider)
}

// formatDuration печатает миллисекунды, секунды с десятыми или минуты и секунды.
func formatDuration(ms int64) string {
	switch {
	case ms < 1000:
		return fmt.Sprintf("%dмс", ms)
	case ms < 60_000:
		return fmt.Sprintf("%.1fс", float64(ms)/1000)
	default:
		sec := ms / 1000
		return fmt.Sprintf("%dм %dс", sec/60, sec%60)
	}
}
