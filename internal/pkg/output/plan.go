package output

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// DryRunPlan — план операций команды без их выполнения.
type DryRunPlan struct {
	Command          string     `json:"command"`
	Steps            []PlanStep `json:"steps"`
	Summary          string     `json:"summary,omitempty"`
	ValidationPassed bool       `json:"validation_passed"`
}

// PlanStep — один шаг плана.
type PlanStep struct {
	Order           int            `json:"order"`
	Operation       string         `json:"operation"`
	Parameters      map[string]any `json:"parameters,omitempty"`
	ExpectedChanges []string       `json:"expected_changes,omitempty"`
	Skipped         bool           `json:"skipped,omitempty"`
	SkipReason      string         `json:"skip_reason,omitempty"`
}

// AddStep добавляет шаг с очередным номером.
func (p *DryRunPlan) AddStep(step PlanStep) {
	step.Order = len(p.Steps) + 1
	p.Steps = append(p.Steps, step)
}

// WriteText печатает план между заголовками "=== DRY RUN ===".
func (p *DryRunPlan) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n=== DRY RUN ===\n")
	fmt.Fprintf(&b, "Команда: %s\n", p.Command)
	fmt.Fprintf(&b, "Валидация: %s\n\n", lo.Ternary(p.ValidationPassed, "пройдена", "не пройдена"))
	fmt.Fprintf(&b, "План выполнения:\n")

	for _, step := range p.Steps {
		if step.Skipped {
			fmt.Fprintf(&b, "  %d. [SKIP] %s (%s)\n", step.Order, step.Operation, step.SkipReason)
			continue
		}
		fmt.Fprintf(&b, "  %d. %s\n", step.Order, step.Operation)

		keys := lo.Keys(step.Parameters)
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "      %s: %s\n", k, sanitizeValue(step.Parameters[k]))
		}
		if len(step.ExpectedChanges) > 0 {
			fmt.Fprintf(&b, "      Ожидаемые изменения:\n")
			for _, change := range step.ExpectedChanges {
				fmt.Fprintf(&b, "        - %s\n", sanitizeValue(change))
			}
		}
	}

	if p.Summary != "" {
		fmt.Fprintf(&b, "\nИтого: %s\n", p.Summary)
	}
	fmt.Fprintf(&b, "=== END DRY RUN ===\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// sanitizeValue удаляет ANSI escape-последовательности и управляющие символы,
// переводы строк и табуляции заменяет пробелами.
func sanitizeValue(v any) string {
	s := fmt.Sprintf("%v", v)
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
		case r == '\n' || r == '\t':
			b.WriteRune(' ')
		case r < 32 || r == 127:
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
