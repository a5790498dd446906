// Package output форматирует результаты команд в JSON или текст.
package output

import "io"

// Значения Result.Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result — результат команды, который печатается в stdout.
type Result struct {
	Status  string     `json:"status"`
	Command string     `json:"command"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`

	Metadata *Metadata `json:"metadata,omitempty"`

	// DryRun и Plan заполняются, когда команда только показала план.
	DryRun bool        `json:"dry_run,omitempty"`
	Plan   *DryRunPlan `json:"plan,omitempty"`

	// Summary попадает в JSON как metadata.summary.
	Summary *SummaryInfo `json:"-"`
}

// ErrorInfo — машиночитаемый код и сообщение ошибки.
// Message не должен содержать секретов.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Metadata — сведения о выполнении команды.
type Metadata struct {
	DurationMs int64        `json:"duration_ms"`
	TraceID    string       `json:"trace_id,omitempty"`
	APIVersion string       `json:"api_version"`
	Summary    *SummaryInfo `json:"summary,omitempty"`
}

// TextRenderer реализуется данными команды, у которых есть собственный
// текстовый вид. Остальные данные TextWriter печатает как JSON.
type TextRenderer interface {
	WriteText(w io.Writer) error
}
