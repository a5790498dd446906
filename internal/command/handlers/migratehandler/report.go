package migratehandler

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Kargones/connector-migrator/internal/pkg/output"
)

// FileReport — итог миграции одного файла.
type FileReport struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path,omitempty"`
	Name       string `json:"name,omitempty"`
	Type       string `json:"type,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to"`
	Direction  string `json:"direction,omitempty"`
	// Outcome — migrated, unchanged или failed.
	Outcome    string            `json:"outcome"`
	BackupPath string            `json:"backup_path,omitempty"`
	Changes    []string          `json:"changes,omitempty"`
	Error      *output.ErrorInfo `json:"error,omitempty"`
	// Record — мигрированная запись при выводе в stdout в формате json.
	Record json.RawMessage `json:"record,omitempty"`
}

// WriteText реализует output.TextRenderer.
func (r *FileReport) WriteText(w io.Writer) error {
	var err error
	p := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	p("Файл: %s\n", r.Path)
	if r.Name != "" {
		p("Коннектор: %s (%s)\n", r.Name, r.Type)
	}
	if r.From != "" {
		p("Версия: %s -> %s (%s)\n", r.From, r.To, r.Direction)
	}
	p("Результат: %s\n", r.Outcome)
	if r.OutputPath != "" {
		p("Записано в: %s\n", r.OutputPath)
	}
	if r.BackupPath != "" {
		p("Резервная копия: %s\n", r.BackupPath)
	}
	for _, c := range r.Changes {
		p("  %s\n", c)
	}
	if r.Error != nil {
		p("Ошибка [%s]: %s\n", r.Error.Code, r.Error.Message)
	}
	return err
}

// BatchReport — итог миграции каталога.
type BatchReport struct {
	Root      string        `json:"root"`
	OutputDir string        `json:"output_dir,omitempty"`
	To        string        `json:"to"`
	DryRun    bool          `json:"dry_run"`
	Total     int           `json:"total"`
	Migrated  int           `json:"migrated"`
	Unchanged int           `json:"unchanged"`
	Failed    int           `json:"failed"`
	Files     []*FileReport `json:"files"`
}

// WriteText реализует output.TextRenderer: по строке на файл.
func (b *BatchReport) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Каталог: %s -> %s\n", b.Root, b.To); err != nil {
		return err
	}
	for _, f := range b.Files {
		line := fmt.Sprintf("  [%s] %s", f.Outcome, f.Path)
		if f.Direction != "" {
			line += fmt.Sprintf(" (%s -> %s)", f.From, f.To)
		}
		if f.Error != nil {
			line += fmt.Sprintf(": %s", f.Error.Message)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// summary собирает сводку пакетной миграции.
func (b *BatchReport) summary() *output.SummaryInfo {
	s := output.NewSummaryInfo()
	s.AddMetric("Файлов", fmt.Sprint(b.Total), "")
	s.AddMetric("Мигрировано", fmt.Sprint(b.Migrated), "")
	s.AddMetric("Без изменений", fmt.Sprint(b.Unchanged), "")
	s.AddMetric("Ошибок", fmt.Sprint(b.Failed), "")
	return s
}
