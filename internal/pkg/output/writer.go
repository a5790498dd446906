package output

import (
	"encoding/json"
	"io"
	"strings"
)

// Форматы вывода.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Writer печатает Result в w.
type Writer interface {
	Write(w io.Writer, result *Result) error
}

// NewWriter возвращает Writer для format без учёта регистра.
// Неизвестный формат даёт TextWriter.
func NewWriter(format string) Writer {
	if strings.EqualFold(format, FormatJSON) {
		return NewJSONWriter()
	}
	return NewTextWriter()
}

// IsValidFormat сообщает, что format поддерживается.
func IsValidFormat(format string) bool {
	return strings.EqualFold(format, FormatJSON) || strings.EqualFold(format, FormatText)
}

// JSONWriter печатает Result как JSON с отступами.
type JSONWriter struct{}

// NewJSONWriter создаёт JSONWriter.
func NewJSONWriter() *JSONWriter { return &JSONWriter{} }

// Write не изменяет result: Summary переносится в копию Metadata.
func (j *JSONWriter) Write(w io.Writer, result *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if result == nil {
		return enc.Encode(result)
	}

	out := *result
	if result.Summary != nil && result.Metadata != nil {
		meta := *result.Metadata
		meta.Summary = result.Summary
		out.Metadata = &meta
	}
	return enc.Encode(&out)
}
