// Package validatehandler реализует команду validate: проверку записи
// коннектора по JSON Schema её типа и объявленной версии.
package validatehandler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Kargones/connector-migrator/internal/command"
	"github.com/Kargones/connector-migrator/internal/command/handlers/shared"
	"github.com/Kargones/connector-migrator/internal/connector"
	"github.com/Kargones/connector-migrator/internal/connector/recordfile"
	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
)

// RegisterCmd регистрирует команду в реестре.
func RegisterCmd() {
	command.Register(&ValidateHandler{})
}

// ValidateHandler обрабатывает команду validate.
type ValidateHandler struct{}

func (h *ValidateHandler) Name() string { return constants.ActValidate }

func (h *ValidateHandler) Description() string {
	return "Проверка записи коннектора по схеме её типа и версии"
}

// Report — итог проверки.
type Report struct {
	Path          string `json:"path"`
	Name          string `json:"name,omitempty"`
	Type          string `json:"type,omitempty"`
	ConfigVersion string `json:"config_version,omitempty"`
	Shape         string `json:"shape,omitempty"`
	// SchemaAvailable — для типа есть схема configurationJson.
	// Без неё проверяется только конверт записи.
	SchemaAvailable bool `json:"schema_available"`
	Valid           bool `json:"valid"`
}

// WriteText реализует output.TextRenderer.
func (r *Report) WriteText(w io.Writer) error {
	status := "соответствует схеме"
	if !r.Valid {
		status = "не соответствует схеме"
	}
	scope := "конверт и configurationJson"
	if !r.SchemaAvailable {
		scope = "только конверт"
	}
	_, err := fmt.Fprintf(w, "Файл: %s\nКоннектор: %s (%s), версия %s\nПроверено: %s\nРезультат: %s\n",
		r.Path, r.Name, r.Type, r.ConfigVersion, scope, status)
	return err
}

// envelope — поля записи, нужные для отчёта.
type envelope struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	ConfigVersion string `json:"configVersion"`
}

// Execute читает CM_INPUT_PATH и проверяет документ как есть:
// лишние поля не отбрасываются и попадают в проверку.
func (h *ValidateHandler) Execute(ctx context.Context, env *command.Env) error {
	rep := shared.NewReporter(ctx, env, constants.ActValidate)
	path := env.Config.InputPath
	if path == "" {
		return rep.Fail(apperrors.NewAppError(apperrors.ErrConfigValidate,
			fmt.Sprintf("не задан путь к записи (%s)", constants.EnvInputPath), nil), apperrors.ErrConfigValidate)
	}

	doc, err := readDocument(path)
	if err != nil {
		return rep.Fail(apperrors.NewAppError(apperrors.ErrRecordRead,
			fmt.Sprintf("не удалось прочитать запись %s", path), err), apperrors.ErrRecordRead)
	}

	report := &Report{Path: path}
	var head envelope
	if json.Unmarshal(doc, &head) == nil {
		report.Name = head.Name
		report.Type = head.Type
		if v, err := connector.ParseConfigVersion(head.ConfigVersion); err == nil {
			report.ConfigVersion = v.String()
			if shape, ok := connector.ShapeAt(connector.ConnectorType(head.Type), v); ok {
				report.Shape = string(shape)
				report.SchemaAvailable = env.Validator.HasSchema(connector.ConnectorType(head.Type), shape)
			}
		}
	}

	if err := env.Validator.ValidateDocument(doc); err != nil {
		env.Logger.Debug("Запись не прошла проверку", "path", path, "error", err.Error())
		return rep.FailWithData(apperrors.NewAppError(apperrors.ErrSchemaValidation, err.Error(), err),
			apperrors.ErrSchemaValidation, report)
	}
	report.Valid = true
	return rep.Success(report, nil)
}

func readDocument(path string) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // путь задаёт оператор
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return recordfile.ReadDocument(f, recordfile.DetectFormat(path))
}
