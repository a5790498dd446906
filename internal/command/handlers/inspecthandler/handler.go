// Package inspecthandler реализует команду inspect: описание записи
// коннектора и того, что с ней сделает миграция в целевую версию.
package inspecthandler

import (
	"context"
	"fmt"
	"io"

	"github.com/Kargones/connector-migrator/internal/command"
	"github.com/Kargones/connector-migrator/internal/command/handlers/shared"
	"github.com/Kargones/connector-migrator/internal/connector"
	"github.com/Kargones/connector-migrator/internal/connector/recordfile"
	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/migration"
	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
)

// RegisterCmd регистрирует команду в реестре.
func RegisterCmd() {
	command.Register(&InspectHandler{})
}

// InspectHandler обрабатывает команду inspect.
type InspectHandler struct{}

func (h *InspectHandler) Name() string { return constants.ActInspect }

func (h *InspectHandler) Description() string {
	return "Сведения о записи коннектора и её миграции в целевую версию"
}

// Report описывает запись и планируемую миграцию.
type Report struct {
	Path          string `json:"path"`
	Format        string `json:"format"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	DisplayName   string `json:"display_name"`
	ConfigVersion string `json:"config_version"`
	// Shape пусто для типов без типизированной модели.
	Shape    string `json:"shape,omitempty"`
	Boundary string `json:"shape_boundary,omitempty"`

	Target      string `json:"target_version"`
	TargetShape string `json:"target_shape,omitempty"`
	Direction   string `json:"direction"`
	// ShapeChange — миграция перестраивает configurationJson.
	ShapeChange bool `json:"shape_change"`

	ProcessorRegistered bool `json:"processor_registered"`
	SchemaAvailable     bool `json:"schema_available"`
}

// WriteText реализует output.TextRenderer.
func (r *Report) WriteText(w io.Writer) error {
	shape := r.Shape
	if shape == "" {
		shape = "нетипизированная"
	}
	if _, err := fmt.Fprintf(w, "Файл: %s (%s)\nКоннектор: %s, тип %s\nВерсия: %s, форма %s\n",
		r.Path, r.Format, r.Name, r.DisplayName, r.ConfigVersion, shape); err != nil {
		return err
	}
	if r.Boundary != "" {
		if _, err := fmt.Fprintf(w, "Граница форм: %s\n", r.Boundary); err != nil {
			return err
		}
	}

	var plan string
	switch {
	case r.Direction == string(migration.DirectionIdentity):
		plan = "миграция не требуется"
	case !r.ProcessorRegistered:
		plan = "тип не поддерживается, миграция завершится ошибкой"
	case r.ShapeChange:
		plan = fmt.Sprintf("%s с перестройкой configurationJson в форму %s", r.Direction, r.TargetShape)
	default:
		plan = fmt.Sprintf("%s без изменения формы configurationJson", r.Direction)
	}
	_, err := fmt.Fprintf(w, "Целевая версия: %s, %s\n", r.Target, plan)
	return err
}

// Execute читает запись CM_INPUT_PATH и сравнивает её с CM_TARGET_VERSION.
// Запись не изменяется.
func (h *InspectHandler) Execute(ctx context.Context, env *command.Env) error {
	rep := shared.NewReporter(ctx, env, constants.ActInspect)
	path := env.Config.InputPath
	if path == "" {
		return rep.Fail(apperrors.NewAppError(apperrors.ErrConfigValidate,
			fmt.Sprintf("не задан путь к записи (%s)", constants.EnvInputPath), nil), apperrors.ErrConfigValidate)
	}
	target, err := migration.ParseTargetVersion(env.Config.TargetVersion)
	if err != nil {
		return rep.Fail(err, apperrors.ErrInvalidTargetVersion)
	}

	rec, format, err := recordfile.ReadFile(path)
	if err != nil {
		return rep.Fail(shared.RecordReadError(path, err), apperrors.ErrRecordRead)
	}
	return rep.Success(inspect(env, rec, string(format), path, target), nil)
}

func inspect(env *command.Env, rec connector.Record, format, path string, target connector.ConfigVersion) *Report {
	r := &Report{
		Path:                path,
		Format:              format,
		Name:                rec.Name,
		Type:                string(rec.Type),
		DisplayName:         rec.Type.DisplayName(),
		ConfigVersion:       rec.ConfigVersion.String(),
		Target:              target.String(),
		Direction:           string(migration.DirectionOf(rec.ConfigVersion, target)),
		ProcessorRegistered: env.Dispatcher.Lookup(rec.Type).IsPresent(),
	}
	if boundary, ok := connector.ShapeBoundary(rec.Type); ok {
		r.Boundary = boundary.String()
	}
	if shape, ok := connector.ShapeAt(rec.Type, rec.ConfigVersion); ok {
		r.Shape = string(shape)
		r.SchemaAvailable = env.Validator.HasSchema(rec.Type, shape)
	}
	if shape, ok := connector.ShapeAt(rec.Type, target); ok {
		r.TargetShape = string(shape)
		r.ShapeChange = r.TargetShape != r.Shape
	}
	return r
}
