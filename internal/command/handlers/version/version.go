// Package version реализует команду version: версия приложения и
// поддерживаемые типы коннекторов и версии схемы.
package version

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/samber/lo"

	"github.com/Kargones/connector-migrator/internal/command"
	"github.com/Kargones/connector-migrator/internal/command/handlers/shared"
	"github.com/Kargones/connector-migrator/internal/connector"
	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
)

// RegisterCmd регистрирует команду в реестре.
func RegisterCmd() {
	command.Register(&VersionHandler{})
}

// VersionData содержит информацию о версии приложения.
type VersionData struct {
	// Version — полная версия приложения.
	Version string `json:"version"`

	// GoVersion — версия Go, использованная при сборке.
	GoVersion string `json:"go_version"`

	// Commit — хеш коммита на момент сборки.
	Commit string `json:"commit"`

	// ConnectorTypes — типы коннекторов с зарегистрированным процессором.
	ConnectorTypes []string `json:"connector_types"`

	// ConfigVersions — версии схемы в порядке возрастания.
	ConfigVersions []string `json:"config_versions"`
}

// WriteText реализует output.TextRenderer.
func (d *VersionData) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "connector-migrator version %s\n  Go:       %s\n  Commit:   %s\n  Типы:     %s\n  Версии:   %s\n",
		d.Version, d.GoVersion, d.Commit,
		strings.Join(d.ConnectorTypes, ", "), strings.Join(d.ConfigVersions, ", "))
	return err
}

// buildVersionData создаёт VersionData с fallback значениями.
// Если version пустой — используется "dev", если commit пустой — "unknown".
func buildVersionData(version, commit string, types []connector.ConnectorType) *VersionData {
	if version == "" {
		version = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
	return &VersionData{
		Version:        version,
		GoVersion:      runtime.Version(),
		Commit:         commit,
		ConnectorTypes: lo.Map(types, func(t connector.ConnectorType, _ int) string { return string(t) }),
		ConfigVersions: lo.Map(connector.Versions(), func(v connector.ConfigVersion, _ int) string { return v.String() }),
	}
}

// VersionHandler обрабатывает команду version.
type VersionHandler struct{}

// Name возвращает имя команды.
func (h *VersionHandler) Name() string {
	return constants.ActVersion
}

// Description возвращает описание команды для вывода в help.
func (h *VersionHandler) Description() string {
	return "Вывод информации о версии приложения"
}

// Execute выводит данные о версии.
func (h *VersionHandler) Execute(ctx context.Context, env *command.Env) error {
	data := buildVersionData(constants.Version, constants.PreCommitHash, env.Dispatcher.Types())

	// Текстовый формат — компактный вывод без metadata.
	if env.Config.OutputFormat != output.FormatJSON {
		return data.WriteText(env.Stdout)
	}
	return shared.NewReporter(ctx, env, constants.ActVersion).Success(data, nil)
}
