// Package help реализует команду help: список команд и переменных окружения.
package help

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/Kargones/connector-migrator/internal/command"
	"github.com/Kargones/connector-migrator/internal/command/handlers/shared"
	"github.com/Kargones/connector-migrator/internal/config"
	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
)

// RegisterCmd регистрирует команду в реестре.
func RegisterCmd() {
	command.Register(&Handler{})
}

// Data содержит информацию обо всех доступных командах.
type Data struct {
	Commands []CommandInfo `json:"commands"`
	// Environment — описание переменных окружения по разделам.
	Environment string `json:"environment"`
}

// CommandInfo описывает одну команду.
type CommandInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Handler обрабатывает команду help.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActHelp
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Вывод списка доступных команд"
}

// Execute собирает список команд и выводит результат.
func (h *Handler) Execute(ctx context.Context, env *command.Env) error {
	rep := shared.NewReporter(ctx, env, constants.ActHelp)
	data, err := buildData()
	if err != nil {
		return rep.Fail(apperrors.NewAppError(apperrors.ErrCommandExec,
			"не удалось получить описание переменных окружения", err), apperrors.ErrCommandExec)
	}

	// Текстовый формат — справка без metadata.
	if env.Config.OutputFormat != output.FormatJSON {
		return data.WriteText(env.Stdout)
	}
	return rep.Success(data, nil)
}

// buildData собирает команды из реестра в порядке имён.
func buildData() (*Data, error) {
	handlers := command.All()
	names := slices.Sorted(maps.Keys(handlers))
	env, err := config.Describe()
	if err != nil {
		return nil, err
	}
	return &Data{
		Commands: lo.Map(names, func(name string, _ int) CommandInfo {
			return CommandInfo{Name: name, Description: handlers[name].Description()}
		}),
		Environment: env,
	}, nil
}

// WriteText реализует output.TextRenderer.
func (d *Data) WriteText(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("connector-migrator — миграция конфигураций коннекторов IoT-шлюза между версиями схемы\n")
	fmt.Fprintf(&sb, "\nКоманды (%s):\n", constants.EnvCommand)

	width := lo.Max(lo.Map(d.Commands, func(c CommandInfo, _ int) int { return len(c.Name) }))
	for _, cmd := range d.Commands {
		fmt.Fprintf(&sb, "  %-*s  %s\n", width, cmd.Name, cmd.Description)
	}

	sb.WriteString("\n")
	sb.WriteString(d.Environment)

	_, err := fmt.Fprint(w, sb.String())
	return err
}
