// Package command предоставляет интерфейсы и реестр для команд приложения.
// Пакеты-обработчики регистрируются через RegisterCmd из handlers.RegisterAll,
// main.go выбирает обработчик по CM_COMMAND.
package command

import (
	"context"
	"io"

	"github.com/Kargones/connector-migrator/internal/config"
	"github.com/Kargones/connector-migrator/internal/connector/schema"
	"github.com/Kargones/connector-migrator/internal/migration"
	"github.com/Kargones/connector-migrator/internal/pkg/logging"
	"github.com/Kargones/connector-migrator/internal/pkg/metrics"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
)

// Env — зависимости, с которыми выполняется команда.
// Собирается в internal/di.
type Env struct {
	Config     *config.Config
	Logger     logging.Logger
	Writer     output.Writer
	Dispatcher *migration.Dispatcher
	Validator  *schema.Validator
	Metrics    metrics.Collector
	// Stdout — поток результата команды и мигрированной записи.
	Stdout io.Writer
}

// Handler определяет интерфейс обработчика команды.
type Handler interface {
	// Name возвращает имя команды (constants.ActXxx).
	Name() string

	// Description возвращает описание команды для вывода в help.
	Description() string

	// Execute выполняет команду. Результат пишется в env.Stdout,
	// ошибка определяет код выхода.
	Execute(ctx context.Context, env *Env) error
}
