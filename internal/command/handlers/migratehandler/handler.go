// Package migratehandler реализует команду migrate: миграцию файла записи
// коннектора или каталога с записями в целевую версию схемы.
package migratehandler

import (
	"context"
	"fmt"
	"os"

	"github.com/Kargones/connector-migrator/internal/command"
	"github.com/Kargones/connector-migrator/internal/command/handlers/shared"
	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/migration"
	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
	"github.com/Kargones/connector-migrator/internal/pkg/dryrun"
)

// RegisterCmd регистрирует команду в реестре.
func RegisterCmd() {
	command.Register(&MigrateHandler{})
}

// MigrateHandler обрабатывает команду migrate.
type MigrateHandler struct{}

// Name возвращает имя команды.
func (h *MigrateHandler) Name() string {
	return constants.ActMigrate
}

// Description возвращает описание команды для вывода в help.
func (h *MigrateHandler) Description() string {
	return "Миграция записи коннектора (файл или каталог) в целевую версию схемы"
}

// Execute выполняет команду migrate.
//
// Для файла результат пишется в CM_OUTPUT_PATH, в исходный файл при
// CM_IN_PLACE=true или в stdout. Для каталога обязателен CM_OUTPUT_PATH
// (каталог назначения) или CM_IN_PLACE=true.
func (h *MigrateHandler) Execute(ctx context.Context, env *command.Env) error {
	rep := shared.NewReporter(ctx, env, constants.ActMigrate)
	cfg := env.Config

	if cfg.InputPath == "" {
		return rep.Fail(apperrors.NewAppError(apperrors.ErrConfigValidate,
			fmt.Sprintf("не задан путь к записи (%s)", constants.EnvInputPath), nil), apperrors.ErrConfigValidate)
	}
	target, err := migration.ParseTargetVersion(cfg.TargetVersion)
	if err != nil {
		return rep.Fail(err, apperrors.ErrInvalidTargetVersion)
	}

	info, err := os.Stat(cfg.InputPath)
	if err != nil {
		return rep.Fail(apperrors.NewAppError(apperrors.ErrRecordRead,
			fmt.Sprintf("путь %s недоступен", cfg.InputPath), err), apperrors.ErrRecordRead)
	}

	m := &migrator{env: env, target: target, dryRun: dryrun.IsDryRun()}
	if info.IsDir() {
		return h.executeBatch(ctx, m, rep)
	}
	return h.executeFile(ctx, m, rep)
}
