// Package main содержит точку входа connector-migrator: миграции записей
// коннекторов IoT-шлюза между версиями схемы конфигурации.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Kargones/connector-migrator/internal/command"
	"github.com/Kargones/connector-migrator/internal/command/handlers"
	"github.com/Kargones/connector-migrator/internal/command/handlers/shared"
	"github.com/Kargones/connector-migrator/internal/config"
	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/di"
	"github.com/Kargones/connector-migrator/internal/pkg/alerting"
	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
	"github.com/Kargones/connector-migrator/internal/pkg/tracing"
)

// Коды выхода.
const (
	exitOK             = 0
	exitUnknownCommand = 2
	exitConfig         = 5
	exitCommandFailed  = 8
)

// shutdownTimeout ограничивает отправку span-ов и метрик при завершении.
const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

// run возвращает код выхода. os.Exit вызывается в main после
// отработки всех defer: иначе span-ы и метрики неудачного запуска теряются.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Не удалось загрузить конфигурацию приложения: %v\n", err)
		return exitConfig
	}
	// Пустая команда → help
	if cfg.Command == "" {
		cfg.Command = constants.ActHelp
	}

	handlers.RegisterAll()

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Не удалось инициализировать приложение: %v\n", err)
		return exitConfig
	}
	// cleanup закрывает лог, поэтому выполняется последним.
	defer cleanup()

	l := app.Env.Logger.With(slog.String("trace_id", app.TraceID), slog.String("command", cfg.Command))
	app.Env.Logger = l
	l.Debug("Информация о сборке",
		slog.String("version", constants.Version),
		slog.String("commit_hash", constants.PreCommitHash),
	)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.TracerShutdown(shutdownCtx); err != nil {
			l.Error("ошибка завершения tracing", slog.String("error", err.Error()))
		}
	}()

	ctx = tracing.WithTraceID(ctx, app.TraceID)
	ctx = tracing.ContextWithOTelTraceID(ctx, app.TraceID)

	ctx, span := otel.Tracer("connector-migrator").Start(ctx, cfg.Command,
		trace.WithAttributes(
			attribute.String("command", cfg.Command),
			attribute.String("input_path", cfg.InputPath),
			attribute.String("target_version", cfg.TargetVersion),
		),
	)
	defer span.End()

	handler, ok := command.Get(cfg.Command)
	if !ok {
		err := apperrors.NewAppError(apperrors.ErrCommandNotFound,
			fmt.Sprintf("неизвестная команда %q", cfg.Command), nil)
		span.SetStatus(codes.Error, err.Error())
		l.Error("Команда не найдена", slog.String("error", err.Error()))
		_ = shared.NewReporter(ctx, app.Env, cfg.Command).Fail(err, apperrors.ErrCommandNotFound)
		return exitUnknownCommand
	}

	start := time.Now()
	execErr := handler.Execute(ctx, app.Env)
	app.MetricsCollector.RecordCommand(cfg.Command, time.Since(start), execErr == nil)

	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	// Ошибки push логируются внутри, не критичны.
	_ = app.MetricsCollector.Push(pushCtx)

	if execErr != nil {
		code := apperrors.CodeOf(execErr, apperrors.ErrCommandExec)
		span.RecordError(execErr)
		span.SetStatus(codes.Error, execErr.Error())
		l.Error("Ошибка выполнения команды",
			slog.String("error", execErr.Error()),
			slog.String("code", code),
		)
		_ = app.Alerter.Send(pushCtx, alerting.Alert{
			ErrorCode: code,
			Message:   apperrors.MessageOf(execErr),
			TraceID:   app.TraceID,
			Timestamp: time.Now(),
			Command:   cfg.Command,
			InputPath: cfg.InputPath,
			Severity:  alerting.SeverityCritical,
		})
		return exitCommandFailed
	}
	l.Debug("Команда выполнена", slog.Duration("duration", time.Since(start)))
	return exitOK
}
