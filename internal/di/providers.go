package di

import (
	"io"
	"log/slog"
	"os"

	"github.com/Kargones/connector-migrator/internal/config"
	"github.com/Kargones/connector-migrator/internal/connector/schema"
	"github.com/Kargones/connector-migrator/internal/migration"
	"github.com/Kargones/connector-migrator/internal/pkg/alerting"
	"github.com/Kargones/connector-migrator/internal/pkg/logging"
	"github.com/Kargones/connector-migrator/internal/pkg/metrics"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
	"github.com/Kargones/connector-migrator/internal/pkg/tracing"
)

// ProvideLogger создаёт Logger по LoggingConfig.
// При nil LoggingConfig используются значения по умолчанию.
// Cleanup закрывает файл ротации логов.
func ProvideLogger(cfg *config.Config) (logging.Logger, func()) {
	logCfg := logging.DefaultConfig()
	if cfg != nil && cfg.LoggingConfig != nil {
		logCfg = cfg.LoggingConfig.ToLoggingConfig()
	}

	logger, closer := logging.NewLogger(logCfg)
	return logger, func() {
		_ = closer.Close()
	}
}

// ProvideOutputWriter создаёт Writer по CM_OUTPUT_FORMAT.
// Пустой формат даёт текстовый вывод.
func ProvideOutputWriter(cfg *config.Config) output.Writer {
	format := output.FormatText
	if cfg != nil && cfg.OutputFormat != "" {
		format = cfg.OutputFormat
	}
	return output.NewWriter(format)
}

// ProvideTraceID генерирует trace_id запуска: 32 hex-символа.
func ProvideTraceID() string {
	return tracing.GenerateTraceID()
}

// ProvideMetricsCollector создаёт Collector по MetricsConfig.
// Если метрики отключены или конфигурация некорректна, возвращает NopCollector.
func ProvideMetricsCollector(cfg *config.Config, logger logging.Logger) metrics.Collector {
	if cfg == nil || cfg.MetricsConfig == nil {
		return metrics.NewNopCollector()
	}

	collector, err := metrics.NewCollector(cfg.MetricsConfig.ToMetricsConfig(), logger)
	if err != nil {
		logger.Error("ошибка создания MetricsCollector, используется NopCollector",
			slog.String("error", err.Error()),
		)
		return metrics.NewNopCollector()
	}
	return collector
}

// ProvideAlerter создаёт Alerter по AlertingConfig.
// Если алертинг отключён или конфигурация некорректна, возвращает NopAlerter.
func ProvideAlerter(cfg *config.Config, logger logging.Logger) alerting.Alerter {
	if cfg == nil || cfg.AlertingConfig == nil {
		return alerting.NewNopAlerter()
	}

	alerter, err := alerting.NewAlerter(cfg.AlertingConfig.ToAlertingConfig(), logger)
	if err != nil {
		logger.Error("ошибка создания Alerter, используется NopAlerter",
			slog.String("error", err.Error()),
		)
		return alerting.NewNopAlerter()
	}
	return alerter
}

// ProvideTracerProvider инициализирует OTel TracerProvider.
// Ошибка инициализации не прерывает запуск: возвращается nop shutdown.
func ProvideTracerProvider(cfg *config.Config, logger logging.Logger) tracing.ShutdownFunc {
	if cfg == nil || cfg.TracingConfig == nil {
		return tracing.NewNopTracerProvider()
	}

	shutdown, err := tracing.NewTracerProvider(cfg.TracingConfig.ToTracingConfig(), logger)
	if err != nil {
		logger.Error("ошибка инициализации tracing, используется nop provider",
			slog.String("error", err.Error()),
		)
		return tracing.NewNopTracerProvider()
	}
	return shutdown
}

// ProvideDispatcher создаёт диспетчер со встроенными процессорами.
func ProvideDispatcher(cfg *config.Config, logger logging.Logger) *migration.Dispatcher {
	opts := []migration.Option{migration.WithLogger(logger)}
	if cfg != nil && cfg.MigrationConfig != nil {
		opts = append(opts, migration.WithDefaultKeyReportPeriod(cfg.MigrationConfig.DefaultKeyReportPeriod))
	}
	return migration.NewDispatcher(opts...)
}

// ProvideValidator компилирует встроенные JSON Schema.
func ProvideValidator() (*schema.Validator, error) {
	return schema.NewValidator()
}

// ProvideStdout возвращает поток результата команды.
func ProvideStdout() io.Writer {
	return os.Stdout
}
