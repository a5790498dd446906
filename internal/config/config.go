// Package config загружает конфигурацию CLI из переменных окружения
// и необязательного YAML-файла приложения.
//
// Порядок источников для каждой секции: значения по умолчанию, затем
// секция из файла CM_CONFIG_FILE, затем переменные окружения CM_*.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
)

// InputParams — параметры запуска, читаемые только из окружения.
type InputParams struct {
	Command       string `env:"CM_COMMAND" env-description:"команда: migrate, validate, inspect, version, help"`
	InputPath     string `env:"CM_INPUT_PATH" env-description:"файл записи коннектора (JSON или YAML) или каталог с записями"`
	OutputPath    string `env:"CM_OUTPUT_PATH" env-description:"куда записать результат миграции; пусто означает stdout"`
	TargetVersion string `env:"CM_TARGET_VERSION" env-default:"3.5.4" env-description:"целевая версия схемы: legacy, 3.5.2 или 3.5.4"`
	OutputFormat  string `env:"CM_OUTPUT_FORMAT" env-default:"text" env-description:"формат результата команды: text или json"`
	ConfigFile    string `env:"CM_CONFIG_FILE" env-description:"YAML-файл с секциями logging, metrics, tracing, migration, alerting"`
	InPlace       bool   `env:"CM_IN_PLACE" env-description:"перезаписать исходный файл мигрированной записью"`
}

// AppConfig — содержимое файла CM_CONFIG_FILE.
type AppConfig struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Migration MigrationConfig `yaml:"migration"`
	Alerting  AlertingConfig  `yaml:"alerting"`
}

// Config — итоговая конфигурация запуска.
type Config struct {
	Command       string
	InputPath     string
	OutputPath    string
	TargetVersion string
	OutputFormat  string
	ConfigFile    string
	InPlace       bool

	LoggingConfig   *LoggingConfig
	MetricsConfig   *MetricsConfig
	TracingConfig   *TracingConfig
	MigrationConfig *MigrationConfig
	AlertingConfig  *AlertingConfig
}

// ErrInvalidOutputFormat — CM_OUTPUT_FORMAT не json и не text.
var ErrInvalidOutputFormat = errors.New("config: output format должен быть json или text")

// Load читает окружение и файл приложения.
// Ошибка чтения явно указанного файла или невалидная секция возвращаются
// как AppError с кодом CONFIG.*.
func Load() (*Config, error) {
	var params InputParams
	if err := cleanenv.ReadEnv(&params); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
			"не удалось прочитать переменные окружения", err)
	}

	cfg := &Config{
		Command:       strings.TrimSpace(params.Command),
		InputPath:     params.InputPath,
		OutputPath:    params.OutputPath,
		TargetVersion: params.TargetVersion,
		OutputFormat:  strings.ToLower(params.OutputFormat),
		ConfigFile:    params.ConfigFile,
		InPlace:       params.InPlace,
	}
	if !output.IsValidFormat(cfg.OutputFormat) {
		return nil, apperrors.NewAppError(apperrors.ErrConfigValidate,
			fmt.Sprintf("неизвестный формат вывода %q", params.OutputFormat), ErrInvalidOutputFormat)
	}

	l := bootstrapLogger()

	app := defaultAppConfig()
	if cfg.ConfigFile != "" {
		if err := loadAppConfig(cfg.ConfigFile, app); err != nil {
			return nil, err
		}
		l.Debug("Файл конфигурации загружен", slog.String("path", cfg.ConfigFile))
	}

	cfg.LoggingConfig = applyEnv(l, "logging", &app.Logging)
	cfg.MetricsConfig = applyEnv(l, "metrics", &app.Metrics)
	cfg.TracingConfig = applyEnv(l, "tracing", &app.Tracing)
	cfg.MigrationConfig = applyEnv(l, "migration", &app.Migration)
	cfg.AlertingConfig = applyEnv(l, "alerting", &app.Alerting)

	validators := []func() error{
		func() error { return validateLoggingConfig(cfg.LoggingConfig) },
		func() error { return validateMetricsConfig(cfg.MetricsConfig) },
		func() error { return validateTracingConfig(cfg.TracingConfig) },
		func() error { return validateMigrationConfig(cfg.MigrationConfig) },
		func() error { return validateAlertingConfig(cfg.AlertingConfig) },
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigValidate, err.Error(), err)
		}
	}
	return cfg, nil
}

// defaultAppConfig возвращает конфигурацию приложения со значениями по умолчанию.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Logging:   *getDefaultLoggingConfig(),
		Metrics:   *getDefaultMetricsConfig(),
		Tracing:   *getDefaultTracingConfig(),
		Migration: *getDefaultMigrationConfig(),
		Alerting:  *getDefaultAlertingConfig(),
	}
}

// loadAppConfig разбирает YAML-файл приложения поверх app.
// Поля, отсутствующие в файле, сохраняют значения по умолчанию.
func loadAppConfig(path string, app *AppConfig) error {
	data, err := os.ReadFile(path) //nolint:gosec // путь задаёт оператор
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrConfigLoad,
			fmt.Sprintf("не удалось прочитать файл конфигурации %s", path), err)
	}
	if err := yaml.Unmarshal(data, app); err != nil {
		return apperrors.NewAppError(apperrors.ErrConfigParse,
			fmt.Sprintf("ошибка разбора файла конфигурации %s", path), err)
	}
	return nil
}

// applyEnv применяет переменные окружения к секции.
// Поля секций не имеют env-default, поэтому значения из файла
// перезаписываются только явно заданными переменными.
func applyEnv[T any](l *slog.Logger, name string, section *T) *T {
	if err := cleanenv.ReadEnv(section); err != nil {
		l.Warn("Ошибка чтения переменных окружения секции",
			slog.String("section", name),
			slog.String("error", err.Error()),
		)
	}
	return section
}

// bootstrapLogger пишет предупреждения загрузки до создания основного логгера.
func bootstrapLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// Describe возвращает описание переменных окружения для help.
func Describe() (string, error) {
	var b strings.Builder
	sections := []struct {
		header string
		value  any
	}{
		{"Параметры запуска:", &InputParams{}},
		{"Логирование:", getDefaultLoggingConfig()},
		{"Миграция:", getDefaultMigrationConfig()},
		{"Метрики:", getDefaultMetricsConfig()},
		{"Трейсинг:", getDefaultTracingConfig()},
		{"Уведомления:", getDefaultAlertingConfig()},
	}
	for _, s := range sections {
		header := s.header
		text, err := cleanenv.GetDescription(s.value, &header)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Default возвращает конфигурацию со значениями по умолчанию без чтения
// окружения. Используется в тестах и как основа для Load.
func Default() *Config {
	app := defaultAppConfig()
	return &Config{
		TargetVersion:   "3.5.4",
		OutputFormat:    "text",
		LoggingConfig:   &app.Logging,
		MetricsConfig:   &app.Metrics,
		TracingConfig:   &app.Tracing,
		MigrationConfig: &app.Migration,
		AlertingConfig:  &app.Alerting,
	}
}
