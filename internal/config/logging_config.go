package config

import (
	"fmt"

	"github.com/Kargones/connector-migrator/internal/pkg/logging"
)

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	// Level - уровень логирования (debug, info, warn, error)
	Level string `yaml:"level" env:"CM_LOG_LEVEL" env-description:"уровень логирования: debug, info, warn, error"`

	// Format - формат логов (json, text)
	Format string `yaml:"format" env:"CM_LOG_FORMAT" env-description:"формат логов: text или json"`

	// Output - вывод логов (stderr, file)
	Output string `yaml:"output" env:"CM_LOG_OUTPUT" env-description:"вывод логов: stderr или file"`

	FilePath   string `yaml:"filePath" env:"CM_LOG_FILE_PATH" env-description:"путь к файлу логов при output=file"`
	MaxSize    int    `yaml:"maxSize" env:"CM_LOG_MAX_SIZE" env-description:"размер файла лога до ротации, MB"`
	MaxBackups int    `yaml:"maxBackups" env:"CM_LOG_MAX_BACKUPS" env-description:"число хранимых архивов"`
	MaxAge     int    `yaml:"maxAge" env:"CM_LOG_MAX_AGE" env-description:"срок хранения архивов, дней"`
	Compress   bool   `yaml:"compress" env:"CM_LOG_COMPRESS" env-description:"сжимать архивы логов"`
}

// getDefaultLoggingConfig возвращает конфигурацию логирования по умолчанию.
// Значения берутся из logging.DefaultXxx.
func getDefaultLoggingConfig() *LoggingConfig {
	d := logging.DefaultConfig()
	return &LoggingConfig{
		Level:      d.Level,
		Format:     d.Format,
		Output:     d.Output,
		FilePath:   d.FilePath,
		MaxSize:    d.MaxSize,
		MaxBackups: d.MaxBackups,
		MaxAge:     d.MaxAge,
		Compress:   d.Compress,
	}
}

// validateLoggingConfig отклоняет неизвестные значения уровня, формата и вывода.
func validateLoggingConfig(lc *LoggingConfig) error {
	if !logging.IsValidLevel(lc.Level) {
		return fmt.Errorf("logging: неизвестный уровень %q", lc.Level)
	}
	switch lc.Format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("logging: неизвестный формат %q", lc.Format)
	}
	switch lc.Output {
	case logging.OutputStderr:
	case logging.OutputFile:
		if lc.FilePath == "" {
			return fmt.Errorf("logging: filePath обязателен при output=file")
		}
	default:
		return fmt.Errorf("logging: неизвестный вывод %q", lc.Output)
	}
	return nil
}

// ToLoggingConfig преобразует секцию в logging.Config.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:      lc.Level,
		Format:     lc.Format,
		Output:     lc.Output,
		FilePath:   lc.FilePath,
		MaxSize:    lc.MaxSize,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAge,
		Compress:   lc.Compress,
	}
}
