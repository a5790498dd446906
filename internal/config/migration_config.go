package config

import (
	"fmt"
	"runtime"

	"github.com/Kargones/connector-migrator/internal/connector"
)

// MigrationConfig содержит настройки миграции записей.
type MigrationConfig struct {
	// DefaultKeyReportPeriod — период ON_REPORT_PERIOD (мс) для ключей
	// без стратегии отправки при переходе через 3.5.2.
	DefaultKeyReportPeriod int `yaml:"defaultKeyReportPeriod" env:"CM_DEFAULT_KEY_REPORT_PERIOD" env-description:"период отправки по умолчанию для ключей, мс"`

	// ValidateOutput включает проверку результата по JSON Schema целевой версии.
	ValidateOutput bool `yaml:"validateOutput" env:"CM_VALIDATE" env-description:"проверять результат миграции по JSON Schema"`

	// Backup сохраняет копию исходного файла перед перезаписью на месте.
	Backup bool `yaml:"backup" env:"CM_BACKUP" env-description:"сохранять .bak перед перезаписью на месте"`

	// Workers — число параллельных миграций при обработке каталога.
	Workers int `yaml:"workers" env:"CM_WORKERS" env-description:"число параллельных миграций в пакетном режиме"`
}

func getDefaultMigrationConfig() *MigrationConfig {
	return &MigrationConfig{
		DefaultKeyReportPeriod: connector.DefaultReportPeriodMs,
		ValidateOutput:         true,
		Backup:                 true,
		Workers:                runtime.NumCPU(),
	}
}

func validateMigrationConfig(mc *MigrationConfig) error {
	if mc.DefaultKeyReportPeriod <= 0 {
		return fmt.Errorf("migration: defaultKeyReportPeriod должен быть положительным, получено: %d", mc.DefaultKeyReportPeriod)
	}
	if mc.Workers <= 0 {
		return fmt.Errorf("migration: workers должен быть положительным, получено: %d", mc.Workers)
	}
	return nil
}
