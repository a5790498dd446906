package config

import (
	"time"

	"github.com/Kargones/connector-migrator/internal/pkg/alerting"
)

// AlertingConfig содержит настройки webhook-уведомлений о неудачных запусках.
type AlertingConfig struct {
	Enabled bool     `yaml:"enabled" env:"CM_ALERT_ENABLED" env-description:"отправлять webhook при ошибке команды"`
	URLs    []string `yaml:"urls" env:"CM_ALERT_WEBHOOK_URLS" env-separator:"," env-description:"URL webhook через запятую"`
	// Headers задаются только в файле: в них обычно токены.
	Headers    map[string]string `yaml:"headers"`
	Timeout    time.Duration     `yaml:"timeout" env:"CM_ALERT_TIMEOUT" env-description:"таймаут одного запроса"`
	MaxRetries int               `yaml:"maxRetries" env:"CM_ALERT_MAX_RETRIES" env-description:"повторы при сетевых ошибках и 5xx"`
}

func getDefaultAlertingConfig() *AlertingConfig {
	return &AlertingConfig{
		Timeout:    alerting.DefaultTimeout,
		MaxRetries: alerting.DefaultMaxRetries,
	}
}

func validateAlertingConfig(ac *AlertingConfig) error {
	c := ac.ToAlertingConfig()
	return c.Validate()
}

// ToAlertingConfig преобразует секцию в alerting.Config.
func (ac *AlertingConfig) ToAlertingConfig() alerting.Config {
	return alerting.Config{
		Enabled:    ac.Enabled,
		URLs:       ac.URLs,
		Headers:    ac.Headers,
		Timeout:    ac.Timeout,
		MaxRetries: ac.MaxRetries,
	}
}
