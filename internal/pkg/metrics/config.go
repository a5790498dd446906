package metrics

import (
	"errors"
	"net/url"
	"time"
)

var (
	ErrPushgatewayURLRequired = errors.New("metrics: pushgateway URL обязателен при включённых метриках")
	ErrPushgatewayURLInvalid  = errors.New("metrics: pushgateway URL имеет неверный формат")
	ErrJobNameRequired        = errors.New("metrics: job name обязателен")
	ErrInvalidTimeout         = errors.New("metrics: timeout должен быть положительным")
)

// DefaultJobName — job в Pushgateway по умолчанию.
const DefaultJobName = "connector-migrator"

// Config — настройки отправки метрик.
type Config struct {
	Enabled        bool
	PushgatewayURL string
	JobName        string
	Timeout        time.Duration
	// InstanceLabel переопределяет label instance. Пустое значение даёт hostname.
	InstanceLabel string
}

// Validate проверяет конфигурацию. Выключенные метрики всегда валидны.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.PushgatewayURL == "" {
		return ErrPushgatewayURLRequired
	}
	if u, err := url.Parse(c.PushgatewayURL); err != nil || u.Scheme == "" || u.Host == "" {
		return ErrPushgatewayURLInvalid
	}
	if c.JobName == "" {
		return ErrJobNameRequired
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// DefaultConfig возвращает выключенную конфигурацию.
func DefaultConfig() Config {
	return Config{
		JobName: DefaultJobName,
		Timeout: 10 * time.Second,
	}
}
