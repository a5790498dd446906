package tracing

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Ошибки валидации Config.
var (
	ErrTracingEndpointRequired      = errors.New("tracing: endpoint обязателен при включённом трейсинге")
	ErrTracingEndpointInvalidFormat = errors.New("tracing: endpoint должен быть URL с host (например http://collector:4318)")
	ErrTracingServiceNameRequired   = errors.New("tracing: service name обязателен")
	ErrTracingTimeoutInvalid        = errors.New("tracing: timeout должен быть положительным")
	ErrTracingSamplingRateInvalid   = errors.New("tracing: sampling rate должен быть в диапазоне [0, 1]")
)

// DefaultServiceName — service.name по умолчанию.
const DefaultServiceName = "connector-migrator"

// Config — настройки OTLP-экспорта span-ов.
type Config struct {
	Enabled bool
	// Endpoint — URL OTLP HTTP коллектора, например http://collector:4318.
	Endpoint    string
	ServiceName string
	Version     string
	Environment string
	// Insecure включает HTTP вместо HTTPS.
	Insecure     bool
	Timeout      time.Duration
	SamplingRate float64
}

// Validate проверяет конфигурацию. Выключенный трейсинг всегда валиден.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return ErrTracingEndpointRequired
	}
	if u, err := url.Parse(c.Endpoint); err != nil || u.Host == "" {
		return ErrTracingEndpointInvalidFormat
	}
	if c.ServiceName == "" {
		return ErrTracingServiceNameRequired
	}
	if c.Timeout <= 0 {
		return ErrTracingTimeoutInvalid
	}
	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return fmt.Errorf("%w, получено: %g", ErrTracingSamplingRateInvalid, c.SamplingRate)
	}
	return nil
}

// DefaultConfig возвращает выключенную конфигурацию с разумными значениями.
func DefaultConfig() Config {
	return Config{
		ServiceName:  DefaultServiceName,
		Environment:  "production",
		Timeout:      5 * time.Second,
		SamplingRate: 1.0,
	}
}
