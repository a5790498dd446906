package config

import (
	"time"

	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/pkg/tracing"
)

// TracingConfig содержит настройки OpenTelemetry трейсинга.
type TracingConfig struct {
	// Enabled включает отправку трейсов в OTLP бэкенд.
	Enabled bool `yaml:"enabled" env:"CM_TRACING_ENABLED" env-description:"отправлять трейсы в OTLP коллектор"`

	// Endpoint — URL OTLP HTTP endpoint (например, http://jaeger:4318).
	Endpoint string `yaml:"endpoint" env:"CM_TRACING_ENDPOINT" env-description:"URL OTLP HTTP коллектора"`

	ServiceName string `yaml:"serviceName" env:"CM_TRACING_SERVICE_NAME" env-description:"service.name в resource"`
	Environment string `yaml:"environment" env:"CM_TRACING_ENVIRONMENT" env-description:"deployment.environment в resource"`

	// Insecure — HTTP вместо HTTPS.
	Insecure bool `yaml:"insecure" env:"CM_TRACING_INSECURE" env-description:"HTTP вместо HTTPS"`

	Timeout      time.Duration `yaml:"timeout" env:"CM_TRACING_TIMEOUT" env-description:"таймаут экспорта"`
	SamplingRate float64       `yaml:"samplingRate" env:"CM_TRACING_SAMPLING_RATE" env-description:"доля сэмплируемых трейсов от 0 до 1"`
}

// getDefaultTracingConfig возвращает выключенный трейсинг.
func getDefaultTracingConfig() *TracingConfig {
	d := tracing.DefaultConfig()
	return &TracingConfig{
		Enabled:      d.Enabled,
		ServiceName:  d.ServiceName,
		Environment:  d.Environment,
		Insecure:     true,
		Timeout:      d.Timeout,
		SamplingRate: d.SamplingRate,
	}
}

func validateTracingConfig(tc *TracingConfig) error {
	c := tc.ToTracingConfig()
	return c.Validate()
}

// ToTracingConfig преобразует секцию в tracing.Config. Версия сервиса
// берётся из constants.Version.
func (tc *TracingConfig) ToTracingConfig() tracing.Config {
	return tracing.Config{
		Enabled:      tc.Enabled,
		Endpoint:     tc.Endpoint,
		ServiceName:  tc.ServiceName,
		Version:      constants.Version,
		Environment:  tc.Environment,
		Insecure:     tc.Insecure,
		Timeout:      tc.Timeout,
		SamplingRate: tc.SamplingRate,
	}
}
