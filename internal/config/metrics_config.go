package config

import (
	"time"

	"github.com/Kargones/connector-migrator/internal/pkg/metrics"
)

// MetricsConfig содержит настройки отправки метрик в Prometheus Pushgateway.
type MetricsConfig struct {
	Enabled        bool          `yaml:"enabled" env:"CM_METRICS_ENABLED" env-description:"отправлять метрики в Pushgateway"`
	PushgatewayURL string        `yaml:"pushgatewayUrl" env:"CM_PUSHGATEWAY_URL" env-description:"URL Prometheus Pushgateway"`
	JobName        string        `yaml:"jobName" env:"CM_METRICS_JOB_NAME" env-description:"job в Pushgateway"`
	Timeout        time.Duration `yaml:"timeout" env:"CM_METRICS_TIMEOUT" env-description:"таймаут push"`
	InstanceLabel  string        `yaml:"instanceLabel" env:"CM_METRICS_INSTANCE" env-description:"label instance, по умолчанию hostname"`
}

func getDefaultMetricsConfig() *MetricsConfig {
	d := metrics.DefaultConfig()
	return &MetricsConfig{
		Enabled: d.Enabled,
		JobName: d.JobName,
		Timeout: d.Timeout,
	}
}

func validateMetricsConfig(mc *MetricsConfig) error {
	c := mc.ToMetricsConfig()
	return c.Validate()
}

// ToMetricsConfig преобразует секцию в metrics.Config.
func (mc *MetricsConfig) ToMetricsConfig() metrics.Config {
	return metrics.Config{
		Enabled:        mc.Enabled,
		PushgatewayURL: mc.PushgatewayURL,
		JobName:        mc.JobName,
		Timeout:        mc.Timeout,
		InstanceLabel:  mc.InstanceLabel,
	}
}
