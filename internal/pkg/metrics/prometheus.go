package metrics

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/Kargones/connector-migrator/internal/pkg/logging"
	"github.com/Kargones/connector-migrator/internal/pkg/urlutil"
)

const namespace = "connector_migrator"

// maxLabelLength ограничивает длину значения label.
const maxLabelLength = 64

// PrometheusCollector хранит метрики в собственном registry
// и отправляет их через Push.
type PrometheusCollector struct {
	config   Config
	logger   logging.Logger
	registry *prometheus.Registry
	instance string

	commandDuration   *prometheus.HistogramVec
	migrationsTotal   *prometheus.CounterVec
	migrationDuration *prometheus.HistogramVec
}

// NewPrometheusCollector регистрирует метрики:
//   - connector_migrator_command_duration_seconds{command,status}
//   - connector_migrator_migrations_total{connector_type,direction,outcome}
//   - connector_migrator_migration_duration_seconds{connector_type,direction}
func NewPrometheusCollector(config Config, logger logging.Logger) (*PrometheusCollector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	instance := config.InstanceLabel
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			logger.Warn("Не удалось получить hostname для label instance", "error", err.Error())
			hostname = "unknown"
		}
		instance = hostname
	}

	c := &PrometheusCollector{
		config:   config,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		instance: instance,
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Duration of CLI command execution in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"command", "status"}),
		migrationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "migrations_total",
			Help:      "Total number of connector record migrations",
		}, []string{"connector_type", "direction", "outcome"}),
		migrationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "migration_duration_seconds",
			Help:      "Duration of a single connector record migration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"connector_type", "direction"}),
	}

	for _, m := range []prometheus.Collector{c.commandDuration, c.migrationsTotal, c.migrationDuration} {
		if err := c.registry.Register(m); err != nil {
			return nil, fmt.Errorf("ошибка регистрации метрики: %w", err)
		}
	}
	return c, nil
}

// sanitizeLabel заменяет управляющие символы и обрезает значение по рунам.
func sanitizeLabel(value string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return '_'
		}
		return r
	}, value)
	if runes := []rune(clean); len(runes) > maxLabelLength {
		return string(runes[:maxLabelLength])
	}
	return clean
}

// RecordCommand реализует Collector.
func (c *PrometheusCollector) RecordCommand(command string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	c.commandDuration.WithLabelValues(sanitizeLabel(command), status).Observe(duration.Seconds())
}

// RecordMigration реализует Collector.
func (c *PrometheusCollector) RecordMigration(connectorType, direction, outcome string, duration time.Duration) {
	connectorType = sanitizeLabel(connectorType)
	c.migrationsTotal.WithLabelValues(connectorType, direction, outcome).Inc()
	c.migrationDuration.WithLabelValues(connectorType, direction).Observe(duration.Seconds())
}

// Push отправляет метрики в Pushgateway с группировкой по instance.
func (c *PrometheusCollector) Push(ctx context.Context) error {
	if ctx.Err() != nil {
		c.logger.Debug("Отправка метрик отменена")
		return nil
	}

	pushCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	pusher := push.New(c.config.PushgatewayURL, c.config.JobName).
		Gatherer(c.registry).
		Grouping("instance", c.instance)
	if err := pusher.PushContext(pushCtx); err != nil {
		c.logger.Error("Ошибка отправки метрик в Pushgateway",
			"error", err.Error(),
			"url", urlutil.MaskURL(c.config.PushgatewayURL),
		)
		return nil
	}

	c.logger.Debug("Метрики отправлены", "url", urlutil.MaskURL(c.config.PushgatewayURL), "instance", c.instance)
	return nil
}

// Registry возвращает registry коллектора.
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}
