// Package metrics собирает метрики команд и миграций и отправляет их
// в Prometheus Pushgateway по завершении процесса.
package metrics

import (
	"context"
	"time"

	"github.com/Kargones/connector-migrator/internal/pkg/logging"
)

// Исход миграции одной записи.
const (
	OutcomeMigrated  = "migrated"
	OutcomeUnchanged = "unchanged"
	OutcomeFailed    = "failed"
)

// Collector — приёмник метрик. Реализации: PrometheusCollector и NopCollector.
type Collector interface {
	// RecordCommand фиксирует завершение команды CLI.
	RecordCommand(command string, duration time.Duration, success bool)

	// RecordMigration фиксирует миграцию одной записи коннектора.
	// direction — upgrade, downgrade или identity, outcome — одна из констант Outcome*.
	RecordMigration(connectorType, direction, outcome string, duration time.Duration)

	// Push отправляет накопленные метрики. Ошибка отправки логируется
	// и не возвращается: метрики не должны менять код выхода.
	Push(ctx context.Context) error
}

// NewCollector возвращает NopCollector при выключенных метриках,
// иначе PrometheusCollector.
func NewCollector(config Config, logger logging.Logger) (Collector, error) {
	if !config.Enabled {
		return NewNopCollector(), nil
	}
	return NewPrometheusCollector(config, logger)
}

// NopCollector ничего не собирает.
type NopCollector struct{}

// NewNopCollector создаёт NopCollector.
func NewNopCollector() *NopCollector { return &NopCollector{} }

func (*NopCollector) RecordCommand(string, time.Duration, bool)             {}
func (*NopCollector) RecordMigration(string, string, string, time.Duration) {}
func (*NopCollector) Push(context.Context) error                            { return nil }
