package di

import (
	"github.com/Kargones/connector-migrator/internal/command"
	"github.com/Kargones/connector-migrator/internal/pkg/alerting"
	"github.com/Kargones/connector-migrator/internal/pkg/metrics"
	"github.com/Kargones/connector-migrator/internal/pkg/tracing"
)

// App содержит инициализированные зависимости приложения.
// Создаётся через Wire DI в InitializeApp().
//
// При добавлении новых зависимостей:
// 1. Добавить поле в App или command.Env
// 2. Создать провайдер в providers.go
// 3. Добавить провайдер в ProviderSet в wire.go
// 4. Перегенерировать wire_gen.go: go generate ./internal/di/...
type App struct {
	// Env передаётся обработчику команды.
	Env *command.Env

	// TraceID связывает логи, результат команды и span-ы одного запуска.
	TraceID string

	// MetricsCollector тот же, что Env.Metrics. main отправляет
	// накопленные метрики в Pushgateway после выполнения команды.
	MetricsCollector metrics.Collector

	// Alerter уведомляет о неудачном выполнении команды.
	// Если алертинг отключён — NopAlerter.
	Alerter alerting.Alerter

	// TracerShutdown отправляет буферизированные span-ы.
	// Если трейсинг отключён — nop function.
	TracerShutdown tracing.ShutdownFunc
}
