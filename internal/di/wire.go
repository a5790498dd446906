//go:build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/Kargones/connector-migrator/internal/command"
	"github.com/Kargones/connector-migrator/internal/config"
)

//go:generate wire

// ProviderSet объединяет все провайдеры приложения.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideOutputWriter,
	ProvideTraceID,
	ProvideMetricsCollector,
	ProvideAlerter,
	ProvideTracerProvider,
	ProvideDispatcher,
	ProvideValidator,
	ProvideStdout,
	wire.Struct(new(command.Env), "*"),
	wire.Struct(new(App), "*"),
)

// InitializeApp создаёт App по загруженной конфигурации.
//
// cleanup закрывает файл логов и должен вызываться после TracerShutdown
// и отправки метрик, чтобы их ошибки попали в лог.
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
