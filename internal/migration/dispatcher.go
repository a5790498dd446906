// Package migration переводит записи коннекторов между версиями схемы конфигурации.
//
// Dispatcher выбирает процессор по типу коннектора и направление миграции
// по паре (текущая версия, целевая версия). Процессоры не хранят состояния
// между вызовами, поэтому записи можно мигрировать параллельно.
package migration

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Kargones/connector-migrator/internal/connector"
	"github.com/Kargones/connector-migrator/internal/migration/mapping"
	"github.com/Kargones/connector-migrator/internal/pkg/logging"
)

// tracerName — имя OTel tracer-а для span-ов миграции.
const tracerName = "github.com/Kargones/connector-migrator/internal/migration"

// Direction — направление миграции между двумя версиями.
type Direction string

const (
	DirectionIdentity  Direction = "identity"
	DirectionUpgrade   Direction = "upgrade"
	DirectionDowngrade Direction = "downgrade"
)

// DirectionOf возвращает направление миграции из current в target.
func DirectionOf(current, target connector.ConfigVersion) Direction {
	switch target.Compare(current) {
	case 1:
		return DirectionUpgrade
	case -1:
		return DirectionDowngrade
	default:
		return DirectionIdentity
	}
}

// Option настраивает Dispatcher.
type Option func(*Dispatcher)

// WithLogger задаёт логгер диспетчера и встроенных процессоров.
func WithLogger(l logging.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithDefaultKeyReportPeriod задаёт период ON_REPORT_PERIOD в миллисекундах
// для ключей без стратегии отправки. Неположительное значение оставляет 5000.
func WithDefaultKeyReportPeriod(ms int) Option {
	return func(d *Dispatcher) {
		d.opts.DefaultKeyReportPeriod = ms
	}
}

// WithTracer задаёт OTel tracer. По умолчанию используется глобальный provider.
func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.tracer = t
		}
	}
}

// Dispatcher хранит реестр процессоров по типам коннекторов.
// Реестр заполняется при создании и через Register, дальше только читается.
type Dispatcher struct {
	mu         sync.RWMutex
	processors map[connector.ConnectorType]Processor

	logger logging.Logger
	tracer trace.Tracer
	opts   mapping.Options
}

// NewDispatcher создаёт диспетчер с процессорами MQTT, Socket, Modbus и OPC-UA.
func NewDispatcher(options ...Option) *Dispatcher {
	d := &Dispatcher{
		processors: make(map[connector.ConnectorType]Processor),
		logger:     logging.NewNopLogger(),
		tracer:     otel.Tracer(tracerName),
		opts:       mapping.DefaultOptions(),
	}
	for _, opt := range options {
		opt(d)
	}
	if d.opts.DefaultKeyReportPeriod <= 0 {
		d.opts.DefaultKeyReportPeriod = connector.DefaultReportPeriodMs
	}

	for _, p := range builtinProcessors(d.opts, d.logger) {
		d.processors[p.Type()] = p
	}
	return d
}

// Register добавляет процессор в реестр.
// Повторная регистрация типа возвращает ошибку.
func (d *Dispatcher) Register(p Processor) error {
	if p == nil {
		return fmt.Errorf("migration: nil processor")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.processors[p.Type()]; exists {
		return fmt.Errorf("migration: processor for connector type %q already registered", p.Type())
	}
	d.processors[p.Type()] = p
	return nil
}

// Lookup возвращает процессор типа t, если он зарегистрирован.
func (d *Dispatcher) Lookup(t connector.ConnectorType) mo.Option[Processor] {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if p, ok := d.processors[t]; ok {
		return mo.Some(p)
	}
	return mo.None[Processor]()
}

// Types возвращает отсортированный список зарегистрированных типов.
func (d *Dispatcher) Types() []connector.ConnectorType {
	d.mu.RLock()
	defer d.mu.RUnlock()

	types := lo.Keys(d.processors)
	slices.Sort(types)
	return types
}

// Resolve возвращает процессор для миграции записи типа t из current в target.
//
// Совпадение версий означает тождественную миграцию: процессор возвращается,
// но вызывать его не нужно (см. Migrate).
func (d *Dispatcher) Resolve(t connector.ConnectorType, current, target connector.ConfigVersion) (Processor, error) {
	if !current.IsValid() || !target.IsValid() {
		return nil, invalidTargetError("версии %d -> %d вне допустимого диапазона", int(current), int(target))
	}
	p, ok := d.Lookup(t).Get()
	if !ok {
		return nil, unsupportedTypeError(t)
	}
	return p, nil
}

// Migrate переводит запись в версию target.
//
// При совпадении версий запись возвращается без изменений, процессор
// не вызывается и тип коннектора не проверяется.
func (d *Dispatcher) Migrate(ctx context.Context, rec connector.Record, target connector.ConfigVersion) (connector.Record, error) {
	direction := DirectionOf(rec.ConfigVersion, target)

	_, span := d.tracer.Start(ctx, "migration.Migrate", trace.WithAttributes(
		attribute.String("connector.type", string(rec.Type)),
		attribute.String("connector.name", rec.Name),
		attribute.String("migration.from", rec.ConfigVersion.String()),
		attribute.String("migration.to", target.String()),
		attribute.String("migration.direction", string(direction)),
	))
	defer span.End()

	log := d.logger.With("type", string(rec.Type), "name", rec.Name,
		"from", rec.ConfigVersion.String(), "to", target.String())

	if direction == DirectionIdentity {
		log.Debug("Версия записи совпадает с целевой, миграция не требуется")
		return rec, nil
	}

	p, err := d.Resolve(rec.Type, rec.ConfigVersion, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return connector.Record{}, err
	}

	var out connector.Record
	if direction == DirectionUpgrade {
		out, err = p.Upgrade(rec, target)
	} else {
		out, err = p.Downgrade(rec, target)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return connector.Record{}, err
	}

	log.Debug("Запись мигрирована", "direction", string(direction))
	return out, nil
}
