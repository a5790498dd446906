package migration

import (
	"encoding/json"

	"github.com/samber/lo"

	"github.com/Kargones/connector-migrator/internal/connector"
	"github.com/Kargones/connector-migrator/internal/pkg/logging"
)

// Processor выполняет миграцию записей одного типа коннектора.
//
// Реализации не изменяют входную запись: результат собирается заново
// и несёт целевую версию в ConfigVersion.
type Processor interface {
	// Type возвращает тип коннектора, записи которого обрабатывает процессор.
	Type() connector.ConnectorType

	// Upgrade переводит запись в более новую версию target.
	Upgrade(rec connector.Record, target connector.ConfigVersion) (connector.Record, error)

	// Downgrade переводит запись в более старую версию target.
	Downgrade(rec connector.Record, target connector.ConfigVersion) (connector.Record, error)
}

// versionProcessor — процессор типа коннектора с legacy-формой L и modern-формой M.
// Формы переключаются на версии boundary.
type versionProcessor[L, M connector.ProtocolConfig] struct {
	connectorType connector.ConnectorType
	boundary      connector.ConfigVersion
	upgrade       func(L) M
	downgrade     func(M) L
	prune         func(M) M
	logger        logging.Logger
}

// Type реализует Processor.
func (p *versionProcessor[L, M]) Type() connector.ConnectorType {
	return p.connectorType
}

// Upgrade реализует Processor.
func (p *versionProcessor[L, M]) Upgrade(rec connector.Record, target connector.ConfigVersion) (connector.Record, error) {
	if err := p.checkTarget(rec, target, 1); err != nil {
		return connector.Record{}, err
	}
	cfg, err := p.sourceConfig(rec)
	if err != nil {
		return connector.Record{}, err
	}

	out := cloneRecord(rec)
	if crosses(rec.ConfigVersion, target, p.boundary) {
		p.logger.Debug("Перестройка configurationJson в modern-форму",
			"type", p.connectorType, "from", rec.ConfigVersion, "to", target)
		out.Config = p.prune(p.upgrade(cfg.(L)))
	} else if out.Config, err = p.copyConfig(cfg, rec.ConfigVersion); err != nil {
		return connector.Record{}, err
	}

	if crosses(rec.ConfigVersion, target, connector.V3_5_2) {
		upgradeReportStrategy(&out)
	}
	out.ConfigVersion = target
	return out, nil
}

// Downgrade реализует Processor.
func (p *versionProcessor[L, M]) Downgrade(rec connector.Record, target connector.ConfigVersion) (connector.Record, error) {
	if err := p.checkTarget(rec, target, -1); err != nil {
		return connector.Record{}, err
	}
	cfg, err := p.sourceConfig(rec)
	if err != nil {
		return connector.Record{}, err
	}

	out := cloneRecord(rec)
	if crosses(target, rec.ConfigVersion, p.boundary) {
		p.logger.Debug("Перестройка configurationJson в legacy-форму",
			"type", p.connectorType, "from", rec.ConfigVersion, "to", target)
		out.Config = p.downgrade(cfg.(M))
	} else if out.Config, err = p.copyConfig(cfg, rec.ConfigVersion); err != nil {
		return connector.Record{}, err
	}

	if crosses(target, rec.ConfigVersion, connector.V3_5_2) {
		downgradeReportStrategy(&out)
	}
	out.ConfigVersion = target
	return out, nil
}

// checkTarget проверяет, что target известна и лежит в направлении dir
// (1 — новее текущей версии записи, -1 — старее).
func (p *versionProcessor[L, M]) checkTarget(rec connector.Record, target connector.ConfigVersion, dir int) error {
	if rec.Type != p.connectorType {
		return malformedConfigError("запись типа %q передана процессору типа %q", rec.Type, p.connectorType)
	}
	if !target.IsValid() || !rec.ConfigVersion.IsValid() {
		return invalidTargetError("версии %d -> %d вне допустимого диапазона", int(rec.ConfigVersion), int(target))
	}
	if target.Compare(rec.ConfigVersion) != dir {
		verb := lo.Ternary(dir > 0, "повышения", "понижения")
		return invalidTargetError("версия %s не подходит для %s версии %s", target, verb, rec.ConfigVersion)
	}
	return nil
}

// sourceConfig возвращает configurationJson записи в форме её версии.
// Отсутствующая конфигурация заменяется канонической пустой,
// конфигурация чужой формы или чужого типа считается ошибкой.
func (p *versionProcessor[L, M]) sourceConfig(rec connector.Record) (connector.ProtocolConfig, error) {
	shape, _ := connector.ShapeAt(p.connectorType, rec.ConfigVersion)
	if rec.Config == nil {
		p.logger.Warn("configurationJson отсутствует, используется пустая конфигурация",
			"type", p.connectorType, "name", rec.Name, "version", rec.ConfigVersion, "shape", shape)
		empty, _ := connector.EmptyConfig(p.connectorType, shape)
		return empty, nil
	}

	var ok bool
	if shape == connector.ShapeModern {
		_, ok = rec.Config.(M)
	} else {
		_, ok = rec.Config.(L)
	}
	if !ok {
		return nil, malformedConfigError("configurationJson записи %q имеет форму %q, для версии %s ожидается %q",
			rec.Name, rec.Config.Shape(), rec.ConfigVersion, shape)
	}
	return rec.Config, nil
}

// copyConfig возвращает независимую копию конфигурации той же формы.
func (p *versionProcessor[L, M]) copyConfig(cfg connector.ProtocolConfig, v connector.ConfigVersion) (connector.ProtocolConfig, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, malformedConfigError("не удалось сериализовать configurationJson: %v", err)
	}
	out, err := connector.DecodeConfig(p.connectorType, v, raw)
	if err != nil {
		return nil, malformedConfigError("не удалось скопировать configurationJson: %v", err)
	}
	return out, nil
}

// crosses сообщает, что переход from -> to (from < to) пересекает версию boundary.
func crosses(from, to, boundary connector.ConfigVersion) bool {
	return from < boundary && to >= boundary
}

// upgradeReportStrategy заменяет флаг sendDataOnlyOnChange записи стратегией отправки.
func upgradeReportStrategy(rec *connector.Record) {
	if rec.ReportStrategy == nil && lo.FromPtr(rec.SendDataOnlyOnChange) {
		rec.ReportStrategy = connector.OnChange()
	}
	rec.SendDataOnlyOnChange = nil
}

// downgradeReportStrategy возвращает стратегию отправки записи во флаг sendDataOnlyOnChange.
func downgradeReportStrategy(rec *connector.Record) {
	if rec.ReportStrategy != nil {
		rec.SendDataOnlyOnChange = rec.ReportStrategy.SendsOnlyOnChange()
	}
	rec.ReportStrategy = nil
}

// cloneRecord копирует поля записи, не разделяя указатели с исходной.
// Config переназначается вызывающим кодом.
func cloneRecord(rec connector.Record) connector.Record {
	out := rec
	out.Config = nil
	out.SendDataOnlyOnChange = cloneValue(rec.SendDataOnlyOnChange)
	out.Ts = cloneValue(rec.Ts)
	if rec.ReportStrategy != nil {
		rs := *rec.ReportStrategy
		rs.ReportPeriod = cloneValue(rs.ReportPeriod)
		out.ReportStrategy = &rs
	}
	return out
}

func cloneValue[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return lo.ToPtr(*p)
}
