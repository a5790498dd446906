package migration

import (
	"github.com/Kargones/connector-migrator/internal/connector"
	"github.com/Kargones/connector-migrator/internal/migration/mapping"
	"github.com/Kargones/connector-migrator/internal/pkg/logging"
)

// builtinProcessors возвращает процессоры всех типов коннекторов
// с типизированной моделью конфигурации.
func builtinProcessors(opts mapping.Options, logger logging.Logger) []Processor {
	return []Processor{
		newProcessor(connector.MQTT, func(src connector.MQTTLegacyConfig) connector.MQTTConfig {
			return mapping.UpgradeMQTT(src, opts)
		}, mapping.DowngradeMQTT, pruneMQTT, logger),
		newProcessor(connector.Socket, mapping.UpgradeSocket, mapping.DowngradeSocket, pruneSocket, logger),
		newProcessor(connector.Modbus, mapping.UpgradeModbus, mapping.DowngradeModbus, pruneModbus, logger),
		newProcessor(connector.OPCUA, mapping.UpgradeOPCUA, mapping.DowngradeOPCUA, pruneOPCUA, logger),
	}
}

// newProcessor собирает процессор типа t из функций перестройки форм.
// Версия переключения форм берётся из модели connector.
func newProcessor[L, M connector.ProtocolConfig](
	t connector.ConnectorType,
	upgrade func(L) M,
	downgrade func(M) L,
	prune func(M) M,
	logger logging.Logger,
) Processor {
	boundary, ok := connector.ShapeBoundary(t)
	if !ok {
		panic("migration: no typed model for connector type " + string(t))
	}
	return &versionProcessor[L, M]{
		connectorType: t,
		boundary:      boundary,
		upgrade:       upgrade,
		downgrade:     downgrade,
		prune:         prune,
		logger:        logger.With("connector_type", string(t)),
	}
}

// pruneMQTT удаляет requestsMapping без запросов и пустой mapping.
func pruneMQTT(c connector.MQTTConfig) connector.MQTTConfig {
	if c.RequestsMapping.IsEmpty() {
		c.RequestsMapping = nil
	}
	if len(c.Mapping) == 0 {
		c.Mapping = nil
	}
	return c
}

// pruneSocket удаляет пустой объект socket и пустой список устройств.
func pruneSocket(c connector.SocketConfig) connector.SocketConfig {
	if c.Socket != nil && c.Socket.IsZero() {
		c.Socket = nil
	}
	if len(c.Devices) == 0 {
		c.Devices = nil
	}
	return c
}

// pruneModbus удаляет master без ведомых устройств и пустой сервер.
func pruneModbus(c connector.ModbusConfig) connector.ModbusConfig {
	if c.Master != nil && len(c.Master.Slaves) == 0 {
		c.Master = nil
	}
	if mapping.IsEmptyModbusServer(c.Slave) {
		c.Slave = nil
	}
	return c
}

// pruneOPCUA удаляет пустой mapping.
func pruneOPCUA(c connector.OPCUAConfig) connector.OPCUAConfig {
	if len(c.Mapping) == 0 {
		c.Mapping = nil
	}
	return c
}
