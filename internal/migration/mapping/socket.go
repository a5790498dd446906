package mapping

import (
	"slices"

	"github.com/Kargones/connector-migrator/internal/connector"
)

// UpgradeSocket переносит параметры сокета из плоской legacy-формы
// в объект socket и классифицирует выражения запросов атрибутов.
// Источник выражения назначается только присутствующему выражению.
func UpgradeSocket(src connector.SocketLegacyConfig) connector.SocketConfig {
	settings := src.SocketSettings
	return connector.SocketConfig{
		Socket:  &settings,
		Devices: mapSlice(src.Devices, upgradeSocketDevice),
	}
}

// DowngradeSocket возвращает параметры сокета на верхний уровень
// и удаляет источники выражений. Отсутствующий список устройств даёт [].
func DowngradeSocket(src connector.SocketConfig) connector.SocketLegacyConfig {
	out := connector.SocketLegacyConfig{
		Devices: []connector.SocketLegacyDevice{},
	}
	if src.Socket != nil {
		out.SocketSettings = *src.Socket
	}
	if len(src.Devices) > 0 {
		out.Devices = mapSlice(src.Devices, downgradeSocketDevice)
	}
	return out
}

func upgradeSocketDevice(d connector.SocketLegacyDevice) connector.SocketDevice {
	return connector.SocketDevice{
		SocketDeviceBase: cloneSocketDeviceBase(d.SocketDeviceBase),
		AttributeRequests: mapSlice(d.AttributeRequests, func(r connector.SocketLegacyAttributeRequest) connector.SocketAttributeRequest {
			return connector.SocketAttributeRequest{
				SocketLegacyAttributeRequest:  r,
				RequestExpressionSource:       classifyOptional(r.RequestExpression),
				AttributeNameExpressionSource: classifyOptional(r.AttributeNameExpression),
			}
		}),
	}
}

func downgradeSocketDevice(d connector.SocketDevice) connector.SocketLegacyDevice {
	return connector.SocketLegacyDevice{
		SocketDeviceBase: cloneSocketDeviceBase(d.SocketDeviceBase),
		AttributeRequests: mapSlice(d.AttributeRequests, func(r connector.SocketAttributeRequest) connector.SocketLegacyAttributeRequest {
			return r.SocketLegacyAttributeRequest
		}),
	}
}

// cloneSocketDeviceBase копирует устройство без разделения срезов с исходным.
func cloneSocketDeviceBase(b connector.SocketDeviceBase) connector.SocketDeviceBase {
	b.Telemetry = mapSlice(b.Telemetry, cloneSocketDataKey)
	b.Attributes = mapSlice(b.Attributes, cloneSocketDataKey)
	b.AttributeUpdates = slices.Clone(b.AttributeUpdates)
	b.ServerSideRPC = slices.Clone(b.ServerSideRPC)
	return b
}

func cloneSocketDataKey(k connector.SocketDataKey) connector.SocketDataKey {
	k.ByteFrom = clonePtr(k.ByteFrom)
	k.ByteTo = clonePtr(k.ByteTo)
	return k
}
