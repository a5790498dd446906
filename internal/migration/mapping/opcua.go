package mapping

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/samber/lo"

	"github.com/Kargones/connector-migrator/internal/connector"
)

// Типы аргументов RPC-методов OPC-UA.
const (
	argTypeString  = "string"
	argTypeBoolean = "boolean"
	argTypeInteger = "integer"
	argTypeFloat   = "float"
)

// UpgradeOPCUA перестраивает legacy-конфигурацию OPC-UA в modern-форму.
//
// Маппинг устройств выносится из server на верхний уровень,
// disableSubscriptions заменяется инвертированным enableSubscriptions,
// ключи {key, path} получают тип адресации.
func UpgradeOPCUA(src connector.OPCUALegacyConfig) connector.OPCUAConfig {
	s := src.Server
	return connector.OPCUAConfig{
		Server: &connector.OPCUAServer{
			OPCUAServerBase:     cloneOPCUAServerBase(s.OPCUAServerBase),
			PollPeriodInMillis:  connector.OPCUADefaultPollPeriodMs,
			EnableSubscriptions: !s.DisableSubscriptions,
		},
		Mapping: mapSlice(s.Mapping, upgradeOPCUADevice),
	}
}

// DowngradeOPCUA возвращает маппинг устройств под server и отбрасывает
// поля, которых нет в legacy-схеме.
func DowngradeOPCUA(src connector.OPCUAConfig) connector.OPCUALegacyConfig {
	server := connector.OPCUALegacyServer{
		Mapping: []connector.OPCUALegacyDevice{},
	}
	if src.Server != nil {
		server.OPCUAServerBase = cloneOPCUAServerBase(src.Server.OPCUAServerBase)
		server.DisableSubscriptions = !src.Server.EnableSubscriptions
	}
	if len(src.Mapping) > 0 {
		server.Mapping = mapSlice(src.Mapping, downgradeOPCUADevice)
	}
	return connector.OPCUALegacyConfig{Server: server}
}

func upgradeOPCUADevice(d connector.OPCUALegacyDevice) connector.OPCUADevice {
	profile := lo.Ternary(d.DeviceTypePattern != "", d.DeviceTypePattern, DefaultDeviceProfile)
	return connector.OPCUADevice{
		DeviceNodePattern: d.DeviceNodePattern,
		DeviceNodeSource:  opcuaNodeSource(d.DeviceNodePattern),
		DeviceInfo: &connector.OPCUADeviceInfo{
			DeviceNameExpression:          d.DeviceNamePattern,
			DeviceNameExpressionSource:    opcuaValueSource(d.DeviceNamePattern),
			DeviceProfileExpression:       profile,
			DeviceProfileExpressionSource: opcuaValueSource(profile),
		},
		Attributes: mapSlice(d.Attributes, upgradeOPCUADataKey),
		Timeseries: mapSlice(d.Timeseries, upgradeOPCUADataKey),
		RPCMethods: mapSlice(d.RPCMethods, upgradeOPCUARPCMethod),
		AttributesUpdates: mapSlice(d.AttributesUpdates, func(u connector.OPCUALegacyAttributeUpdate) connector.OPCUAValue {
			return connector.OPCUAValue{
				Key:   u.AttributeOnThingsBoard,
				Type:  opcuaValueSource(u.AttributeOnDevice),
				Value: u.AttributeOnDevice,
			}
		}),
	}
}

func downgradeOPCUADevice(d connector.OPCUADevice) connector.OPCUALegacyDevice {
	out := connector.OPCUALegacyDevice{
		DeviceNodePattern: d.DeviceNodePattern,
		Attributes:        mapSlice(d.Attributes, downgradeOPCUADataKey),
		Timeseries:        mapSlice(d.Timeseries, downgradeOPCUADataKey),
		RPCMethods:        mapSlice(d.RPCMethods, downgradeOPCUARPCMethod),
		AttributesUpdates: mapSlice(d.AttributesUpdates, func(v connector.OPCUAValue) connector.OPCUALegacyAttributeUpdate {
			return connector.OPCUALegacyAttributeUpdate{AttributeOnThingsBoard: v.Key, AttributeOnDevice: v.Value}
		}),
	}
	if d.DeviceInfo != nil {
		out.DeviceNamePattern = d.DeviceInfo.DeviceNameExpression
		out.DeviceTypePattern = d.DeviceInfo.DeviceProfileExpression
	}
	return out
}

func upgradeOPCUADataKey(k connector.OPCUALegacyDataKey) connector.OPCUAValue {
	return connector.OPCUAValue{Key: k.Key, Type: opcuaValueSource(k.Path), Value: k.Path}
}

func downgradeOPCUADataKey(v connector.OPCUAValue) connector.OPCUALegacyDataKey {
	return connector.OPCUALegacyDataKey{Key: v.Key, Path: v.Value}
}

func upgradeOPCUARPCMethod(m connector.OPCUALegacyRPCMethod) connector.OPCUARPCMethod {
	return connector.OPCUARPCMethod{
		Method: m.Method,
		Arguments: mapSlice(m.Arguments, func(raw json.RawMessage) connector.OPCUARPCArgument {
			return connector.OPCUARPCArgument{Type: ArgumentType(raw), Value: slices.Clone(raw)}
		}),
	}
}

func downgradeOPCUARPCMethod(m connector.OPCUARPCMethod) connector.OPCUALegacyRPCMethod {
	return connector.OPCUALegacyRPCMethod{
		Method: m.Method,
		Arguments: mapSlice(m.Arguments, func(a connector.OPCUARPCArgument) json.RawMessage {
			return slices.Clone(a.Value)
		}),
	}
}

// ArgumentType определяет тип аргумента RPC по его JSON-значению:
// строка, логическое значение, целое или дробное число.
// Прочие значения (объекты, массивы, null) считаются строками.
func ArgumentType(raw json.RawMessage) string {
	v := bytes.TrimSpace(raw)
	switch {
	case len(v) == 0:
		return argTypeString
	case bytes.Equal(v, []byte("true")), bytes.Equal(v, []byte("false")):
		return argTypeBoolean
	case v[0] == '-' || (v[0] >= '0' && v[0] <= '9'):
		if bytes.ContainsAny(v, ".eE") {
			return argTypeFloat
		}
		return argTypeInteger
	default:
		return argTypeString
	}
}

func cloneOPCUAServerBase(b connector.OPCUAServerBase) connector.OPCUAServerBase {
	b.ShowMap = clonePtr(b.ShowMap)
	b.Identity = clonePtr(b.Identity)
	return b
}
