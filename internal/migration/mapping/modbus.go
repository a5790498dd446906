package mapping

import (
	"github.com/goburrow/modbus"
	"github.com/samber/lo"

	"github.com/Kargones/connector-migrator/internal/connector"
)

// bitsRegisterType — тип ключа, читаемого и записываемого катушками (coils).
const bitsRegisterType = "bits"

// UpgradeModbus перестраивает legacy-конфигурацию Modbus в modern-форму.
//
// У каждого ведомого устройства sendDataOnlyOnChange заменяется стратегией
// отправки, пустой deviceType получает DefaultDeviceProfile, а ключам
// без functionCode назначается код по умолчанию для их раздела.
// Банки регистров сервера переходят от массивов из одного элемента к объектам.
func UpgradeModbus(src connector.ModbusLegacyConfig) connector.ModbusConfig {
	return connector.ModbusConfig{
		Master: &connector.ModbusMaster{Slaves: mapSlice(src.Master.Slaves, upgradeModbusSlave)},
		Slave:  upgradeModbusServer(src.Slave),
	}
}

// DowngradeModbus перестраивает modern-конфигурацию Modbus в legacy-форму.
// Отсутствующий master даёт {slaves: []}.
func DowngradeModbus(src connector.ModbusConfig) connector.ModbusLegacyConfig {
	out := connector.ModbusLegacyConfig{
		Master: connector.ModbusLegacyMaster{Slaves: []connector.ModbusLegacySlave{}},
		Slave:  downgradeModbusServer(src.Slave),
	}
	if src.Master != nil && len(src.Master.Slaves) > 0 {
		out.Master.Slaves = mapSlice(src.Master.Slaves, downgradeModbusSlave)
	}
	return out
}

func upgradeModbusSlave(s connector.ModbusLegacySlave) connector.ModbusSlave {
	out := connector.ModbusSlave{
		ModbusSlaveConnection: cloneSlaveConnection(s.ModbusSlaveConnection),
		ModbusSlaveKeys:       withDefaultFunctionCodes(s.ModbusSlaveKeys),
	}
	if out.DeviceType == "" {
		out.DeviceType = DefaultDeviceProfile
	}
	if lo.FromPtr(s.SendDataOnlyOnChange) {
		out.ReportStrategy = connector.OnChange()
	} else {
		period := lo.Ternary(s.PollPeriod > 0, s.PollPeriod, connector.DefaultReportPeriodMs)
		out.ReportStrategy = connector.OnReportPeriod(period)
	}
	return out
}

func downgradeModbusSlave(s connector.ModbusSlave) connector.ModbusLegacySlave {
	return connector.ModbusLegacySlave{
		ModbusSlaveConnection: cloneSlaveConnection(s.ModbusSlaveConnection),
		SendDataOnlyOnChange:  s.ReportStrategy.SendsOnlyOnChange(),
		ModbusSlaveKeys:       cloneSlaveKeys(s.ModbusSlaveKeys),
	}
}

// withDefaultFunctionCodes назначает functionCode ключам, у которых он не задан:
// чтение регистров хранения для атрибутов и телеметрии, запись одного
// регистра для обновлений атрибутов и RPC. Ключи типа bits работают с катушками.
func withDefaultFunctionCodes(keys connector.ModbusSlaveKeys) connector.ModbusSlaveKeys {
	read := func(r connector.ModbusRegister) connector.ModbusRegister {
		code := lo.Ternary(r.Type == bitsRegisterType, modbus.FuncCodeReadCoils, modbus.FuncCodeReadHoldingRegisters)
		return withFunctionCode(r, code)
	}
	write := func(r connector.ModbusRegister) connector.ModbusRegister {
		code := lo.Ternary(r.Type == bitsRegisterType, modbus.FuncCodeWriteSingleCoil, modbus.FuncCodeWriteSingleRegister)
		return withFunctionCode(r, code)
	}
	return connector.ModbusSlaveKeys{
		Attributes:       mapSlice(keys.Attributes, read),
		Timeseries:       mapSlice(keys.Timeseries, read),
		AttributeUpdates: mapSlice(keys.AttributeUpdates, write),
		RPC:              mapSlice(keys.RPC, write),
	}
}

func withFunctionCode(r connector.ModbusRegister, code int) connector.ModbusRegister {
	r = cloneRegister(r)
	if r.FunctionCode == nil {
		r.FunctionCode = lo.ToPtr(code)
	}
	return r
}

func upgradeModbusServer(s *connector.ModbusLegacyServer) *connector.ModbusServer {
	if s == nil {
		return nil
	}
	out := &connector.ModbusServer{ModbusServerBase: cloneServerBase(s.ModbusServerBase)}
	for bank, values := range s.Values {
		if len(values) == 0 {
			continue
		}
		if out.Values == nil {
			out.Values = make(map[string]connector.ModbusRegisterValues, len(s.Values))
		}
		out.Values[bank] = cloneRegisterValues(values[0])
	}
	return out
}

func downgradeModbusServer(s *connector.ModbusServer) *connector.ModbusLegacyServer {
	if s == nil {
		return nil
	}
	out := &connector.ModbusLegacyServer{ModbusServerBase: cloneServerBase(s.ModbusServerBase)}
	if len(s.Values) > 0 {
		out.Values = make(map[string][]connector.ModbusRegisterValues, len(s.Values))
		for bank, values := range s.Values {
			out.Values[bank] = []connector.ModbusRegisterValues{cloneRegisterValues(values)}
		}
	}
	return out
}

// IsEmptyModbusServer сообщает, что сервер не содержит ни одного заданного поля.
func IsEmptyModbusServer(s *connector.ModbusServer) bool {
	return s == nil || (s.ModbusServerBase == connector.ModbusServerBase{} && len(s.Values) == 0)
}

// --- copies ---

func cloneRegister(r connector.ModbusRegister) connector.ModbusRegister {
	r.FunctionCode = clonePtr(r.FunctionCode)
	r.Multiplier = clonePtr(r.Multiplier)
	r.Divider = clonePtr(r.Divider)
	r.Bit = clonePtr(r.Bit)
	return r
}

func cloneSlaveKeys(k connector.ModbusSlaveKeys) connector.ModbusSlaveKeys {
	return connector.ModbusSlaveKeys{
		Attributes:       mapSlice(k.Attributes, cloneRegister),
		Timeseries:       mapSlice(k.Timeseries, cloneRegister),
		AttributeUpdates: mapSlice(k.AttributeUpdates, cloneRegister),
		RPC:              mapSlice(k.RPC, cloneRegister),
	}
}

func cloneRegisterValues(v connector.ModbusRegisterValues) connector.ModbusRegisterValues {
	return connector.ModbusRegisterValues(cloneSlaveKeys(connector.ModbusSlaveKeys(v)))
}

func cloneSlaveConnection(c connector.ModbusSlaveConnection) connector.ModbusSlaveConnection {
	c.Retries = clonePtr(c.Retries)
	c.RetryOnEmpty = clonePtr(c.RetryOnEmpty)
	c.RetryOnInvalid = clonePtr(c.RetryOnInvalid)
	c.Strict = clonePtr(c.Strict)
	c.Security = cloneModbusSecurity(c.Security)
	return c
}

func cloneServerBase(b connector.ModbusServerBase) connector.ModbusServerBase {
	b.SendDataToThingsBoard = clonePtr(b.SendDataToThingsBoard)
	b.Security = cloneModbusSecurity(b.Security)
	b.Identity = clonePtr(b.Identity)
	return b
}

func cloneModbusSecurity(s *connector.ModbusSecurity) *connector.ModbusSecurity {
	out := clonePtr(s)
	if out != nil {
		out.ReqClicert = clonePtr(s.ReqClicert)
	}
	return out
}
