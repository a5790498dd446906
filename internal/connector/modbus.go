package connector

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PortValue — порт Modbus-устройства. Для TCP/UDP это число,
// для serial это путь к устройству ("/dev/ttyUSB0"), поэтому на проводе
// встречаются обе формы. Число сериализуется обратно числом.
type PortValue string

// Int возвращает числовое значение порта, если оно задано числом.
func (p PortValue) Int() (int, bool) {
	n, err := strconv.Atoi(string(p))
	return n, err == nil
}

// MarshalJSON реализует json.Marshaler.
func (p PortValue) MarshalJSON() ([]byte, error) {
	if n, ok := p.Int(); ok {
		return json.Marshal(n)
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON принимает число или строку.
func (p *PortValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*p = PortValue(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("port must be a number or a string: %w", err)
	}
	*p = PortValue(s)
	return nil
}

// ModbusSecurity — TLS-параметры подключения.
type ModbusSecurity struct {
	CertFile   string `json:"certfile,omitempty"`
	KeyFile    string `json:"keyfile,omitempty"`
	Password   string `json:"password,omitempty"`
	Server     string `json:"server_hostname,omitempty"`
	ReqClicert *bool  `json:"reqclicert,omitempty"`
}

// ModbusRegister — ключ регистра (атрибут, телеметрия, обновление атрибута, RPC).
type ModbusRegister struct {
	Tag          string   `json:"tag"`
	Type         string   `json:"type,omitempty"`
	FunctionCode *int     `json:"functionCode,omitempty"`
	ObjectsCount int      `json:"objectsCount,omitempty"`
	Address      int      `json:"address"`
	Value        string   `json:"value,omitempty"`
	Multiplier   *float64 `json:"multiplier,omitempty"`
	Divider      *float64 `json:"divider,omitempty"`
	Bit          *int     `json:"bit,omitempty"`
}

// ModbusRegisterValues — ключи одного банка регистров сервера.
type ModbusRegisterValues struct {
	Attributes       []ModbusRegister `json:"attributes,omitempty"`
	Timeseries       []ModbusRegister `json:"timeseries,omitempty"`
	AttributeUpdates []ModbusRegister `json:"attributeUpdates,omitempty"`
	RPC              []ModbusRegister `json:"rpc,omitempty"`
}

// ModbusSlaveConnection — параметры подключения к ведомому устройству,
// общие для обеих форм.
type ModbusSlaveConnection struct {
	Name                      string          `json:"name,omitempty"`
	Host                      string          `json:"host,omitempty"`
	Port                      PortValue       `json:"port,omitempty"`
	Type                      string          `json:"type,omitempty"`
	Method                    string          `json:"method,omitempty"`
	Timeout                   int             `json:"timeout,omitempty"`
	ByteOrder                 string          `json:"byteOrder,omitempty"`
	WordOrder                 string          `json:"wordOrder,omitempty"`
	Retries                   *bool           `json:"retries,omitempty"`
	RetryOnEmpty              *bool           `json:"retryOnEmpty,omitempty"`
	RetryOnInvalid            *bool           `json:"retryOnInvalid,omitempty"`
	PollPeriod                int             `json:"pollPeriod,omitempty"`
	UnitID                    int             `json:"unitId"`
	DeviceName                string          `json:"deviceName,omitempty"`
	DeviceType                string          `json:"deviceType,omitempty"`
	ConnectAttemptTimeMs      int             `json:"connectAttemptTimeMs,omitempty"`
	ConnectAttemptCount       int             `json:"connectAttemptCount,omitempty"`
	WaitAfterFailedAttemptsMs int             `json:"waitAfterFailedAttemptsMs,omitempty"`
	Baudrate                  int             `json:"baudrate,omitempty"`
	Stopbits                  int             `json:"stopbits,omitempty"`
	Bytesize                  int             `json:"bytesize,omitempty"`
	Parity                    string          `json:"parity,omitempty"`
	Strict                    *bool           `json:"strict,omitempty"`
	Security                  *ModbusSecurity `json:"security,omitempty"`
}

// ModbusSlaveKeys — списки ключей ведомого устройства.
type ModbusSlaveKeys struct {
	Attributes       []ModbusRegister `json:"attributes,omitempty"`
	Timeseries       []ModbusRegister `json:"timeseries,omitempty"`
	AttributeUpdates []ModbusRegister `json:"attributeUpdates,omitempty"`
	RPC              []ModbusRegister `json:"rpc,omitempty"`
}

// ModbusIdentity — идентификация Modbus-сервера шлюза.
type ModbusIdentity struct {
	VendorName  string `json:"vendorName,omitempty"`
	ProductCode string `json:"productCode,omitempty"`
	VendorURL   string `json:"vendorUrl,omitempty"`
	ProductName string `json:"productName,omitempty"`
	ModelName   string `json:"modelName,omitempty"`
}

// ModbusServerBase — параметры Modbus-сервера шлюза, общие для обеих форм.
type ModbusServerBase struct {
	Type                  string          `json:"type,omitempty"`
	Host                  string          `json:"host,omitempty"`
	Port                  PortValue       `json:"port,omitempty"`
	Method                string          `json:"method,omitempty"`
	DeviceName            string          `json:"deviceName,omitempty"`
	DeviceType            string          `json:"deviceType,omitempty"`
	PollPeriod            int             `json:"pollPeriod,omitempty"`
	SendDataToThingsBoard *bool           `json:"sendDataToThingsBoard,omitempty"`
	ByteOrder             string          `json:"byteOrder,omitempty"`
	WordOrder             string          `json:"wordOrder,omitempty"`
	UnitID                int             `json:"unitId"`
	Baudrate              int             `json:"baudrate,omitempty"`
	Stopbits              int             `json:"stopbits,omitempty"`
	Bytesize              int             `json:"bytesize,omitempty"`
	Parity                string          `json:"parity,omitempty"`
	Security              *ModbusSecurity `json:"security,omitempty"`
	Identity              *ModbusIdentity `json:"identity,omitempty"`
}

// --- legacy ---

// ModbusLegacySlave — ведомое устройство legacy-формы.
type ModbusLegacySlave struct {
	ModbusSlaveConnection
	SendDataOnlyOnChange *bool `json:"sendDataOnlyOnChange,omitempty"`
	ModbusSlaveKeys
}

// ModbusLegacyMaster — список опрашиваемых устройств.
type ModbusLegacyMaster struct {
	Slaves []ModbusLegacySlave `json:"slaves"`
}

// MarshalJSON сериализует отсутствующий список как [].
func (m ModbusLegacyMaster) MarshalJSON() ([]byte, error) {
	type plain ModbusLegacyMaster
	p := plain(m)
	p.Slaves = nonNil(p.Slaves)
	return json.Marshal(p)
}

// ModbusLegacyServer — Modbus-сервер шлюза legacy-формы: каждый банк
// регистров хранится массивом из одного элемента.
type ModbusLegacyServer struct {
	ModbusServerBase
	Values map[string][]ModbusRegisterValues `json:"values,omitempty"`
}

// ModbusLegacyConfig — configurationJson Modbus-коннектора в legacy-форме.
type ModbusLegacyConfig struct {
	Master ModbusLegacyMaster  `json:"master"`
	Slave  *ModbusLegacyServer `json:"slave,omitempty"`
}

// ConnectorType реализует ProtocolConfig.
func (ModbusLegacyConfig) ConnectorType() ConnectorType { return Modbus }

// Shape реализует ProtocolConfig.
func (ModbusLegacyConfig) Shape() Shape { return ShapeLegacy }

func (ModbusLegacyConfig) sealed() {}

// --- modern ---

// ModbusSlave — ведомое устройство начиная с V3_5_2.
type ModbusSlave struct {
	ModbusSlaveConnection
	ReportStrategy *ReportStrategyConfig `json:"reportStrategy,omitempty"`
	ModbusSlaveKeys
}

// ModbusMaster — список опрашиваемых устройств.
type ModbusMaster struct {
	Slaves []ModbusSlave `json:"slaves,omitempty"`
}

// ModbusServer — Modbus-сервер шлюза: один объект на банк регистров.
type ModbusServer struct {
	ModbusServerBase
	Values map[string]ModbusRegisterValues `json:"values,omitempty"`
}

// ModbusConfig — configurationJson Modbus-коннектора начиная с V3_5_2.
type ModbusConfig struct {
	Master *ModbusMaster `json:"master,omitempty"`
	Slave  *ModbusServer `json:"slave,omitempty"`
}

// ConnectorType реализует ProtocolConfig.
func (ModbusConfig) ConnectorType() ConnectorType { return Modbus }

// Shape реализует ProtocolConfig.
func (ModbusConfig) Shape() Shape { return ShapeModern }

func (ModbusConfig) sealed() {}
