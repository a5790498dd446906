// Package connector описывает модель конфигурации коннекторов шлюза:
// запись коннектора (Record), версии схемы конфигурации (ConfigVersion)
// и типизированные конфигурации протоколов в legacy и modern формах.
//
// Пакет не содержит логики миграции. Он отвечает только за то,
// как запись выглядит на проводе и в какой Go-тип декодируется
// configurationJson для конкретной пары (тип коннектора, версия).
package connector

import (
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ConnectorType — тип протокольного коннектора. Значение совпадает
// с полем "type" записи на проводе.
type ConnectorType string

// Типы коннекторов, известные шлюзу.
const (
	MQTT    ConnectorType = "mqtt"
	Modbus  ConnectorType = "modbus"
	GRPC    ConnectorType = "grpc"
	OPCUA   ConnectorType = "opcua"
	BLE     ConnectorType = "ble"
	Request ConnectorType = "request"
	CAN     ConnectorType = "can"
	BACnet  ConnectorType = "bacnet"
	ODBC    ConnectorType = "odbc"
	REST    ConnectorType = "rest"
	SNMP    ConnectorType = "snmp"
	FTP     ConnectorType = "ftp"
	Socket  ConnectorType = "socket"
	XMPP    ConnectorType = "xmpp"
	OCPP    ConnectorType = "ocpp"
	Custom  ConnectorType = "custom"
)

// knownTypes — все типы коннекторов в порядке объявления.
var knownTypes = []ConnectorType{
	MQTT, Modbus, GRPC, OPCUA, BLE, Request, CAN, BACnet,
	ODBC, REST, SNMP, FTP, Socket, XMPP, OCPP, Custom,
}

// displayLanguage — язык для cases.Upper. cases.Caser хранит состояние,
// поэтому он создаётся заново в каждом вызове DisplayName.
var displayLanguage = language.Und

// KnownTypes возвращает копию списка известных типов коннекторов.
func KnownTypes() []ConnectorType {
	return slices.Clone(knownTypes)
}

// IsKnown сообщает, является ли тип одним из известных шлюзу.
func (t ConnectorType) IsKnown() bool {
	return slices.Contains(knownTypes, t)
}

// String реализует fmt.Stringer.
func (t ConnectorType) String() string {
	return string(t)
}

// DisplayName возвращает имя типа для человекочитаемого вывода ("MQTT", "OPCUA").
func (t ConnectorType) DisplayName() string {
	return cases.Upper(displayLanguage).String(string(t))
}

// Shape — форма конфигурации протокола. У каждого типа коннектора
// ровно две формы: legacy и modern.
type Shape string

const (
	// ShapeLegacy — форма конфигурации до границы формы.
	ShapeLegacy Shape = "legacy"
	// ShapeModern — форма конфигурации начиная с границы формы.
	ShapeModern Shape = "modern"
)
