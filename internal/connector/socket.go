package connector

import "encoding/json"

// ExpressionType — результат классификации строки: константа или выражение.
type ExpressionType string

const (
	ExpressionConstant   ExpressionType = "constant"
	ExpressionExpression ExpressionType = "expression"
)

// SocketSettings — параметры сокета. Не зависят от версии схемы.
type SocketSettings struct {
	Type       string `json:"type,omitempty"`
	Address    string `json:"address,omitempty"`
	Port       int    `json:"port,omitempty"`
	BufferSize int    `json:"bufferSize,omitempty"`
}

// IsZero сообщает, что ни одно поле не задано ({} на проводе).
func (s SocketSettings) IsZero() bool {
	return s == SocketSettings{}
}

// SocketDataKey — ключ атрибута или телеметрии, вырезаемый из байтов сообщения.
type SocketDataKey struct {
	Key      string `json:"key"`
	Type     string `json:"type,omitempty"`
	ByteFrom *int   `json:"byteFrom,omitempty"`
	ByteTo   *int   `json:"byteTo,omitempty"`
}

// SocketAttributeUpdate — обработка обновления атрибута на устройстве.
type SocketAttributeUpdate struct {
	Encoding               string `json:"encoding,omitempty"`
	AttributeOnThingsBoard string `json:"attributeOnThingsBoard,omitempty"`
}

// SocketRPC — серверный RPC сокет-устройства.
type SocketRPC struct {
	MethodRPC        string `json:"methodRPC,omitempty"`
	WithResponse     bool   `json:"withResponse,omitempty"`
	MethodProcessing string `json:"methodProcessing,omitempty"`
	Encoding         string `json:"encoding,omitempty"`
}

// SocketLegacyAttributeRequest — запрос атрибута с устройства (legacy).
type SocketLegacyAttributeRequest struct {
	Type                    string `json:"type,omitempty"`
	Encoding                string `json:"encoding,omitempty"`
	RequestExpression       string `json:"requestExpression,omitempty"`
	AttributeNameExpression string `json:"attributeNameExpression,omitempty"`
}

// SocketAttributeRequest — запрос атрибута с устройства с источниками выражений.
// Источник задан только для присутствующего выражения.
type SocketAttributeRequest struct {
	SocketLegacyAttributeRequest
	RequestExpressionSource       ExpressionType `json:"requestExpressionSource,omitempty"`
	AttributeNameExpressionSource ExpressionType `json:"attributeNameExpressionSource,omitempty"`
}

// SocketDeviceBase — поля устройства, общие для обеих форм.
type SocketDeviceBase struct {
	Address          string                  `json:"address,omitempty"`
	DeviceName       string                  `json:"deviceName,omitempty"`
	DeviceType       string                  `json:"deviceType,omitempty"`
	Encoding         string                  `json:"encoding,omitempty"`
	Telemetry        []SocketDataKey         `json:"telemetry,omitempty"`
	Attributes       []SocketDataKey         `json:"attributes,omitempty"`
	AttributeUpdates []SocketAttributeUpdate `json:"attributeUpdates,omitempty"`
	ServerSideRPC    []SocketRPC             `json:"serverSideRpc,omitempty"`
}

// SocketLegacyDevice — устройство legacy-формы.
type SocketLegacyDevice struct {
	SocketDeviceBase
	AttributeRequests []SocketLegacyAttributeRequest `json:"attributeRequests,omitempty"`
}

// SocketDevice — устройство modern-формы.
type SocketDevice struct {
	SocketDeviceBase
	AttributeRequests []SocketAttributeRequest `json:"attributeRequests,omitempty"`
}

// SocketLegacyConfig — плоская legacy-форма: параметры сокета на верхнем уровне.
// Список devices всегда присутствует на проводе.
type SocketLegacyConfig struct {
	SocketSettings
	Devices []SocketLegacyDevice `json:"devices"`
}

// ConnectorType реализует ProtocolConfig.
func (SocketLegacyConfig) ConnectorType() ConnectorType { return Socket }

// Shape реализует ProtocolConfig.
func (SocketLegacyConfig) Shape() Shape { return ShapeLegacy }

func (SocketLegacyConfig) sealed() {}

// MarshalJSON сериализует отсутствующий список устройств как [].
func (c SocketLegacyConfig) MarshalJSON() ([]byte, error) {
	type plain SocketLegacyConfig
	p := plain(c)
	p.Devices = nonNil(p.Devices)
	return json.Marshal(p)
}

// SocketConfig — configurationJson Socket-коннектора начиная с Current.
type SocketConfig struct {
	Socket  *SocketSettings `json:"socket,omitempty"`
	Devices []SocketDevice  `json:"devices,omitempty"`
}

// ConnectorType реализует ProtocolConfig.
func (SocketConfig) ConnectorType() ConnectorType { return Socket }

// Shape реализует ProtocolConfig.
func (SocketConfig) Shape() Shape { return ShapeModern }

func (SocketConfig) sealed() {}
