package connector

import "encoding/json"

// SourceType — источник выражения в modern-форме MQTT.
type SourceType string

const (
	// SourceMessage — выражение вычисляется по телу сообщения.
	SourceMessage SourceType = "message"
	// SourceTopic — выражение вычисляется по топику.
	SourceTopic SourceType = "topic"
	// SourceConstant — значение задано константой.
	SourceConstant SourceType = "constant"
)

// ConverterType — тип конвертера MQTT-маппинга.
type ConverterType string

const (
	ConverterJSON   ConverterType = "json"
	ConverterBytes  ConverterType = "bytes"
	ConverterCustom ConverterType = "custom"
)

// RPCType — тип серверного RPC в modern-форме MQTT.
type RPCType string

const (
	// RPCTwoWay — RPC с ответом.
	RPCTwoWay RPCType = "twoWay"
	// RPCOneWay — RPC без ответа.
	RPCOneWay RPCType = "oneWay"
)

// RequestType — ключ requestsMapping. Значения совпадают с именами
// legacy-полей, из которых собирается соответствующий список.
type RequestType string

const (
	RequestConnect       RequestType = "connectRequests"
	RequestDisconnect    RequestType = "disconnectRequests"
	RequestAttribute     RequestType = "attributeRequests"
	RequestAttrUpdate    RequestType = "attributeUpdates"
	RequestServerSideRPC RequestType = "serverSideRpc"
)

// RequestTypes возвращает ключи requestsMapping в каноническом порядке.
func RequestTypes() []RequestType {
	return []RequestType{RequestConnect, RequestDisconnect, RequestAttribute, RequestAttrUpdate, RequestServerSideRPC}
}

// MQTTSecurity — настройки аутентификации брокера.
type MQTTSecurity struct {
	Type       string `json:"type,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
	CACert     string `json:"caCert,omitempty"`
	Cert       string `json:"cert,omitempty"`
	PrivateKey string `json:"privateKey,omitempty"`
}

// MQTTBroker — параметры подключения к брокеру. Не зависят от версии схемы.
type MQTTBroker struct {
	Name                      string        `json:"name,omitempty"`
	Host                      string        `json:"host,omitempty"`
	Port                      int           `json:"port,omitempty"`
	ClientID                  string        `json:"clientId,omitempty"`
	Version                   int           `json:"version,omitempty"`
	MaxMessageNumberPerWorker int           `json:"maxMessageNumberPerWorker,omitempty"`
	MaxNumberOfWorkers        int           `json:"maxNumberOfWorkers,omitempty"`
	SendDataOnlyOnChange      *bool         `json:"sendDataOnlyOnChange,omitempty"`
	Security                  *MQTTSecurity `json:"security,omitempty"`
}

// DataKey — ключ атрибута или телеметрии конвертера.
type DataKey struct {
	Type  string `json:"type,omitempty"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// MQTTDataKey — ключ конвертера modern-формы со стратегией отправки.
type MQTTDataKey struct {
	DataKey
	ReportStrategy *ReportStrategyConfig `json:"reportStrategy,omitempty"`
}

// MQTTAttributeUpdate — подписка на обновление атрибутов. Одинакова в обеих формах.
type MQTTAttributeUpdate struct {
	Retain           bool   `json:"retain,omitempty"`
	DeviceNameFilter string `json:"deviceNameFilter,omitempty"`
	AttributeFilter  string `json:"attributeFilter,omitempty"`
	TopicExpression  string `json:"topicExpression,omitempty"`
	ValueExpression  string `json:"valueExpression,omitempty"`
}

// --- legacy ---

// MQTTLegacyConnectRequest — запрос подключения или отключения устройства (legacy).
type MQTTLegacyConnectRequest struct {
	TopicFilter               string `json:"topicFilter,omitempty"`
	DeviceNameJSONExpression  string `json:"deviceNameJsonExpression,omitempty"`
	DeviceNameTopicExpression string `json:"deviceNameTopicExpression,omitempty"`
	DeviceTypeJSONExpression  string `json:"deviceTypeJsonExpression,omitempty"`
	DeviceTypeTopicExpression string `json:"deviceTypeTopicExpression,omitempty"`
}

// MQTTLegacyAttributeRequest — запрос значений атрибутов с устройства (legacy).
type MQTTLegacyAttributeRequest struct {
	Retain                       bool   `json:"retain,omitempty"`
	TopicFilter                  string `json:"topicFilter,omitempty"`
	DeviceNameJSONExpression     string `json:"deviceNameJsonExpression,omitempty"`
	DeviceNameTopicExpression    string `json:"deviceNameTopicExpression,omitempty"`
	AttributeNameJSONExpression  string `json:"attributeNameJsonExpression,omitempty"`
	AttributeNameTopicExpression string `json:"attributeNameTopicExpression,omitempty"`
	TopicExpression              string `json:"topicExpression,omitempty"`
	ValueExpression              string `json:"valueExpression,omitempty"`
}

// MQTTLegacyServerSideRPC — серверный RPC (legacy).
type MQTTLegacyServerSideRPC struct {
	DeviceNameFilter        string `json:"deviceNameFilter,omitempty"`
	MethodFilter            string `json:"methodFilter,omitempty"`
	RequestTopicExpression  string `json:"requestTopicExpression,omitempty"`
	ResponseTopicExpression string `json:"responseTopicExpression,omitempty"`
	ResponseTimeout         int    `json:"responseTimeout,omitempty"`
	ValueExpression         string `json:"valueExpression,omitempty"`
}

// MQTTLegacyConverter — конвертер legacy-маппинга.
// Для bytes-конвертера имя и тип устройства задаются полями
// DeviceNameExpression и DeviceTypeExpression.
type MQTTLegacyConverter struct {
	Type                      ConverterType  `json:"type,omitempty"`
	DeviceNameJSONExpression  string         `json:"deviceNameJsonExpression,omitempty"`
	DeviceTypeJSONExpression  string         `json:"deviceTypeJsonExpression,omitempty"`
	DeviceNameTopicExpression string         `json:"deviceNameTopicExpression,omitempty"`
	DeviceTypeTopicExpression string         `json:"deviceTypeTopicExpression,omitempty"`
	DeviceNameExpression      string         `json:"deviceNameExpression,omitempty"`
	DeviceTypeExpression      string         `json:"deviceTypeExpression,omitempty"`
	SendDataOnlyOnChange      *bool          `json:"sendDataOnlyOnChange,omitempty"`
	Timeout                   int            `json:"timeout,omitempty"`
	Attributes                []DataKey      `json:"attributes,omitempty"`
	Timeseries                []DataKey      `json:"timeseries,omitempty"`
	Extension                 string         `json:"extension,omitempty"`
	ExtensionConfig           map[string]any `json:"extension-config,omitempty"`
}

// MQTTLegacyMapping — элемент legacy-списка mapping.
type MQTTLegacyMapping struct {
	TopicFilter     string              `json:"topicFilter"`
	SubscriptionQoS *int                `json:"subscriptionQos,omitempty"`
	Converter       MQTTLegacyConverter `json:"converter"`
}

// MQTTLegacyConfig — configurationJson MQTT-коннектора в legacy-форме.
// Пять списков запросов всегда присутствуют на проводе, пустые сериализуются как [].
type MQTTLegacyConfig struct {
	Broker             *MQTTBroker                  `json:"broker,omitempty"`
	Mapping            []MQTTLegacyMapping          `json:"mapping,omitempty"`
	ConnectRequests    []MQTTLegacyConnectRequest   `json:"connectRequests"`
	DisconnectRequests []MQTTLegacyConnectRequest   `json:"disconnectRequests"`
	AttributeRequests  []MQTTLegacyAttributeRequest `json:"attributeRequests"`
	AttributeUpdates   []MQTTAttributeUpdate        `json:"attributeUpdates"`
	ServerSideRPC      []MQTTLegacyServerSideRPC    `json:"serverSideRpc"`
}

// ConnectorType реализует ProtocolConfig.
func (MQTTLegacyConfig) ConnectorType() ConnectorType { return MQTT }

// Shape реализует ProtocolConfig.
func (MQTTLegacyConfig) Shape() Shape { return ShapeLegacy }

func (MQTTLegacyConfig) sealed() {}

// MarshalJSON заменяет отсутствующие списки запросов пустыми массивами.
func (c MQTTLegacyConfig) MarshalJSON() ([]byte, error) {
	type plain MQTTLegacyConfig
	p := plain(c)
	p.ConnectRequests = nonNil(p.ConnectRequests)
	p.DisconnectRequests = nonNil(p.DisconnectRequests)
	p.AttributeRequests = nonNil(p.AttributeRequests)
	p.AttributeUpdates = nonNil(p.AttributeUpdates)
	p.ServerSideRPC = nonNil(p.ServerSideRPC)
	return json.Marshal(p)
}

// --- modern ---

// MQTTDeviceInfo — выражения имени и профиля устройства с их источниками.
type MQTTDeviceInfo struct {
	DeviceNameExpressionSource    SourceType `json:"deviceNameExpressionSource,omitempty"`
	DeviceNameExpression          string     `json:"deviceNameExpression,omitempty"`
	DeviceProfileExpressionSource SourceType `json:"deviceProfileExpressionSource,omitempty"`
	DeviceProfileExpression       string     `json:"deviceProfileExpression,omitempty"`
}

// MQTTConnectRequest — запрос подключения или отключения устройства.
type MQTTConnectRequest struct {
	TopicFilter string          `json:"topicFilter,omitempty"`
	DeviceInfo  *MQTTDeviceInfo `json:"deviceInfo,omitempty"`
}

// MQTTAttributeRequest — запрос значений атрибутов с устройства.
type MQTTAttributeRequest struct {
	Retain                        bool            `json:"retain,omitempty"`
	TopicFilter                   string          `json:"topicFilter,omitempty"`
	DeviceInfo                    *MQTTDeviceInfo `json:"deviceInfo,omitempty"`
	AttributeNameExpressionSource SourceType      `json:"attributeNameExpressionSource,omitempty"`
	AttributeNameExpression       string          `json:"attributeNameExpression,omitempty"`
	TopicExpression               string          `json:"topicExpression,omitempty"`
	ValueExpression               string          `json:"valueExpression,omitempty"`
}

// MQTTServerSideRPC — серверный RPC.
type MQTTServerSideRPC struct {
	Type                    RPCType `json:"type,omitempty"`
	DeviceNameFilter        string  `json:"deviceNameFilter,omitempty"`
	MethodFilter            string  `json:"methodFilter,omitempty"`
	RequestTopicExpression  string  `json:"requestTopicExpression,omitempty"`
	ResponseTopicExpression string  `json:"responseTopicExpression,omitempty"`
	ResponseTopicQoS        *int    `json:"responseTopicQoS,omitempty"`
	ResponseTimeout         int     `json:"responseTimeout,omitempty"`
	ValueExpression         string  `json:"valueExpression,omitempty"`
}

// MQTTRequestsMapping — запросы, сгруппированные по RequestType.
// Пустой список ключа на проводе отсутствует.
type MQTTRequestsMapping struct {
	ConnectRequests    []MQTTConnectRequest   `json:"connectRequests,omitempty"`
	DisconnectRequests []MQTTConnectRequest   `json:"disconnectRequests,omitempty"`
	AttributeRequests  []MQTTAttributeRequest `json:"attributeRequests,omitempty"`
	AttributeUpdates   []MQTTAttributeUpdate  `json:"attributeUpdates,omitempty"`
	ServerSideRPC      []MQTTServerSideRPC    `json:"serverSideRpc,omitempty"`
}

// Len возвращает количество запросов указанного типа.
func (m *MQTTRequestsMapping) Len(rt RequestType) int {
	if m == nil {
		return 0
	}
	switch rt {
	case RequestConnect:
		return len(m.ConnectRequests)
	case RequestDisconnect:
		return len(m.DisconnectRequests)
	case RequestAttribute:
		return len(m.AttributeRequests)
	case RequestAttrUpdate:
		return len(m.AttributeUpdates)
	case RequestServerSideRPC:
		return len(m.ServerSideRPC)
	default:
		return 0
	}
}

// IsEmpty сообщает, что ни один ключ не содержит запросов ({} на проводе).
func (m *MQTTRequestsMapping) IsEmpty() bool {
	for _, rt := range RequestTypes() {
		if m.Len(rt) > 0 {
			return false
		}
	}
	return true
}

// MQTTConverter — конвертер modern-маппинга.
type MQTTConverter struct {
	Type                 ConverterType   `json:"type,omitempty"`
	DeviceInfo           *MQTTDeviceInfo `json:"deviceInfo,omitempty"`
	SendDataOnlyOnChange *bool           `json:"sendDataOnlyOnChange,omitempty"`
	Timeout              int             `json:"timeout,omitempty"`
	Attributes           []MQTTDataKey   `json:"attributes,omitempty"`
	Timeseries           []MQTTDataKey   `json:"timeseries,omitempty"`
	Extension            string          `json:"extension,omitempty"`
	ExtensionConfig      map[string]any  `json:"extensionConfig,omitempty"`
}

// MQTTMapping — элемент modern-списка mapping.
type MQTTMapping struct {
	TopicFilter     string        `json:"topicFilter"`
	SubscriptionQoS int           `json:"subscriptionQos"`
	Converter       MQTTConverter `json:"converter"`
}

// MQTTConfig — configurationJson MQTT-коннектора начиная с V3_5_2.
type MQTTConfig struct {
	Broker          *MQTTBroker          `json:"broker,omitempty"`
	Mapping         []MQTTMapping        `json:"mapping,omitempty"`
	RequestsMapping *MQTTRequestsMapping `json:"requestsMapping,omitempty"`
}

// ConnectorType реализует ProtocolConfig.
func (MQTTConfig) ConnectorType() ConnectorType { return MQTT }

// Shape реализует ProtocolConfig.
func (MQTTConfig) Shape() Shape { return ShapeModern }

func (MQTTConfig) sealed() {}
