package connector

import "encoding/json"

// OPCUASourceType — способ адресации значения в OPC-UA.
type OPCUASourceType string

const (
	OPCUASourcePath       OPCUASourceType = "path"
	OPCUASourceIdentifier OPCUASourceType = "identifier"
	OPCUASourceConstant   OPCUASourceType = "constant"
)

// Значения сервера OPC-UA по умолчанию.
const (
	OPCUADefaultTimeoutMs        = 1000
	OPCUADefaultScanPeriodMs     = 3600000
	OPCUADefaultPollPeriodMs     = 5000
	OPCUADefaultSubCheckPeriodMs = 100
	OPCUADefaultSecurity         = "Basic128Rsa15"
)

// OPCUAIdentity — способ аутентификации на сервере.
type OPCUAIdentity struct {
	Type       string `json:"type,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
	CACert     string `json:"caCert,omitempty"`
	Cert       string `json:"cert,omitempty"`
	PrivateKey string `json:"privateKey,omitempty"`
}

// OPCUAServerBase — параметры сервера, общие для обеих форм.
type OPCUAServerBase struct {
	Name                   string         `json:"name,omitempty"`
	URL                    string         `json:"url,omitempty"`
	TimeoutInMillis        int            `json:"timeoutInMillis,omitempty"`
	ScanPeriodInMillis     int            `json:"scanPeriodInMillis,omitempty"`
	SubCheckPeriodInMillis int            `json:"subCheckPeriodInMillis,omitempty"`
	ShowMap                *bool          `json:"showMap,omitempty"`
	Security               string         `json:"security,omitempty"`
	Identity               *OPCUAIdentity `json:"identity,omitempty"`
}

// --- legacy ---

// OPCUALegacyDataKey — ключ атрибута или телеметрии (legacy): путь к узлу.
type OPCUALegacyDataKey struct {
	Key  string `json:"key"`
	Path string `json:"path"`
}

// OPCUALegacyAttributeUpdate — обновление атрибута на устройстве (legacy).
type OPCUALegacyAttributeUpdate struct {
	AttributeOnThingsBoard string `json:"attributeOnThingsBoard"`
	AttributeOnDevice      string `json:"attributeOnDevice"`
}

// OPCUALegacyRPCMethod — RPC-метод (legacy): аргументы хранятся значениями как есть.
type OPCUALegacyRPCMethod struct {
	Method    string            `json:"method"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
}

// OPCUALegacyDevice — устройство legacy-формы.
type OPCUALegacyDevice struct {
	DeviceNodePattern string                       `json:"deviceNodePattern"`
	DeviceNamePattern string                       `json:"deviceNamePattern,omitempty"`
	DeviceTypePattern string                       `json:"deviceTypePattern,omitempty"`
	Attributes        []OPCUALegacyDataKey         `json:"attributes,omitempty"`
	Timeseries        []OPCUALegacyDataKey         `json:"timeseries,omitempty"`
	RPCMethods        []OPCUALegacyRPCMethod       `json:"rpc_methods,omitempty"`
	AttributesUpdates []OPCUALegacyAttributeUpdate `json:"attributes_updates,omitempty"`
}

// OPCUALegacyServer — сервер legacy-формы: маппинг устройств вложен в сервер.
type OPCUALegacyServer struct {
	OPCUAServerBase
	DisableSubscriptions bool                `json:"disableSubscriptions"`
	Mapping              []OPCUALegacyDevice `json:"mapping"`
}

// MarshalJSON сериализует отсутствующий маппинг как [].
func (s OPCUALegacyServer) MarshalJSON() ([]byte, error) {
	type plain OPCUALegacyServer
	p := plain(s)
	p.Mapping = nonNil(p.Mapping)
	return json.Marshal(p)
}

// OPCUALegacyConfig — configurationJson OPC-UA-коннектора в legacy-форме.
type OPCUALegacyConfig struct {
	Server OPCUALegacyServer `json:"server"`
}

// ConnectorType реализует ProtocolConfig.
func (OPCUALegacyConfig) ConnectorType() ConnectorType { return OPCUA }

// Shape реализует ProtocolConfig.
func (OPCUALegacyConfig) Shape() Shape { return ShapeLegacy }

func (OPCUALegacyConfig) sealed() {}

// --- modern ---

// OPCUAValue — значение с типом адресации: ключ атрибута, телеметрии
// или обновления атрибута.
type OPCUAValue struct {
	Key   string          `json:"key"`
	Type  OPCUASourceType `json:"type"`
	Value string          `json:"value"`
}

// OPCUARPCArgument — типизированный аргумент RPC-метода.
type OPCUARPCArgument struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// OPCUARPCMethod — RPC-метод с типизированными аргументами.
type OPCUARPCMethod struct {
	Method    string             `json:"method"`
	Arguments []OPCUARPCArgument `json:"arguments,omitempty"`
}

// OPCUADeviceInfo — выражения имени и профиля устройства.
type OPCUADeviceInfo struct {
	DeviceNameExpression          string          `json:"deviceNameExpression,omitempty"`
	DeviceNameExpressionSource    OPCUASourceType `json:"deviceNameExpressionSource,omitempty"`
	DeviceProfileExpression       string          `json:"deviceProfileExpression,omitempty"`
	DeviceProfileExpressionSource OPCUASourceType `json:"deviceProfileExpressionSource,omitempty"`
}

// OPCUADevice — устройство начиная с V3_5_2.
type OPCUADevice struct {
	DeviceNodePattern string           `json:"deviceNodePattern"`
	DeviceNodeSource  OPCUASourceType  `json:"deviceNodeSource"`
	DeviceInfo        *OPCUADeviceInfo `json:"deviceInfo,omitempty"`
	Attributes        []OPCUAValue     `json:"attributes,omitempty"`
	Timeseries        []OPCUAValue     `json:"timeseries,omitempty"`
	RPCMethods        []OPCUARPCMethod `json:"rpc_methods,omitempty"`
	AttributesUpdates []OPCUAValue     `json:"attributes_updates,omitempty"`
}

// OPCUAServer — сервер начиная с V3_5_2.
type OPCUAServer struct {
	OPCUAServerBase
	PollPeriodInMillis  int  `json:"pollPeriodInMillis,omitempty"`
	EnableSubscriptions bool `json:"enableSubscriptions"`
}

// OPCUAConfig — configurationJson OPC-UA-коннектора начиная с V3_5_2.
type OPCUAConfig struct {
	Server  *OPCUAServer  `json:"server,omitempty"`
	Mapping []OPCUADevice `json:"mapping,omitempty"`
}

// ConnectorType реализует ProtocolConfig.
func (OPCUAConfig) ConnectorType() ConnectorType { return OPCUA }

// Shape реализует ProtocolConfig.
func (OPCUAConfig) Shape() Shape { return ShapeModern }

func (OPCUAConfig) sealed() {}
