package mapping

import (
	"github.com/samber/lo"

	"github.com/Kargones/connector-migrator/internal/connector"
)

// Значения MQTT по умолчанию для modern-формы.
const (
	defaultSubscriptionQoS  = 1
	defaultResponseTopicQoS = 1
)

// UpgradeMQTT перестраивает legacy-конфигурацию MQTT в modern-форму.
//
// Пять списков запросов собираются в requestsMapping, элементы mapping
// перестраиваются по правилам modern-конвертера. Пустые контейнеры
// в результате не очищаются: это делает процессор версии.
func UpgradeMQTT(src connector.MQTTLegacyConfig, opts Options) connector.MQTTConfig {
	opts = opts.normalized()
	return connector.MQTTConfig{
		Broker: cloneBroker(src.Broker),
		Mapping: mapSlice(src.Mapping, func(m connector.MQTTLegacyMapping) connector.MQTTMapping {
			return upgradeMQTTMapping(m, opts)
		}),
		RequestsMapping: UpgradeMQTTRequests(src),
	}
}

// UpgradeMQTTRequests группирует legacy-списки запросов по RequestType.
// Порядок запросов внутри списка сохраняется, пустые списки отсутствуют.
func UpgradeMQTTRequests(src connector.MQTTLegacyConfig) *connector.MQTTRequestsMapping {
	return &connector.MQTTRequestsMapping{
		ConnectRequests:    mapSlice(src.ConnectRequests, upgradeConnectRequest),
		DisconnectRequests: mapSlice(src.DisconnectRequests, upgradeDisconnectRequest),
		AttributeRequests:  mapSlice(src.AttributeRequests, upgradeAttributeRequest),
		AttributeUpdates:   mapSlice(src.AttributeUpdates, identity[connector.MQTTAttributeUpdate]),
		ServerSideRPC:      mapSlice(src.ServerSideRPC, upgradeServerSideRPC),
	}
}

// DowngradeMQTT перестраивает modern-конфигурацию MQTT в legacy-форму.
// Отсутствующий ключ requestsMapping даёт пустой список, поля,
// которых нет в legacy-схеме, отбрасываются.
func DowngradeMQTT(src connector.MQTTConfig) connector.MQTTLegacyConfig {
	out := connector.MQTTLegacyConfig{
		Broker:             cloneBroker(src.Broker),
		Mapping:            mapSlice(src.Mapping, downgradeMQTTMapping),
		ConnectRequests:    []connector.MQTTLegacyConnectRequest{},
		DisconnectRequests: []connector.MQTTLegacyConnectRequest{},
		AttributeRequests:  []connector.MQTTLegacyAttributeRequest{},
		AttributeUpdates:   []connector.MQTTAttributeUpdate{},
		ServerSideRPC:      []connector.MQTTLegacyServerSideRPC{},
	}

	rm := src.RequestsMapping
	if rm == nil {
		return out
	}
	out.ConnectRequests = lo.Map(rm.ConnectRequests, indexed(downgradeConnectRequest))
	out.DisconnectRequests = lo.Map(rm.DisconnectRequests, indexed(downgradeConnectRequest))
	out.AttributeRequests = lo.Map(rm.AttributeRequests, indexed(downgradeAttributeRequest))
	out.AttributeUpdates = lo.Map(rm.AttributeUpdates, indexed(identity[connector.MQTTAttributeUpdate]))
	out.ServerSideRPC = lo.Map(rm.ServerSideRPC, indexed(downgradeServerSideRPC))
	return out
}

// indexed адаптирует функцию одного аргумента к сигнатуре итератора lo.
func indexed[T, R any](f func(T) R) func(T, int) R {
	return func(item T, _ int) R { return f(item) }
}

func cloneBroker(b *connector.MQTTBroker) *connector.MQTTBroker {
	out := clonePtr(b)
	if out != nil {
		out.SendDataOnlyOnChange = clonePtr(b.SendDataOnlyOnChange)
		out.Security = clonePtr(b.Security)
	}
	return out
}

// --- device info ---

// pickExpression выбирает выражение из пары legacy-полей.
// JSON-поле имеет приоритет над полем топика.
func pickExpression(jsonExpr, topicExpr string) (string, connector.SourceType) {
	switch {
	case jsonExpr != "":
		return jsonExpr, messageSource(jsonExpr)
	case topicExpr != "":
		return topicExpr, connector.SourceTopic
	default:
		return "", ""
	}
}

// splitExpression раскладывает выражение обратно по legacy-полям:
// источник topic попадает в поле топика, остальные в JSON-поле.
func splitExpression(expr string, source connector.SourceType) (jsonExpr, topicExpr string) {
	if expr == "" {
		return "", ""
	}
	if source == connector.SourceTopic {
		return "", expr
	}
	return expr, ""
}

// legacyDeviceInfo собирает deviceInfo из выражений имени и типа устройства.
// Без обоих выражений deviceInfo отсутствует. Если задано только имя,
// профиль получает константу DefaultDeviceProfile.
func legacyDeviceInfo(nameJSON, nameTopic, typeJSON, typeTopic string) *connector.MQTTDeviceInfo {
	name, nameSource := pickExpression(nameJSON, nameTopic)
	profile, profileSource := pickExpression(typeJSON, typeTopic)
	if name == "" && profile == "" {
		return nil
	}
	if profile == "" {
		profile, profileSource = DefaultDeviceProfile, connector.SourceConstant
	}
	return &connector.MQTTDeviceInfo{
		DeviceNameExpressionSource:    nameSource,
		DeviceNameExpression:          name,
		DeviceProfileExpressionSource: profileSource,
		DeviceProfileExpression:       profile,
	}
}

// legacyNameInfo собирает deviceInfo только с именем устройства.
func legacyNameInfo(nameJSON, nameTopic string) *connector.MQTTDeviceInfo {
	name, source := pickExpression(nameJSON, nameTopic)
	if name == "" {
		return nil
	}
	return &connector.MQTTDeviceInfo{DeviceNameExpressionSource: source, DeviceNameExpression: name}
}

// --- requests ---

func upgradeConnectRequest(r connector.MQTTLegacyConnectRequest) connector.MQTTConnectRequest {
	return connector.MQTTConnectRequest{
		TopicFilter: r.TopicFilter,
		DeviceInfo: legacyDeviceInfo(
			r.DeviceNameJSONExpression, r.DeviceNameTopicExpression,
			r.DeviceTypeJSONExpression, r.DeviceTypeTopicExpression,
		),
	}
}

// upgradeDisconnectRequest перестраивает запрос отключения: устройство
// определяется только именем, профиль не подставляется.
func upgradeDisconnectRequest(r connector.MQTTLegacyConnectRequest) connector.MQTTConnectRequest {
	return connector.MQTTConnectRequest{
		TopicFilter: r.TopicFilter,
		DeviceInfo:  legacyNameInfo(r.DeviceNameJSONExpression, r.DeviceNameTopicExpression),
	}
}

func downgradeConnectRequest(r connector.MQTTConnectRequest) connector.MQTTLegacyConnectRequest {
	out := connector.MQTTLegacyConnectRequest{TopicFilter: r.TopicFilter}
	if info := r.DeviceInfo; info != nil {
		out.DeviceNameJSONExpression, out.DeviceNameTopicExpression =
			splitExpression(info.DeviceNameExpression, info.DeviceNameExpressionSource)
		out.DeviceTypeJSONExpression, out.DeviceTypeTopicExpression =
			splitExpression(info.DeviceProfileExpression, info.DeviceProfileExpressionSource)
	}
	return out
}

func upgradeAttributeRequest(r connector.MQTTLegacyAttributeRequest) connector.MQTTAttributeRequest {
	attrName, attrSource := pickExpression(r.AttributeNameJSONExpression, r.AttributeNameTopicExpression)
	return connector.MQTTAttributeRequest{
		Retain:                        r.Retain,
		TopicFilter:                   r.TopicFilter,
		DeviceInfo:                    legacyNameInfo(r.DeviceNameJSONExpression, r.DeviceNameTopicExpression),
		AttributeNameExpressionSource: attrSource,
		AttributeNameExpression:       attrName,
		TopicExpression:               r.TopicExpression,
		ValueExpression:               r.ValueExpression,
	}
}

func downgradeAttributeRequest(r connector.MQTTAttributeRequest) connector.MQTTLegacyAttributeRequest {
	out := connector.MQTTLegacyAttributeRequest{
		Retain:          r.Retain,
		TopicFilter:     r.TopicFilter,
		TopicExpression: r.TopicExpression,
		ValueExpression: r.ValueExpression,
	}
	if info := r.DeviceInfo; info != nil {
		out.DeviceNameJSONExpression, out.DeviceNameTopicExpression =
			splitExpression(info.DeviceNameExpression, info.DeviceNameExpressionSource)
	}
	out.AttributeNameJSONExpression, out.AttributeNameTopicExpression =
		splitExpression(r.AttributeNameExpression, r.AttributeNameExpressionSource)
	return out
}

func upgradeServerSideRPC(r connector.MQTTLegacyServerSideRPC) connector.MQTTServerSideRPC {
	twoWay := r.ResponseTopicExpression != ""
	out := connector.MQTTServerSideRPC{
		Type:                    lo.Ternary(twoWay, connector.RPCTwoWay, connector.RPCOneWay),
		DeviceNameFilter:        r.DeviceNameFilter,
		MethodFilter:            r.MethodFilter,
		RequestTopicExpression:  r.RequestTopicExpression,
		ResponseTopicExpression: r.ResponseTopicExpression,
		ResponseTimeout:         r.ResponseTimeout,
		ValueExpression:         r.ValueExpression,
	}
	if twoWay {
		out.ResponseTopicQoS = lo.ToPtr(defaultResponseTopicQoS)
	}
	return out
}

func downgradeServerSideRPC(r connector.MQTTServerSideRPC) connector.MQTTLegacyServerSideRPC {
	return connector.MQTTLegacyServerSideRPC{
		DeviceNameFilter:        r.DeviceNameFilter,
		MethodFilter:            r.MethodFilter,
		RequestTopicExpression:  r.RequestTopicExpression,
		ResponseTopicExpression: r.ResponseTopicExpression,
		ResponseTimeout:         r.ResponseTimeout,
		ValueExpression:         r.ValueExpression,
	}
}

// --- mapping / converters ---

func upgradeMQTTMapping(m connector.MQTTLegacyMapping, opts Options) connector.MQTTMapping {
	return connector.MQTTMapping{
		TopicFilter:     m.TopicFilter,
		SubscriptionQoS: lo.FromPtrOr(m.SubscriptionQoS, defaultSubscriptionQoS),
		Converter:       upgradeConverter(m.Converter, opts),
	}
}

func downgradeMQTTMapping(m connector.MQTTMapping) connector.MQTTLegacyMapping {
	return connector.MQTTLegacyMapping{
		TopicFilter:     m.TopicFilter,
		SubscriptionQoS: lo.ToPtr(m.SubscriptionQoS),
		Converter:       downgradeConverter(m.Converter),
	}
}

func upgradeConverter(c connector.MQTTLegacyConverter, opts Options) connector.MQTTConverter {
	withStrategy := func(k connector.DataKey) connector.MQTTDataKey {
		return connector.MQTTDataKey{
			DataKey:        k,
			ReportStrategy: connector.OnReportPeriod(opts.DefaultKeyReportPeriod),
		}
	}

	out := connector.MQTTConverter{
		Type:                 c.Type,
		SendDataOnlyOnChange: clonePtr(c.SendDataOnlyOnChange),
		Timeout:              c.Timeout,
		Attributes:           mapSlice(c.Attributes, withStrategy),
		Timeseries:           mapSlice(c.Timeseries, withStrategy),
		Extension:            c.Extension,
		ExtensionConfig:      cloneExtensionConfig(c.ExtensionConfig),
	}

	if c.Type == connector.ConverterBytes {
		out.DeviceInfo = bytesDeviceInfo(c.DeviceNameExpression, c.DeviceTypeExpression)
	} else {
		out.DeviceInfo = legacyDeviceInfo(
			c.DeviceNameJSONExpression, c.DeviceNameTopicExpression,
			c.DeviceTypeJSONExpression, c.DeviceTypeTopicExpression,
		)
	}
	return out
}

// bytesDeviceInfo собирает deviceInfo bytes-конвертера: выражения
// вычисляются по телу сообщения.
func bytesDeviceInfo(name, profile string) *connector.MQTTDeviceInfo {
	if name == "" && profile == "" {
		return nil
	}
	info := &connector.MQTTDeviceInfo{
		DeviceNameExpression:          name,
		DeviceProfileExpressionSource: connector.SourceMessage,
		DeviceProfileExpression:       profile,
	}
	if name != "" {
		info.DeviceNameExpressionSource = connector.SourceMessage
	}
	if profile == "" {
		info.DeviceProfileExpressionSource = connector.SourceConstant
		info.DeviceProfileExpression = DefaultDeviceProfile
	}
	return info
}

// cloneExtensionConfig копирует extensionConfig целиком: вложенные
// объекты и массивы не разделяются с исходной записью.
func cloneExtensionConfig(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneJSONValue(v)
	}
	return out
}

func cloneJSONValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneExtensionConfig(x)
	case []any:
		if x == nil {
			return x
		}
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneJSONValue(item)
		}
		return out
	default:
		return v
	}
}

func downgradeConverter(c connector.MQTTConverter) connector.MQTTLegacyConverter {
	dropStrategy := func(k connector.MQTTDataKey) connector.DataKey { return k.DataKey }

	out := connector.MQTTLegacyConverter{
		Type:                 c.Type,
		SendDataOnlyOnChange: clonePtr(c.SendDataOnlyOnChange),
		Timeout:              c.Timeout,
		Attributes:           mapSlice(c.Attributes, dropStrategy),
		Timeseries:           mapSlice(c.Timeseries, dropStrategy),
		Extension:            c.Extension,
		ExtensionConfig:      cloneExtensionConfig(c.ExtensionConfig),
	}

	info := c.DeviceInfo
	if info == nil {
		return out
	}
	if c.Type == connector.ConverterBytes {
		out.DeviceNameExpression = info.DeviceNameExpression
		out.DeviceTypeExpression = info.DeviceProfileExpression
		return out
	}
	out.DeviceNameJSONExpression, out.DeviceNameTopicExpression =
		splitExpression(info.DeviceNameExpression, info.DeviceNameExpressionSource)
	out.DeviceTypeJSONExpression, out.DeviceTypeTopicExpression =
		splitExpression(info.DeviceProfileExpression, info.DeviceProfileExpressionSource)
	return out
}
