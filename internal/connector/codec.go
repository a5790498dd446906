package connector

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ErrMalformedConfig — configurationJson не разбирается в модель своей формы:
// неверный тип значения или поле, которого в модели нет.
var ErrMalformedConfig = errors.New("malformed connector configuration")

// shapeCodec описывает типизированную модель одного типа коннектора:
// версию, с которой начинается modern-форма, и декодеры обеих форм.
type shapeCodec struct {
	boundary ConfigVersion
	legacy   func(json.RawMessage) (ProtocolConfig, error)
	modern   func(json.RawMessage) (ProtocolConfig, error)
	empty    map[Shape]ProtocolConfig
}

// shapeCodecs — типы коннекторов с типизированной моделью.
// Набор фиксирован на этапе компиляции и не изменяется.
var shapeCodecs = map[ConnectorType]shapeCodec{
	MQTT: {
		boundary: V3_5_2,
		legacy:   decodeAs[MQTTLegacyConfig],
		modern:   decodeAs[MQTTConfig],
		empty:    map[Shape]ProtocolConfig{ShapeLegacy: MQTTLegacyConfig{}, ShapeModern: MQTTConfig{}},
	},
	Modbus: {
		boundary: V3_5_2,
		legacy:   decodeAs[ModbusLegacyConfig],
		modern:   decodeAs[ModbusConfig],
		empty:    map[Shape]ProtocolConfig{ShapeLegacy: ModbusLegacyConfig{}, ShapeModern: ModbusConfig{}},
	},
	OPCUA: {
		boundary: V3_5_2,
		legacy:   decodeAs[OPCUALegacyConfig],
		modern:   decodeAs[OPCUAConfig],
		empty:    map[Shape]ProtocolConfig{ShapeLegacy: OPCUALegacyConfig{}, ShapeModern: OPCUAConfig{}},
	},
	Socket: {
		boundary: Current,
		legacy:   decodeAs[SocketLegacyConfig],
		modern:   decodeAs[SocketConfig],
		empty:    map[Shape]ProtocolConfig{ShapeLegacy: SocketLegacyConfig{}, ShapeModern: SocketConfig{}},
	},
}

// decodeAs декодирует JSON в конкретный тип конфигурации.
// Неизвестные поля отклоняются: молча отброшенное поле потерялось бы при миграции.
func decodeAs[T ProtocolConfig](raw json.RawMessage) (ProtocolConfig, error) {
	var cfg T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TypedTypes возвращает отсортированный список типов с типизированной моделью.
func TypedTypes() []ConnectorType {
	types := make([]ConnectorType, 0, len(shapeCodecs))
	for t := range shapeCodecs {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// ShapeBoundary возвращает версию, начиная с которой тип использует modern-форму.
// ok=false для типов без типизированной модели.
func ShapeBoundary(t ConnectorType) (ConfigVersion, bool) {
	c, ok := shapeCodecs[t]
	return c.boundary, ok
}

// ShapeAt возвращает форму конфигурации типа t в версии v.
func ShapeAt(t ConnectorType, v ConfigVersion) (Shape, bool) {
	boundary, ok := ShapeBoundary(t)
	if !ok {
		return "", false
	}
	if v >= boundary {
		return ShapeModern, true
	}
	return ShapeLegacy, true
}

// EmptyConfig возвращает каноническую пустую конфигурацию указанной формы.
func EmptyConfig(t ConnectorType, shape Shape) (ProtocolConfig, bool) {
	c, ok := shapeCodecs[t]
	if !ok {
		return nil, false
	}
	cfg, ok := c.empty[shape]
	return cfg, ok
}

// DecodeConfig декодирует configurationJson записи типа t версии v.
//
// Отсутствующий или null configurationJson даёт (nil, nil): решение
// о восстановлении принимает вызывающий код. Для типов без типизированной
// модели возвращается RawConfig с исходным JSON.
func DecodeConfig(t ConnectorType, v ConfigVersion, raw json.RawMessage) (ProtocolConfig, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	c, ok := shapeCodecs[t]
	if !ok {
		return RawConfig{Type: t, JSON: slices.Clone(trimmed)}, nil
	}

	decode := c.legacy
	shape := ShapeLegacy
	if v >= c.boundary {
		decode = c.modern
		shape = ShapeModern
	}
	cfg, err := decode(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s %s configuration (version %s): %w", ErrMalformedConfig, t, shape, v, err)
	}
	return cfg, nil
}
