package connector

import "encoding/json"

// ProtocolConfig — типизированное содержимое configurationJson.
//
// Интерфейс закрыт: реализуют его только типы этого пакета,
// по одному на пару (тип коннектора, форма) и RawConfig для
// типов без зарегистрированного кодека.
type ProtocolConfig interface {
	// ConnectorType возвращает тип коннектора, которому принадлежит конфигурация.
	ConnectorType() ConnectorType
	// Shape возвращает форму конфигурации.
	Shape() Shape

	sealed()
}

// RawConfig хранит configurationJson как есть. Используется для типов
// коннекторов без типизированной модели: запись читается и пишется
// без потерь, но не мигрирует.
type RawConfig struct {
	Type ConnectorType
	JSON json.RawMessage
}

// ConnectorType реализует ProtocolConfig.
func (c RawConfig) ConnectorType() ConnectorType { return c.Type }

// Shape реализует ProtocolConfig. Форма сырой конфигурации неизвестна,
// возвращается пустая строка.
func (c RawConfig) Shape() Shape { return "" }

func (RawConfig) sealed() {}

// MarshalJSON возвращает исходный JSON.
func (c RawConfig) MarshalJSON() ([]byte, error) {
	if len(c.JSON) == 0 {
		return []byte("{}"), nil
	}
	return c.JSON, nil
}

// nonNil возвращает пустой срез вместо nil, чтобы поле сериализовалось как [].
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
