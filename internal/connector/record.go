package connector

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ConfigurationMode — режим редактирования конфигурации в UI шлюза.
type ConfigurationMode string

const (
	ModeBasic    ConfigurationMode = "basic"
	ModeAdvanced ConfigurationMode = "advanced"
)

// ErrMissingType возвращается при декодировании записи без поля "type".
var ErrMissingType = errors.New("connector record has no type")

// Record — сохранённая запись коннектора.
//
// Type неизменяем, ConfigVersion меняется только миграцией.
// Config содержит типизированный configurationJson; nil означает,
// что configurationJson в записи отсутствует.
type Record struct {
	Name                 string
	Type                 ConnectorType
	LogLevel             string
	ConfigVersion        ConfigVersion
	Config               ProtocolConfig
	Configuration        string
	Key                  string
	Class                string
	Mode                 ConfigurationMode
	ReportStrategy       *ReportStrategyConfig
	SendDataOnlyOnChange *bool
	Ts                   *int64
}

// wireRecord — представление Record на проводе.
type wireRecord struct {
	Name                 string                `json:"name"`
	Type                 ConnectorType         `json:"type"`
	Configuration        string                `json:"configuration,omitempty"`
	ConfigurationJSON    json.RawMessage       `json:"configurationJson,omitempty"`
	LogLevel             string                `json:"logLevel"`
	Key                  string                `json:"key,omitempty"`
	Class                string                `json:"class,omitempty"`
	Mode                 ConfigurationMode     `json:"mode,omitempty"`
	ConfigVersion        *ConfigVersion        `json:"configVersion,omitempty"`
	ReportStrategy       *ReportStrategyConfig `json:"reportStrategy,omitempty"`
	SendDataOnlyOnChange *bool                 `json:"sendDataOnlyOnChange,omitempty"`
	Ts                   *int64                `json:"ts,omitempty"`
}

// Shape возвращает форму конфигурации записи по её типу и версии.
func (r Record) Shape() (Shape, bool) {
	return ShapeAt(r.Type, r.ConfigVersion)
}

// MarshalJSON сериализует запись в формат шлюза.
func (r Record) MarshalJSON() ([]byte, error) {
	w := wireRecord{
		Name:                 r.Name,
		Type:                 r.Type,
		Configuration:        r.Configuration,
		LogLevel:             r.LogLevel,
		Key:                  r.Key,
		Class:                r.Class,
		Mode:                 r.Mode,
		ReportStrategy:       r.ReportStrategy,
		SendDataOnlyOnChange: r.SendDataOnlyOnChange,
		Ts:                   r.Ts,
	}
	version := r.ConfigVersion
	w.ConfigVersion = &version

	if r.Config != nil {
		raw, err := json.Marshal(r.Config)
		if err != nil {
			return nil, fmt.Errorf("marshal configurationJson: %w", err)
		}
		w.ConfigurationJSON = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON разбирает запись и декодирует configurationJson
// в тип, соответствующий паре (type, configVersion).
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Type == "" {
		return ErrMissingType
	}

	version := Legacy
	if w.ConfigVersion != nil {
		version = *w.ConfigVersion
	}

	cfg, err := DecodeConfig(w.Type, version, w.ConfigurationJSON)
	if err != nil {
		return err
	}

	*r = Record{
		Name:                 w.Name,
		Type:                 w.Type,
		LogLevel:             w.LogLevel,
		ConfigVersion:        version,
		Config:               cfg,
		Configuration:        w.Configuration,
		Key:                  w.Key,
		Class:                w.Class,
		Mode:                 w.Mode,
		ReportStrategy:       w.ReportStrategy,
		SendDataOnlyOnChange: w.SendDataOnlyOnChange,
		Ts:                   w.Ts,
	}
	return nil
}
