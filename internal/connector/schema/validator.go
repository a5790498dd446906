// Package schema проверяет записи коннекторов по JSON Schema целевой версии.
//
// Схемы встроены в бинарник: одна схема конверта записи (record.json)
// и по одной схеме configurationJson на каждую пару (тип коннектора, форма),
// например mqtt.legacy.json и mqtt.modern.json. Версионируемые контейнеры
// объявлены с additionalProperties: false, поэтому поле, оставшееся от
// другой формы, считается ошибкой.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/Kargones/connector-migrator/internal/connector"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// schemaBaseURL — базовый URL ресурсов схем в компиляторе.
const schemaBaseURL = "https://schemas.connector-migrator.local/"

// recordSchemaName — имя схемы конверта записи.
const recordSchemaName = "record"

// ErrValidationFailed — запись не соответствует схеме.
var ErrValidationFailed = errors.New("schema validation failed")

// key идентифицирует схему configurationJson.
type key struct {
	connectorType connector.ConnectorType
	shape         connector.Shape
}

// Validator хранит скомпилированные схемы. Безопасен для конкурентного
// использования: после NewValidator состояние не изменяется.
type Validator struct {
	record  *jsonschema.Schema
	configs map[key]*jsonschema.Schema
}

// NewValidator компилирует все встроенные схемы.
func NewValidator() (*Validator, error) {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения встроенных схем: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		data, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения схемы %s: %w", entry.Name(), err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("ошибка разбора схемы %s: %w", entry.Name(), err)
		}
		if err := compiler.AddResource(schemaBaseURL+entry.Name(), doc); err != nil {
			return nil, fmt.Errorf("ошибка регистрации схемы %s: %w", entry.Name(), err)
		}
		names = append(names, entry.Name())
	}

	v := &Validator{configs: make(map[key]*jsonschema.Schema)}
	for _, name := range names {
		sch, err := compiler.Compile(schemaBaseURL + name)
		if err != nil {
			return nil, fmt.Errorf("ошибка компиляции схемы %s: %w", name, err)
		}

		base := strings.TrimSuffix(name, ".json")
		if base == recordSchemaName {
			v.record = sch
			continue
		}
		typ, shape, ok := strings.Cut(base, ".")
		if !ok {
			return nil, fmt.Errorf("неожиданное имя схемы %s: ожидается <type>.<shape>.json", name)
		}
		v.configs[key{connector.ConnectorType(typ), connector.Shape(shape)}] = sch
	}
	if v.record == nil {
		return nil, fmt.Errorf("встроенная схема %s.json не найдена", recordSchemaName)
	}
	return v, nil
}

// HasSchema сообщает, есть ли схема configurationJson для пары (тип, форма).
func (v *Validator) HasSchema(t connector.ConnectorType, shape connector.Shape) bool {
	_, ok := v.configs[key{t, shape}]
	return ok
}

// ValidateRecord сериализует запись и проверяет результат.
func (v *Validator) ValidateRecord(rec connector.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ошибка сериализации записи: %w", err)
	}
	return v.ValidateDocument(raw)
}

// ValidateDocument проверяет JSON-документ записи как есть, без декодирования
// в типизированную модель: лишние поля не теряются и попадают в проверку.
//
// Проверяется конверт записи, затем configurationJson по схеме формы,
// соответствующей type и configVersion. Типы без схемы проверяются
// только по конверту.
func (v *Validator) ValidateDocument(raw []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: запись не является корректным JSON: %w", ErrValidationFailed, err)
	}
	if err := v.record.Validate(inst); err != nil {
		return fmt.Errorf("%w: конверт записи: %w", ErrValidationFailed, err)
	}

	obj, _ := inst.(map[string]any)
	typ, _ := obj["type"].(string)
	versionText, _ := obj["configVersion"].(string)
	version, err := connector.ParseConfigVersion(versionText)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	cfg, present := obj["configurationJson"]
	if !present {
		return nil
	}
	shape, ok := connector.ShapeAt(connector.ConnectorType(typ), version)
	if !ok {
		return nil
	}
	return v.validateConfigInstance(connector.ConnectorType(typ), shape, cfg)
}

// ValidateConfig проверяет конфигурацию протокола по схеме её формы.
func (v *Validator) ValidateConfig(cfg connector.ProtocolConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("ошибка сериализации конфигурации: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	return v.validateConfigInstance(cfg.ConnectorType(), cfg.Shape(), inst)
}

func (v *Validator) validateConfigInstance(t connector.ConnectorType, shape connector.Shape, inst any) error {
	sch, ok := v.configs[key{t, shape}]
	if !ok {
		return nil
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: configurationJson %s/%s: %w", ErrValidationFailed, t, shape, err)
	}
	return nil
}
