// Package recordfile читает и записывает файлы записей коннекторов.
//
// Поддерживаются JSON и YAML. Входной поток перекодируется в UTF-8
// с учётом BOM: выгрузки конфигурации из Windows-окружений часто
// приходят в UTF-16 или с UTF-8 BOM.
package recordfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/Kargones/connector-migrator/internal/connector"
)

// Format — формат файла записи.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// BackupSuffix — суффикс резервной копии, создаваемой перед перезаписью файла.
const BackupSuffix = ".bak"

// DetectFormat определяет формат по расширению файла. Неизвестное расширение даёт JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Read декодирует запись из r.
func Read(r io.Reader, format Format) (connector.Record, error) {
	var rec connector.Record

	content, err := ReadDocument(r, format)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(content, &rec); err != nil {
		return rec, fmt.Errorf("ошибка разбора записи коннектора: %w", err)
	}
	return rec, nil
}

// ReadDocument возвращает JSON-документ записи без декодирования в модель:
// поток перекодируется в UTF-8, YAML переводится в JSON.
func ReadDocument(r io.Reader, format Format) ([]byte, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	content, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения записи: %w", err)
	}
	if format == FormatYAML {
		return yamlToJSON(content)
	}
	return content, nil
}

// ReadFile читает запись из файла, формат определяется по расширению.
func ReadFile(path string) (connector.Record, Format, error) {
	format := DetectFormat(path)
	f, err := os.Open(path)
	if err != nil {
		return connector.Record{}, format, fmt.Errorf("ошибка открытия файла %s: %w", path, err)
	}
	defer f.Close()

	rec, err := Read(f, format)
	if err != nil {
		return rec, format, fmt.Errorf("%s: %w", path, err)
	}
	return rec, format, nil
}

// Encode сериализует запись в указанном формате.
func Encode(rec connector.Record, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, rec, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write записывает запись в w. JSON пишется с отступами,
// YAML сохраняет порядок полей JSON-представления.
func Write(w io.Writer, rec connector.Record, format Format) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ошибка сериализации записи: %w", err)
	}

	if format == FormatYAML {
		var node yaml.Node
		if err := yaml.Unmarshal(raw, &node); err != nil {
			return fmt.Errorf("ошибка построения YAML: %w", err)
		}
		toBlockStyle(&node)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return fmt.Errorf("ошибка записи YAML: %w", err)
		}
		return enc.Close()
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("ошибка форматирования JSON: %w", err)
	}
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}

// WriteFile атомарно записывает запись в файл (запись во временный файл, затем rename).
// Права существующего файла сохраняются, новый файл создаётся с правами 0o644.
func WriteFile(path string, rec connector.Record, format Format) error {
	content, err := Encode(rec, format)
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode()
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".connector-*.tmp")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка записи временного файла: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка закрытия временного файла: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка установки прав на временный файл: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка переименования временного файла: %w", err)
	}
	return nil
}

// Backup копирует файл в path+".bak" с сохранением прав и времени модификации.
// Возвращает путь к резервной копии.
func Backup(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения файла для backup %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("ошибка получения информации о файле %s: %w", path, err)
	}

	backupPath := path + BackupSuffix
	if err := os.WriteFile(backupPath, content, info.Mode()); err != nil {
		return "", fmt.Errorf("ошибка создания backup %s: %w", backupPath, err)
	}
	if err := os.Chtimes(backupPath, info.ModTime(), info.ModTime()); err != nil {
		return "", fmt.Errorf("ошибка установки времени модификации backup %s: %w", backupPath, err)
	}
	return backupPath, nil
}

// yamlToJSON переводит YAML-документ в JSON.
// Ключи отображений должны быть строками.
func yamlToJSON(content []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("ошибка разбора YAML: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("YAML не представим в JSON (ключи должны быть строками): %w", err)
	}
	return raw, nil
}

// toBlockStyle переводит узлы, полученные из JSON (flow-стиль, строки в кавычках),
// в блочный YAML.
func toBlockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		toBlockStyle(child)
	}
}
