package migration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kargones/connector-migrator/internal/connector"
)

// readFixture читает файл из testdata.
func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

// loadRecord декодирует запись коннектора из файла testdata.
func loadRecord(t *testing.T, name string) connector.Record {
	t.Helper()
	return parseRecord(t, string(readFixture(t, name)))
}

// parseRecord декодирует запись коннектора из JSON-строки.
func parseRecord(t *testing.T, doc string) connector.Record {
	t.Helper()
	var rec connector.Record
	require.NoError(t, json.Unmarshal([]byte(doc), &rec))
	return rec
}

// recordJSON сериализует запись целиком.
func recordJSON(t *testing.T, rec connector.Record) string {
	t.Helper()
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	return string(data)
}

// configJSON сериализует только configurationJson записи.
func configJSON(t *testing.T, rec connector.Record) string {
	t.Helper()
	require.NotNil(t, rec.Config, "configurationJson отсутствует")
	data, err := json.Marshal(rec.Config)
	require.NoError(t, err)
	return string(data)
}

// scramble изменяет на месте всё, до чего можно дотянуться из v:
// строки, числа и флаги, элементы срезов, значения map и байты JSON.
// Если результат разделяет память со входом, вход изменится вместе с ним.
func scramble(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			scramble(v.Elem())
		}
	case reflect.Interface:
		if v.IsNil() {
			return
		}
		// значение в интерфейсе неадресуемо: меняется копия и кладётся обратно
		if v.CanSet() {
			c := reflect.New(v.Elem().Type()).Elem()
			c.Set(v.Elem())
			scramble(c)
			v.Set(c)
			return
		}
		scramble(v.Elem())
	case reflect.Struct:
		for i := range v.NumField() {
			if v.Type().Field(i).IsExported() {
				scramble(v.Field(i))
			}
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			scramble(v.Index(i))
		}
	case reflect.Map:
		for _, key := range v.MapKeys() {
			item := reflect.New(v.Type().Elem()).Elem()
			item.Set(v.MapIndex(key))
			scramble(item)
			v.SetMapIndex(key, item)
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(v.String() + "~")
		}
	case reflect.Bool:
		if v.CanSet() {
			v.SetBool(!v.Bool())
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.CanSet() {
			v.SetInt(v.Int() + 1)
		}
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		if v.CanSet() {
			v.SetUint(v.Uint() + 1)
		}
	case reflect.Float32, reflect.Float64:
		if v.CanSet() {
			v.SetFloat(v.Float() + 1)
		}
	}
}
