// Package testutil содержит общие утилиты тестов обработчиков и бинарника.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kargones/connector-migrator/internal/pkg/output"
)

// CaptureStdout выполняет fn с подменённым os.Stdout и возвращает всё,
// что было записано. Pipe читается параллельно с fn: отчёт пакетной
// миграции может не поместиться в буфер pipe.
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err, "не удалось создать pipe для stdout")

	done := make(chan []byte, 1)
	go func() {
		data, _ := io.ReadAll(r) //nolint:errcheck // ошибка чтения проявится пустым выводом
		done <- data
	}()

	saved := os.Stdout
	os.Stdout = w
	func() {
		defer func() { os.Stdout = saved }()
		fn()
	}()
	require.NoError(t, w.Close())

	data := <-done
	require.NoError(t, r.Close())
	return string(data)
}

// DecodeResult разбирает JSON-результат команды, декодируя data в D.
func DecodeResult[D any](t *testing.T, raw []byte) (output.Result, D) {
	t.Helper()
	var data D
	res := output.Result{Data: &data}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(raw), &res), string(raw))
	return res, data
}
