package validatehandler

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/connector-migrator/internal/config"
	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
	"github.com/Kargones/connector-migrator/internal/pkg/testutil"
)

func writeRecord(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, path string) (output.Result, Report, error) {
	t.Helper()
	cfg := config.Default()
	cfg.InputPath = path
	cfg.OutputFormat = output.FormatJSON
	env, buf, _ := testutil.NewEnv(t, cfg)

	err := (&ValidateHandler{}).Execute(context.Background(), env)

	var report Report
	res := output.Result{Data: &report}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res), buf.String())
	return res, report, err
}

func TestValidate_ValidYAML(t *testing.T) {
	path := writeRecord(t, "socket.yaml", `name: TCP
type: socket
logLevel: INFO
configVersion: 3.5.4
configurationJson:
  socket:
    type: TCP
    address: 127.0.0.1
    port: 50000
`)

	res, report, err := run(t, path)
	require.NoError(t, err)
	assert.Equal(t, output.StatusSuccess, res.Status)
	assert.True(t, report.Valid)
	assert.True(t, report.SchemaAvailable)
	assert.Equal(t, "modern", report.Shape)
	assert.Equal(t, "3.5.4", report.ConfigVersion)
}

func TestValidate_UnknownFieldRejected(t *testing.T) {
	path := writeRecord(t, "socket.json", `{"name":"TCP","type":"socket","logLevel":"INFO","configVersion":"3.5.4",
"configurationJson":{"socket":{"type":"TCP","address":"127.0.0.1","port":50000},"unexpected":true}}`)

	res, report, err := run(t, path)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrSchemaValidation, apperrors.CodeOf(err, ""))
	assert.Equal(t, output.StatusError, res.Status)
	assert.False(t, report.Valid)
	assert.Equal(t, "socket", report.Type)
}

func TestValidate_TypeWithoutSchemaChecksEnvelopeOnly(t *testing.T) {
	path := writeRecord(t, "ble.json", `{"name":"BLE","type":"ble","logLevel":"INFO","configurationJson":{"anything":1}}`)

	_, report, err := run(t, path)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.False(t, report.SchemaAvailable)
}

func TestValidate_Errors(t *testing.T) {
	cfg := config.Default()
	env, _, _ := testutil.NewEnv(t, cfg)
	err := (&ValidateHandler{}).Execute(context.Background(), env)
	assert.Equal(t, apperrors.ErrConfigValidate, apperrors.CodeOf(err, ""))

	cfg.InputPath = filepath.Join(t.TempDir(), "missing.json")
	err = (&ValidateHandler{}).Execute(context.Background(), env)
	assert.Equal(t, apperrors.ErrRecordRead, apperrors.CodeOf(err, ""))
}
