package version

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/connector-migrator/internal/config"
	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
	"github.com/Kargones/connector-migrator/internal/pkg/testutil"
)

func execute(t *testing.T, format string) *bytes.Buffer {
	t.Helper()
	cfg := config.Default()
	cfg.OutputFormat = format
	env, buf, _ := testutil.NewEnv(t, cfg)
	require.NoError(t, (&VersionHandler{}).Execute(context.Background(), env))
	return buf
}

func TestVersionHandler_Name(t *testing.T) {
	h := &VersionHandler{}
	assert.Equal(t, "version", h.Name())
	assert.Equal(t, constants.ActVersion, h.Name())
	assert.NotEmpty(t, h.Description())
}

func TestBuildVersionData_Fallbacks(t *testing.T) {
	d := buildVersionData("", "", nil)
	assert.Equal(t, "dev", d.Version)
	assert.Equal(t, "unknown", d.Commit)
	assert.Equal(t, runtime.Version(), d.GoVersion)
	assert.Empty(t, d.ConnectorTypes)
	assert.Equal(t, []string{"legacy", "3.5.2", "3.5.4"}, d.ConfigVersions)

	d = buildVersionData("1.2.0", "abc123", nil)
	assert.Equal(t, "1.2.0", d.Version)
	assert.Equal(t, "abc123", d.Commit)
}

func TestVersionHandler_Execute_TextOutput(t *testing.T) {
	out := execute(t, output.FormatText).String()

	assert.Contains(t, out, "connector-migrator version")
	assert.Contains(t, out, runtime.Version())
	assert.Contains(t, out, "modbus, mqtt, opcua, socket")
	assert.NotContains(t, out, "trace_id", "текстовый вывод без metadata")
}

func TestVersionHandler_Execute_JSONOutput(t *testing.T) {
	var data VersionData
	result := output.Result{Data: &data}
	require.NoError(t, json.Unmarshal(execute(t, output.FormatJSON).Bytes(), &result))

	assert.Equal(t, output.StatusSuccess, result.Status)
	assert.Equal(t, constants.ActVersion, result.Command)
	assert.Equal(t, runtime.Version(), data.GoVersion)
	assert.Equal(t, []string{"modbus", "mqtt", "opcua", "socket"}, data.ConnectorTypes)
	require.NotNil(t, result.Metadata)
	assert.NotEmpty(t, result.Metadata.TraceID)
}

// Сравниваются набор полей и их типы: версия и trace_id меняются.
func TestVersionHandler_GoldenJSON(t *testing.T) {
	var actual map[string]any
	require.NoError(t, json.Unmarshal(execute(t, output.FormatJSON).Bytes(), &actual))

	goldenData, err := os.ReadFile("testdata/version_json_output.golden")
	require.NoError(t, err)
	var golden map[string]any
	require.NoError(t, json.Unmarshal(goldenData, &golden))

	for _, section := range []string{"", "data", "metadata"} {
		want, got := golden, actual
		if section != "" {
			want, _ = golden[section].(map[string]any)
			got, _ = actual[section].(map[string]any)
			require.NotNil(t, got, "нет раздела %s", section)
		}
		for key, val := range want {
			require.Contains(t, got, key, "%s: нет поля %s", section, key)
			assert.IsType(t, val, got[key], "%s.%s", section, key)
		}
		for key := range got {
			assert.Contains(t, want, key, "%s: лишнее поле %s", section, key)
		}
	}
}

func TestVersionHandler_StdoutOnlyJSON(t *testing.T) {
	out := execute(t, output.FormatJSON)

	decoder := json.NewDecoder(bytes.NewReader(out.Bytes()))
	var result output.Result
	require.NoError(t, decoder.Decode(&result))

	var remaining bytes.Buffer
	_, err := remaining.ReadFrom(decoder.Buffered())
	require.NoError(t, err)
	assert.Empty(t, bytes.TrimSpace(remaining.Bytes()), "после JSON в stdout не должно быть лишнего текста")
}
