package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/connector-migrator/internal/command"
	"github.com/Kargones/connector-migrator/internal/config"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
	"github.com/Kargones/connector-migrator/internal/pkg/testutil"
)

// smokeResult — минимальная структура JSON-результата.
// output.Result не используется: проверяется сам формат вывода.
type smokeResult struct {
	Status  string          `json:"status"`
	Command string          `json:"command"`
	Error   *smokeErrorInfo `json:"error,omitempty"`
	DryRun  bool            `json:"dry_run,omitempty"`
}

type smokeErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decodeSingle проверяет, что в buf ровно один JSON-объект.
func decodeSingle(t *testing.T, buf *bytes.Buffer) smokeResult {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(buf.Bytes()))
	var res smokeResult
	require.NoError(t, dec.Decode(&res), "вывод должен быть JSON: %s", buf.String())
	assert.False(t, dec.More(), "после результата не должно быть вывода")
	return res
}

// Без CM_INPUT_PATH команды над записями завершаются ошибкой конфигурации,
// остальные — успехом. В обоих случаях печатается Result.
func TestSmoke_JSONOutputWithoutInput(t *testing.T) {
	tests := []struct {
		command  string
		wantErr  bool
		wantCode string
	}{
		{"migrate", true, "CONFIG.VALIDATION_FAILED"},
		{"validate", true, "CONFIG.VALIDATION_FAILED"},
		{"inspect", true, "CONFIG.VALIDATION_FAILED"},
		{"version", false, ""},
		{"help", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			h, ok := command.Get(tt.command)
			require.True(t, ok)

			cfg := config.Default()
			cfg.OutputFormat = output.FormatJSON
			env, buf, _ := testutil.NewEnv(t, cfg)

			err := h.Execute(context.Background(), env)
			res := decodeSingle(t, buf)
			assert.Equal(t, tt.command, res.Command)

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, output.StatusSuccess, res.Status)
				assert.Nil(t, res.Error)
				return
			}
			require.Error(t, err)
			assert.Equal(t, output.StatusError, res.Status)
			require.NotNil(t, res.Error)
			assert.Equal(t, tt.wantCode, res.Error.Code)
			assert.NotEmpty(t, res.Error.Message)
		})
	}
}

func TestSmoke_MigrateDryRun(t *testing.T) {
	t.Setenv("CM_DRY_RUN", "true")

	h, ok := command.Get("migrate")
	require.True(t, ok)

	cfg := config.Default()
	cfg.OutputFormat = output.FormatJSON
	cfg.InputPath = "../command/handlers/migratehandler/testdata/mqtt_legacy.json"
	env, buf, _ := testutil.NewEnv(t, cfg)

	require.NoError(t, h.Execute(context.Background(), env))
	res := decodeSingle(t, buf)
	assert.Equal(t, output.StatusSuccess, res.Status)
	assert.True(t, res.DryRun)
}
