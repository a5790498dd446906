package migratehandler

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/connector-migrator/internal/connector"
	"github.com/Kargones/connector-migrator/internal/connector/recordfile"
	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
	"github.com/Kargones/connector-migrator/internal/pkg/metrics"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
	"github.com/Kargones/connector-migrator/internal/pkg/testutil"
)

// prepareBatchDir создаёт каталог с записями:
// mqtt.json (legacy), sub/socket.yaml (3.5.2), notes.txt.
func prepareBatchDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	copyFixture(t, "mqtt_legacy.json", root, "mqtt.json")

	socket, _, err := recordfile.ReadFile(filepath.Join("testdata", "socket_v352.json"))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o750))
	require.NoError(t, recordfile.WriteFile(filepath.Join(root, "sub", "socket.yaml"), socket, recordfile.FormatYAML))

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("not a record"), 0o600))
	return root
}

func TestScanRecords(t *testing.T) {
	root := prepareBatchDir(t)
	outDir := filepath.Join(root, "migrated")
	copyFixture(t, "mqtt_legacy.json", outDir, "old.json")

	files, err := scanRecords(root, outDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "mqtt.json"),
		filepath.Join(root, "sub", "socket.yaml"),
	}, files)

	_, err = scanRecords(filepath.Join(root, "missing"), "")
	assert.Error(t, err)
}

func TestMigrate_BatchToOutputDir(t *testing.T) {
	t.Setenv(constants.EnvShowProgress, "false")
	root := prepareBatchDir(t)
	outDir := filepath.Join(t.TempDir(), "out")

	cfg := jsonConfig(root)
	cfg.OutputPath = outDir
	cfg.MigrationConfig.Workers = 2
	env, buf, collector := testutil.NewEnv(t, cfg)

	require.NoError(t, (&MigrateHandler{}).Execute(context.Background(), env))

	res, report := decodeResult[BatchReport](t, buf)
	assert.Equal(t, output.StatusSuccess, res.Status)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Migrated)
	assert.Zero(t, report.Failed)
	require.Len(t, report.Files, 2)
	assert.Equal(t, filepath.Join(root, "mqtt.json"), report.Files[0].Path, "порядок отчёта совпадает с порядком файлов")

	for _, rel := range []string{"mqtt.json", filepath.Join("sub", "socket.yaml")} {
		rec, _, err := recordfile.ReadFile(filepath.Join(outDir, rel))
		require.NoError(t, err, rel)
		assert.Equal(t, connector.Current, rec.ConfigVersion, rel)
	}
	assert.Len(t, collector.Migrations, 2)
}

func TestMigrate_BatchPartialFailure(t *testing.T) {
	t.Setenv(constants.EnvShowProgress, "false")
	root := prepareBatchDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "bacnet.json"),
		[]byte(`{"name":"b","type":"bacnet","logLevel":"INFO","configurationJson":{}}`), 0o600))

	cfg := jsonConfig(root)
	cfg.InPlace = true
	cfg.MigrationConfig.Backup = false
	env, buf, _ := testutil.NewEnv(t, cfg)

	err := (&MigrateHandler{}).Execute(context.Background(), env)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCommandExec, apperrors.CodeOf(err, ""))

	res, report := decodeResult[BatchReport](t, buf)
	assert.Equal(t, output.StatusError, res.Status)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 2, report.Migrated)

	failed := report.Files[0]
	assert.Equal(t, filepath.Join(root, "bacnet.json"), failed.Path)
	assert.Equal(t, metrics.OutcomeFailed, failed.Outcome)
	require.NotNil(t, failed.Error)
	assert.Equal(t, apperrors.ErrUnsupportedConnectorType, failed.Error.Code)

	rec, _, err := recordfile.ReadFile(filepath.Join(root, "mqtt.json"))
	require.NoError(t, err)
	assert.Equal(t, connector.Current, rec.ConfigVersion, "остальные файлы мигрированы на месте")
	assert.NoFileExists(t, filepath.Join(root, "mqtt.json"+recordfile.BackupSuffix))
}

func TestMigrate_BatchDryRun(t *testing.T) {
	t.Setenv(constants.EnvShowProgress, "false")
	t.Setenv(constants.EnvDryRun, "1")
	root := prepareBatchDir(t)

	cfg := jsonConfig(root)
	cfg.InPlace = true
	env, buf, _ := testutil.NewEnv(t, cfg)

	require.NoError(t, (&MigrateHandler{}).Execute(context.Background(), env))

	var res output.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.True(t, res.DryRun)
	require.NotNil(t, res.Plan)
	assert.Len(t, res.Plan.Steps, 2)

	rec, _, err := recordfile.ReadFile(filepath.Join(root, "mqtt.json"))
	require.NoError(t, err)
	assert.Equal(t, connector.Legacy, rec.ConfigVersion)
}

func TestMigrate_BatchRequiresDestination(t *testing.T) {
	env, _, _ := testutil.NewEnv(t, jsonConfig(prepareBatchDir(t)))

	err := (&MigrateHandler{}).Execute(context.Background(), env)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrConfigValidate, apperrors.CodeOf(err, ""))
}

func TestMigrate_BatchCanceledContext(t *testing.T) {
	t.Setenv(constants.EnvShowProgress, "false")
	cfg := jsonConfig(prepareBatchDir(t))
	cfg.OutputPath = t.TempDir()
	env, _, _ := testutil.NewEnv(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := (&MigrateHandler{}).Execute(ctx, env)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
