package migratehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/connector-migrator/internal/config"
	"github.com/Kargones/connector-migrator/internal/connector"
	"github.com/Kargones/connector-migrator/internal/connector/recordfile"
	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
	"github.com/Kargones/connector-migrator/internal/pkg/metrics"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
	"github.com/Kargones/connector-migrator/internal/pkg/testutil"
)

// copyFixture копирует файл из testdata в dir под именем name.
func copyFixture(t *testing.T, fixture, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", fixture))
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// jsonConfig возвращает конфигурацию с выводом результата в JSON.
func jsonConfig(input string) *config.Config {
	cfg := config.Default()
	cfg.InputPath = input
	cfg.OutputFormat = output.FormatJSON
	return cfg
}

// decodeResult разбирает результат команды с data типа D.
func decodeResult[D any](t *testing.T, buf *bytes.Buffer) (output.Result, D) {
	t.Helper()
	return testutil.DecodeResult[D](t, buf.Bytes())
}

func TestMigrateHandler_Metadata(t *testing.T) {
	h := &MigrateHandler{}
	assert.Equal(t, constants.ActMigrate, h.Name())
	assert.NotEmpty(t, h.Description())
}

func TestMigrate_FileToOutputPath(t *testing.T) {
	dir := t.TempDir()
	in := copyFixture(t, "mqtt_legacy.json", dir, "mqtt.json")
	outPath := filepath.Join(dir, "out", "mqtt.yaml")

	cfg := jsonConfig(in)
	cfg.OutputPath = outPath
	env, buf, collector := testutil.NewEnv(t, cfg)

	require.NoError(t, (&MigrateHandler{}).Execute(context.Background(), env))

	res, report := decodeResult[FileReport](t, buf)
	assert.Equal(t, output.StatusSuccess, res.Status)
	assert.Equal(t, metrics.OutcomeMigrated, report.Outcome)
	assert.Equal(t, "legacy", report.From)
	assert.Equal(t, "3.5.4", report.To)
	assert.Equal(t, "upgrade", report.Direction)
	assert.Equal(t, outPath, report.OutputPath)
	assert.Contains(t, report.Changes, "- connectRequests")
	assert.Contains(t, report.Changes, "+ requestsMapping")

	rec, format, err := recordfile.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, recordfile.FormatYAML, format, "формат определяется расширением выходного файла")
	assert.Equal(t, connector.Current, rec.ConfigVersion)
	assert.NoError(t, env.Validator.ValidateRecord(rec))

	require.Len(t, collector.Migrations, 1)
	assert.Equal(t, testutil.MigrationCall{ConnectorType: "mqtt", Direction: "upgrade", Outcome: "migrated"}, collector.Migrations[0])

	original, err := os.ReadFile(filepath.Join("testdata", "mqtt_legacy.json"))
	require.NoError(t, err)
	current, err := os.ReadFile(in)
	require.NoError(t, err)
	assert.Equal(t, original, current, "исходный файл не изменяется")
}

func TestMigrate_StdoutText(t *testing.T) {
	in := copyFixture(t, "mqtt_legacy.json", t.TempDir(), "mqtt.json")
	cfg := config.Default()
	cfg.InputPath = in
	env, buf, _ := testutil.NewEnv(t, cfg)

	require.NoError(t, (&MigrateHandler{}).Execute(context.Background(), env))

	var rec connector.Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), "в stdout только запись")
	assert.Equal(t, connector.Current, rec.ConfigVersion)
}

func TestMigrate_StdoutJSONEmbedsRecord(t *testing.T) {
	in := copyFixture(t, "mqtt_legacy.json", t.TempDir(), "mqtt.json")
	env, buf, _ := testutil.NewEnv(t, jsonConfig(in))

	require.NoError(t, (&MigrateHandler{}).Execute(context.Background(), env))

	_, report := decodeResult[FileReport](t, buf)
	require.NotEmpty(t, report.Record)
	var rec connector.Record
	require.NoError(t, json.Unmarshal(report.Record, &rec))
	assert.Equal(t, connector.Current, rec.ConfigVersion)
	assert.Empty(t, report.OutputPath)
}

func TestMigrate_InPlaceWithBackup(t *testing.T) {
	in := copyFixture(t, "socket_v352.json", t.TempDir(), "socket.json")
	original, err := os.ReadFile(in)
	require.NoError(t, err)

	cfg := jsonConfig(in)
	cfg.InPlace = true
	env, buf, _ := testutil.NewEnv(t, cfg)

	require.NoError(t, (&MigrateHandler{}).Execute(context.Background(), env))

	_, report := decodeResult[FileReport](t, buf)
	assert.Equal(t, in+recordfile.BackupSuffix, report.BackupPath)
	assert.Equal(t, in, report.OutputPath)

	backup, err := os.ReadFile(report.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, original, backup)

	info, err := os.Stat(in)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "права исходного файла сохраняются")

	rec, _, err := recordfile.ReadFile(in)
	require.NoError(t, err)
	assert.Equal(t, connector.Current, rec.ConfigVersion)
}

func TestMigrate_InPlaceIdentityDoesNotTouchFile(t *testing.T) {
	in := copyFixture(t, "socket_v352.json", t.TempDir(), "socket.json")
	original, err := os.ReadFile(in)
	require.NoError(t, err)

	cfg := jsonConfig(in)
	cfg.InPlace = true
	cfg.TargetVersion = "3.5.2"
	env, buf, collector := testutil.NewEnv(t, cfg)

	require.NoError(t, (&MigrateHandler{}).Execute(context.Background(), env))

	_, report := decodeResult[FileReport](t, buf)
	assert.Equal(t, metrics.OutcomeUnchanged, report.Outcome)
	assert.Empty(t, report.BackupPath)
	assert.NoFileExists(t, in+recordfile.BackupSuffix)

	current, err := os.ReadFile(in)
	require.NoError(t, err)
	assert.Equal(t, original, current)
	assert.Equal(t, "identity", collector.Migrations[0].Direction)
}

func TestMigrate_DryRun(t *testing.T) {
	t.Setenv(constants.EnvDryRun, "true")
	in := copyFixture(t, "mqtt_legacy.json", t.TempDir(), "mqtt.json")

	cfg := jsonConfig(in)
	cfg.InPlace = true
	env, buf, _ := testutil.NewEnv(t, cfg)

	require.NoError(t, (&MigrateHandler{}).Execute(context.Background(), env))

	var res output.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.True(t, res.DryRun)
	require.NotNil(t, res.Plan)
	require.Len(t, res.Plan.Steps, 5)
	assert.Equal(t, "Миграция", res.Plan.Steps[1].Operation)
	assert.Contains(t, res.Plan.Steps[1].ExpectedChanges, "+ requestsMapping")
	assert.False(t, res.Plan.Steps[3].Skipped, "резервная копия в плане при перезаписи на месте")

	assert.NoFileExists(t, in+recordfile.BackupSuffix)
	rec, _, err := recordfile.ReadFile(in)
	require.NoError(t, err)
	assert.Equal(t, connector.Legacy, rec.ConfigVersion, "dry-run не пишет файлы")
}

func TestMigrate_Errors(t *testing.T) {
	dir := t.TempDir()
	bacnet := filepath.Join(dir, "bacnet.json")
	require.NoError(t, os.WriteFile(bacnet,
		[]byte(`{"name":"b","type":"bacnet","logLevel":"INFO","configurationJson":{"general":{}}}`), 0o600))
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"name":`), 0o600))
	mqtt := copyFixture(t, "mqtt_legacy.json", dir, "mqtt.json")
	unknownField := filepath.Join(dir, "unknown.json")
	require.NoError(t, os.WriteFile(unknownField,
		[]byte(`{"name":"m","type":"mqtt","logLevel":"INFO","configurationJson":{"connectRequests":[{"topic":"a"}]}}`), 0o600))

	tests := []struct {
		name     string
		input    string
		target   string
		wantCode string
	}{
		{"не задан путь", "", "3.5.4", apperrors.ErrConfigValidate},
		{"файл не существует", filepath.Join(dir, "missing.json"), "3.5.4", apperrors.ErrRecordRead},
		{"битый JSON", broken, "3.5.4", apperrors.ErrRecordRead},
		{"неизвестная версия", mqtt, "latest", apperrors.ErrInvalidTargetVersion},
		{"тип без процессора", bacnet, "3.5.4", apperrors.ErrUnsupportedConnectorType},
		{"поле вне модели конфигурации", unknownField, "3.5.4", apperrors.ErrMalformedSourceConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := jsonConfig(tt.input)
			cfg.TargetVersion = tt.target
			env, buf, _ := testutil.NewEnv(t, cfg)

			err := (&MigrateHandler{}).Execute(context.Background(), env)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err, ""))

			var res output.Result
			require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
			assert.Equal(t, output.StatusError, res.Status)
			require.NotNil(t, res.Error)
			assert.Equal(t, tt.wantCode, res.Error.Code)
		})
	}
}

func TestMigrate_UnsupportedTypeRecordsFailedMetric(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grpc.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"name":"g","type":"grpc","logLevel":"INFO","configVersion":"3.5.4","configurationJson":{}}`), 0o600))

	cfg := jsonConfig(path)
	cfg.TargetVersion = "legacy"
	env, _, collector := testutil.NewEnv(t, cfg)

	require.Error(t, (&MigrateHandler{}).Execute(context.Background(), env))
	require.Len(t, collector.Migrations, 1)
	assert.Equal(t, testutil.MigrationCall{ConnectorType: "grpc", Direction: "downgrade", Outcome: "failed"}, collector.Migrations[0])
}
