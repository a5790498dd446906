package testutil

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kargones/connector-migrator/internal/command"
	"github.com/Kargones/connector-migrator/internal/config"
	"github.com/Kargones/connector-migrator/internal/connector/schema"
	"github.com/Kargones/connector-migrator/internal/migration"
	"github.com/Kargones/connector-migrator/internal/pkg/logging"
	"github.com/Kargones/connector-migrator/internal/pkg/metrics"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
)

// NewEnv собирает command.Env для тестов обработчиков: встроенный диспетчер,
// валидатор схем, NopLogger и RecordingCollector. Результат команды пишется
// в возвращаемый буфер. nil cfg заменяется на config.Default().
func NewEnv(t *testing.T, cfg *config.Config) (*command.Env, *bytes.Buffer, *RecordingCollector) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	validator, err := schema.NewValidator()
	require.NoError(t, err)

	var buf bytes.Buffer
	collector := &RecordingCollector{}
	return &command.Env{
		Config:     cfg,
		Logger:     logging.NewNopLogger(),
		Writer:     output.NewWriter(cfg.OutputFormat),
		Dispatcher: migration.NewDispatcher(),
		Validator:  validator,
		Metrics:    collector,
		Stdout:     &buf,
	}, &buf, collector
}

// MigrationCall — один вызов RecordMigration.
type MigrationCall struct {
	ConnectorType string
	Direction     string
	Outcome       string
}

// RecordingCollector запоминает вызовы metrics.Collector.
type RecordingCollector struct {
	mu         sync.Mutex
	Migrations []MigrationCall
	Commands   []string
}

var _ metrics.Collector = (*RecordingCollector)(nil)

func (c *RecordingCollector) RecordCommand(command string, _ time.Duration, _ bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Commands = append(c.Commands, command)
}

func (c *RecordingCollector) RecordMigration(connectorType, direction, outcome string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Migrations = append(c.Migrations, MigrationCall{connectorType, direction, outcome})
}

func (c *RecordingCollector) Push(context.Context) error { return nil }
