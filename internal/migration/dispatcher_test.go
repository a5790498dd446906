package migration

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/connector-migrator/internal/connector"
	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
)

// stubProcessor — процессор для проверки реестра диспетчера.
type stubProcessor struct {
	connectorType connector.ConnectorType
	calls         int
}

func (s *stubProcessor) Type() connector.ConnectorType { return s.connectorType }

func (s *stubProcessor) Upgrade(rec connector.Record, target connector.ConfigVersion) (connector.Record, error) {
	s.calls++
	rec.ConfigVersion = target
	return rec, nil
}

func (s *stubProcessor) Downgrade(rec connector.Record, target connector.ConfigVersion) (connector.Record, error) {
	s.calls++
	rec.ConfigVersion = target
	return rec, nil
}

func TestDirectionOf(t *testing.T) {
	tests := []struct {
		name    string
		current connector.ConfigVersion
		target  connector.ConfigVersion
		want    Direction
	}{
		{"legacy -> current", connector.Legacy, connector.Current, DirectionUpgrade},
		{"legacy -> 3.5.2", connector.Legacy, connector.V3_5_2, DirectionUpgrade},
		{"current -> 3.5.2", connector.Current, connector.V3_5_2, DirectionDowngrade},
		{"3.5.2 -> legacy", connector.V3_5_2, connector.Legacy, DirectionDowngrade},
		{"current -> current", connector.Current, connector.Current, DirectionIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DirectionOf(tt.current, tt.target))
		})
	}
}

func TestNewDispatcher_BuiltinTypes(t *testing.T) {
	d := NewDispatcher()

	assert.Equal(t, []connector.ConnectorType{
		connector.Modbus, connector.MQTT, connector.OPCUA, connector.Socket,
	}, d.Types())

	for _, ct := range d.Types() {
		p, ok := d.Lookup(ct).Get()
		require.True(t, ok, "процессор для %s", ct)
		assert.Equal(t, ct, p.Type())
	}
	assert.False(t, d.Lookup(connector.GRPC).IsPresent())
}

func TestDispatcher_Register(t *testing.T) {
	d := NewDispatcher()

	require.NoError(t, d.Register(&stubProcessor{connectorType: connector.GRPC}))
	assert.True(t, d.Lookup(connector.GRPC).IsPresent())

	err := d.Register(&stubProcessor{connectorType: connector.MQTT})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	assert.Error(t, d.Register(nil))
}

func TestDispatcher_Resolve(t *testing.T) {
	d := NewDispatcher()

	t.Run("зарегистрированный тип", func(t *testing.T) {
		p, err := d.Resolve(connector.MQTT, connector.Legacy, connector.Current)
		require.NoError(t, err)
		assert.Equal(t, connector.MQTT, p.Type())
	})

	t.Run("незарегистрированный тип", func(t *testing.T) {
		p, err := d.Resolve(connector.BACnet, connector.Legacy, connector.Current)
		assert.Nil(t, p)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedConnectorType)
		assert.Equal(t, apperrors.ErrUnsupportedConnectorType, apperrors.CodeOf(err, ""))
	})

	t.Run("версия вне диапазона", func(t *testing.T) {
		_, err := d.Resolve(connector.MQTT, connector.Legacy, connector.ConfigVersion(42))
		assert.ErrorIs(t, err, ErrInvalidTargetVersion)
	})
}

func TestDispatcher_Migrate_Identity(t *testing.T) {
	d := NewDispatcher()
	stub := &stubProcessor{connectorType: connector.GRPC}
	require.NoError(t, d.Register(stub))

	rec := loadRecord(t, "mqtt_legacy.json")
	out, err := d.Migrate(context.Background(), rec, connector.Legacy)
	require.NoError(t, err)
	assert.JSONEq(t, recordJSON(t, rec), recordJSON(t, out))

	grpc := parseRecord(t, `{"name":"g","type":"grpc","logLevel":"INFO","configVersion":"3.5.4","configurationJson":{"server":{"port":9595}}}`)
	out, err = d.Migrate(context.Background(), grpc, connector.Current)
	require.NoError(t, err)
	assert.Equal(t, grpc, out)
	assert.Zero(t, stub.calls, "при совпадении версий процессор не вызывается")
}

func TestDispatcher_Migrate_UnsupportedType(t *testing.T) {
	d := NewDispatcher()
	rec := parseRecord(t, `{"name":"b","type":"bacnet","logLevel":"INFO","configurationJson":{"general":{}}}`)

	out, err := d.Migrate(context.Background(), rec, connector.Current)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedConnectorType)
	assert.Equal(t, connector.Record{}, out, "при ошибке запись не возвращается")

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Message, "bacnet")
}

func TestDispatcher_Migrate_RegisteredCustomProcessor(t *testing.T) {
	d := NewDispatcher()
	stub := &stubProcessor{connectorType: connector.GRPC}
	require.NoError(t, d.Register(stub))

	rec := parseRecord(t, `{"name":"g","type":"grpc","logLevel":"INFO","configVersion":"3.5.4"}`)
	out, err := d.Migrate(context.Background(), rec, connector.Legacy)
	require.NoError(t, err)
	assert.Equal(t, connector.Legacy, out.ConfigVersion)
	assert.Equal(t, 1, stub.calls)
}

func TestDispatcher_Migrate_Concurrent(t *testing.T) {
	d := NewDispatcher()
	rec := loadRecord(t, "mqtt_legacy.json")
	want := string(readFixture(t, "mqtt_current.golden.json"))

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := d.Migrate(context.Background(), rec, connector.Current)
			if err != nil {
				results[i] = err.Error()
				return
			}
			data, err := json.Marshal(out)
			if err != nil {
				results[i] = err.Error()
				return
			}
			results[i] = string(data)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.JSONEq(t, want, got)
	}
}

func TestParseTargetVersion(t *testing.T) {
	v, err := ParseTargetVersion("3.5.4")
	require.NoError(t, err)
	assert.Equal(t, connector.Current, v)

	_, err = ParseTargetVersion("latest")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTargetVersion)
	assert.ErrorIs(t, err, connector.ErrUnknownConfigVersion)
	assert.Equal(t, apperrors.ErrInvalidTargetVersion, apperrors.CodeOf(err, ""))
}
