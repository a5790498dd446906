package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/connector-migrator/internal/connector"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	require.NoError(t, err)
	return v
}

func TestNewValidator_Schemas(t *testing.T) {
	v := newTestValidator(t)

	for _, typ := range connector.TypedTypes() {
		assert.True(t, v.HasSchema(typ, connector.ShapeLegacy), typ)
		assert.True(t, v.HasSchema(typ, connector.ShapeModern), typ)
	}
	assert.False(t, v.HasSchema(connector.BLE, connector.ShapeModern))
}

func TestValidateDocument(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "legacy mqtt",
			doc: `{"name": "m", "type": "mqtt", "logLevel": "INFO", "configVersion": "legacy", "sendDataOnlyOnChange": false,
				"configurationJson": {"connectRequests": [], "disconnectRequests": [], "attributeRequests": [], "attributeUpdates": [], "serverSideRpc": []}}`,
		},
		{
			name: "modern mqtt",
			doc: `{"name": "m", "type": "mqtt", "logLevel": "INFO", "configVersion": "3.5.4", "reportStrategy": {"type": "ON_CHANGE"},
				"configurationJson": {"requestsMapping": {"connectRequests": [{"topicFilter": "a"}]}}}`,
		},
		{
			name:    "legacy-поля в modern-форме",
			doc:     `{"name": "m", "type": "mqtt", "logLevel": "INFO", "configVersion": "3.5.4", "configurationJson": {"connectRequests": []}}`,
			wantErr: "configurationJson mqtt/modern",
		},
		{
			name:    "пустой requestsMapping",
			doc:     `{"name": "m", "type": "mqtt", "logLevel": "INFO", "configVersion": "3.5.2", "configurationJson": {"requestsMapping": {}}}`,
			wantErr: "configurationJson mqtt/modern",
		},
		{
			name:    "reportStrategy в legacy-записи",
			doc:     `{"name": "m", "type": "modbus", "logLevel": "INFO", "reportStrategy": {"type": "ON_CHANGE"}}`,
			wantErr: "конверт записи",
		},
		{
			name:    "sendDataOnlyOnChange в modern-записи",
			doc:     `{"name": "m", "type": "modbus", "logLevel": "INFO", "configVersion": "3.5.2", "sendDataOnlyOnChange": true}`,
			wantErr: "конверт записи",
		},
		{
			name:    "неизвестный тип",
			doc:     `{"name": "m", "type": "zigbee"}`,
			wantErr: "конверт записи",
		},
		{
			name: "тип без схемы конфигурации",
			doc:  `{"name": "b", "type": "ble", "configVersion": "3.5.4", "configurationJson": {"anything": true}}`,
		},
		{
			name:    "socket 3.5.4 в плоской форме",
			doc:     `{"name": "s", "type": "socket", "configVersion": "3.5.4", "configurationJson": {"type": "TCP", "devices": []}}`,
			wantErr: "configurationJson socket/modern",
		},
		{
			name:    "неверный functionCode",
			doc:     `{"name": "mb", "type": "modbus", "configVersion": "3.5.4", "configurationJson": {"master": {"slaves": [{"unitId": 1, "timeseries": [{"tag": "t", "address": 0, "functionCode": 7}]}]}}}`,
			wantErr: "configurationJson modbus/modern",
		},
		{
			name:    "не JSON",
			doc:     `{"name":`,
			wantErr: "не является корректным JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDocument([]byte(tt.doc))
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	v := newTestValidator(t)

	assert.NoError(t, v.ValidateConfig(connector.OPCUAConfig{Server: &connector.OPCUAServer{EnableSubscriptions: true}}))
	assert.NoError(t, v.ValidateConfig(connector.RawConfig{Type: connector.CAN, JSON: []byte(`{}`)}))

	err := v.ValidateConfig(connector.SocketConfig{Socket: &connector.SocketSettings{Type: "SCTP"}})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidateRecord(t *testing.T) {
	v := newTestValidator(t)

	rec := connector.Record{
		Name:          "Socket",
		Type:          connector.Socket,
		LogLevel:      "INFO",
		ConfigVersion: connector.Current,
		Config: connector.SocketConfig{
			Socket: &connector.SocketSettings{Type: "TCP", Address: "127.0.0.1", Port: 50000, BufferSize: 1024},
		},
	}
	assert.NoError(t, v.ValidateRecord(rec))

	rec.Config = connector.SocketConfig{Socket: &connector.SocketSettings{}}
	assert.ErrorIs(t, v.ValidateRecord(rec), ErrValidationFailed, "пустой socket должен удаляться")
}
