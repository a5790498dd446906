package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectorType(t *testing.T) {
	assert.Len(t, KnownTypes(), 16)
	assert.True(t, MQTT.IsKnown())
	assert.False(t, ConnectorType("zigbee").IsKnown())
	assert.Equal(t, "OPCUA", OPCUA.DisplayName())
	assert.Equal(t, "MQTT", MQTT.DisplayName())

	types := KnownTypes()
	types[0] = "changed"
	assert.Equal(t, MQTT, KnownTypes()[0], "KnownTypes возвращает копию")
}

func TestReportStrategy(t *testing.T) {
	assert.Nil(t, OnChange().ReportPeriod)
	assert.Equal(t, ReportOnChange, OnChange().Type)
	assert.Equal(t, 1000, *OnReportPeriod(1000).ReportPeriod)

	var none *ReportStrategyConfig
	assert.Nil(t, none.SendsOnlyOnChange())
	assert.True(t, *OnChange().SendsOnlyOnChange())
	assert.False(t, *OnReportPeriod(1000).SendsOnlyOnChange())
}
