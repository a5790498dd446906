package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kargones/connector-migrator/internal/connector"
)

func TestClassifyExpression(t *testing.T) {
	tests := []struct {
		name string
		text string
		want connector.ExpressionType
	}{
		{"подстановка", "${value}", connector.ExpressionExpression},
		{"срез байтов", "[0:4]", connector.ExpressionExpression},
		{"подстановка внутри текста", "temp=${t}", connector.ExpressionExpression},
		{"константа", "atr", connector.ExpressionConstant},
		{"знак доллара без скобки", "$value", connector.ExpressionConstant},
		{"пустая строка", "", connector.ExpressionConstant},
		{"закрывающая скобка", "value]", connector.ExpressionConstant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyExpression(tt.text))
		})
	}
}

func TestClassifyOptional(t *testing.T) {
	assert.Empty(t, classifyOptional(""))
	assert.Equal(t, connector.ExpressionConstant, classifyOptional("atr"))
}

func TestOPCUAValueSource(t *testing.T) {
	tests := []struct {
		text string
		want connector.OPCUASourceType
	}{
		{"${ns=2;i=5}", connector.OPCUASourceIdentifier},
		{`Root\.Objects\.Device1`, connector.OPCUASourcePath},
		{"Root/Objects/Device1", connector.OPCUASourcePath},
		{"default", connector.OPCUASourceConstant},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, opcuaValueSource(tt.text))
		})
	}
}

func TestOptions_Normalized(t *testing.T) {
	assert.Equal(t, connector.DefaultReportPeriodMs, Options{}.normalized().DefaultKeyReportPeriod)
	assert.Equal(t, connector.DefaultReportPeriodMs, Options{DefaultKeyReportPeriod: -1}.normalized().DefaultKeyReportPeriod)
	assert.Equal(t, 250, Options{DefaultKeyReportPeriod: 250}.normalized().DefaultKeyReportPeriod)
}

func TestMapSlice_EmptyIsNil(t *testing.T) {
	assert.Nil(t, mapSlice([]int{}, func(i int) int { return i }))
	assert.Nil(t, mapSlice[int, int](nil, func(i int) int { return i }))
	assert.Equal(t, []int{2, 4}, mapSlice([]int{1, 2}, func(i int) int { return i * 2 }))
}
