package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		expected string
	}{
		{"ErrConfigLoad", ErrConfigLoad, "CONFIG.LOAD_FAILED"},
		{"ErrConfigValidate", ErrConfigValidate, "CONFIG.VALIDATION_FAILED"},
		{"ErrCommandNotFound", ErrCommandNotFound, "COMMAND.NOT_FOUND"},
		{"ErrRecordRead", ErrRecordRead, "RECORD.READ_FAILED"},
		{"ErrUnsupportedConnectorType", ErrUnsupportedConnectorType, "MIGRATION.UNSUPPORTED_CONNECTOR_TYPE"},
		{"ErrMalformedSourceConfig", ErrMalformedSourceConfig, "MIGRATION.MALFORMED_SOURCE_CONFIG"},
		{"ErrInvalidTargetVersion", ErrInvalidTargetVersion, "MIGRATION.INVALID_TARGET_VERSION"},
		{"ErrSchemaValidation", ErrSchemaValidation, "SCHEMA.VALIDATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.constant)
		})
	}
}

func TestAppError_Error(t *testing.T) {
	withCause := NewAppError(ErrRecordRead, "не удалось прочитать запись", errors.New("файл не найден"))
	assert.Equal(t, "RECORD.READ_FAILED: не удалось прочитать запись (файл не найден)", withCause.Error())

	withoutCause := NewAppError(ErrRecordRead, "не удалось прочитать запись", nil)
	assert.Equal(t, "RECORD.READ_FAILED: не удалось прочитать запись", withoutCause.Error())
}

func TestAppError_ErrorsIs(t *testing.T) {
	sentinel := errors.New("unsupported connector type")
	appErr := NewAppError(ErrUnsupportedConnectorType, "тип grpc не поддерживается", sentinel)

	wrapped := fmt.Errorf("migrate: %w", appErr)
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.Nil(t, NewAppError(ErrConfigLoad, "x", nil).Unwrap())
}

func TestCodeOf(t *testing.T) {
	appErr := NewAppError(ErrInvalidTargetVersion, "неизвестная версия", nil)

	assert.Equal(t, ErrInvalidTargetVersion, CodeOf(fmt.Errorf("wrap: %w", appErr), ErrCommandExec))
	assert.Equal(t, ErrCommandExec, CodeOf(errors.New("plain"), ErrCommandExec))
}

func TestMessageOf(t *testing.T) {
	appErr := NewAppError(ErrSchemaValidation, "запись не соответствует схеме", errors.New("details"))

	assert.Equal(t, "запись не соответствует схеме", MessageOf(fmt.Errorf("wrap: %w", appErr)))
	assert.Equal(t, "plain", MessageOf(errors.New("plain")))
}

func TestAppError_JSON_Serialization(t *testing.T) {
	appErr := NewAppError(ErrMalformedSourceConfig, "configurationJson отсутствует", errors.New("secret"))

	data, err := json.Marshal(appErr)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, ErrMalformedSourceConfig, parsed["code"])
	assert.Equal(t, "configurationJson отсутствует", parsed["message"])
	_, hasCause := parsed["cause"]
	assert.False(t, hasCause, "Cause не должен сериализоваться в JSON")
}
