// Package apperrors предоставляет структурированные ошибки приложения.
// Переименован из errors чтобы избежать конфликта со стандартной библиотекой.
package apperrors

import (
	"errors"
	"fmt"
)

// Коды ошибок в иерархическом формате: CATEGORY.SPECIFIC_ERROR.
// Позволяет grep по категориям: `grep "MIGRATION\."` для всех ошибок миграции.
const (
	// Category: CONFIG — ошибки загрузки и парсинга конфигурации приложения.
	ErrConfigLoad     = "CONFIG.LOAD_FAILED"
	ErrConfigParse    = "CONFIG.PARSE_FAILED"
	ErrConfigValidate = "CONFIG.VALIDATION_FAILED"

	// Category: COMMAND — ошибки выполнения команд.
	ErrCommandNotFound = "COMMAND.NOT_FOUND"
	ErrCommandExec     = "COMMAND.EXEC_FAILED"

	// Category: OUTPUT — ошибки форматирования вывода.
	ErrOutputFormat = "OUTPUT.FORMAT_FAILED"

	// Category: RECORD — ошибки чтения и записи файлов записей коннекторов.
	ErrRecordRead  = "RECORD.READ_FAILED"
	ErrRecordWrite = "RECORD.WRITE_FAILED"

	// Category: MIGRATION — ошибки миграции схемы конфигурации коннектора.
	ErrUnsupportedConnectorType = "MIGRATION.UNSUPPORTED_CONNECTOR_TYPE"
	ErrMalformedSourceConfig    = "MIGRATION.MALFORMED_SOURCE_CONFIG"
	ErrInvalidTargetVersion     = "MIGRATION.INVALID_TARGET_VERSION"

	// Category: SCHEMA — запись не соответствует JSON Schema целевой версии.
	ErrSchemaValidation = "SCHEMA.VALIDATION_FAILED"
)

// AppError представляет структурированную ошибку приложения.
// Реализует error interface и поддерживает wrapping через Unwrap().
//
// ВАЖНО: Message НЕ ДОЛЖЕН содержать секреты (пароли, токены, ключи).
//
// Пример использования:
//
//	return apperrors.NewAppError(apperrors.ErrUnsupportedConnectorType,
//	    "для типа коннектора grpc не зарегистрирован процессор версий",
//	    migration.ErrUnsupportedConnectorType)
type AppError struct {
	// Code — машиночитаемый код ошибки в формате CATEGORY.SPECIFIC.
	Code string `json:"code"`

	// Message — человекочитаемое описание ошибки.
	Message string `json:"message"`

	// Cause — wrapped оригинальная ошибка.
	// Не сериализуется в JSON: может содержать фрагменты пользовательской конфигурации.
	Cause error `json:"-"`
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает wrapped ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError создаёт новый AppError с заданным кодом, сообщением и причиной.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf возвращает код первого AppError в цепочке err.
// Если AppError в цепочке нет, возвращается fallback.
func CodeOf(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return fallback
}

// MessageOf возвращает Message первого AppError в цепочке err
// или текст самой ошибки.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
