// Package logging — структурированное логирование поверх log/slog.
package logging

// Logger — интерфейс логгера, которым пользуются все пакеты модуля.
//
// Аргументы после сообщения — пары ключ-значение:
//
//	logger.Info("Запись мигрирована", "type", "mqtt", "to", "3.5.4")
//
// Логи пишутся в stderr или файл и никогда в stdout: stdout занят
// результатом команды (output.Writer) или мигрированной записью.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With возвращает логгер, добавляющий args ко всем записям.
	With(args ...any) Logger
}
