package logging

// NopLogger отбрасывает все сообщения. Используется по умолчанию
// в Dispatcher и в тестах.
type NopLogger struct{}

// NewNopLogger возвращает Logger без вывода.
func NewNopLogger() Logger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(_ string, _ ...any) {}
func (n *NopLogger) Info(_ string, _ ...any)  {}
func (n *NopLogger) Warn(_ string, _ ...any)  {}
func (n *NopLogger) Error(_ string, _ ...any) {}

// With возвращает тот же NopLogger: атрибуты всё равно не выводятся.
func (n *NopLogger) With(_ ...any) Logger {
	return n
}
