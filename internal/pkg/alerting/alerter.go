// Package alerting отправляет уведомления о неудачных запусках
// через HTTP webhook.
package alerting

import (
	"context"
	"time"
)

// Severity определяет уровень критичности алерта.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// String возвращает строковое представление Severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Alert — данные уведомления о запуске.
type Alert struct {
	// ErrorCode — код AppError, вызвавшего уведомление.
	ErrorCode string
	Message   string
	TraceID   string
	Timestamp time.Time
	Command   string
	// InputPath — файл или каталог записей запуска.
	InputPath string
	Severity  Severity
}

// Alerter отправляет алерты.
//
// Send не возвращает ошибок доставки: они логируются, и код выхода
// команды от них не зависит.
type Alerter interface {
	Send(ctx context.Context, alert Alert) error
}

// NopAlerter ничего не отправляет. Используется при выключенном алертинге.
type NopAlerter struct{}

// NewNopAlerter создаёт NopAlerter.
func NewNopAlerter() *NopAlerter { return &NopAlerter{} }

// Send ничего не делает.
func (*NopAlerter) Send(context.Context, Alert) error { return nil }
