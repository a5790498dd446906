// Package shared содержит общие компоненты command handlers.
package shared

import (
	"context"
	"time"

	"github.com/Kargones/connector-migrator/internal/command"
	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
	"github.com/Kargones/connector-migrator/internal/pkg/tracing"
)

// Reporter печатает результат команды через env.Writer в env.Stdout.
type Reporter struct {
	env     *command.Env
	command string
	start   time.Time
	traceID string
}

// NewReporter фиксирует время начала команды и trace ID из контекста.
func NewReporter(ctx context.Context, env *command.Env, cmd string) *Reporter {
	traceID := tracing.TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = tracing.GenerateTraceID()
	}
	return &Reporter{env: env, command: cmd, start: time.Now(), traceID: traceID}
}

// Success печатает успешный результат.
func (r *Reporter) Success(data any, summary *output.SummaryInfo) error {
	return r.write(&output.Result{
		Status:  output.StatusSuccess,
		Command: r.command,
		Data:    data,
		Summary: summary,
	})
}

// Plan печатает план dry-run.
func (r *Reporter) Plan(plan *output.DryRunPlan, summary *output.SummaryInfo) error {
	return r.write(&output.Result{
		Status:  output.StatusSuccess,
		Command: r.command,
		DryRun:  true,
		Plan:    plan,
		Summary: summary,
	})
}

// Fail печатает результат с ошибкой и возвращает err для кода выхода.
// Код берётся из AppError в цепочке err, иначе fallbackCode.
func (r *Reporter) Fail(err error, fallbackCode string) error {
	return r.FailWithData(err, fallbackCode, nil)
}

// FailWithData — Fail с частичными данными (например, отчёт пакетной миграции).
func (r *Reporter) FailWithData(err error, fallbackCode string, data any) error {
	result := &output.Result{
		Status:  output.StatusError,
		Command: r.command,
		Data:    data,
		Error: &output.ErrorInfo{
			Code:    apperrors.CodeOf(err, fallbackCode),
			Message: apperrors.MessageOf(err),
		},
	}
	if writeErr := r.write(result); writeErr != nil {
		r.env.Logger.Error("Не удалось вывести результат с ошибкой", "error", writeErr.Error())
	}
	return err
}

// Elapsed возвращает время с начала команды.
func (r *Reporter) Elapsed() time.Duration {
	return time.Since(r.start)
}

func (r *Reporter) write(result *output.Result) error {
	result.Metadata = &output.Metadata{
		DurationMs: r.Elapsed().Milliseconds(),
		TraceID:    r.traceID,
		APIVersion: constants.APIVersion,
	}
	if err := r.env.Writer.Write(r.env.Stdout, result); err != nil {
		return apperrors.NewAppError(apperrors.ErrOutputFormat, "ошибка вывода результата", err)
	}
	return nil
}
