package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Kargones/connector-migrator/internal/pkg/logging"
	"github.com/Kargones/connector-migrator/internal/pkg/urlutil"
)

// Logger — логгер алертинга.
type Logger = logging.Logger

// maxResponseBodySize ограничивает чтение ответа webhook.
const maxResponseBodySize = 1024

// maxBackoff достаточен для короткоживущего CLI.
const maxBackoff = 4 * time.Second

// HTTPClient — минимальный интерфейс http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Payload — тело webhook-запроса.
type Payload struct {
	ErrorCode string    `json:"error_code"`
	Message   string    `json:"message"`
	TraceID   string    `json:"trace_id"`
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
	InputPath string    `json:"input_path,omitempty"`
	Severity  string    `json:"severity"`
	Source    string    `json:"source"`
	Hostname  string    `json:"hostname,omitempty"`
}

// WebhookAlerter отправляет алерт POST-запросом на каждый URL.
type WebhookAlerter struct {
	config     Config
	logger     Logger
	httpClient HTTPClient
	hostname   string
	// initialBackoff — пауза перед первым повтором.
	initialBackoff time.Duration
}

// NewWebhookAlerter создаёт WebhookAlerter.
func NewWebhookAlerter(cfg Config, logger Logger) *WebhookAlerter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &WebhookAlerter{
		config:         cfg,
		logger:         logger,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		hostname:       hostname,
		initialBackoff: time.Second,
	}
}

// Send отправляет алерт на все URL. Сбой одного URL не мешает остальным.
func (w *WebhookAlerter) Send(ctx context.Context, alert Alert) error {
	payload := Payload{
		ErrorCode: alert.ErrorCode,
		Message:   alert.Message,
		TraceID:   alert.TraceID,
		Timestamp: alert.Timestamp,
		Command:   alert.Command,
		InputPath: alert.InputPath,
		Severity:  alert.Severity.String(),
		Source:    "connector-migrator",
		Hostname:  w.hostname,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		w.logger.Error("ошибка сериализации алерта", "error", err.Error())
		return nil
	}

	delivered := 0
	for _, target := range w.config.URLs {
		if ctx.Err() != nil {
			w.logger.Debug("отправка алерта отменена", "error_code", alert.ErrorCode)
			return nil
		}
		if err := w.sendWithRetry(ctx, target, body); err != nil {
			w.logger.Error("ошибка отправки webhook алерта",
				"error", err.Error(),
				"url", urlutil.MaskURL(target),
				"error_code", alert.ErrorCode,
			)
			continue
		}
		delivered++
	}

	if delivered == 0 {
		w.logger.Warn("webhook алерт не доставлен ни на один URL",
			"error_code", alert.ErrorCode, "urls_total", len(w.config.URLs))
		return nil
	}
	w.logger.Info("webhook алерт отправлен",
		"error_code", alert.ErrorCode,
		"severity", payload.Severity,
		"urls_success", delivered,
		"urls_total", len(w.config.URLs),
	)
	return nil
}

// sendWithRetry повторяет сетевые ошибки и 5xx с экспоненциальной паузой.
// 4xx не повторяются: это ошибка конфигурации получателя.
func (w *WebhookAlerter) sendWithRetry(ctx context.Context, target string, body []byte) error {
	var lastErr error
	backoff := w.initialBackoff
	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxBackoff)
			w.logger.Debug("webhook retry", "attempt", attempt, "error", lastErr.Error())
		}

		lastErr = w.post(ctx, target, body)
		if lastErr == nil || isClientError(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", w.config.MaxRetries+1, lastErr)
}

func (w *WebhookAlerter) post(ctx context.Context, target string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "connector-migrator")
	for key, value := range w.config.Headers {
		req.Header.Set(key, value)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &httpError{StatusCode: resp.StatusCode, Body: string(data)}
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

func isClientError(err error) bool {
	var httpErr *httpError
	return errors.As(err, &httpErr) && httpErr.StatusCode >= 400 && httpErr.StatusCode < 500
}
