package alerting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/connector-migrator/internal/pkg/logging"
)

func testAlert() Alert {
	return Alert{
		ErrorCode: "COMMAND.EXEC_FAILED",
		Message:   "2 из 5 записей не мигрированы",
		TraceID:   "0123456789abcdef0123456789abcdef",
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Command:   "migrate",
		InputPath: "/etc/gateway/connectors",
		Severity:  SeverityCritical,
	}
}

func newAlerter(cfg Config) *WebhookAlerter {
	w := NewWebhookAlerter(cfg, logging.NewNopLogger())
	w.initialBackoff = time.Millisecond
	return w
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"выключен", Config{}, nil},
		{"корректный", Config{Enabled: true, URLs: []string{"https://hooks.example.com/a"}}, nil},
		{"без URL", Config{Enabled: true}, ErrURLRequired},
		{"file://", Config{Enabled: true, URLs: []string{"file:///etc/passwd"}}, ErrURLInvalid},
		{"без хоста", Config{Enabled: true, URLs: []string{"http://"}}, ErrURLInvalid},
		{"CRLF в заголовке", Config{Enabled: true, URLs: []string{"http://h"}, Headers: map[string]string{"X": "a\r\nb"}}, ErrHeaderInvalid},
		{"HTAB в заголовке", Config{Enabled: true, URLs: []string{"http://h"}, Headers: map[string]string{"X": "a\tb"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cfg.Validate(), tt.wantErr)
		})
	}
}

func TestNewAlerter(t *testing.T) {
	a, err := NewAlerter(Config{}, logging.NewNopLogger())
	require.NoError(t, err)
	assert.IsType(t, &NopAlerter{}, a)
	assert.NoError(t, a.Send(context.Background(), testAlert()))

	a, err = NewAlerter(Config{Enabled: true, URLs: []string{"http://localhost:1"}}, logging.NewNopLogger())
	require.NoError(t, err)
	assert.IsType(t, &WebhookAlerter{}, a)

	_, err = NewAlerter(Config{Enabled: true}, logging.NewNopLogger())
	assert.ErrorIs(t, err, ErrURLRequired)
}

func TestWebhookAlerter_Payload(t *testing.T) {
	var got Payload
	var header http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := newAlerter(Config{Enabled: true, URLs: []string{srv.URL}, Headers: map[string]string{"X-Token": "secret"}})
	require.NoError(t, w.Send(context.Background(), testAlert()))

	assert.Equal(t, "COMMAND.EXEC_FAILED", got.ErrorCode)
	assert.Equal(t, "CRITICAL", got.Severity)
	assert.Equal(t, "migrate", got.Command)
	assert.Equal(t, "/etc/gateway/connectors", got.InputPath)
	assert.Equal(t, "connector-migrator", got.Source)
	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.Equal(t, "secret", header.Get("X-Token"))
}

func TestWebhookAlerter_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := newAlerter(Config{Enabled: true, URLs: []string{srv.URL}, MaxRetries: 3})
	require.NoError(t, w.Send(context.Background(), testAlert()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestWebhookAlerter_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	w := newAlerter(Config{Enabled: true, URLs: []string{srv.URL}, MaxRetries: 3})
	assert.NoError(t, w.Send(context.Background(), testAlert()), "ошибки доставки не возвращаются")
	assert.Equal(t, int32(1), calls.Load())
}

func TestWebhookAlerter_OneFailingURL(t *testing.T) {
	var delivered atomic.Int32
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		delivered.Add(1)
	}))
	defer ok.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer bad.Close()

	w := newAlerter(Config{Enabled: true, URLs: []string{bad.URL, ok.URL}})
	require.NoError(t, w.Send(context.Background(), testAlert()))
	assert.Equal(t, int32(1), delivered.Load())
}

func TestWebhookAlerter_CanceledContext(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := newAlerter(Config{Enabled: true, URLs: []string{srv.URL}})
	require.NoError(t, w.Send(ctx, testAlert()))
	assert.Zero(t, calls.Load())
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "INFO", SeverityInfo.String())
	assert.Equal(t, "WARNING", SeverityWarning.String())
	assert.Equal(t, "CRITICAL", SeverityCritical.String())
	assert.Equal(t, "UNKNOWN", Severity(9).String())
}
