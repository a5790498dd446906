package alerting

import (
	"errors"
	"net/url"
	"time"
)

// Значения по умолчанию.
const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 3
)

var (
	// ErrURLRequired — алертинг включён без URL.
	ErrURLRequired = errors.New("alerting: at least one webhook url is required when alerting is enabled")

	// ErrURLInvalid — URL без схемы http(s) или без хоста.
	ErrURLInvalid = errors.New("alerting: webhook url must be http(s) with host")

	// ErrHeaderInvalid — заголовок содержит управляющие символы.
	ErrHeaderInvalid = errors.New("alerting: webhook header contains control characters")
)

// Config — настройки webhook-канала.
type Config struct {
	Enabled    bool
	URLs       []string
	Headers    map[string]string
	Timeout    time.Duration
	MaxRetries int
}

// Validate проверяет настройки включённого канала.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.URLs) == 0 {
		return ErrURLRequired
	}
	for _, raw := range c.URLs {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return ErrURLInvalid
		}
	}
	// RFC 7230: HTAB допустим, остальные управляющие символы нет.
	for key, value := range c.Headers {
		if hasControlChars(key) || hasControlChars(value) {
			return ErrHeaderInvalid
		}
	}
	return nil
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if r == '\t' {
			continue
		}
		if r <= 0x1f || r == 0x7f {
			return true
		}
	}
	return false
}

// NewAlerter возвращает NopAlerter при выключенном алертинге,
// иначе WebhookAlerter.
func NewAlerter(cfg Config, logger Logger) (Alerter, error) {
	if !cfg.Enabled {
		return NewNopAlerter(), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewWebhookAlerter(cfg, logger), nil
}
