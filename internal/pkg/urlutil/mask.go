// Package urlutil содержит помощники для URL внешних получателей:
// Pushgateway, OTLP коллектора и webhook алертов.
package urlutil

import (
	"net/url"
	"strings"
)

// InvalidURL — подстановка для URL, который не удалось разобрать.
const InvalidURL = "***invalid-url***"

// MaskURL оставляет схему и хост, путь заменяет на "/***".
// Учётные данные, путь и query не попадают в логи: в них бывают токены.
//
//	"https://user:pw@hooks.local/services/T1/B2?token=x" → "https://hooks.local/***"
//	"http://pushgateway:9091"                            → "http://pushgateway:9091"
func MaskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return InvalidURL
	}
	masked := u.Scheme + "://" + u.Host
	if strings.Trim(u.Path, "/") != "" || u.RawQuery != "" {
		masked += "/***"
	}
	return masked
}

// HostPort возвращает host:port из полного URL.
// Строка без схемы возвращается как есть.
func HostPort(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	return raw
}
