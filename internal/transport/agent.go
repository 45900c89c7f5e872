// Package transport строит исходящие HTTP-клиенты, привязанные к прокси.
//
// Здесь только конфигурация соединения: ни retry, ни таймаутов запроса.
package transport

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/proxy"
)

// ErrInvalidProxy — строка прокси не распознана.
var ErrInvalidProxy = errors.New("invalid proxy")

// Схемы прокси.
const (
	SchemeHTTP    = "http"
	SchemeHTTPS   = "https"
	SchemeSOCKS5  = "socks5"
	SchemeSOCKS5H = "socks5h"
)

// ParseProxy разбирает строку прокси.
//
// Поддерживаемые формы:
//
//	host:port
//	host:port:user:pass
//	user:pass@host:port
//	http://[user:pass@]host:port   (а также https, socks5, socks5h)
//
// Формы без схемы считаются HTTP-прокси. Пустая строка — прямое
// соединение (nil, nil).
func ParseProxy(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProxy, err)
		}
		switch u.Scheme {
		case SchemeHTTP, SchemeHTTPS, SchemeSOCKS5, SchemeSOCKS5H:
		default:
			return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidProxy, u.Scheme)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("%w: missing host", ErrInvalidProxy)
		}
		return u, nil
	}

	if strings.Contains(raw, "@") {
		return ParseProxy(SchemeHTTP + "://" + raw)
	}

	parts := strings.Split(raw, ":")
	switch len(parts) {
	case 2:
		return &url.URL{Scheme: SchemeHTTP, Host: raw}, nil
	case 4:
		return &url.URL{
			Scheme: SchemeHTTP,
			Host:   parts[0] + ":" + parts[1],
			User:   url.UserPassword(parts[2], parts[3]),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, MaskProxy(raw))
	}
}

// NewAgent создаёт HTTP-клиент для прокси.
//
// Пустая строка — прямое соединение (переменные HTTP_PROXY игнорируются,
// чтобы распределение прокси по кошелькам было детерминированным).
// HTTP(S)-прокси подключаются через Transport.Proxy, SOCKS — через dialer.
func NewAgent(proxyStr string) (*http.Client, error) {
	u, err := ParseProxy(proxyStr)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil

	if u == nil {
		return &http.Client{Transport: transport}, nil
	}

	switch u.Scheme {
	case SchemeSOCKS5, SchemeSOCKS5H:
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("%w: socks dialer: %v", ErrInvalidProxy, err)
		}
		contextDialer, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("%w: socks dialer does not support context", ErrInvalidProxy)
		}
		transport.DialContext = contextDialer.DialContext
	default:
		transport.Proxy = http.ProxyURL(u)
	}

	return &http.Client{Transport: transport}, nil
}

// MaskProxy возвращает прокси без credentials — для логов и отчётов.
func MaskProxy(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if !strings.Contains(raw, "://") {
		if at := strings.LastIndex(raw, "@"); at >= 0 {
			return raw[at+1:]
		}
		if parts := strings.Split(raw, ":"); len(parts) == 4 {
			return parts[0] + ":" + parts[1]
		}
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "invalid"
	}
	return u.Scheme + "://" + u.Host
}
