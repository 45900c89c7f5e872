// Package remote — обёртки над HTTP API faucet'а и Trax.
//
// Каждый вызов строит HTTP-клиент для прокси один раз и выполняет
// запрос с общей RetryPolicy. Вызывающий код видит только результат
// или "нет результата" (nil + ошибка), HTTP-коды остаются внутри пакета.
//
// # Эндпоинты
//
//	Claim            POST {faucet}/api/claim?address=A
//	SetConnector     POST {api}/api/v1/account/set-connector
//	CreateAccount    POST {api}/api/v1/account
//	GetStats         GET  {api}/api/v1/stats/tvl?address=A
//	ClaimFollowBonus POST {api}/api/v1/account/send-btx-for-x-follow
//	SaveHistoryTx    POST {api}/api/v1/transaction/save-history-tx
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/shaiso/Trax/internal/telemetry"
	"github.com/shaiso/Trax/internal/transport"
)

// Имена эндпоинтов (метки метрик и логов).
const (
	EndpointClaim         = "claim"
	EndpointSetConnector  = "set_connector"
	EndpointCreateAccount = "create_account"
	EndpointStats         = "stats"
	EndpointFollowBonus   = "follow_bonus"
	EndpointSaveHistory   = "save_history"
)

const maxErrorBody = 200

// Config — конфигурация клиента.
type Config struct {
	FaucetURL string
	APIURL    string
	Referrer  string
	Connector string

	Retry RetryPolicy

	// RateLimit — попыток в секунду на все эндпоинты; 0 — без ограничения.
	RateLimit float64

	// NewAgent строит HTTP-клиент для прокси (default: transport.NewAgent).
	NewAgent func(proxy string) (*http.Client, error)
}

// Client — обёртки remote-вызовов.
type Client struct {
	faucetURL string
	apiURL    string
	referrer  string
	connector string
	retry     RetryPolicy
	limiter   *rate.Limiter
	newAgent  func(proxy string) (*http.Client, error)
}

// New создаёт клиент.
func New(cfg Config) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	newAgent := cfg.NewAgent
	if newAgent == nil {
		newAgent = transport.NewAgent
	}

	return &Client{
		faucetURL: strings.TrimRight(cfg.FaucetURL, "/"),
		apiURL:    strings.TrimRight(cfg.APIURL, "/"),
		referrer:  cfg.Referrer,
		connector: cfg.Connector,
		retry:     cfg.Retry,
		limiter:   rate.NewLimiter(limit, 1),
		newAgent:  newAgent,
	}
}

// postJSON выполняет POST с retry и возвращает распарсенное тело.
func (c *Client) postJSON(ctx context.Context, endpoint, proxy, url string, body any) (any, error) {
	client, err := c.newAgent(proxy)
	if err != nil {
		return nil, err
	}

	var payload any
	err = c.withRetry(ctx, endpoint, func(ctx context.Context) error {
		p, err := doJSON(ctx, client, http.MethodPost, url, body, nil)
		payload = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// doJSON — одна HTTP-попытка. HTTP >= 400 возвращается как *StatusError.
// Тело ответа парсится как JSON, иначе возвращается строкой.
func doJSON(ctx context.Context, client *http.Client, method, url string, body any, header http.Header) (any, error) {
	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, permanent(fmt.Errorf("%w: marshal body: %v", ErrRequest, err))
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, permanent(fmt.Errorf("%w: create request: %v", ErrRequest, err))
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if bodyReader != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrRequest, err)
	}

	if resp.StatusCode >= 400 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), maxErrorBody)}
	}

	return parseBody(respBody), nil
}

// parseBody пробует JSON, иначе строка.
func parseBody(body []byte) any {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return string(body)
	}
	return parsed
}

// rejected проверяет поле error в ответе: любое truthy-значение
// (непустая строка, true, ненулевое число, объект) означает отказ.
func rejected(payload any) (bool, string) {
	m, ok := payload.(map[string]any)
	if !ok {
		return false, ""
	}

	switch v := m["error"].(type) {
	case nil:
		return false, ""
	case bool:
		return v, "true"
	case string:
		return v != "", v
	case float64:
		return v != 0, fmt.Sprint(v)
	default:
		return true, fmt.Sprint(v)
	}
}

// record фиксирует итог вызова: метрика и строка лога.
func record(ctx context.Context, endpoint string, payload any, err error) {
	logger := telemetry.FromContext(ctx)

	if err != nil {
		telemetry.RemoteCalls.WithLabelValues(endpoint, "error").Inc()
		logger.Error("remote call returned no result", "endpoint", endpoint, "error", err)
		return
	}

	telemetry.RemoteCalls.WithLabelValues(endpoint, "ok").Inc()
	logger.Info("remote call result", "endpoint", endpoint, "result", payload)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
