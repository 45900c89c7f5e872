package captcha

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shaiso/Trax/internal/telemetry"
)

// Provider — селектор сервиса распознавания.
type Provider string

const (
	// Provider2Captcha — 2captcha.com.
	Provider2Captcha Provider = "1"

	// ProviderAntiCaptcha — anti-captcha.com.
	ProviderAntiCaptcha Provider = "2"

	// ProviderCapMonster — capmonster.cloud.
	ProviderCapMonster Provider = "3"
)

// Name возвращает человекочитаемое имя провайдера (для логов и метрик).
func (p Provider) Name() string {
	switch p {
	case Provider2Captcha:
		return "2captcha"
	case ProviderAntiCaptcha:
		return "anticaptcha"
	case ProviderCapMonster:
		return "capmonster"
	default:
		return "unknown"
	}
}

// ParseProvider парсит селектор CAPTCHA_SOLVER_TYPE.
// Допустимы только "1", "2", "3".
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.TrimSpace(s)); p {
	case Provider2Captcha, ProviderAntiCaptcha, ProviderCapMonster:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q (expected 1, 2 or 3)", ErrInvalidProvider, s)
	}
}

// Значения по умолчанию.
const (
	// Turnstile виджет Bartio faucet.
	DefaultSiteKey = "0x4AAAAAAARdAuciFArKhVwt"
	DefaultPageURL = "https://bartio.faucet.berachain.com/"

	DefaultPollInterval = 5 * time.Second
	DefaultMaxPolls     = 60
	defaultHTTPTimeout  = 30 * time.Second
)

// Solver — решатель challenge.
type Solver interface {
	// Solve блокирует до получения токена или ошибки.
	Solve(ctx context.Context) (string, error)
}

// Config — конфигурация решателя.
type Config struct {
	APIKey   string
	Provider Provider

	// SiteKey и PageURL — параметры Turnstile виджета.
	SiteKey string
	PageURL string

	// BaseURL переопределяет адрес API провайдера (для тестов).
	BaseURL string

	PollInterval time.Duration // интервал опроса (default: 5s)
	MaxPolls     int           // максимум опросов (default: 60)

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// New создаёт Solver для выбранного провайдера.
func New(cfg Config) (Solver, error) {
	if _, err := ParseProvider(string(cfg.Provider)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	if cfg.SiteKey == "" {
		cfg.SiteKey = DefaultSiteKey
	}
	if cfg.PageURL == "" {
		cfg.PageURL = DefaultPageURL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.MaxPolls <= 0 {
		cfg.MaxPolls = DefaultMaxPolls
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.Logger = cfg.Logger.With("captcha_provider", cfg.Provider.Name())

	switch cfg.Provider {
	case Provider2Captcha:
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://2captcha.com"
		}
		return &twoCaptcha{cfg: cfg}, nil
	case ProviderAntiCaptcha:
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://api.anti-captcha.com"
		}
		return &taskSolver{cfg: cfg, taskType: "TurnstileTaskProxyless"}, nil
	default:
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://api.capmonster.cloud"
		}
		return &taskSolver{cfg: cfg, taskType: "TurnstileTask"}, nil
	}
}

// observe записывает метрику исхода решения.
func observe(p Provider, start time.Time, err error) {
	status := "solved"
	if err != nil {
		status = "failed"
	}
	telemetry.CaptchaSolves.WithLabelValues(p.Name(), status).Inc()
	telemetry.CaptchaSolveDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
}

// wait — context-aware пауза между опросами.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
