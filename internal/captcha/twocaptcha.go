package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// notReady — ответ res.php, пока токен не готов.
const notReady = "CAPCHA_NOT_READY"

// twoCaptcha — клиент legacy API 2Captcha (in.php / res.php).
type twoCaptcha struct {
	cfg Config
}

// twoCaptchaResponse — ответ in.php и res.php при json=1.
type twoCaptchaResponse struct {
	Status  int    `json:"status"`
	Request string `json:"request"`
}

// Solve отправляет задачу и опрашивает результат.
func (s *twoCaptcha) Solve(ctx context.Context) (token string, err error) {
	start := time.Now()
	defer func() { observe(s.cfg.Provider, start, err) }()

	form := url.Values{
		"key":     {s.cfg.APIKey},
		"method":  {"turnstile"},
		"sitekey": {s.cfg.SiteKey},
		"pageurl": {s.cfg.PageURL},
		"json":    {"1"},
	}

	submitted, err := s.call(ctx, http.MethodPost, s.cfg.BaseURL+"/in.php", form)
	if err != nil {
		return "", err
	}
	if submitted.Status != 1 {
		return "", fmt.Errorf("%w: submit: %s", ErrSolveFailed, submitted.Request)
	}

	captchaID := submitted.Request
	s.cfg.Logger.Info("captcha submitted", "captcha_id", captchaID)

	query := url.Values{
		"key":    {s.cfg.APIKey},
		"action": {"get"},
		"id":     {captchaID},
		"json":   {"1"},
	}

	for poll := 1; poll <= s.cfg.MaxPolls; poll++ {
		if err := wait(ctx, s.cfg.PollInterval); err != nil {
			return "", err
		}

		result, err := s.call(ctx, http.MethodGet, s.cfg.BaseURL+"/res.php?"+query.Encode(), nil)
		if err != nil {
			return "", err
		}

		switch {
		case result.Status == 1:
			s.cfg.Logger.Info("captcha solved", "captcha_id", captchaID, "polls", poll)
			return result.Request, nil
		case result.Request == notReady:
			s.cfg.Logger.Debug("captcha not ready", "captcha_id", captchaID, "poll", poll)
		default:
			return "", fmt.Errorf("%w: %s", ErrSolveFailed, result.Request)
		}
	}

	return "", fmt.Errorf("%w: %d polls", ErrSolveTimeout, s.cfg.MaxPolls)
}

// call выполняет запрос к API 2Captcha и декодирует JSON-ответ.
func (s *twoCaptcha) call(ctx context.Context, method, endpoint string, form url.Values) (*twoCaptchaResponse, error) {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolveFailed, err)
	}
	defer resp.Body.Close()

	var out twoCaptchaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSolveFailed, err)
	}
	return &out, nil
}
