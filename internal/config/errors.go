package config

import "errors"

// Ошибки конфигурации. Любая из них фатальна для worker.
var (
	// ErrMissingCaptchaKey — не задан CAPTCHA_SOLVER_API_KEY.
	ErrMissingCaptchaKey = errors.New("CAPTCHA_SOLVER_API_KEY is required")

	// ErrInvalidCaptchaType — CAPTCHA_SOLVER_TYPE не 1, 2 или 3.
	ErrInvalidCaptchaType = errors.New("invalid CAPTCHA_SOLVER_TYPE in .env file, set it to 1, 2, or 3")

	// ErrInvalidValue — значение не парсится в нужный тип.
	ErrInvalidValue = errors.New("invalid config value")
)
