package captcha

import "errors"

// Ошибки решения captcha.
var (
	// ErrInvalidProvider — селектор провайдера вне допустимого набора {1,2,3}.
	ErrInvalidProvider = errors.New("invalid captcha solver type")

	// ErrMissingAPIKey — не задан API-ключ провайдера.
	ErrMissingAPIKey = errors.New("captcha solver api key is required")

	// ErrSolveFailed — провайдер вернул ошибку.
	ErrSolveFailed = errors.New("captcha solve failed")

	// ErrSolveTimeout — токен не готов после всех опросов.
	ErrSolveTimeout = errors.New("captcha solve timeout")
)
