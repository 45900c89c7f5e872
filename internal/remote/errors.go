package remote

import (
	"errors"
	"fmt"
)

// Ошибки remote-вызовов. Все они означают "нет результата":
// workflow логирует их и переходит к следующему шагу.
var (
	// ErrRetryExhausted — все попытки исчерпаны.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrRejected — API ответил 2xx, но с полем error в теле.
	ErrRejected = errors.New("request rejected by api")

	// ErrRequest — запрос не удалось построить или отправить.
	ErrRequest = errors.New("http request failed")
)

// StatusError — ответ с HTTP-кодом >= 400.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// permanentError прерывает retry: ошибка возвращается как есть.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// permanent помечает ошибку как не подлежащую retry.
func permanent(err error) error {
	return &permanentError{err: err}
}
