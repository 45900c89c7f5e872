package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shaiso/Trax/internal/telemetry"
)

// RetryPolicy — политика повторов, общая для всех вызовов.
//
// Всего попыток Retries+1; между попытками фиксированная пауза Delay,
// после последней попытки паузы нет.
type RetryPolicy struct {
	Retries int
	Delay   time.Duration
}

// Attempts возвращает общее число попыток.
func (p RetryPolicy) Attempts() int {
	if p.Retries < 0 {
		return 1
	}
	return p.Retries + 1
}

// withRetry выполняет fn согласно политике.
//
// fn возвращает nil при успехе; ошибка, обёрнутая permanent(),
// прекращает попытки и возвращается развёрнутой. Отмена ctx прерывает
// и попытку, и паузу.
func (c *Client) withRetry(ctx context.Context, endpoint string, fn func(ctx context.Context) error) error {
	logger := telemetry.FromContext(ctx)
	attempts := c.retry.Attempts()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		telemetry.RemoteAttempts.WithLabelValues(endpoint).Inc()
		start := time.Now()
		lastErr = fn(ctx)
		telemetry.RemoteLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

		if lastErr == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		left := attempts - attempt
		logger.Warn("remote call failed",
			"endpoint", endpoint,
			"attempt", attempt,
			"retries_left", left,
			"error", lastErr,
		)
		if left == 0 {
			break
		}

		if err := sleep(ctx, c.retry.Delay); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w: %s after %d attempts: %w", ErrRetryExhausted, endpoint, attempts, lastErr)
}

// sleep — пауза с учётом context.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
