package remote

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/shaiso/Trax/internal/domain"
	"github.com/shaiso/Trax/internal/telemetry"
)

// Claim запрашивает токены из faucet'а.
//
// token — captcha-токен; заголовок Authorization отправляется только
// для непустого токена. 401, 402 и 429 возвращаются сразу, без retry,
// как соответствующие статусы. Остальные ошибки повторяются; после
// исчерпания попыток — FAILED.
//
// Claim никогда не возвращает ошибку: "нет результата" — это статус FAILED.
func (c *Client) Claim(ctx context.Context, address, proxy, token string) domain.ClaimOutcome {
	logger := telemetry.FromContext(ctx)
	logger.Info("trying to claim faucet", "with_captcha", token != "")

	client, err := c.newAgent(proxy)
	if err != nil {
		record(ctx, EndpointClaim, nil, err)
		return domain.FailedClaim()
	}

	endpoint := c.faucetURL + "/api/claim?address=" + url.QueryEscape(address)
	body := map[string]string{"address": address}

	var header http.Header
	if token != "" {
		header = http.Header{"Authorization": {"Bearer " + token}}
	}

	var outcome domain.ClaimOutcome
	err = c.withRetry(ctx, EndpointClaim, func(ctx context.Context) error {
		payload, err := doJSON(ctx, client, http.MethodPost, endpoint, body, header)
		if err == nil {
			outcome = domain.ClaimOutcome{Status: domain.ClaimStatusSucceeded, Payload: payload}
			return nil
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			if status, ok := signalStatus(statusErr.StatusCode); ok {
				outcome = domain.ClaimOutcome{Status: status}
				return permanent(err)
			}
		}
		return err
	})

	switch {
	case err == nil:
		record(ctx, EndpointClaim, outcome.Payload, nil)
	case outcome.Status.IsSignal():
		telemetry.RemoteCalls.WithLabelValues(EndpointClaim, "signal").Inc()
		logSignal(ctx, outcome.Status)
	default:
		record(ctx, EndpointClaim, nil, err)
		outcome = domain.FailedClaim()
	}
	return outcome
}

// signalStatus переводит HTTP-код faucet'а в статус claim.
func signalStatus(code int) (domain.ClaimStatus, bool) {
	switch code {
	case http.StatusUnauthorized:
		return domain.ClaimStatusChallengeRequired, true
	case http.StatusPaymentRequired:
		return domain.ClaimStatusIneligible, true
	case http.StatusTooManyRequests:
		return domain.ClaimStatusAlreadyClaimed, true
	default:
		return "", false
	}
}

func logSignal(ctx context.Context, status domain.ClaimStatus) {
	logger := telemetry.FromContext(ctx)

	switch status {
	case domain.ClaimStatusChallengeRequired:
		logger.Warn("captcha required for faucet claim")
	case domain.ClaimStatusIneligible:
		logger.Error("faucet requires at least 0.001 ETH on Ethereum mainnet")
	case domain.ClaimStatusAlreadyClaimed:
		logger.Warn("faucet rate limited, wallet already claimed or proxy is shared")
	}
}
