package remote

import (
	"context"
	"fmt"
)

// SetConnector привязывает кошелёк к коннектору (io.metamask).
func (c *Client) SetConnector(ctx context.Context, address, proxy string) (any, error) {
	body := map[string]string{
		"address":   address,
		"connector": c.connector,
	}

	payload, err := c.postJSON(ctx, EndpointSetConnector, proxy, c.apiURL+"/api/v1/account/set-connector", body)
	record(ctx, EndpointSetConnector, payload, err)
	return payload, err
}

// CreateAccount регистрирует аккаунт с реферером.
// Ответ с полем error — "нет результата" (ErrRejected), без retry.
func (c *Client) CreateAccount(ctx context.Context, address, proxy string) (any, error) {
	body := map[string]string{
		"address":  address,
		"referrer": c.referrer,
	}

	payload, err := c.postJSON(ctx, EndpointCreateAccount, proxy, c.apiURL+"/api/v1/account", body)
	if err == nil {
		if ok, reason := rejected(payload); ok {
			payload, err = nil, fmt.Errorf("%w: %s", ErrRejected, reason)
		}
	}

	record(ctx, EndpointCreateAccount, payload, err)
	return payload, err
}

// ClaimFollowBonus запрашивает разовый бонус за подписку.
func (c *Client) ClaimFollowBonus(ctx context.Context, address, proxy string) (any, error) {
	body := map[string]string{"address": address}

	payload, err := c.postJSON(ctx, EndpointFollowBonus, proxy, c.apiURL+"/api/v1/account/send-btx-for-x-follow", body)
	record(ctx, EndpointFollowBonus, payload, err)
	return payload, err
}
