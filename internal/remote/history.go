package remote

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/shaiso/Trax/internal/domain"
)

// SaveHistoryTx записывает депозит "Zap In → Stake" в историю аккаунта.
// Ответ с полем error — ErrRejected.
func (c *Client) SaveHistoryTx(ctx context.Context, address, proxy string, amount *big.Int) (any, error) {
	body := domain.NewDepositHistory(address, amount, time.Now())

	payload, err := c.postJSON(ctx, EndpointSaveHistory, proxy, c.apiURL+"/api/v1/transaction/save-history-tx", body)
	if err == nil {
		if ok, reason := rejected(payload); ok {
			payload, err = nil, fmt.Errorf("%w: %s", ErrRejected, reason)
		}
	}

	record(ctx, EndpointSaveHistory, payload, err)
	return payload, err
}
