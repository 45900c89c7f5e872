package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shaiso/Trax/internal/domain"
)

// errNoStatsData — в ответе нет массива data.
var errNoStatsData = errors.New("stats response has no data")

// GetStats возвращает статистику аккаунта.
// Отсутствующие поля (и пустой data) дают нули.
func (c *Client) GetStats(ctx context.Context, address, proxy string) (*domain.AccountStats, error) {
	client, err := c.newAgent(proxy)
	if err != nil {
		record(ctx, EndpointStats, nil, err)
		return nil, err
	}

	endpoint := c.apiURL + "/api/v1/stats/tvl?address=" + url.QueryEscape(address)

	var stats *domain.AccountStats
	err = c.withRetry(ctx, EndpointStats, func(ctx context.Context) error {
		payload, err := doJSON(ctx, client, http.MethodGet, endpoint, nil, nil)
		if err != nil {
			return err
		}
		stats, err = projectStats(payload)
		return err
	})
	if err != nil {
		record(ctx, EndpointStats, nil, err)
		return nil, err
	}

	record(ctx, EndpointStats, stats, nil)
	return stats, nil
}

// projectStats переводит ответ в AccountStats. Поля берутся из data[0]
// по одному: отсутствующее или нечисловое поле даёт 0, остальные сохраняются.
// Ошибка только при отсутствии массива data.
func projectStats(payload any) (*domain.AccountStats, error) {
	obj, _ := payload.(map[string]any)
	data, ok := obj["data"].([]any)
	if !ok {
		return nil, errNoStatsData
	}

	stats := &domain.AccountStats{}
	if len(data) == 0 {
		return stats, nil
	}

	first, _ := data[0].(map[string]any)
	stats.EarnedTrax = number(first["earnedTrax"])
	stats.LeaderboardRanking = int64(number(first["leaderboardRanking"]))
	stats.TVL = number(first["tvl"])

	if perDay, ok := first["estimatedTraxPerDay"].([]any); ok && len(perDay) > 0 {
		if entry, ok := perDay[0].(map[string]any); ok {
			stats.EstimatedTraxPerDay = number(entry["estimatedTraxPerDay"])
		}
	}
	return stats, nil
}

// number читает числовое поле ответа: число или строка с числом, иначе 0.
func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
