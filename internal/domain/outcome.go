package domain

import "math/big"

// ClaimOutcome — результат claim: статус и тело ответа faucet'а.
type ClaimOutcome struct {
	Status ClaimStatus `json:"status"`

	// Payload — распарсенный ответ при SUCCEEDED, иначе nil.
	Payload any `json:"payload,omitempty"`
}

// Succeeded возвращает true, если faucet выдал токены.
func (o ClaimOutcome) Succeeded() bool {
	return o.Status == ClaimStatusSucceeded
}

// FailedClaim — исход claim без результата.
func FailedClaim() ClaimOutcome {
	return ClaimOutcome{Status: ClaimStatusFailed}
}

// StakeOutcome — результат on-chain zap-and-stake.
//
// nil *StakeOutcome означает "ничего не застейкано".
type StakeOutcome struct {
	// Balance — подтверждённая сумма в wei.
	Balance *big.Int `json:"balance"`

	// TxHash — хэш транзакции zap.
	TxHash string `json:"tx_hash,omitempty"`
}

// Settled возвращает true, если застейкана положительная сумма.
func (o *StakeOutcome) Settled() bool {
	return o != nil && o.Balance != nil && o.Balance.Sign() > 0
}

// AccountStats — статистика аккаунта из stats API.
// Отсутствующие в ответе поля остаются нулевыми.
type AccountStats struct {
	EarnedTrax          float64 `json:"earned_trax"`
	EstimatedTraxPerDay float64 `json:"estimated_trax_per_day"`
	LeaderboardRanking  int64   `json:"leaderboard_ranking"`
	TVL                 float64 `json:"tvl"`
}
