package domain

import (
	"math/big"
	"time"
)

// Константы записи истории депозита.
const (
	HistoryTypeDeposit = "deposit"
	HistoryFarmID      = 1001
	HistoryStepDone    = "COMPLETED"
	HistoryStepZapIn   = "Zap In"
	HistoryStepStake   = "Stake into reward vault"

	// ZeroToken — нативный токен (депозит без ERC-20).
	ZeroToken = "0x0000000000000000000000000000000000000000"

	// historyDateLayout задаёт формат даты для history API: как у
	// Date.prototype.toString(), но в скобках сокращённое имя зоны (UTC),
	// а не полное (Coordinated Universal Time).
	historyDateLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"
)

// HistoryTx — запись в истории транзакций аккаунта.
type HistoryTx struct {
	From        string        `json:"from"`
	AmountInWei string        `json:"amountInWei"`
	Date        string        `json:"date"`
	Type        string        `json:"type"`
	FarmID      int           `json:"farmId"`
	Max         bool          `json:"max"`
	Token       string        `json:"token"`
	Steps       []HistoryStep `json:"steps"`
}

// HistoryStep — завершённый подшаг депозита.
type HistoryStep struct {
	Status string `json:"status"`
	Type   string `json:"type"`
	Amount string `json:"amount"`
}

// NewDepositHistory строит запись "Zap In → Stake" для застейканной суммы.
func NewDepositHistory(from string, amount *big.Int, at time.Time) HistoryTx {
	value := "0"
	if amount != nil {
		value = amount.String()
	}

	return HistoryTx{
		From:        from,
		AmountInWei: value,
		Date:        at.Format(historyDateLayout),
		Type:        HistoryTypeDeposit,
		FarmID:      HistoryFarmID,
		Max:         false,
		Token:       ZeroToken,
		Steps: []HistoryStep{
			{Status: HistoryStepDone, Type: HistoryStepZapIn, Amount: value},
			{Status: HistoryStepDone, Type: HistoryStepStake, Amount: value},
		},
	}
}
