package domain

import "time"

// WalletReport — результат обработки одного кошелька за sweep.
//
// Заполняется workflow по мере выполнения шагов; используется для логов,
// метрик и события wallet.processed.
type WalletReport struct {
	// Address — адрес кошелька.
	Address string `json:"address"`

	// Proxy — прокси без credentials ("" — прямое соединение).
	Proxy string `json:"proxy,omitempty"`

	// Статусы шагов.
	Connector StepStatus `json:"connector"`
	Account   StepStatus `json:"account"`
	Stats     StepStatus `json:"stats"`
	History   StepStatus `json:"history"`
	Bonus     StepStatus `json:"bonus"`

	// AccountStats — статистика, nil если stats API не ответил.
	AccountStats *AccountStats `json:"account_stats,omitempty"`

	// Claim — итоговый исход claim (после ветки captcha, если была).
	Claim ClaimOutcome `json:"claim"`

	// ChallengeSolved — был ли получен captcha-токен.
	ChallengeSolved bool `json:"challenge_solved"`

	// Stake — результат on-chain шага, nil если ничего не застейкано.
	Stake *StakeOutcome `json:"stake,omitempty"`

	// Error — ошибка, вышедшая за границу workflow (panic, отмена).
	Error string `json:"error,omitempty"`

	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// NewWalletReport создаёт отчёт со всеми шагами в SKIPPED.
func NewWalletReport(address, proxy string) *WalletReport {
	return &WalletReport{
		Address:   address,
		Proxy:     proxy,
		Connector: StepStatusSkipped,
		Account:   StepStatusSkipped,
		Stats:     StepStatusSkipped,
		History:   StepStatusSkipped,
		Bonus:     StepStatusSkipped,
		Claim:     FailedClaim(),
		StartedAt: time.Now(),
	}
}

// MarkFinished фиксирует время завершения.
func (r *WalletReport) MarkFinished() {
	now := time.Now()
	r.FinishedAt = &now
}

// MarkFailed фиксирует ошибку, вышедшую за границу workflow.
func (r *WalletReport) MarkFailed(err string) {
	r.Error = err
	r.MarkFinished()
}

// Failed возвращает true, если обработка кошелька прервалась ошибкой.
func (r *WalletReport) Failed() bool {
	return r.Error != ""
}

// Duration возвращает продолжительность обработки.
func (r *WalletReport) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
