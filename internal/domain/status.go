package domain

// ClaimStatus — исход попытки claim в faucet.
//
// Коды HTTP несут доменный смысл и переводятся в статус
// на уровне remote-клиента, вызывающий код HTTP-коды не видит:
//
//	2xx → SUCCEEDED
//	401 → CHALLENGE_REQUIRED (нужен captcha-токен)
//	402 → INELIGIBLE         (нет минимального баланса в mainnet)
//	429 → ALREADY_CLAIMED    (rate limit: цель уже достигнута)
//	иначе, после всех retry → FAILED
type ClaimStatus string

const (
	// ClaimStatusSucceeded — faucet выдал токены.
	ClaimStatusSucceeded ClaimStatus = "SUCCEEDED"

	// ClaimStatusChallengeRequired — требуется решённая captcha.
	ClaimStatusChallengeRequired ClaimStatus = "CHALLENGE_REQUIRED"

	// ClaimStatusAlreadyClaimed — кошелёк уже получал токены в текущем окне.
	ClaimStatusAlreadyClaimed ClaimStatus = "ALREADY_CLAIMED"

	// ClaimStatusIneligible — не выполнено предусловие faucet'а.
	ClaimStatusIneligible ClaimStatus = "INELIGIBLE"

	// ClaimStatusFailed — нет результата (retry исчерпаны).
	ClaimStatusFailed ClaimStatus = "FAILED"
)

// IsSignal возвращает true для статусов, которые не являются ошибкой
// и не подлежат retry (challenge, rate limit, eligibility).
func (s ClaimStatus) IsSignal() bool {
	switch s {
	case ClaimStatusChallengeRequired, ClaimStatusAlreadyClaimed, ClaimStatusIneligible:
		return true
	default:
		return false
	}
}

// StepStatus — статус отдельного шага workflow.
type StepStatus string

const (
	// StepStatusSkipped — шаг не выполнялся.
	StepStatusSkipped StepStatus = "SKIPPED"

	// StepStatusSucceeded — шаг вернул результат.
	StepStatusSucceeded StepStatus = "SUCCEEDED"

	// StepStatusFailed — шаг вернул "нет результата".
	StepStatusFailed StepStatus = "FAILED"
)

// StepStatusOf переводит ошибку шага в StepStatus.
func StepStatusOf(err error) StepStatus {
	if err != nil {
		return StepStatusFailed
	}
	return StepStatusSucceeded
}
