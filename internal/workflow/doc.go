// Package workflow — последовательность шагов для одного кошелька.
//
//	SetConnector → CreateAccount → GetStats → Claim
//	Claim == CHALLENGE_REQUIRED → Solve (один раз) → Claim(token)
//	→ ZapAndStake(claim) → [Settled] SaveHistoryTx(amount)
//
// Каждый шаг best-effort: "нет результата" логируется, и выполняется
// следующий шаг. ZapAndStake выполняется при любом исходе claim.
// Итог фиксируется в domain.WalletReport.
//
// Workflow не ловит panic: границу изоляции держит scheduler.
package workflow
