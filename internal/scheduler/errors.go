package scheduler

import "errors"

// Ошибки планировщика.
var (
	// ErrNoWallets — источник не вернул ни одного кошелька.
	ErrNoWallets = errors.New("no wallets found")

	// ErrPanic — panic внутри границы изоляции кошелька.
	ErrPanic = errors.New("panic while processing wallet")
)
