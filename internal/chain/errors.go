package chain

import "errors"

// Ошибки on-chain шага.
var (
	// ErrInvalidKey — приватный ключ не парсится.
	ErrInvalidKey = errors.New("invalid private key")

	// ErrTxReverted — транзакция включена в блок со статусом 0.
	ErrTxReverted = errors.New("transaction reverted")

	// ErrReceiptTimeout — receipt не получен за отведённое время.
	ErrReceiptTimeout = errors.New("receipt wait timeout")
)
