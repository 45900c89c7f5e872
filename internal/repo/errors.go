package repo

import "errors"

// Ошибки репозиториев.
var (
	// ErrNotFound — запись не найдена в БД.
	ErrNotFound = errors.New("not found")

	// ErrInvalidWallet — кошелёк не прошёл валидацию перед записью.
	ErrInvalidWallet = errors.New("invalid wallet")
)
