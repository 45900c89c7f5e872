package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Ошибки валидации кошелька.
var (
	// ErrInvalidAddress — адрес не является hex-адресом EVM.
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrInvalidPrivateKey — приватный ключ не парсится.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrKeyMismatch — ключ не соответствует адресу.
	ErrKeyMismatch = errors.New("private key does not match address")
)

// Wallet — аккаунт, для которого выполняется workflow.
//
// Загружается один раз при старте и не меняется до конца процесса.
// Scheduler владеет списком и передаёт Wallet в workflow по значению.
type Wallet struct {
	// Address — публичный адрес (0x...).
	Address string `json:"address" yaml:"address"`

	// PrivateKey — hex приватного ключа; нужен только on-chain шагу.
	PrivateKey string `json:"privateKey" yaml:"privateKey"`
}

// Validate проверяет адрес и, если ключ задан, что ключ выводит этот адрес.
func (w Wallet) Validate() error {
	if !common.IsHexAddress(w.Address) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, w.Address)
	}
	if w.PrivateKey == "" {
		return nil
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(w.PrivateKey), "0x"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	derived := crypto.PubkeyToAddress(key.PublicKey)
	if derived != common.HexToAddress(w.Address) {
		return fmt.Errorf("%w: %s", ErrKeyMismatch, w.Address)
	}
	return nil
}

// String не раскрывает приватный ключ (fmt, slog).
func (w Wallet) String() string {
	return w.Address
}
