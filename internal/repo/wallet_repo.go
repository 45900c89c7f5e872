package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Trax/internal/domain"
)

// schema — таблица кошельков. Порядок выдачи (id) определяет
// назначение прокси по индексу, поэтому повторный import не меняет id.
const schema = `
	CREATE TABLE IF NOT EXISTS wallets (
		id          BIGSERIAL PRIMARY KEY,
		address     TEXT NOT NULL UNIQUE,
		private_key TEXT NOT NULL DEFAULT '',
		enabled     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// DB — подмножество pgxpool.Pool, которое использует WalletRepo.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ DB = (*pgxpool.Pool)(nil)

// WalletRepo — источник кошельков в PostgreSQL.
type WalletRepo struct {
	db DB
}

// NewWalletRepo создаёт новый WalletRepo.
func NewWalletRepo(db DB) *WalletRepo {
	return &WalletRepo{db: db}
}

// EnsureSchema создаёт таблицу wallets, если её нет.
func (r *WalletRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure wallets schema: %w", err)
	}
	return nil
}

// ListWallets возвращает включённые кошельки в порядке добавления.
func (r *WalletRepo) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	query := `
		SELECT address, private_key
		FROM wallets
		WHERE enabled
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}

	wallets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Wallet, error) {
		var w domain.Wallet
		err := row.Scan(&w.Address, &w.PrivateKey)
		return w, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan wallets: %w", err)
	}
	return wallets, nil
}

// Import добавляет или обновляет кошельки одной транзакцией.
// Возвращает число затронутых строк.
func (r *WalletRepo) Import(ctx context.Context, wallets []domain.Wallet) (int, error) {
	for i, w := range wallets {
		if err := w.Validate(); err != nil {
			return 0, fmt.Errorf("%w: #%d: %v", ErrInvalidWallet, i+1, err)
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO wallets (address, private_key)
		VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE
		SET private_key = EXCLUDED.private_key,
		    enabled = TRUE,
		    updated_at = now()
	`

	affected := 0
	for _, w := range wallets {
		tag, err := tx.Exec(ctx, query, normalizeAddress(w.Address), w.PrivateKey)
		if err != nil {
			return 0, fmt.Errorf("upsert wallet %s: %w", w.Address, err)
		}
		affected += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return affected, nil
}

// Disable выключает кошелёк: он перестаёт попадать в sweep.
func (r *WalletRepo) Disable(ctx context.Context, address string) error {
	query := `UPDATE wallets SET enabled = FALSE, updated_at = now() WHERE address = $1`

	tag, err := r.db.Exec(ctx, query, normalizeAddress(address))
	if err != nil {
		return fmt.Errorf("disable wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// normalizeAddress приводит адрес к нижнему регистру (без EIP-55 checksum).
func normalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
