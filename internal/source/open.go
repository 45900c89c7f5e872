package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/Trax/internal/domain"
	"github.com/shaiso/Trax/internal/repo"
)

// Source — откуда берутся кошельки.
type Source interface {
	ListWallets(ctx context.Context) ([]domain.Wallet, error)
}

// Open выбирает источник: PostgreSQL, если задан dbURL, иначе файл.
// Возвращаемый close освобождает соединения и безопасен для вызова всегда.
func Open(ctx context.Context, walletsFile, dbURL string, logger *slog.Logger) (Source, func(), error) {
	if dbURL == "" {
		return FileSource{Path: walletsFile, Logger: logger}, func() {}, nil
	}

	pool, err := repo.NewPool(ctx, dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open wallet db: %w", err)
	}

	wallets := repo.NewWalletRepo(pool)
	if err := wallets.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return wallets, pool.Close, nil
}
