package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/shaiso/Trax/internal/repo"
	"github.com/shaiso/Trax/internal/scheduler"
	"github.com/shaiso/Trax/internal/source"
	"github.com/shaiso/Trax/internal/transport"
)

// NewWalletsCmd создаёт группу команд для кошельков.
func NewWalletsCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "Manage wallets",
	}

	cmd.AddCommand(
		newWalletsListCmd(deps),
		newWalletsImportCmd(deps),
		newWalletsDisableCmd(deps),
	)

	return cmd
}

// WalletRow — кошелёк с назначенным прокси.
type WalletRow struct {
	Index   int    `json:"index"`
	Address string `json:"address"`
	HasKey  bool   `json:"has_key"`
	Proxy   string `json:"proxy"`
}

func newWalletsListCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List wallets with their assigned proxies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.Config()
			if err != nil {
				return err
			}
			out := deps.Output()
			logger := deps.Logger()
			ctx := cmd.Context()

			src, closeSrc, err := source.Open(ctx, cfg.Files.Wallets, cfg.DB.URL, logger)
			if err != nil {
				return err
			}
			defer closeSrc()

			wallets, err := src.ListWallets(ctx)
			if err != nil {
				return err
			}
			proxies, err := source.ReadProxies(cfg.Files.Proxies, logger)
			if err != nil {
				return err
			}

			items := make([]WalletRow, len(wallets))
			rows := make([][]string, len(wallets))
			for i, w := range wallets {
				items[i] = WalletRow{
					Index:   i,
					Address: w.Address,
					HasKey:  w.PrivateKey != "",
					Proxy:   maskedProxy(scheduler.AssignProxy(proxies, i)),
				}
				rows[i] = []string{strconv.Itoa(i), w.Address, strconv.FormatBool(items[i].HasKey), items[i].Proxy}
			}

			out.Print([]string{"#", "ADDRESS", "KEY", "PROXY"}, rows, items)
			return nil
		},
	}
}

func newWalletsImportCmd(deps Deps) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import wallets from a file into PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.Config()
			if err != nil {
				return err
			}
			if cfg.DB.URL == "" {
				return fmt.Errorf("DB_URL is required for import")
			}
			if file == "" {
				file = cfg.Files.Wallets
			}
			out := deps.Output()
			ctx := cmd.Context()

			wallets, err := source.ReadWallets(file, deps.Logger())
			if err != nil {
				return err
			}
			if len(wallets) == 0 {
				out.Success("No wallets in %s", file)
				return nil
			}

			pool, err := repo.NewPool(ctx, cfg.DB.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			walletRepo := repo.NewWalletRepo(pool)
			if err := walletRepo.EnsureSchema(ctx); err != nil {
				return err
			}

			n, err := walletRepo.Import(ctx, wallets)
			if err != nil {
				return err
			}

			out.Success("Imported %d wallets from %s", n, file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Wallets file (default: WALLETS_FILE)")
	return cmd
}

func newWalletsDisableCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "disable <address>",
		Short: "Exclude a wallet from sweeps (PostgreSQL source only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.Config()
			if err != nil {
				return err
			}
			if cfg.DB.URL == "" {
				return fmt.Errorf("DB_URL is required for disable")
			}
			address := args[0]
			if !common.IsHexAddress(address) {
				return fmt.Errorf("%w: %s", repo.ErrInvalidWallet, address)
			}
			ctx := cmd.Context()

			pool, err := repo.NewPool(ctx, cfg.DB.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			return disableWallet(ctx, repo.NewWalletRepo(pool), deps.Output(), address)
		},
	}
}

// walletDisabler — хранилище, умеющее выключать кошелёк.
type walletDisabler interface {
	Disable(ctx context.Context, address string) error
}

func disableWallet(ctx context.Context, store walletDisabler, out *Output, address string) error {
	err := store.Disable(ctx, address)
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("wallet %s not found", address)
	}
	if err != nil {
		return err
	}
	out.Success("Disabled wallet %s", address)
	return nil
}

// maskedProxy возвращает прокси для вывода ("direct" для пустого).
func maskedProxy(raw string) string {
	if raw == "" {
		return "direct"
	}
	return transport.MaskProxy(raw)
}
