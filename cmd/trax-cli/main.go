// Trax CLI — утилита для подготовки и наблюдения за worker'ом.
//
// Использование:
//
//	trax [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	config   Проверка конфигурации
//	wallets  Список кошельков и импорт в PostgreSQL
//	events   Поток событий из RabbitMQ
//	status   Состояние sweep loop
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaiso/Trax/internal/cli"
	"github.com/shaiso/Trax/internal/config"
	"github.com/shaiso/Trax/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	config.LoadDotEnv()

	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "trax",
		Short:         "Trax CLI — faucet and stake bot companion",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultAPI := fmt.Sprintf("http://localhost:%d", config.DefaultServerPort)
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultAPI, "Worker status API URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	deps := cli.Deps{
		Client: func() *cli.Client { return cli.NewClient(apiURL) },
		Output: func() *cli.Output { return cli.NewOutput(jsonOutput) },
		Config: config.Load,
		Logger: func() *slog.Logger {
			return telemetry.NewLogger(os.Stderr, telemetry.LogLevel(), os.Getenv("LOG_FORMAT"))
		},
	}

	rootCmd.AddCommand(
		cli.NewConfigCmd(deps),
		cli.NewWalletsCmd(deps),
		cli.NewEventsCmd(deps),
		cli.NewStatusCmd(deps),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
