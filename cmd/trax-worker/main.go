// Trax Worker — проходит по кошелькам каждые 8 часов.
//
// Для каждого кошелька:
//   - регистрирует connector и аккаунт, читает статистику
//   - запрашивает faucet (с решением captcha при 401)
//   - делает zap-and-stake и записывает историю
//   - в первом sweep получает follow-бонус
//
// Дополнительно публикует события в RabbitMQ и отдаёт
// /healthz, /metrics и /api/v1/status.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Trax/internal/api"
	"github.com/shaiso/Trax/internal/captcha"
	"github.com/shaiso/Trax/internal/chain"
	"github.com/shaiso/Trax/internal/config"
	"github.com/shaiso/Trax/internal/domain"
	"github.com/shaiso/Trax/internal/mq"
	"github.com/shaiso/Trax/internal/remote"
	"github.com/shaiso/Trax/internal/scheduler"
	"github.com/shaiso/Trax/internal/source"
	"github.com/shaiso/Trax/internal/telemetry"
	"github.com/shaiso/Trax/internal/workflow"
)

const shutdownTimeout = 5 * time.Second

func main() {
	config.LoadDotEnv()

	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting trax-worker")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Кошельки: PostgreSQL или файл
	wallets, closeWallets, err := source.Open(ctx, cfg.Files.Wallets, cfg.DB.URL, logger)
	if err != nil {
		logger.Error("failed to open wallet source", "error", err)
		os.Exit(1)
	}
	defer closeWallets()

	proxies, err := source.ReadProxies(cfg.Files.Proxies, logger)
	if err != nil {
		logger.Error("failed to read proxies", "error", err)
		os.Exit(1)
	}

	solver, err := captcha.New(captcha.Config{
		APIKey:       cfg.Captcha.APIKey,
		Provider:     cfg.Captcha.Provider(),
		SiteKey:      cfg.Captcha.SiteKey,
		PageURL:      cfg.Captcha.PageURL,
		PollInterval: cfg.Captcha.PollInterval,
		MaxPolls:     cfg.Captcha.MaxPolls,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("failed to create captcha solver", "error", err)
		os.Exit(1)
	}

	// On-chain шаг (опционально)
	var staker workflow.Staker
	if cfg.Chain.Enabled() {
		s, client, err := chain.Dial(ctx, cfg.Chain.RPCURL, chain.Config{
			ZapContract:    cfg.Chain.ZapContract,
			ZapCalldata:    cfg.Chain.ZapCalldata,
			VaultToken:     cfg.Chain.VaultToken,
			GasReserveWei:  cfg.Chain.GasReserveWei,
			ReceiptTimeout: cfg.Chain.ReceiptTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rpc", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		staker = s
		logger.Info("on-chain stake enabled", "zap_contract", cfg.Chain.ZapContract)
	} else {
		logger.Warn("on-chain stake disabled, ZAP_CONTRACT is not set")
	}

	// RabbitMQ (опционально)
	var publisher scheduler.EventPublisher
	if cfg.MQ.URL != "" {
		mqConn, err := mq.NewConnection(cfg.MQ.URL, "trax-worker", logger)
		if err != nil {
			logger.Warn("RabbitMQ not available, running without events", "error", err)
		} else {
			defer mqConn.Close()

			if err := mq.SetupTopology(ctx, mqConn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			}
			publisher = mq.NewPublisher(mqConn, logger)
		}
	}

	client := remote.New(remote.Config{
		FaucetURL: cfg.Remote.FaucetURL,
		APIURL:    cfg.Remote.APIURL,
		Referrer:  cfg.Remote.Referrer,
		Connector: cfg.Remote.Connector,
		Retry: remote.RetryPolicy{
			Retries: cfg.Remote.Retries,
			Delay:   cfg.Remote.RetryDelay,
		},
		RateLimit: cfg.Remote.RateLimit,
	})

	flow := workflow.New(workflow.Config{
		Remote: client,
		Solver: solver,
		Staker: staker,
		Logger: logger,
	})

	state := domain.NewRunState()

	sched := scheduler.New(scheduler.Config{
		Source:       wallets,
		Proxies:      proxies,
		Processor:    flow,
		Publisher:    publisher,
		State:        state,
		Cooldown:     cfg.Schedule.Cooldown,
		StartupDelay: cfg.Schedule.StartupDelay,
		Logger:       logger,
	})

	// HTTP: /healthz, /metrics, /api/v1/status
	srv := api.NewServer(fmt.Sprintf(":%d", cfg.Server.Port), api.NewHandler(api.Config{
		State:  state,
		Logger: logger,
	}))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		// Завершение scheduler останавливает и HTTP-сервер.
		err := sched.Run(gctx)
		cancel()
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("trax-worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("trax-worker stopped")
}
