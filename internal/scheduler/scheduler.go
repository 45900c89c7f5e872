package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Trax/internal/domain"
	"github.com/shaiso/Trax/internal/telemetry"
	"github.com/shaiso/Trax/internal/transport"
)

const defaultCooldown = 8 * time.Hour

// WalletSource — источник кошельков (файл или PostgreSQL).
type WalletSource interface {
	ListWallets(ctx context.Context) ([]domain.Wallet, error)
}

// Processor — обработка одного кошелька.
type Processor interface {
	Process(ctx context.Context, wallet domain.Wallet, proxy string) *domain.WalletReport
	ClaimBonus(ctx context.Context, wallet domain.Wallet, proxy string) error
}

// EventPublisher — публикация результатов (RabbitMQ).
type EventPublisher interface {
	PublishWalletProcessed(ctx context.Context, report *domain.WalletReport) error
	PublishSweepCompleted(ctx context.Context, summary domain.SweepSummary) error
}

// Scheduler — цикл sweep → cooldown.
type Scheduler struct {
	source       WalletSource
	proxies      []string
	processor    Processor
	publisher    EventPublisher
	state        *domain.RunState
	cooldown     time.Duration
	startupDelay time.Duration
	logger       *slog.Logger
}

// Config — конфигурация Scheduler.
type Config struct {
	Source    WalletSource
	Proxies   []string
	Processor Processor
	Publisher EventPublisher // опционально
	State     *domain.RunState

	Cooldown     time.Duration // пауза между sweep (default: 8h)
	StartupDelay time.Duration // пауза перед первым sweep

	Logger *slog.Logger
}

// New создаёт Scheduler.
func New(cfg Config) *Scheduler {
	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	state := cfg.State
	if state == nil {
		state = domain.NewRunState()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		source:       cfg.Source,
		proxies:      cfg.Proxies,
		processor:    cfg.Processor,
		publisher:    cfg.Publisher,
		state:        state,
		cooldown:     cooldown,
		startupDelay: cfg.StartupDelay,
		logger:       logger,
	}
}

// AssignProxy возвращает прокси для кошелька с индексом i:
// proxies[i mod P], либо "" (прямое соединение) при P = 0.
func AssignProxy(proxies []string, i int) string {
	if len(proxies) == 0 || i < 0 {
		return ""
	}
	return proxies[i%len(proxies)]
}

// Run загружает кошельки и выполняет sweep до отмены context.
//
// Пустой список кошельков — ErrNoWallets, без единого вызова workflow.
// Отмена context — штатное завершение (nil).
func (s *Scheduler) Run(ctx context.Context) error {
	if err := sleep(ctx, s.startupDelay); err != nil {
		return nil
	}

	wallets, err := s.source.ListWallets(ctx)
	if err != nil {
		return fmt.Errorf("load wallets: %w", err)
	}
	if len(wallets) == 0 {
		s.logger.Error("no wallets found, create the wallets file first")
		return ErrNoWallets
	}

	s.state.SetWallets(len(wallets))

	if len(s.proxies) == 0 {
		s.logger.Warn("running without proxy")
	}
	s.logger.Info("wallets loaded", "wallets", len(wallets), "proxies", len(s.proxies))

	for {
		summary := s.Sweep(ctx, wallets)
		if ctx.Err() != nil {
			s.logger.Info("scheduler stopped", "sweep", summary.Number)
			return nil
		}

		s.logger.Info("all wallets processed, waiting before the next run",
			"sweep", summary.Number,
			"cooldown", s.cooldown,
			"next_run_at", summary.NextRunAt,
		)

		if err := sleep(ctx, s.cooldown); err != nil {
			s.logger.Info("scheduler stopped during cooldown")
			return nil
		}
	}
}

// Sweep обрабатывает все кошельки по одному, по порядку.
func (s *Scheduler) Sweep(ctx context.Context, wallets []domain.Wallet) domain.SweepSummary {
	summary := domain.SweepSummary{
		ID:         uuid.New(),
		Number:     s.state.NextSweepNumber(),
		Wallets:    len(wallets),
		BonusRound: !s.state.BonusClaimed(),
		StartedAt:  time.Now(),
	}

	logger := telemetry.WithSweepID(s.logger, summary.ID.String())
	ctx = telemetry.WithLogger(ctx, logger)

	logger.Info("sweep started",
		"sweep", summary.Number,
		"wallets", len(wallets),
		"bonus_round", summary.BonusRound,
	)

	for i, wallet := range wallets {
		if ctx.Err() != nil {
			break
		}

		proxy := AssignProxy(s.proxies, i)

		report := s.processWallet(ctx, logger, wallet, proxy)
		if summary.BonusRound {
			report.Bonus = domain.StepStatusOf(s.claimBonus(ctx, logger, wallet, proxy))
		}

		if report.Failed() {
			summary.Failed++
			telemetry.WalletsProcessed.WithLabelValues("failed").Inc()
		} else {
			summary.Succeeded++
			telemetry.WalletsProcessed.WithLabelValues("ok").Inc()
		}

		s.publishWallet(ctx, logger, report)
	}

	summary.FinishedAt = time.Now()
	if ctx.Err() == nil {
		s.state.MarkBonusClaimed()
		next := summary.FinishedAt.Add(s.cooldown)
		summary.NextRunAt = &next
	}
	s.state.RecordSweep(summary)

	telemetry.SweepsTotal.Inc()
	telemetry.SweepDuration.Observe(summary.Duration().Seconds())

	logger.Info("sweep completed",
		"sweep", summary.Number,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"duration", summary.Duration(),
	)

	s.publishSweep(ctx, logger, summary)
	return summary
}

// processWallet — граница изоляции: ошибка или panic кошелька
// превращается в отчёт с Error.
func (s *Scheduler) processWallet(ctx context.Context, logger *slog.Logger, wallet domain.Wallet, proxy string) (report *domain.WalletReport) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("error processing wallet", "wallet", wallet.Address, "panic", r)
			report = domain.NewWalletReport(wallet.Address, transport.MaskProxy(proxy))
			report.MarkFailed(fmt.Sprintf("%v: %v", ErrPanic, r))
		}
	}()

	report = s.processor.Process(ctx, wallet, proxy)
	if report == nil {
		report = domain.NewWalletReport(wallet.Address, transport.MaskProxy(proxy))
		report.MarkFinished()
	}
	return report
}

// claimBonus — отдельная граница изоляции для follow-бонуса,
// независимая от исхода workflow.
func (s *Scheduler) claimBonus(ctx context.Context, logger *slog.Logger, wallet domain.Wallet, proxy string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("error claiming follow bonus", "wallet", wallet.Address, "panic", r)
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	return s.processor.ClaimBonus(ctx, wallet, proxy)
}

func (s *Scheduler) publishWallet(ctx context.Context, logger *slog.Logger, report *domain.WalletReport) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishWalletProcessed(ctx, report); err != nil {
		logger.Warn("failed to publish wallet.processed", "wallet", report.Address, "error", err)
	}
}

func (s *Scheduler) publishSweep(ctx context.Context, logger *slog.Logger, summary domain.SweepSummary) {
	if s.publisher == nil {
		return
	}
	// sweep.completed публикуется и после отмены ctx.
	if err := s.publisher.PublishSweepCompleted(context.WithoutCancel(ctx), summary); err != nil {
		logger.Warn("failed to publish sweep.completed", "sweep_id", summary.ID, "error", err)
	}
}

// sleep — пауза с учётом context.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
