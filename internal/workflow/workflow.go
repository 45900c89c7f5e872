package workflow

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/shaiso/Trax/internal/domain"
	"github.com/shaiso/Trax/internal/telemetry"
	"github.com/shaiso/Trax/internal/transport"
)

// Remote — remote-вызовы, нужные workflow.
type Remote interface {
	SetConnector(ctx context.Context, address, proxy string) (any, error)
	CreateAccount(ctx context.Context, address, proxy string) (any, error)
	GetStats(ctx context.Context, address, proxy string) (*domain.AccountStats, error)
	Claim(ctx context.Context, address, proxy, token string) domain.ClaimOutcome
	ClaimFollowBonus(ctx context.Context, address, proxy string) (any, error)
	SaveHistoryTx(ctx context.Context, address, proxy string, amount *big.Int) (any, error)
}

// ChallengeSolver — решатель captcha.
type ChallengeSolver interface {
	Solve(ctx context.Context) (string, error)
}

// Staker — on-chain шаг.
type Staker interface {
	ZapAndStake(ctx context.Context, privateKey string, claim domain.ClaimOutcome) (*domain.StakeOutcome, error)
}

// Config — зависимости workflow.
type Config struct {
	Remote Remote
	Solver ChallengeSolver
	Staker Staker
	Logger *slog.Logger
}

// Workflow выполняет шаги для одного кошелька.
type Workflow struct {
	remote Remote
	solver ChallengeSolver
	staker Staker
	logger *slog.Logger
}

// New создаёт Workflow.
func New(cfg Config) *Workflow {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		remote: cfg.Remote,
		solver: cfg.Solver,
		staker: cfg.Staker,
		logger: logger,
	}
}

// Process выполняет workflow для кошелька через указанный прокси.
func (w *Workflow) Process(ctx context.Context, wallet domain.Wallet, proxy string) *domain.WalletReport {
	masked := transport.MaskProxy(proxy)
	logger := telemetry.WithWallet(w.loggerFrom(ctx), wallet.Address, masked)
	ctx = telemetry.WithLogger(ctx, logger)

	report := domain.NewWalletReport(wallet.Address, masked)
	logger.Info("processing wallet")

	// 1. Коннектор
	_, err := w.remote.SetConnector(ctx, wallet.Address, proxy)
	report.Connector = domain.StepStatusOf(err)
	if w.interrupted(ctx, report) {
		return report
	}

	// 2. Регистрация
	_, err = w.remote.CreateAccount(ctx, wallet.Address, proxy)
	report.Account = domain.StepStatusOf(err)
	if w.interrupted(ctx, report) {
		return report
	}

	// 3. Статистика
	stats, err := w.remote.GetStats(ctx, wallet.Address, proxy)
	report.Stats = domain.StepStatusOf(err)
	report.AccountStats = stats
	if w.interrupted(ctx, report) {
		return report
	}

	// 4. Claim, с веткой captcha на 401
	report.Claim, report.ChallengeSolved = w.claim(ctx, logger, wallet.Address, proxy)
	telemetry.ClaimOutcomes.WithLabelValues(string(report.Claim.Status)).Inc()
	if w.interrupted(ctx, report) {
		return report
	}

	// 5. On-chain
	stake, err := w.stake(ctx, wallet.PrivateKey, report.Claim)
	if err != nil {
		logger.Error("zap and stake failed", "error", err)
	}
	report.Stake = stake
	if w.interrupted(ctx, report) {
		return report
	}

	// 6. История — только для положительной суммы
	if stake.Settled() {
		_, err = w.remote.SaveHistoryTx(ctx, wallet.Address, proxy, stake.Balance)
		report.History = domain.StepStatusOf(err)
	}

	report.MarkFinished()
	logger.Info("wallet processed",
		"claim_status", report.Claim.Status,
		"challenge_solved", report.ChallengeSolved,
		"staked", stake.Settled(),
		"duration", report.Duration(),
	)
	return report
}

// ClaimBonus запрашивает follow-бонус для кошелька.
func (w *Workflow) ClaimBonus(ctx context.Context, wallet domain.Wallet, proxy string) error {
	logger := telemetry.WithWallet(w.loggerFrom(ctx), wallet.Address, transport.MaskProxy(proxy))
	ctx = telemetry.WithLogger(ctx, logger)

	_, err := w.remote.ClaimFollowBonus(ctx, wallet.Address, proxy)
	return err
}

// claim выполняет claim; при CHALLENGE_REQUIRED решает captcha ровно
// один раз и повторяет claim с токеном.
func (w *Workflow) claim(ctx context.Context, logger *slog.Logger, address, proxy string) (domain.ClaimOutcome, bool) {
	outcome := w.remote.Claim(ctx, address, proxy, "")
	if outcome.Status != domain.ClaimStatusChallengeRequired {
		return outcome, false
	}

	if w.solver == nil {
		logger.Warn("captcha required but no solver configured")
		return outcome, false
	}

	logger.Info("solving captcha")
	token, err := w.solver.Solve(ctx)
	if err != nil {
		logger.Error("captcha solve failed", "error", err)
		return outcome, false
	}

	return w.remote.Claim(ctx, address, proxy, token), true
}

func (w *Workflow) stake(ctx context.Context, privateKey string, claim domain.ClaimOutcome) (*domain.StakeOutcome, error) {
	if w.staker == nil {
		return nil, nil
	}
	return w.staker.ZapAndStake(ctx, privateKey, claim)
}

// interrupted завершает отчёт, если context отменён.
func (w *Workflow) interrupted(ctx context.Context, report *domain.WalletReport) bool {
	if err := ctx.Err(); err != nil {
		report.MarkFailed(err.Error())
		return true
	}
	return false
}

// loggerFrom берёт логгер из context (sweep_id), иначе собственный.
func (w *Workflow) loggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(telemetry.CtxLogger).(*slog.Logger); ok {
		return logger
	}
	return w.logger
}
