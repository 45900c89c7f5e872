package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/shaiso/Trax/internal/domain"
	"github.com/shaiso/Trax/internal/telemetry"
)

const (
	defaultGasLimit       = uint64(300_000)
	defaultReceiptTimeout = 2 * time.Minute
)

const erc20BalanceOfABI = `[{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"}]`

var erc20ABI = mustParseABI(erc20BalanceOfABI)

// Backend — подмножество RPC-методов, нужных staker'у.
// *ethclient.Client реализует его полностью.
type Backend interface {
	bind.DeployBackend

	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Config — конфигурация staker'а.
type Config struct {
	// ZapContract — адрес zap-контракта. Пустой — шаг отключён.
	ZapContract string

	// ZapCalldata — hex calldata вызова zap (селектор и аргументы).
	ZapCalldata string

	// VaultToken — токен reward vault; по приросту его баланса
	// считается застейканная сумма. Пустой — сумма равна value транзакции.
	VaultToken string

	// GasReserveWei — часть нативного баланса, оставляемая на газ.
	GasReserveWei *big.Int

	ReceiptTimeout time.Duration
}

// Staker — on-chain шаг zap-and-stake.
type Staker struct {
	backend Backend
	cfg     Config
	logger  *slog.Logger
}

// NewStaker создаёт staker. backend == nil или пустой ZapContract
// дают отключённый staker.
func NewStaker(backend Backend, cfg Config, logger *slog.Logger) *Staker {
	if cfg.GasReserveWei == nil {
		cfg.GasReserveWei = new(big.Int)
	}
	if cfg.ReceiptTimeout <= 0 {
		cfg.ReceiptTimeout = defaultReceiptTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Staker{backend: backend, cfg: cfg, logger: logger}
}

// Dial подключается к RPC и создаёт staker.
func Dial(ctx context.Context, rpcURL string, cfg Config, logger *slog.Logger) (*Staker, *ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rpc: %w", err)
	}
	return NewStaker(client, cfg, logger), client, nil
}

// Enabled возвращает true, если шаг настроен.
func (s *Staker) Enabled() bool {
	return s != nil && s.backend != nil && s.cfg.ZapContract != ""
}

// ZapAndStake отправляет нативный баланс (минус резерв) в zap-контракт.
//
// Возвращает (nil, nil), если шаг отключён или стейкать нечего.
// Исход claim только логируется: шаг выполняется при любом статусе.
func (s *Staker) ZapAndStake(ctx context.Context, privateKey string, claim domain.ClaimOutcome) (*domain.StakeOutcome, error) {
	logger := telemetry.FromContext(ctx)

	if !s.Enabled() {
		logger.Debug("on-chain step disabled")
		return nil, nil
	}

	outcome, err := s.zapAndStake(ctx, logger, privateKey, claim)
	switch {
	case err != nil:
		telemetry.StakeResults.WithLabelValues("failed").Inc()
	case outcome.Settled():
		telemetry.StakeResults.WithLabelValues("settled").Inc()
	default:
		telemetry.StakeResults.WithLabelValues("empty").Inc()
	}
	return outcome, err
}

func (s *Staker) zapAndStake(ctx context.Context, logger *slog.Logger, privateKey string, claim domain.ClaimOutcome) (*domain.StakeOutcome, error) {
	key, err := ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	from := crypto.PubkeyToAddress(key.PublicKey)

	balance, err := s.backend.BalanceAt(ctx, from, nil)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}

	value := new(big.Int).Sub(balance, s.cfg.GasReserveWei)
	if value.Sign() <= 0 {
		logger.Info("nothing to stake",
			"balance", balance.String(),
			"gas_reserve", s.cfg.GasReserveWei.String(),
			"claim_status", claim.Status,
		)
		return nil, nil
	}

	vaultBefore, err := s.vaultBalance(ctx, from)
	if err != nil {
		return nil, err
	}

	tx, err := s.sendZap(ctx, key, from, value)
	if err != nil {
		return nil, err
	}
	logger.Info("zap transaction sent",
		"tx_hash", tx.Hash().Hex(),
		"value", value.String(),
		"claim_status", claim.Status,
	)

	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.ReceiptTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, s.backend, tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %s", ErrReceiptTimeout, tx.Hash().Hex())
		}
		return nil, fmt.Errorf("wait mined: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s", ErrTxReverted, tx.Hash().Hex())
	}

	staked := value
	if vaultBefore != nil {
		vaultAfter, err := s.vaultBalance(ctx, from)
		if err != nil {
			return nil, err
		}
		staked = new(big.Int).Sub(vaultAfter, vaultBefore)
		if staked.Sign() < 0 {
			staked = new(big.Int)
		}
	}

	logger.Info("zap and stake confirmed",
		"tx_hash", tx.Hash().Hex(),
		"block", receipt.BlockNumber,
		"staked", staked.String(),
	)

	return &domain.StakeOutcome{Balance: staked, TxHash: tx.Hash().Hex()}, nil
}

// sendZap подписывает и отправляет DynamicFeeTx.
// feeCap = tip + 2*baseFee.
func (s *Staker) sendZap(ctx context.Context, key *ecdsa.PrivateKey, from common.Address, value *big.Int) (*types.Transaction, error) {
	to := common.HexToAddress(s.cfg.ZapContract)
	data := common.FromHex(s.cfg.ZapCalldata)

	nonce, err := s.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	head, err := s.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	baseFee := head.BaseFee
	if baseFee == nil {
		baseFee = new(big.Int)
	}

	tipCap, err := s.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("tip cap: %w", err)
	}
	feeCap := new(big.Int).Add(tipCap, new(big.Int).Mul(baseFee, big.NewInt(2)))

	gasLimit, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		s.logger.Debug("gas estimation failed, using default", "error", err, "gas_limit", defaultGasLimit)
		gasLimit = defaultGasLimit
	}

	chainID, err := s.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &to,
		Value:     value,
		Data:      data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}

	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	return signed, nil
}

// vaultBalance возвращает баланс vault-токена или nil, если токен не задан.
func (s *Staker) vaultBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	if s.cfg.VaultToken == "" {
		return nil, nil
	}

	input, err := erc20ABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("pack balanceOf: %w", err)
	}

	token := common.HexToAddress(s.cfg.VaultToken)
	out, err := s.backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("vault balance: %w", err)
	}

	values, err := erc20ABI.Unpack("balanceOf", out)
	if err != nil {
		return nil, fmt.Errorf("unpack balanceOf: %w", err)
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unpack balanceOf: unexpected type %T", values[0])
	}
	return balance, nil
}

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
