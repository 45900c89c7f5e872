package chain

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/shaiso/Trax/internal/domain"
)

const (
	// Приватный ключ 1 и его адрес.
	testKey     = "0x0000000000000000000000000000000000000000000000000000000000000001"
	testAddress = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"

	testZap   = "0x00000000000000000000000000000000000000aa"
	testVault = "0x00000000000000000000000000000000000000bb"
)

// fakeBackend — in-memory RPC для staker'а.
type fakeBackend struct {
	mu sync.Mutex

	balance       *big.Int
	vault         *big.Int
	vaultAfter    *big.Int
	receiptStatus uint64
	sendErr       error

	sent []*types.Transaction
}

func newFakeBackend(balance int64) *fakeBackend {
	return &fakeBackend{
		balance:       big.NewInt(balance),
		vault:         big.NewInt(0),
		vaultAfter:    big.NewInt(0),
		receiptStatus: types.ReceiptStatusSuccessful,
	}
}

func (f *fakeBackend) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return new(big.Int).Set(f.balance), nil
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 7, nil
}

func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: big.NewInt(10)}, nil
}

func (f *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(2), nil
}

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 21_000, nil
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(80084), nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	f.vault = f.vaultAfter
	return nil
}

func (f *fakeBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return common.LeftPadBytes(f.vault.Bytes(), 32), nil
}

func (f *fakeBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{Status: f.receiptStatus, BlockNumber: big.NewInt(100)}, nil
}

func (f *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return nil, nil
}

func TestAddressFromKey(t *testing.T) {
	addr, err := AddressFromKey(testKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != common.HexToAddress(testAddress) {
		t.Errorf("expected %s, got %s", testAddress, addr.Hex())
	}

	if _, err := AddressFromKey("zz"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestZapAndStake_Disabled(t *testing.T) {
	staker := NewStaker(newFakeBackend(1000), Config{}, nil)

	outcome, err := staker.ZapAndStake(context.Background(), testKey, domain.FailedClaim())
	if err != nil || outcome != nil {
		t.Errorf("disabled staker should return nil, nil; got %v, %v", outcome, err)
	}

	var nilStaker *Staker
	if nilStaker.Enabled() {
		t.Error("nil staker must be disabled")
	}
}

func TestZapAndStake_NothingToStake(t *testing.T) {
	backend := newFakeBackend(100)
	staker := NewStaker(backend, Config{ZapContract: testZap, GasReserveWei: big.NewInt(100)}, nil)

	outcome, err := staker.ZapAndStake(context.Background(), testKey, domain.FailedClaim())
	if err != nil || outcome != nil {
		t.Errorf("expected nil, nil; got %v, %v", outcome, err)
	}
	if len(backend.sent) != 0 {
		t.Error("no transaction should be sent")
	}
}

func TestZapAndStake_VaultDelta(t *testing.T) {
	backend := newFakeBackend(1_000_000)
	backend.vault = big.NewInt(50)
	backend.vaultAfter = big.NewInt(850)

	staker := NewStaker(backend, Config{
		ZapContract:   testZap,
		ZapCalldata:   "0xdeadbeef",
		VaultToken:    testVault,
		GasReserveWei: big.NewInt(1_000),
	}, nil)

	claim := domain.ClaimOutcome{Status: domain.ClaimStatusSucceeded}
	outcome, err := staker.ZapAndStake(context.Background(), testKey, claim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Settled() || outcome.Balance.Int64() != 800 {
		t.Errorf("expected settled 800, got %+v", outcome)
	}

	if len(backend.sent) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(backend.sent))
	}
	tx := backend.sent[0]
	if tx.Type() != types.DynamicFeeTxType {
		t.Errorf("expected dynamic fee tx, got type %d", tx.Type())
	}
	if tx.Value().Int64() != 999_000 {
		t.Errorf("expected value balance-reserve=999000, got %s", tx.Value())
	}
	if *tx.To() != common.HexToAddress(testZap) {
		t.Errorf("unexpected recipient %s", tx.To().Hex())
	}
	if tx.GasFeeCap().Int64() != 22 || tx.GasTipCap().Int64() != 2 {
		t.Errorf("expected fee cap 22 and tip 2, got %s / %s", tx.GasFeeCap(), tx.GasTipCap())
	}
	if common.Bytes2Hex(tx.Data()) != "deadbeef" {
		t.Errorf("unexpected calldata %x", tx.Data())
	}

	sender, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil || sender != common.HexToAddress(testAddress) {
		t.Errorf("unexpected sender %s (%v)", sender.Hex(), err)
	}
	if outcome.TxHash != tx.Hash().Hex() {
		t.Errorf("expected tx hash %s, got %s", tx.Hash().Hex(), outcome.TxHash)
	}
}

func TestZapAndStake_NoVaultUsesValue(t *testing.T) {
	backend := newFakeBackend(5_000)
	staker := NewStaker(backend, Config{ZapContract: testZap, GasReserveWei: big.NewInt(1_000)}, nil)

	outcome, err := staker.ZapAndStake(context.Background(), testKey, domain.FailedClaim())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Balance.Int64() != 4_000 {
		t.Errorf("expected 4000, got %s", outcome.Balance)
	}
}

func TestZapAndStake_Reverted(t *testing.T) {
	backend := newFakeBackend(5_000)
	backend.receiptStatus = types.ReceiptStatusFailed
	staker := NewStaker(backend, Config{ZapContract: testZap}, nil)

	outcome, err := staker.ZapAndStake(context.Background(), testKey, domain.FailedClaim())
	if !errors.Is(err, ErrTxReverted) {
		t.Errorf("expected ErrTxReverted, got %v", err)
	}
	if outcome != nil {
		t.Errorf("expected no result, got %+v", outcome)
	}
}

func TestZapAndStake_SendError(t *testing.T) {
	backend := newFakeBackend(5_000)
	backend.sendErr = errors.New("insufficient funds for gas")
	staker := NewStaker(backend, Config{ZapContract: testZap}, nil)

	if _, err := staker.ZapAndStake(context.Background(), testKey, domain.FailedClaim()); err == nil {
		t.Error("expected send error")
	}
}

func TestZapAndStake_InvalidKey(t *testing.T) {
	staker := NewStaker(newFakeBackend(5_000), Config{ZapContract: testZap}, nil)

	if _, err := staker.ZapAndStake(context.Background(), "nope", domain.FailedClaim()); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}
