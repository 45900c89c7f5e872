package domain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	keyOne     = "0x0000000000000000000000000000000000000000000000000000000000000001"
	addressOne = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"
)

func TestWalletValidate(t *testing.T) {
	tests := []struct {
		name    string
		wallet  Wallet
		wantErr error
	}{
		{"address only", Wallet{Address: addressOne}, nil},
		{"matching key", Wallet{Address: addressOne, PrivateKey: keyOne}, nil},
		{"lowercase address", Wallet{Address: "0x7e5f4552091a69125d5dfcb7b8c2659029395bdf", PrivateKey: keyOne}, nil},
		{"bad address", Wallet{Address: "0x123"}, ErrInvalidAddress},
		{"bad key", Wallet{Address: addressOne, PrivateKey: "zz"}, ErrInvalidPrivateKey},
		{"mismatch", Wallet{Address: "0x2B5AD5c4795c026514f8317c7a215E218DcCD6cF", PrivateKey: keyOne}, ErrKeyMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.wallet.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWalletStringHidesKey(t *testing.T) {
	w := Wallet{Address: addressOne, PrivateKey: keyOne}
	if w.String() != addressOne {
		t.Errorf("String() = %q", w.String())
	}
	if got := fmt.Sprintf("%v", w); strings.Contains(got, keyOne) {
		t.Errorf("formatted wallet leaks key: %q", got)
	}
}

func TestClaimStatusIsSignal(t *testing.T) {
	signals := map[ClaimStatus]bool{
		ClaimStatusSucceeded:         false,
		ClaimStatusChallengeRequired: true,
		ClaimStatusAlreadyClaimed:    true,
		ClaimStatusIneligible:        true,
		ClaimStatusFailed:            false,
	}
	for status, want := range signals {
		if got := status.IsSignal(); got != want {
			t.Errorf("%s.IsSignal() = %v, want %v", status, got, want)
		}
	}
}

func TestStakeOutcomeSettled(t *testing.T) {
	var nilOutcome *StakeOutcome
	if nilOutcome.Settled() {
		t.Error("nil outcome must not be settled")
	}
	if (&StakeOutcome{Balance: big.NewInt(0)}).Settled() {
		t.Error("zero balance must not be settled")
	}
	if !(&StakeOutcome{Balance: big.NewInt(1)}).Settled() {
		t.Error("positive balance must be settled")
	}
}

func TestNewDepositHistory(t *testing.T) {
	at := time.Date(2024, 7, 1, 15, 4, 5, 0, time.UTC)
	tx := NewDepositHistory(addressOne, big.NewInt(800), at)

	if tx.From != addressOne || tx.AmountInWei != "800" {
		t.Errorf("tx = %+v", tx)
	}
	if tx.Date != "Mon Jul 01 2024 15:04:05 GMT+0000 (UTC)" {
		t.Errorf("Date = %q", tx.Date)
	}
	if tx.Type != HistoryTypeDeposit || tx.FarmID != HistoryFarmID || tx.Token != ZeroToken || tx.Max {
		t.Errorf("constants = %+v", tx)
	}
	if len(tx.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(tx.Steps))
	}
	if tx.Steps[0].Type != HistoryStepZapIn || tx.Steps[1].Type != HistoryStepStake {
		t.Errorf("steps = %+v", tx.Steps)
	}
	for _, s := range tx.Steps {
		if s.Status != HistoryStepDone || s.Amount != "800" {
			t.Errorf("step = %+v", s)
		}
	}
}

func TestNewDepositHistory_AbbreviatedZone(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	tx := NewDepositHistory(addressOne, big.NewInt(1), time.Date(2024, 7, 1, 18, 4, 5, 0, msk))
	if tx.Date != "Mon Jul 01 2024 18:04:05 GMT+0300 (MSK)" {
		t.Errorf("Date = %q", tx.Date)
	}
}

func TestNewDepositHistory_NilAmount(t *testing.T) {
	tx := NewDepositHistory(addressOne, nil, time.Now())
	if tx.AmountInWei != "0" {
		t.Errorf("AmountInWei = %q, want 0", tx.AmountInWei)
	}
}

func TestWalletReport(t *testing.T) {
	r := NewWalletReport(addressOne, "")
	if r.Connector != StepStatusSkipped || r.Bonus != StepStatusSkipped {
		t.Errorf("initial steps = %+v", r)
	}
	if r.Claim.Status != ClaimStatusFailed {
		t.Errorf("initial claim = %s", r.Claim.Status)
	}
	if r.Duration() != 0 {
		t.Error("unfinished report must have zero duration")
	}

	r.MarkFailed("panic: boom")
	if !r.Failed() || r.FinishedAt == nil {
		t.Errorf("report = %+v", r)
	}
}

func TestRunState(t *testing.T) {
	s := NewRunState()

	if s.BonusClaimed() {
		t.Error("bonus must start unset")
	}
	if n := s.NextSweepNumber(); n != 1 {
		t.Errorf("NextSweepNumber = %d, want 1", n)
	}

	s.SetWallets(4)
	s.RecordSweep(SweepSummary{Number: 1, Wallets: 4})
	s.MarkBonusClaimed()
	s.MarkBonusClaimed()

	snap := s.Snapshot()
	if !snap.BonusClaimed || snap.Sweeps != 1 || snap.Wallets != 4 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.LastSweep == nil || snap.LastSweep.Number != 1 {
		t.Fatalf("LastSweep = %+v", snap.LastSweep)
	}

	// Снимок не разделяет память с состоянием.
	snap.LastSweep.Number = 99
	if s.Snapshot().LastSweep.Number != 1 {
		t.Error("snapshot aliases internal state")
	}
	if n := s.NextSweepNumber(); n != 2 {
		t.Errorf("NextSweepNumber = %d, want 2", n)
	}
}

func TestRunStateConcurrentReads(t *testing.T) {
	s := NewRunState()
	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.RecordSweep(SweepSummary{Number: i})
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	if got := s.Snapshot().Sweeps; got != 10 {
		t.Errorf("Sweeps = %d, want 10", got)
	}
}
