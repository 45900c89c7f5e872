package repo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shaiso/Trax/internal/domain"
)

const (
	testKey     = "0000000000000000000000000000000000000000000000000000000000000001"
	testAddress = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"
)

type execCall struct {
	sql  string
	args []any
}

type fakeDB struct {
	execs    []execCall
	tag      string
	execErr  error
	tx       *fakeTx
	beginErr error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag(f.tag), f.execErr
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

type fakeTx struct {
	pgx.Tx
	execs      []execCall
	failOn     int
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execs = append(t.execs, execCall{sql: sql, args: args})
	if t.failOn > 0 && len(t.execs) == t.failOn {
		return pgconn.CommandTag{}, errors.New("boom")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func TestEnsureSchema(t *testing.T) {
	db := &fakeDB{}
	if err := NewWalletRepo(db).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if len(db.execs) != 1 || !strings.Contains(db.execs[0].sql, "CREATE TABLE IF NOT EXISTS wallets") {
		t.Errorf("execs = %+v", db.execs)
	}
}

func TestImport_Upserts(t *testing.T) {
	tx := &fakeTx{}
	db := &fakeDB{tx: tx}

	wallets := []domain.Wallet{
		{Address: testAddress, PrivateKey: testKey},
		{Address: "0x2B5AD5c4795c026514f8317c7a215E218DcCD6cF"},
	}

	n, err := NewWalletRepo(db).Import(context.Background(), wallets)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 2 {
		t.Errorf("affected = %d, want 2", n)
	}
	if !tx.committed {
		t.Error("transaction not committed")
	}
	if len(tx.execs) != 2 {
		t.Fatalf("execs = %d, want 2", len(tx.execs))
	}
	if got := tx.execs[0].args[0]; got != strings.ToLower(testAddress) {
		t.Errorf("address arg = %v, want lowercase", got)
	}
	if got := tx.execs[0].args[1]; got != testKey {
		t.Errorf("key arg = %v", got)
	}
}

func TestImport_InvalidWalletNoTransaction(t *testing.T) {
	db := &fakeDB{beginErr: errors.New("must not begin")}

	_, err := NewWalletRepo(db).Import(context.Background(), []domain.Wallet{{Address: "nope"}})
	if !errors.Is(err, ErrInvalidWallet) {
		t.Errorf("err = %v, want ErrInvalidWallet", err)
	}
}

func TestImport_ExecErrorRollsBack(t *testing.T) {
	tx := &fakeTx{failOn: 1}
	db := &fakeDB{tx: tx}

	_, err := NewWalletRepo(db).Import(context.Background(), []domain.Wallet{{Address: testAddress}})
	if err == nil {
		t.Fatal("expected error")
	}
	if tx.committed || !tx.rolledBack {
		t.Errorf("committed=%v rolledBack=%v", tx.committed, tx.rolledBack)
	}
}

func TestDisable(t *testing.T) {
	db := &fakeDB{tag: "UPDATE 1"}
	if err := NewWalletRepo(db).Disable(context.Background(), testAddress); err != nil {
		t.Fatalf("Disable: %v", err)
	}

	db = &fakeDB{tag: "UPDATE 0"}
	if err := NewWalletRepo(db).Disable(context.Background(), testAddress); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
