package journal

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	logx "flowgate/pkg/logx"
)

func testRecord(tick uint64) TransferRecord {
	return TransferRecord{
		At:        time.Now().UTC(),
		Tick:      tick,
		Signature: fmt.Sprintf("sig-%d", tick),
		Payer:     "payer-wallet",
		Recipient: "recipient-wallet",
		Total:     5_000_000,
		Platform:  500_000,
		Secondary: 4_500_000,
	}
}

func TestOpenDisabled(t *testing.T) {
	t.Parallel()

	for _, driver := range []string{"", "none"} {
		st, err := Open(Config{Driver: driver}, logx.Nop())
		if err != nil {
			t.Fatalf("Open(%q): %v", driver, err)
		}
		if st != nil {
			t.Fatalf("Open(%q) must return nil store", driver)
		}
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	t.Parallel()

	if _, err := Open(Config{Driver: "redis"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	st, err := Open(Config{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "journal.db"),
		BusyTimeout: time.Second,
	}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	for i := uint64(1); i <= 5; i++ {
		if err := st.AppendTransfer(ctx, testRecord(i)); err != nil {
			t.Fatalf("AppendTransfer(%d): %v", i, err)
		}
	}

	recs, err := st.RecentTransfers(ctx, 3)
	if err != nil {
		t.Fatalf("RecentTransfers: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	// Newest first.
	if recs[0].Tick != 5 || recs[2].Tick != 3 {
		t.Fatalf("unexpected order: %d..%d", recs[0].Tick, recs[2].Tick)
	}
	if recs[0].Signature != "sig-5" || recs[0].Total != 5_000_000 {
		t.Fatalf("unexpected record: %+v", recs[0])
	}
}

func TestSQLiteNullRecipient(t *testing.T) {
	t.Parallel()

	st, err := Open(Config{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "journal.db")}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	rec := testRecord(1)
	rec.Recipient = ""
	if err := st.AppendTransfer(context.Background(), rec); err != nil {
		t.Fatalf("AppendTransfer: %v", err)
	}
	recs, err := st.RecentTransfers(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentTransfers: %v", err)
	}
	if recs[0].Recipient != "" {
		t.Fatalf("expected empty recipient, got %q", recs[0].Recipient)
	}
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.jsonl")
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	for i := uint64(1); i <= 4; i++ {
		if err := st.AppendTransfer(ctx, testRecord(i)); err != nil {
			t.Fatalf("AppendTransfer(%d): %v", i, err)
		}
	}

	recs, err := st.RecentTransfers(ctx, 2)
	if err != nil {
		t.Fatalf("RecentTransfers: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Tick != 4 || recs[1].Tick != 3 {
		t.Fatalf("unexpected order: %d, %d", recs[0].Tick, recs[1].Tick)
	}
}

func TestFileEmptyJournal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.jsonl")
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	recs, err := st.RecentTransfers(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentTransfers: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}
}
