package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// Each test gets its own named in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked in TestFileStoreUsesWAL.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileStoreUsesWAL(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"exchange_events", "llm_request_events", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAppendAndQueryExchanges(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	inputs := []ExchangeEventData{
		{Query: "ঢাকার আবহাওয়া কেমন?", Topic: "ভ্রমণ", Difficulty: "easy", Answer: "আজ ঢাকায় আবহাওয়া পরিষ্কার।", StatusCode: 200, LatencyMs: 120},
		{Query: "জ্বর হলে কী করব?", Topic: "স্বাস্থ্য", Difficulty: "medium", Answer: "বিশ্রাম নিন।", StatusCode: 200, LatencyMs: 90},
		{Query: "কম্পিউটার কী?", Topic: "প্রযুক্তি", Difficulty: "hard", Answer: "fallback", Fallback: true, StatusCode: 502, ErrorMessage: "bad gateway"},
	}
	for _, in := range inputs {
		if err := repo.AppendExchange(ctx, in); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.Exchanges(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("exchanges: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Query != "কম্পিউটার কী?" || !all[0].Fallback || all[0].StatusCode != 502 {
		t.Errorf("newest = %+v", all[0])
	}
	if all[2].Sequence >= all[0].Sequence {
		t.Errorf("expected newest first, got seq %d then %d", all[0].Sequence, all[2].Sequence)
	}
	if all[0].Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	limited, err := repo.Exchanges(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited len = %d, want 2", len(limited))
	}

	byTopic, err := repo.Exchanges(ctx, QueryOpts{Topic: "স্বাস্থ্য"})
	if err != nil {
		t.Fatalf("by topic: %v", err)
	}
	if len(byTopic) != 1 || byTopic[0].Answer != "বিশ্রাম নিন।" {
		t.Errorf("by topic = %+v", byTopic)
	}

	after, err := repo.Exchanges(ctx, QueryOpts{After: all[1].Sequence})
	if err != nil {
		t.Fatalf("after: %v", err)
	}
	if len(after) != 1 || after[0].ID != all[0].ID {
		t.Errorf("after = %+v", after)
	}
}

func TestExchangeByID(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendExchange(ctx, ExchangeEventData{Query: "q", Topic: "সাধারণ", Difficulty: "easy", Answer: "a"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	list, err := repo.Exchanges(ctx, QueryOpts{})
	if err != nil || len(list) != 1 {
		t.Fatalf("exchanges: %v (len %d)", err, len(list))
	}

	got, err := repo.Exchange(ctx, list[0].ID)
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if got == nil || got.Answer != "a" {
		t.Errorf("exchange = %+v", got)
	}

	missing, err := repo.Exchange(ctx, 9999)
	if err != nil {
		t.Fatalf("missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing id, got %+v", missing)
	}
}

func TestExchangeTimeRange(t *testing.T) {
	s := openTestStore(t)
	r := &eventRepo{db: s.DB(), seq: s.seq}
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		r.now = func() time.Time { return at }
		if err := r.AppendExchange(ctx, ExchangeEventData{Query: fmt.Sprint(i)}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := r.Exchanges(ctx, QueryOpts{From: base.Add(30 * time.Minute), To: base.Add(90 * time.Minute)})
	if err != nil {
		t.Fatalf("exchanges: %v", err)
	}
	if len(got) != 1 || got[0].Query != "1" {
		t.Errorf("range = %+v", got)
	}
	if !got[0].Timestamp.Equal(base.Add(time.Hour)) {
		t.Errorf("timestamp = %v", got[0].Timestamp)
	}
}

func TestAppendLLMRequest(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "chat-answer",
		InputTokens: 100, OutputTokens: 50, LatencyMs: 800, Success: true,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	err = repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openai", Model: "gpt-4o", Purpose: "chat-answer", ErrorMessage: "rate limited",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.LLMRequests(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("llm requests: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Provider != "openai" || got[0].Success {
		t.Errorf("newest = %+v", got[0])
	}
	if got[1].InputTokens != 100 || !got[1].Success {
		t.Errorf("oldest = %+v", got[1])
	}
}

func TestSequenceSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Success: true}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendExchange(ctx, ExchangeEventData{Query: "q"}); err != nil {
		t.Fatal(err)
	}

	llm, _ := repo.LLMRequests(ctx, QueryOpts{})
	ex, _ := repo.Exchanges(ctx, QueryOpts{})
	if len(llm) != 1 || len(ex) != 1 {
		t.Fatalf("llm=%d ex=%d", len(llm), len(ex))
	}
	if llm[0].Sequence >= ex[0].Sequence {
		t.Errorf("llm seq %d should precede exchange seq %d", llm[0].Sequence, ex[0].Sequence)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	want := filepath.Join(dir, "banglachat", "history.db")
	if p != want {
		t.Errorf("path = %q, want %q", p, want)
	}
}
