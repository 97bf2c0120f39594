package production

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/comalice/reflexpong"
)

func openTempHistory(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close history: %v", err)
		}
	})
	return store
}

func TestRecordAndListResults(t *testing.T) {
	store := openTempHistory(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)

	first := Result{Winner: reflexpong.Player1, P1Score: 5, P2Score: 2, PassCount: 31, FinishedAt: now}
	second := Result{Winner: reflexpong.Player2, P1Score: 4, P2Score: 5, PassCount: 12, FinishedAt: now.Add(time.Minute)}
	for _, r := range []Result{first, second} {
		if _, err := store.RecordResult(ctx, r); err != nil {
			t.Fatalf("record result: %v", err)
		}
	}

	results, err := store.ListResults(ctx, 10)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results len = %d, want 2", len(results))
	}
	got := results[0]
	if got.Winner != reflexpong.Player2 || got.P1Score != 4 || got.P2Score != 5 || got.PassCount != 12 {
		t.Fatalf("results[0] = %+v, want the newer game first", got)
	}
	if !got.FinishedAt.Equal(second.FinishedAt) || got.ID == 0 {
		t.Fatalf("results[0] = %+v", got)
	}

	wins, err := store.Wins(ctx)
	if err != nil {
		t.Fatalf("wins: %v", err)
	}
	if wins != [2]int{1, 1} {
		t.Fatalf("wins = %v, want [1 1]", wins)
	}
}

func TestRecordResultValidation(t *testing.T) {
	store := openTempHistory(t)
	if _, err := store.RecordResult(context.Background(), Result{Winner: reflexpong.Player(7)}); err == nil {
		t.Fatal("expected error for unknown winner")
	}
	if _, err := store.ListResults(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero limit")
	}

	var nilStore *HistoryStore
	if _, err := nilStore.RecordResult(context.Background(), Result{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
	if _, err := OpenHistory("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestResultFromTransition(t *testing.T) {
	ts := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	ev := TransitionEvent{
		From:        reflexpong.ScoreP2,
		To:          reflexpong.P2Wins,
		Controllers: reflexpong.Controllers{P1Score: 3, P2Score: 5, PassCount: 9},
		Timestamp:   ts,
	}
	r, ok := ResultFromTransition(ev)
	if !ok {
		t.Fatal("transition into P2Wins should carry a result")
	}
	if r.Winner != reflexpong.Player2 || r.P2Score != 5 || r.PassCount != 9 || !r.FinishedAt.Equal(ts) {
		t.Fatalf("result = %+v", r)
	}

	ev.To = reflexpong.WaitPressP1
	if _, ok := ResultFromTransition(ev); ok {
		t.Fatal("non-wins transition carried a result")
	}
}
