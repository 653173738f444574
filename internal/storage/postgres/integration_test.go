package postgres

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/julianstephens/dailyfocus/internal/storage"
)

// TestStore_Integration runs against a real database.
// Set POSTGRES_TEST_URL to run it, e.g.
// POSTGRES_TEST_URL="postgres://focus@localhost:5432/focus_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()
	t.Cleanup(func() {
		store.db.Exec("DELETE FROM kv WHERE key IN ('2099-01-01', '2099-01-02')")
	})

	t.Run("Schema", func(t *testing.T) {
		status, err := store.SchemaStatus()
		if err != nil {
			t.Fatalf("SchemaStatus failed: %v", err)
		}
		if status.Pending() {
			t.Errorf("migrations pending after Init: %+v", status)
		}
	})

	t.Run("GetSet", func(t *testing.T) {
		err := store.Set(ctx, map[string]json.RawMessage{
			"2099-01-01": json.RawMessage(`{"task":"pg","completed":false}`),
			"2099-01-02": json.RawMessage(`{"task":null,"completed":true,"skipped":true}`),
		})
		if err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		got, err := store.Get(ctx, []string{"2099-01-01", "2099-01-02", "2099-01-03"})
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 entries, got %d", len(got))
		}
	})

	t.Run("DayStore", func(t *testing.T) {
		days := storage.NewDayStore(store)
		rec, err := days.Day(ctx, "2099-01-01")
		if err != nil {
			t.Fatalf("Day failed: %v", err)
		}
		if rec == nil || rec.TaskText() != "pg" {
			t.Fatalf("Day() = %+v", rec)
		}

		if err := days.PutDay(ctx, rec.MarkCompleted(time.Now())); err != nil {
			t.Fatalf("PutDay failed: %v", err)
		}
		rec, err = days.Day(ctx, "2099-01-01")
		if err != nil {
			t.Fatalf("Day failed: %v", err)
		}
		if !rec.CountsTowardStreak() {
			t.Errorf("expected completed record, got %+v", rec)
		}

		skipped, err := days.Day(ctx, "2099-01-02")
		if err != nil {
			t.Fatalf("Day failed: %v", err)
		}
		if skipped == nil || !skipped.Skipped || skipped.HasTask() || skipped.Date != "2099-01-02" {
			t.Errorf("skipped record = %+v", skipped)
		}
	})
}
