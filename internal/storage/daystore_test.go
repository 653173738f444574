package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/julianstephens/dailyfocus/internal/models"
)

func setupDayStore(t *testing.T) (*DayStore, *JSONStore) {
	t.Helper()
	provider := setupJSONStore(t)
	return NewDayStore(provider), provider
}

func TestDayRoundTrip(t *testing.T) {
	ctx := context.Background()
	days, _ := setupDayStore(t)

	rec, err := days.Day(ctx, "2024-01-04")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected absent day, got %+v", rec)
	}

	done := models.NewTaskRecord("2024-01-04", "Write report").MarkCompleted(time.Date(2024, 1, 4, 19, 0, 0, 0, time.UTC))
	if err := days.PutDay(ctx, done); err != nil {
		t.Fatalf("PutDay failed: %v", err)
	}

	rec, err = days.Day(ctx, "2024-01-04")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if rec == nil || rec.TaskText() != "Write report" || !rec.Completed || rec.CompletedAt == nil {
		t.Errorf("Day() = %+v", rec)
	}
}

func TestPutDayRejectsBadKey(t *testing.T) {
	days, _ := setupDayStore(t)
	if err := days.PutDay(context.Background(), models.NewTaskRecord("today", "x")); err == nil {
		t.Error("expected error for non-date key")
	}
}

func TestMalformedValuesResolveToAbsent(t *testing.T) {
	ctx := context.Background()
	days, provider := setupDayStore(t)

	err := provider.Set(ctx, map[string]json.RawMessage{
		"2024-01-01": json.RawMessage(`"not an object"`),
		"2024-01-02": json.RawMessage(`{"task":"legacy","completed":false}`),
		"2024-01-03": json.RawMessage(`null`),
		"settings":   json.RawMessage(`[1,2,3]`),
		"other-key":  json.RawMessage(`{}`),
	})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	rec, err := days.Day(ctx, "2024-01-01")
	if err != nil || rec != nil {
		t.Errorf("malformed day = %+v, %v; want nil, nil", rec, err)
	}

	all, err := days.AllDays(ctx)
	if err != nil {
		t.Fatalf("AllDays failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("AllDays() = %v, want only 2024-01-02", all)
	}
	// records written without a date field get it from the key
	if got := all["2024-01-02"]; got.Date != "2024-01-02" || got.TaskText() != "legacy" {
		t.Errorf("AllDays()[2024-01-02] = %+v", got)
	}

	settings, err := days.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if settings != models.DefaultSettings() {
		t.Errorf("malformed settings should resolve to defaults, got %+v", settings)
	}
}

func TestSettingsPartialRecord(t *testing.T) {
	ctx := context.Background()
	days, provider := setupDayStore(t)

	got, err := days.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if got != models.DefaultSettings() {
		t.Errorf("absent settings = %+v, want defaults", got)
	}

	if err := provider.Set(ctx, map[string]json.RawMessage{"settings": json.RawMessage(`{"eveningHour":21}`)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err = days.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if got.EveningHour != 21 || got.MorningHour != 10 {
		t.Errorf("partial settings = %+v", got)
	}
}

func TestSaveSettingsWritesWholeRecord(t *testing.T) {
	ctx := context.Background()
	days, provider := setupDayStore(t)

	s := models.DefaultSettings()
	s.EnableReminders = false
	s.ReminderMinutes = 30
	if err := days.SaveSettings(ctx, s); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	raw, err := provider.Get(ctx, []string{"settings"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw["settings"], &fields); err != nil {
		t.Fatalf("stored settings not an object: %v", err)
	}
	if len(fields) != 8 {
		t.Errorf("stored settings has %d fields, want 8", len(fields))
	}

	got, err := days.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if got != s {
		t.Errorf("Settings() = %+v, want %+v", got, s)
	}
}
