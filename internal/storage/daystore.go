package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/logger"
	"github.com/julianstephens/dailyfocus/internal/models"
	"github.com/julianstephens/dailyfocus/internal/utils"
)

// DayStore gives typed access to day records and the settings record on top
// of a Provider. Missing or unreadable values resolve to "absent" rather than
// errors; only provider failures are returned.
type DayStore struct {
	provider Provider
}

func NewDayStore(p Provider) *DayStore {
	return &DayStore{provider: p}
}

func (d *DayStore) Provider() Provider {
	return d.provider
}

// Day returns the record stored under date, or nil when there is none or the
// stored value cannot be decoded.
func (d *DayStore) Day(ctx context.Context, date string) (*models.DayRecord, error) {
	vals, err := d.provider.Get(ctx, []string{date})
	if err != nil {
		return nil, fmt.Errorf("failed to read day %s: %w", date, err)
	}
	raw, ok := vals[date]
	if !ok {
		return nil, nil
	}
	rec, ok := decodeDay(date, raw)
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// PutDay writes rec under its own date key, replacing whatever was there.
func (d *DayStore) PutDay(ctx context.Context, rec models.DayRecord) error {
	if !utils.IsDateKey(rec.Date) {
		return fmt.Errorf("invalid day key %q", rec.Date)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode day %s: %w", rec.Date, err)
	}
	if err := d.provider.Set(ctx, map[string]json.RawMessage{rec.Date: data}); err != nil {
		return fmt.Errorf("failed to save day %s: %w", rec.Date, err)
	}
	return nil
}

// AllDays returns every decodable day record keyed by date. The settings
// record and any other non-date keys are ignored.
func (d *DayStore) AllDays(ctx context.Context) (map[string]models.DayRecord, error) {
	vals, err := d.provider.Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read day records: %w", err)
	}

	days := make(map[string]models.DayRecord, len(vals))
	for key, raw := range vals {
		if !utils.IsDateKey(key) {
			continue
		}
		if rec, ok := decodeDay(key, raw); ok {
			days[key] = rec
		}
	}
	return days, nil
}

// Settings returns the stored settings overlaid on the defaults.
func (d *DayStore) Settings(ctx context.Context) (models.Settings, error) {
	vals, err := d.provider.Get(ctx, []string{constants.SettingsKey})
	if err != nil {
		return models.DefaultSettings(), fmt.Errorf("failed to read settings: %w", err)
	}
	raw, ok := vals[constants.SettingsKey]
	if !ok || string(raw) == "null" {
		return models.DefaultSettings(), nil
	}

	var stored models.StoredSettings
	if err := json.Unmarshal(raw, &stored); err != nil {
		logger.Warn("Ignoring malformed settings record", "error", err)
		return models.DefaultSettings(), nil
	}
	return models.ResolveSettings(&stored), nil
}

// SaveSettings replaces the settings record as a whole.
func (d *DayStore) SaveSettings(ctx context.Context, s models.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := d.provider.Set(ctx, map[string]json.RawMessage{constants.SettingsKey: data}); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func decodeDay(key string, raw json.RawMessage) (models.DayRecord, bool) {
	if string(raw) == "null" {
		return models.DayRecord{}, false
	}
	var rec models.DayRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		logger.Warn("Ignoring malformed day record", "date", key, "error", err)
		return models.DayRecord{}, false
	}
	if rec.Date == "" {
		rec.Date = key
	}
	return rec, true
}
