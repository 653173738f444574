package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/models"
	"github.com/julianstephens/dailyfocus/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictMalformedRecord    ConflictType = "malformed_record"
	ConflictDateMismatch       ConflictType = "date_mismatch"
	ConflictInconsistentRecord ConflictType = "inconsistent_record"
	ConflictFutureRecord       ConflictType = "future_record"
	ConflictTaskTooLong        ConflictType = "task_too_long"
	ConflictInvalidSettings    ConflictType = "invalid_settings"
	ConflictUnknownKey         ConflictType = "unknown_key"
)

// Conflict represents a problem found in the stored day state
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string // YYYY-MM-DD key of the record (if applicable)
	Fixable     bool
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks raw store entries against the day record rules
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateEntries checks every entry of a store snapshot. today is the
// current YYYY-MM-DD key; records dated after it are reported.
func (v *Validator) ValidateEntries(entries map[string]json.RawMessage, today string) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := entries[key]
		switch {
		case key == constants.SettingsKey:
			result.Conflicts = append(result.Conflicts, v.validateSettings(raw)...)
		case utils.IsDateKey(key):
			result.Conflicts = append(result.Conflicts, v.validateDay(key, raw, today)...)
		default:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownKey,
				Description: fmt.Sprintf("Unknown key %q is ignored", key),
			})
		}
	}
	return result
}

func (v *Validator) validateDay(key string, raw json.RawMessage, today string) []Conflict {
	var conflicts []Conflict

	if string(raw) == "null" {
		return nil
	}
	var rec models.DayRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return []Conflict{{
			Type:        ConflictMalformedRecord,
			Description: fmt.Sprintf("Record %s cannot be decoded: %v", key, err),
			Date:        key,
		}}
	}

	if rec.Date != "" && rec.Date != key {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictDateMismatch,
			Description: fmt.Sprintf("Record %s carries date %s", key, rec.Date),
			Date:        key,
			Fixable:     true,
		})
	}

	rec.Date = key
	if err := rec.Validate(); err != nil {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictInconsistentRecord,
			Description: fmt.Sprintf("Record %s is inconsistent: %v", key, err),
			Date:        key,
			Fixable:     true,
		})
	}

	if today != "" && key > today {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictFutureRecord,
			Description: fmt.Sprintf("Record %s is dated after today (%s)", key, today),
			Date:        key,
		})
	}

	if n := utf8.RuneCountInString(rec.TaskText()); n > constants.MaxTaskLength {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictTaskTooLong,
			Description: fmt.Sprintf("Task on %s is %d characters, limit is %d", key, n, constants.MaxTaskLength),
			Date:        key,
		})
	}

	return conflicts
}

func (v *Validator) validateSettings(raw json.RawMessage) []Conflict {
	var stored models.StoredSettings
	if err := json.Unmarshal(raw, &stored); err != nil {
		return []Conflict{{
			Type:        ConflictInvalidSettings,
			Description: fmt.Sprintf("Settings cannot be decoded, defaults are in use: %v", err),
			Fixable:     true,
		}}
	}

	s := models.ResolveSettings(&stored)
	if s.Normalize() != s {
		return []Conflict{{
			Type:        ConflictInvalidSettings,
			Description: "Settings contain out-of-range values",
			Fixable:     true,
		}}
	}
	return nil
}

// AutoFix repairs fixable conflicts. Day records get their date and flags
// made consistent; settings are normalized. put is called once per repaired
// key with the new value.
func AutoFix(conflicts []Conflict, entries map[string]json.RawMessage, put func(key string, value json.RawMessage) error) []FixAction {
	var actions []FixAction
	done := make(map[string]bool)

	for _, conflict := range conflicts {
		if !conflict.Fixable {
			continue
		}

		key := conflict.Date
		if conflict.Type == ConflictInvalidSettings {
			key = constants.SettingsKey
		}
		if done[key] {
			continue
		}

		value, ok := repair(key, entries[key])
		if !ok {
			continue
		}
		if err := put(key, value); err != nil {
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to repair %s: %v", key, err),
				SourceConflict: conflict,
			})
			continue
		}
		done[key] = true
		actions = append(actions, FixAction{
			Action:         fmt.Sprintf("Repaired %s", key),
			SourceConflict: conflict,
		})
	}
	return actions
}

func repair(key string, raw json.RawMessage) (json.RawMessage, bool) {
	if key == constants.SettingsKey {
		var stored models.StoredSettings
		// undecodable settings are replaced with the defaults
		_ = json.Unmarshal(raw, &stored)
		data, err := json.Marshal(models.ResolveSettings(&stored).Normalize())
		return data, err == nil
	}

	var rec models.DayRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false
	}
	rec.Date = key
	if rec.Skipped {
		rec.Completed = true
		rec.Task = nil
	}
	if rec.CompletedAt != nil && !rec.Completed {
		rec.CompletedAt = nil
	}
	data, err := json.Marshal(rec)
	return data, err == nil
}
