package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: "", wantErr: false},
		{name: "Local returns local", timezone: "Local", wantErr: false},
		{name: "valid timezone UTC", timezone: "UTC", wantErr: false},
		{name: "valid timezone America/New_York", timezone: "America/New_York", wantErr: false},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestNowInTimezone(t *testing.T) {
	now, err := NowInTimezone("UTC")
	if err != nil {
		t.Fatalf("NowInTimezone() error = %v", err)
	}
	if now.Location() != time.UTC {
		t.Errorf("expected UTC location, got %v", now.Location())
	}

	if _, err := NowInTimezone("Not/AZone"); err == nil {
		t.Error("expected error for invalid timezone")
	}
}

func TestDateKeyUsesLocalDay(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2024-01-04 23:30 UTC is already 2024-01-05 in Tokyo
	instant := time.Date(2024, 1, 4, 23, 30, 0, 0, time.UTC)
	if got := DateKey(instant); got != "2024-01-04" {
		t.Errorf("DateKey(UTC) = %q", got)
	}
	if got := DateKey(instant.In(tokyo)); got != "2024-01-05" {
		t.Errorf("DateKey(Tokyo) = %q", got)
	}
}

func TestIsDateKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"2024-01-04", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"settings", false},
		{"2024-1-4", false},
		{"2024-01-04T00:00", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsDateKey(tt.key); got != tt.want {
			t.Errorf("IsDateKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestParseDateInLocation(t *testing.T) {
	loc := time.FixedZone("test", 3*3600)
	got, err := ParseDateInLocation("2024-03-10", loc)
	if err != nil {
		t.Fatalf("ParseDateInLocation() error = %v", err)
	}
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Errorf("ParseDateInLocation() = %v, want %v", got, want)
	}

	if _, err := ParseDateInLocation("10/03/2024", loc); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestAtClockAndStartOfDay(t *testing.T) {
	base := time.Date(2024, 5, 6, 15, 42, 17, 99, time.UTC)

	if got := StartOfDay(base); !got.Equal(time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfDay() = %v", got)
	}
	if got := AtClock(base, 10, 5); !got.Equal(time.Date(2024, 5, 6, 10, 5, 0, 0, time.UTC)) {
		t.Errorf("AtClock() = %v", got)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		wantH   int
		wantM   int
		wantErr bool
	}{
		{in: "10:00", wantH: 10, wantM: 0},
		{in: "18:30", wantH: 18, wantM: 30},
		{in: "00:05", wantH: 0, wantM: 5},
		{in: "24:00", wantErr: true},
		{in: "7pm", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && (h != tt.wantH || m != tt.wantM) {
				t.Errorf("ParseClock(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.wantH, tt.wantM)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(9, 5); got != "09:05" {
		t.Errorf("FormatClock(9, 5) = %q", got)
	}
}

func TestValidateTimezone(t *testing.T) {
	if !ValidateTimezone("Local") || !ValidateTimezone("") || !ValidateTimezone("UTC") {
		t.Error("expected built-in zones to validate")
	}
	if ValidateTimezone("Mars/Olympus") {
		t.Error("expected invalid zone to fail")
	}
}
