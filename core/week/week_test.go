package week

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 30, 0, 0, time.UTC)
}

func TestPolicy_Key(t *testing.T) {
	monday := Policy{StartDay: time.Monday}
	sunday := Policy{StartDay: time.Sunday}

	tests := []struct {
		name   string
		policy Policy
		date   time.Time
		want   string
	}{
		// Monday-first
		{"Jan 1 on a Monday", monday, date(2024, time.January, 1), "2024-W01"},
		{"Jan 1 on a Sunday", monday, date(2023, time.January, 1), "2023-W01"},
		{"Jan 1 on a Friday", monday, date(2021, time.January, 1), "2021-W01"},
		{"mid-year Monday", monday, date(2026, time.August, 31), "2026-W36"},
		{"Dec 31 of a leap year", monday, date(2024, time.December, 31), "2024-W53"},
		{"Dec 31 on a Friday", monday, date(2021, time.December, 31), "2021-W53"},
		// Sunday-first
		{"Jan 1 on a Sunday (sun start)", sunday, date(2023, time.January, 1), "2023-W01"},
		{"Jan 1 on a Saturday (sun start)", sunday, date(2022, time.January, 1), "2022-W01"},
		{"Dec 31 on a Sunday (sun start)", sunday, date(2023, time.December, 31), "2023-W53"},
		{"mid-year (sun start)", sunday, date(2026, time.August, 31), "2026-W36"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Key(tt.date); got != tt.want {
				t.Errorf("Key() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestPolicy_Key_stableWithinWeek(t *testing.T) {
	// all 7 days of a week share one key
	p := Default
	start := date(2026, time.August, 31) // a Monday
	want := p.Key(start)
	for i := 1; i < 7; i++ {
		if got := p.Key(start.AddDate(0, 0, i)); got != want {
			t.Errorf("Key(start+%dd) = %v; want %v", i, got, want)
		}
	}
	if got := p.Key(start.AddDate(0, 0, 7)); got == want {
		t.Errorf("Key(start+7d) = %v; want a new week", got)
	}
}

func TestPolicy_KeyStart(t *testing.T) {
	p := Default
	// note: round-tripping does not hold for a first week that starts in the
	// previous year; such start dates key to the previous year's last week.
	for _, d := range []time.Time{
		date(2024, time.January, 1),
		date(2023, time.March, 15),
		date(2026, time.August, 31),
		date(2024, time.December, 31),
	} {
		key := p.Key(d)
		start, err := p.KeyStart(key)
		if err != nil {
			t.Fatalf("KeyStart(%q) failed: %v", key, err)
		}
		if got := p.Key(start); got != key {
			t.Errorf("Key(KeyStart(%q)) = %v; want %v", key, got, key)
		}
		if got := start.Weekday(); got != p.StartDay {
			t.Errorf("KeyStart(%q).Weekday() = %v; want %v", key, got, p.StartDay)
		}
	}

	if _, err := p.KeyStart("2026W36"); err == nil {
		t.Error("KeyStart() expected error on malformed key")
	}
}

func TestValidKey(t *testing.T) {
	for key, want := range map[string]bool{
		"2026-W36": true,
		"2026-W01": true,
		"2026-36":  false,
		"26-W36":   false,
		"2026-W3":  false,
		"":         false,
	} {
		if got := ValidKey(key); got != want {
			t.Errorf("ValidKey(%q) = %v; want %v", key, got, want)
		}
	}
}

func TestPolicy_Range(t *testing.T) {
	start, end := Default.Range(date(2026, time.September, 3)) // a Thursday
	if want := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("Range() start = %v; want %v", start, want)
	}
	if want := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond); !end.Equal(want) {
		t.Errorf("Range() end = %v; want %v", end, want)
	}
}

func TestDayIndex(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{date(2026, time.August, 31), 0}, // Monday
		{date(2026, time.September, 2), 2},
		{date(2026, time.September, 5), 5}, // Saturday
		{date(2026, time.September, 6), 6}, // Sunday
	}
	for _, tt := range tests {
		if got := DayIndex(tt.date); got != tt.want {
			t.Errorf("DayIndex(%v) = %v; want %v", tt.date.Weekday(), got, tt.want)
		}
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{date(2026, time.August, 1), "8월 1주차"},  // month starts on a Saturday
		{date(2026, time.August, 3), "8월 2주차"},  // first Monday
		{date(2026, time.August, 31), "8월 6주차"},
		{date(2024, time.January, 1), "1월 1주차"}, // month starts on a Monday
	}
	for _, tt := range tests {
		if got := Label(tt.date); got != tt.want {
			t.Errorf("Label(%v) = %v; want %v", tt.date.Format("2006-01-02"), got, tt.want)
		}
	}
}
