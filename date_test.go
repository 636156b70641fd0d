package equity

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		in   string
		want Date
	}{
		{"2024-01-02", NewDate(2024, time.January, 2)},
		{"2024-1-2", NewDate(2024, time.January, 2)},
		{"04-15-2024", NewDate(2024, time.April, 15)},
		{"4/15/2024", NewDate(2024, time.April, 15)},
		{"12/31/2023", NewDate(2023, time.December, 31)},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDate(tc.in)
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "not-a-date", "2024/01/02", "15-04-2024"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestDate_MonthBounds(t *testing.T) {
	testCases := []struct {
		day        Date
		start, end Date
	}{
		{MustParse("2024-02-15"), MustParse("2024-02-01"), MustParse("2024-02-29")}, // leap year
		{MustParse("2023-02-15"), MustParse("2023-02-01"), MustParse("2023-02-28")},
		{MustParse("2024-12-31"), MustParse("2024-12-01"), MustParse("2024-12-31")},
	}

	for _, tc := range testCases {
		if got := tc.day.StartOfMonth(); got != tc.start {
			t.Errorf("%s.StartOfMonth() = %s, want %s", tc.day, got, tc.start)
		}
		if got := tc.day.EndOfMonth(); got != tc.end {
			t.Errorf("%s.EndOfMonth() = %s, want %s", tc.day, got, tc.end)
		}
	}
}

func TestDate_Add(t *testing.T) {
	if got := MustParse("2024-02-28").Add(2); got != MustParse("2024-03-01") {
		t.Errorf("Add(2) = %s, want 2024-03-01", got)
	}
	if got := MustParse("2024-01-01").Add(-1); got != MustParse("2023-12-31") {
		t.Errorf("Add(-1) = %s, want 2023-12-31", got)
	}
}

func TestDate_JSON(t *testing.T) {
	day := MustParse("2024-06-28")
	b, err := json.Marshal(day)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2024-06-28"` {
		t.Errorf("Marshal = %s, want %q", b, "2024-06-28")
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back != day {
		t.Errorf("round trip = %s, want %s", back, day)
	}
}
