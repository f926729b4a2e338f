package recurrence

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := ParseDate(value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return d
}

func TestNext(t *testing.T) {
	cases := []struct {
		name string
		freq Frequency
		from string
		opts Options
		want string
	}{
		{name: "daily", freq: Daily, from: "2024-02-28", want: "2024-02-29"},
		{name: "daily year end", freq: Daily, from: "2024-12-31", want: "2025-01-01"},
		{name: "weekly", freq: Weekly, from: "2024-06-03", want: "2024-06-10"},
		{name: "monthly", freq: Monthly, from: "2024-03-15", want: "2024-04-15"},
		{name: "monthly clamps to leap day", freq: Monthly, from: "2024-01-31", want: "2024-02-29"},
		{name: "monthly clamps to short month", freq: Monthly, from: "2023-01-31", want: "2023-02-28"},
		{name: "monthly december", freq: Monthly, from: "2024-12-10", want: "2025-01-10"},
		{name: "weekdays midweek", freq: Weekdays, from: "2024-06-04", want: "2024-06-05"},
		{name: "weekdays friday skips weekend", freq: Weekdays, from: "2024-06-07", want: "2024-06-10"},
		{name: "weekdays saturday", freq: Weekdays, from: "2024-06-08", want: "2024-06-10"},
		{name: "yearly", freq: Yearly, from: "2024-05-01", want: "2025-05-01"},
		{name: "yearly leap day", freq: Yearly, from: "2024-02-29", want: "2025-02-28"},
		{name: "quarterly next quarter month", freq: Quarterly, from: "2024-03-01", opts: Options{DayOfMonth: 15, StartMonth: 2}, want: "2024-05-15"},
		{name: "quarterly wraps year", freq: Quarterly, from: "2024-11-20", opts: Options{DayOfMonth: 15, StartMonth: 2}, want: "2025-02-15"},
		{name: "quarterly same month day ahead", freq: Quarterly, from: "2024-05-10", opts: Options{DayOfMonth: 15, StartMonth: 2}, want: "2024-05-15"},
		{name: "quarterly same month same day", freq: Quarterly, from: "2024-05-15", opts: Options{DayOfMonth: 15, StartMonth: 2}, want: "2024-08-15"},
		{name: "quarterly start month wraps modulo", freq: Quarterly, from: "2024-01-05", opts: Options{DayOfMonth: 1, StartMonth: 11}, want: "2024-02-01"},
		{name: "quarterly clamps day", freq: Quarterly, from: "2024-01-31", opts: Options{DayOfMonth: 31, StartMonth: 1}, want: "2024-04-30"},
		{name: "quarterly defaults", freq: Quarterly, from: "2024-06-03", want: "2024-07-03"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Next(tc.freq, mustDate(t, tc.from), tc.opts)
			if !ok {
				t.Fatalf("expected next date for %s", tc.freq)
			}
			if FormatDate(got) != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, FormatDate(got))
			}
		})
	}
}

func TestNextWithoutOccurrence(t *testing.T) {
	for _, freq := range []Frequency{None, "", "fortnightly"} {
		if _, ok := Next(freq, time.Now(), Options{}); ok {
			t.Fatalf("expected no next date for %q", freq)
		}
		if freq.Valid() {
			t.Fatalf("expected %q to be invalid", freq)
		}
	}
}

func TestNextDropsTimeOfDay(t *testing.T) {
	from := time.Date(2024, time.June, 3, 22, 45, 0, 0, time.UTC)
	got, _ := Next(Daily, from, Options{})
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestNextDate(t *testing.T) {
	got, ok := NextDate(Weekly, "2024-06-03", Options{})
	if !ok || got != "2024-06-10" {
		t.Fatalf("expected 2024-06-10, got %q (%v)", got, ok)
	}
	if _, ok := NextDate(Weekly, "not-a-date", Options{}); ok {
		t.Fatal("expected malformed date to produce no occurrence")
	}
}
