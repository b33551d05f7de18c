package daterange

import "testing"

func mustParse(t *testing.T, in, out string) DateRange {
	t.Helper()
	dr, err := Parse(in, out)
	if err != nil {
		t.Fatalf("parse %s..%s: %v", in, out, err)
	}
	return dr
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	stay := mustParse(t, "2025-06-01", "2025-06-04")
	cases := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"same range", mustParse(t, "2025-06-01", "2025-06-04"), true},
		{"inside", mustParse(t, "2025-06-02", "2025-06-03"), true},
		{"ends on check-in", mustParse(t, "2025-05-29", "2025-06-01"), false},
		{"starts on check-out", mustParse(t, "2025-06-04", "2025-06-06"), false},
		{"straddles check-out", mustParse(t, "2025-06-03", "2025-06-05"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stay.Overlaps(tc.other); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := tc.other.Overlaps(stay); got != tc.want {
				t.Fatalf("Overlaps is not symmetric")
			}
		})
	}
}

func TestParseRejectsInvertedRange(t *testing.T) {
	if _, err := Parse("2025-06-03", "2025-06-03"); err == nil {
		t.Fatal("same-day range must be rejected")
	}
	if dr := mustParse(t, "2025-12-30", "2026-01-02"); dr.Nights() != 3 {
		t.Fatalf("expected 3 nights across the year end, got %d", dr.Nights())
	}
}
