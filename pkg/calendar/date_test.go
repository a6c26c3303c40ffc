package calendar

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDateOnlyAndTimestamps(t *testing.T) {
	cases := []struct {
		in   string
		want Date
	}{
		{"2024-10-01", Date{2024, time.October, 1}},
		{"2024-10-01T00:00:00Z", Date{2024, time.October, 1}},
		{"2024-10-01T23:30:00.000Z", Date{2024, time.October, 1}},
		{"2024-10-01T00:30:00+07:00", Date{2024, time.October, 1}},
		{"2024-10-01T23:59:59-05:00", Date{2024, time.October, 1}},
		{"2024-10-01 08:15:00", Date{2024, time.October, 1}},
	}

	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("Parse(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2024-13-01", "01/10/2024"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) expected error", in)
		}
	}
}

func TestCompareIgnoresTimeOfDay(t *testing.T) {
	morning := FromTime(time.Date(2024, 10, 3, 0, 1, 0, 0, time.UTC))
	night := FromTime(time.Date(2024, 10, 3, 23, 59, 0, 0, time.UTC))
	if !morning.Equal(night) {
		t.Fatalf("expected %s to equal %s", morning, night)
	}
	if !New(2024, 10, 1).Before(New(2024, 10, 2)) {
		t.Fatal("expected 2024-10-01 before 2024-10-02")
	}
	if !New(2025, 1, 1).After(New(2024, 12, 31)) {
		t.Fatal("expected 2025-01-01 after 2024-12-31")
	}
}

func TestWithinIsInclusive(t *testing.T) {
	start, end := New(2024, 10, 1), New(2024, 10, 5)
	for d := start; !d.After(end); d = d.AddDays(1) {
		if !d.Within(start, end) {
			t.Fatalf("%s should be within [%s, %s]", d, start, end)
		}
	}
	if start.AddDays(-1).Within(start, end) || end.AddDays(1).Within(start, end) {
		t.Fatal("dates outside the range reported as within")
	}
}

func TestDaysBetweenAcrossMonthAndDST(t *testing.T) {
	if got := DaysBetween(New(2024, 10, 1), New(2024, 10, 3)); got != 2 {
		t.Fatalf("DaysBetween = %d, want 2", got)
	}
	if got := DaysBetween(New(2024, 3, 30), New(2024, 4, 2)); got != 3 {
		t.Fatalf("DaysBetween = %d, want 3", got)
	}
	if got := DaysBetween(New(2024, 10, 3), New(2024, 10, 1)); got != -2 {
		t.Fatalf("DaysBetween = %d, want -2", got)
	}
}

func TestJSONRoundTripFormats(t *testing.T) {
	var payload struct {
		A Date `json:"a"`
		B Date `json:"b"`
		C Date `json:"c"`
		D Date `json:"d"`
	}
	raw := `{"a":"2024-10-01","b":"2024-10-02T16:00:00.000Z","c":1727870400000,"d":null}`
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.A.String() != "2024-10-01" || payload.B.String() != "2024-10-02" || payload.C.String() != "2024-10-02" {
		t.Fatalf("unexpected decode: %+v", payload)
	}
	if !payload.D.IsZero() {
		t.Fatalf("null should decode as zero date, got %s", payload.D)
	}

	out, err := json.Marshal(payload.A)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2024-10-01"` {
		t.Fatalf("marshal = %s", out)
	}
}
