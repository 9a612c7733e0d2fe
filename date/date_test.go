package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2024-01-13", want: New(2024, time.January, 13)},
		{in: "2024-1-3", want: New(2024, time.January, 3)},
		{in: "13/01/2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestString(t *testing.T) {
	if got := New(2024, time.January, 3).String(); got != "2024-01-03" {
		t.Errorf("String() = %q, want %q", got, "2024-01-03")
	}
}

func TestAdd_normalizes(t *testing.T) {
	// Adding days across a month boundary must yield a normalized date.
	got := New(2024, time.January, 31).Add(1)
	if got != New(2024, time.February, 1) {
		t.Errorf("Add(1) = %v, want 2024-02-01", got)
	}
}
