// SPDX-License-Identifier: GPL-3.0-only

package keygen

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

func TestDurationCode(t *testing.T) {
	cases := []struct {
		days float64
		want string
	}{
		{1.0 / 24.0, "1H"},
		{2.0 / 24.0, "2H"},
		{4.0 / 24.0, "4H"},
		{0.5, "12H"},
		{1, "1D"},
		{7, "7D"},
		{30, "30D"},
		{90, "90D"},
		{365, "1Y"},
		{730, "2Y"},
	}

	for _, tc := range cases {
		got, err := DurationCode(tc.days)
		if err != nil {
			t.Fatalf("DurationCode(%v) failed: %v", tc.days, err)
		}
		if got != tc.want {
			t.Errorf("DurationCode(%v) = %s, want %s", tc.days, got, tc.want)
		}
	}

	if _, err := DurationCode(0); !errors.Is(err, ErrBadDuration) {
		t.Errorf("DurationCode(0) should return ErrBadDuration, got %v", err)
	}
	if _, err := DurationCode(0.01); !errors.Is(err, ErrBadDuration) {
		t.Errorf("DurationCode below one hour should return ErrBadDuration, got %v", err)
	}

	// The code must reflect the granted window exactly, never a rounding
	// of it.
	if _, err := DurationCode(1.5); !errors.Is(err, ErrBadDuration) {
		t.Errorf("DurationCode(1.5) should reject fractional days, got %v", err)
	}
	if _, err := DurationCode(0.3); !errors.Is(err, ErrBadDuration) {
		t.Errorf("DurationCode(0.3) should reject fractional hours, got %v", err)
	}
	if _, err := DurationCode(366.25); !errors.Is(err, ErrBadDuration) {
		t.Errorf("DurationCode(366.25) should reject fractional days, got %v", err)
	}
}

func TestValidityHours(t *testing.T) {
	if got := ValidityHours(0.5); got == nil || *got != 12 {
		t.Errorf("ValidityHours(0.5) should be 12, got %v", got)
	}
	if got := ValidityHours(1.0 / 24.0); got == nil || *got != 1 {
		t.Errorf("ValidityHours(1/24) should be 1, got %v", got)
	}
	if got := ValidityHours(1); got != nil {
		t.Errorf("ValidityHours(1) should be nil for whole days, got %v", got)
	}
}

func TestRandomSegment(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		segment, err := RandomSegment()
		if err != nil {
			t.Fatalf("RandomSegment failed: %v", err)
		}
		if len(segment) != SegmentLength {
			t.Fatalf("Expected segment length %d, got %d", SegmentLength, len(segment))
		}
		for _, r := range segment {
			if !strings.ContainsRune(Alphabet, r) {
				t.Errorf("Segment contains character outside alphabet: %c", r)
			}
		}
		seen[segment] = true
	}
	if len(seen) < 2 {
		t.Error("Segments should not all be identical")
	}
}

func TestNewCode(t *testing.T) {
	pattern := regexp.MustCompile(`^XY-1D-[` + Alphabet + `]{8}$`)
	code, err := NewCode("XY", 1)
	if err != nil {
		t.Fatalf("NewCode failed: %v", err)
	}
	if !pattern.MatchString(code) {
		t.Errorf("Code %s does not match expected pattern XY-1D-XXXXXXXX", code)
	}

	for _, forbidden := range []string{"0", "1", "I", "O"} {
		segment := strings.SplitN(code, "-", 3)[2]
		if strings.Contains(segment, forbidden) {
			t.Errorf("Segment %s contains forbidden character %s", segment, forbidden)
		}
	}
}

func TestParamsValidate(t *testing.T) {
	usageCap := uint(5)
	valid := Params{Prefix: "XY", DurationDays: 1, UsageCap: &usageCap, Count: 1}
	if err := valid.Validate(); err != nil {
		t.Errorf("Valid params should pass, got %v", err)
	}

	cases := []struct {
		name   string
		params Params
		want   error
	}{
		{"prefix too short", Params{Prefix: "X", DurationDays: 1, Count: 1}, ErrBadPrefix},
		{"prefix too long", Params{Prefix: "ABCDEFG", DurationDays: 1, Count: 1}, ErrBadPrefix},
		{"prefix lowercase", Params{Prefix: "xy", DurationDays: 1, Count: 1}, ErrBadPrefix},
		{"prefix digits", Params{Prefix: "X1", DurationDays: 1, Count: 1}, ErrBadPrefix},
		{"zero duration", Params{Prefix: "XY", DurationDays: 0, Count: 1}, ErrBadDuration},
		{"fractional days", Params{Prefix: "XY", DurationDays: 1.5, Count: 1}, ErrBadDuration},
		{"fractional hours", Params{Prefix: "XY", DurationDays: 0.3, Count: 1}, ErrBadDuration},
		{"zero cap", Params{Prefix: "XY", DurationDays: 1, UsageCap: new(uint), Count: 1}, ErrBadCap},
		{"zero count", Params{Prefix: "XY", DurationDays: 1, Count: 0}, ErrBadCount},
		{"count over limit", Params{Prefix: "XY", DurationDays: 1, Count: 101}, ErrBadCount},
	}

	for _, tc := range cases {
		if err := tc.params.Validate(); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	// Unlimited cap (nil) is allowed.
	unlimited := Params{Prefix: "LOVE", DurationDays: 0.5, Count: 100}
	if err := unlimited.Validate(); err != nil {
		t.Errorf("Unlimited cap should pass, got %v", err)
	}
}
