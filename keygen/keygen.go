// SPDX-License-Identifier: GPL-3.0-only

// Package keygen produces access key codes of the form
// PREFIX-DURATIONCODE-XXXXXXXX, where the duration code keeps the key
// human-legible (12H, 7D, 1Y) and the trailing segment is drawn from an
// alphabet without the ambiguous characters 0, 1, I and O.
package keygen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"unicode"
)

// Alphabet for the random segment. 0, 1, I and O are excluded so codes
// survive being read aloud or retyped from paper.
const Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const SegmentLength = 8

const (
	MinPrefixLen = 2
	MaxPrefixLen = 6
	MaxCount     = 100
)

// MinDurationDays is one hour expressed in days, the smallest validity
// window a key can grant.
const MinDurationDays = 1.0 / 24.0

// durationEpsilon absorbs float noise in day fractions like 1.0/24.0.
const durationEpsilon = 1e-9

var (
	ErrBadPrefix   = errors.New("prefix must be 2-6 uppercase letters")
	ErrBadDuration = errors.New("duration must be at least one hour and a whole number of hours or days")
	ErrBadCap      = errors.New("usage cap must be a positive integer")
	ErrBadCount    = errors.New("count must be between 1 and 100")
)

// Params are the validated inputs of a key generation request.
type Params struct {
	Prefix       string
	DurationDays float64
	UsageCap     *uint
	Count        int
	Description  *string
	ExpiryDays   *uint
}

func (p Params) Validate() error {
	if len(p.Prefix) < MinPrefixLen || len(p.Prefix) > MaxPrefixLen {
		return ErrBadPrefix
	}
	for _, r := range p.Prefix {
		if !unicode.IsUpper(r) || r > 'Z' {
			return ErrBadPrefix
		}
	}
	if _, err := DurationCode(p.DurationDays); err != nil {
		return err
	}
	if p.UsageCap != nil && *p.UsageCap == 0 {
		return ErrBadCap
	}
	if p.Count < 1 || p.Count > MaxCount {
		return ErrBadCount
	}
	return nil
}

// DurationCode derives the human-legible duration segment. Sub-day windows
// render as whole hours, whole-year multiples as years, everything else as
// days: 0.5 -> 12H, 7 -> 7D, 30 -> 30D, 365 -> 1Y. The code must match the
// granted window exactly, so durations that are not a whole number of hours
// (sub-day) or days are rejected rather than rounded.
func DurationCode(days float64) (string, error) {
	if days < MinDurationDays-durationEpsilon {
		return "", ErrBadDuration
	}
	if days < 1 {
		hours := math.Round(days * 24)
		if hours < 1 || math.Abs(days*24-hours) > durationEpsilon {
			return "", ErrBadDuration
		}
		return fmt.Sprintf("%dH", int(hours)), nil
	}
	whole := math.Round(days)
	if math.Abs(days-whole) > durationEpsilon {
		return "", ErrBadDuration
	}
	if int(whole)%365 == 0 {
		return fmt.Sprintf("%dY", int(whole)/365), nil
	}
	return fmt.Sprintf("%dD", int(whole)), nil
}

// ValidityHours reports the window in whole hours for sub-day durations,
// nil otherwise.
func ValidityHours(days float64) *uint {
	if days >= 1 {
		return nil
	}
	hours := uint(math.Round(days * 24))
	return &hours
}

// RandomSegment draws SegmentLength characters from Alphabet using
// crypto/rand.
func RandomSegment() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(Alphabet)))
	for i := 0; i < SegmentLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(Alphabet[n.Int64()])
	}
	return b.String(), nil
}

// NewCode assembles a full key code for the given prefix and duration.
func NewCode(prefix string, days float64) (string, error) {
	durationCode, err := DurationCode(days)
	if err != nil {
		return "", err
	}
	segment, err := RandomSegment()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", prefix, durationCode, segment), nil
}
