// SPDX-License-Identifier: GPL-3.0-only

package middlewares

import (
	"testing"
	"time"
)

func TestSessionSuperseded(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if SessionSuperseded(issuedAt, nil) {
		t.Error("Session with no recorded login should not be superseded")
	}

	older := issuedAt.Add(-time.Minute)
	if SessionSuperseded(issuedAt, &older) {
		t.Error("Older login should not supersede the session")
	}

	// Within the tolerance window, either way.
	justAfter := issuedAt.Add(2 * time.Second)
	if SessionSuperseded(issuedAt, &justAfter) {
		t.Error("Login 2s after issue should be within tolerance")
	}

	atTolerance := issuedAt.Add(SupersedeTolerance)
	if SessionSuperseded(issuedAt, &atTolerance) {
		t.Error("Login exactly at the tolerance bound should not be flagged")
	}

	beyond := issuedAt.Add(SupersedeTolerance + time.Millisecond)
	if !SessionSuperseded(issuedAt, &beyond) {
		t.Error("Login strictly beyond tolerance should supersede the session")
	}

	muchLater := issuedAt.Add(time.Hour)
	if !SessionSuperseded(issuedAt, &muchLater) {
		t.Error("Much later login should supersede the session")
	}
}
