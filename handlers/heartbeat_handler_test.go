// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"testing"
	"time"

	"github.com/cike7635-ux/love-ludo-sub000/models"
)

func TestAccountStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	cases := []struct {
		name      string
		expiresAt *time.Time
		expected  string
	}{
		{"never redeemed", nil, "FREE"},
		{"active window", &future, "PREMIUM"},
		{"lapsed window", &past, "EXPIRED"},
		{"expires exactly now", &now, "EXPIRED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := models.User{AccountExpiresAt: tc.expiresAt}
			if got := accountStatus(user, now); got != tc.expected {
				t.Errorf("accountStatus() = %q, expected %q", got, tc.expected)
			}
		})
	}
}
