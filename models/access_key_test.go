// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"errors"
	"testing"
	"time"
)

func uintPtr(v uint) *uint { return &v }

func TestAccessKeyStatus(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	key := AccessKey{IsActive: true}
	if got := key.Status(now); got != KeyStatusUnused {
		t.Errorf("Expected UNUSED, got %s", got)
	}

	key.UsageCount = 1
	if got := key.Status(now); got != KeyStatusUsed {
		t.Errorf("Expected USED, got %s", got)
	}

	key.ExpiresAt = &past
	if got := key.Status(now); got != KeyStatusExpired {
		t.Errorf("Expected EXPIRED, got %s", got)
	}

	// Disabled overrides expired and used.
	key.IsActive = false
	if got := key.Status(now); got != KeyStatusDisabled {
		t.Errorf("Expected DISABLED to be sticky, got %s", got)
	}

	key.IsActive = false
	key.ExpiresAt = &future
	key.UsageCount = 0
	if got := key.Status(now); got != KeyStatusDisabled {
		t.Errorf("Expected DISABLED for inactive key, got %s", got)
	}
}

func TestAccessKeyRedeemable(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	key := AccessKey{IsActive: true, UsageCap: uintPtr(1)}
	if err := key.Redeemable(now); err != nil {
		t.Errorf("Fresh key should be redeemable, got %v", err)
	}

	key.UsageCount = 1
	if err := key.Redeemable(now); !errors.Is(err, ErrKeyExhausted) {
		t.Errorf("Key at cap should return ErrKeyExhausted, got %v", err)
	}

	key.UsageCount = 0
	key.ExpiresAt = &past
	if err := key.Redeemable(now); !errors.Is(err, ErrKeyExpired) {
		t.Errorf("Expired key should return ErrKeyExpired, got %v", err)
	}

	key.ExpiresAt = &future
	key.IsActive = false
	if err := key.Redeemable(now); !errors.Is(err, ErrKeyInactive) {
		t.Errorf("Disabled key should return ErrKeyInactive, got %v", err)
	}

	// Re-enabling restores redeemability.
	key.IsActive = true
	if err := key.Redeemable(now); err != nil {
		t.Errorf("Re-enabled key should be redeemable, got %v", err)
	}

	// Unlimited cap never exhausts.
	unlimited := AccessKey{IsActive: true, UsageCount: 1000}
	if err := unlimited.Redeemable(now); err != nil {
		t.Errorf("Unlimited key should be redeemable, got %v", err)
	}
}

func TestAccessKeyAccountExpiry(t *testing.T) {
	now := time.Now()

	oneDay := AccessKey{ValidityDays: 1}
	if got := oneDay.AccountExpiry(now); !got.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("Expected expiry now+24h, got %v", got)
	}

	halfDay := AccessKey{ValidityDays: 0.5}
	if got := halfDay.AccountExpiry(now); !got.Equal(now.Add(12 * time.Hour)) {
		t.Errorf("Expected expiry now+12h, got %v", got)
	}
}
