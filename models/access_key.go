// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type KeyStatus string

const (
	KeyStatusUnused   KeyStatus = "UNUSED"
	KeyStatusUsed     KeyStatus = "USED"
	KeyStatusExpired  KeyStatus = "EXPIRED"
	KeyStatusDisabled KeyStatus = "DISABLED"
)

var (
	ErrKeyNotFound  = errors.New("access key not found")
	ErrKeyInactive  = errors.New("access key is inactive")
	ErrKeyExhausted = errors.New("access key usage cap exhausted")
	ErrKeyExpired   = errors.New("access key has expired")
)

type AccessKey struct {
	ID            uint   `gorm:"primaryKey"`
	Code          string `gorm:"size:64;not null;uniqueIndex"`
	Prefix        string `gorm:"size:10;not null;index"`
	IsActive      bool   `gorm:"not null;default:true"`
	UsageCount    uint   `gorm:"not null;default:0"`
	UsageCap      *uint  `gorm:"default:null"`
	ExpiresAt     *time.Time
	ValidityDays  float64 `gorm:"not null"`
	ValidityHours *uint   `gorm:"default:null"`
	Description   *string `gorm:"type:text;default:null"`
	OwnerID       *uint
	RedeemedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Status derives the key's lifecycle state. Disabled is sticky and wins
// over every other derived state.
func (k *AccessKey) Status(now time.Time) KeyStatus {
	if !k.IsActive {
		return KeyStatusDisabled
	}
	if k.ExpiresAt != nil && now.After(*k.ExpiresAt) {
		return KeyStatusExpired
	}
	if k.UsageCount > 0 {
		return KeyStatusUsed
	}
	return KeyStatusUnused
}

// Redeemable reports whether the key can still be redeemed, returning the
// business-rule error for the first violated condition.
func (k *AccessKey) Redeemable(now time.Time) error {
	if !k.IsActive {
		return ErrKeyInactive
	}
	if k.ExpiresAt != nil && now.After(*k.ExpiresAt) {
		return ErrKeyExpired
	}
	if k.UsageCap != nil && k.UsageCount >= *k.UsageCap {
		return ErrKeyExhausted
	}
	return nil
}

// AccountExpiry computes the account expiry granted by this key.
func (k *AccessKey) AccountExpiry(now time.Time) time.Time {
	return now.Add(time.Duration(k.ValidityDays * 24 * float64(time.Hour)))
}

// IncrementUsage atomically consumes one use of the key. The cap check and
// the increment happen in a single conditional UPDATE so concurrent
// redemptions cannot race past the cap. Returns ErrKeyExhausted when no row
// qualified.
func IncrementUsage(tx *gorm.DB, keyID uint) error {
	result := tx.Model(&AccessKey{}).
		Where("id = ? AND is_active = ? AND (usage_cap IS NULL OR usage_count < usage_cap)", keyID, true).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrKeyExhausted
	}
	return nil
}

func init() {
	AllModels = append(AllModels, &AccessKey{})
}
