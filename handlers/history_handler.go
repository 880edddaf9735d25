// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"fmt"

	"github.com/cike7635-ux/love-ludo-sub000/models"

	"gorm.io/gorm"
)

// RecordKeyHistory appends one audit row for a key lifecycle event. The
// history table is append-only; rows are never updated or removed.
func RecordKeyHistory(tx *gorm.DB, keyID uint, action models.KeyAction, userID, adminID *uint, note *string) error {
	history := models.KeyUsageHistory{
		AccessKeyID: keyID,
		Action:      action,
		UserID:      userID,
		AdminID:     adminID,
		Note:        note,
	}
	if err := tx.Create(&history).Error; err != nil {
		return fmt.Errorf("failed to record key history: %w", err)
	}
	return nil
}

// RecordKeyRotation links a replacement key to the key it supersedes so the
// audit trail can be walked in both directions.
func RecordKeyRotation(tx *gorm.DB, oldKeyID, newKeyID uint, adminID *uint, note *string) error {
	outgoing := models.KeyUsageHistory{
		AccessKeyID: oldKeyID,
		Action:      models.KeyActionDisabled,
		AdminID:     adminID,
		Note:        note,
		NextKeyID:   &newKeyID,
	}
	if err := tx.Create(&outgoing).Error; err != nil {
		return fmt.Errorf("failed to record rotation on old key: %w", err)
	}

	incoming := models.KeyUsageHistory{
		AccessKeyID: newKeyID,
		Action:      models.KeyActionGenerated,
		AdminID:     adminID,
		Note:        note,
		PrevKeyID:   &oldKeyID,
	}
	if err := tx.Create(&incoming).Error; err != nil {
		return fmt.Errorf("failed to record rotation on new key: %w", err)
	}
	return nil
}
