// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type KeyAction string

const (
	KeyActionGenerated KeyAction = "GENERATED"
	KeyActionRedeemed  KeyAction = "REDEEMED"
	KeyActionEnabled   KeyAction = "ENABLED"
	KeyActionDisabled  KeyAction = "DISABLED"
	KeyActionDeleted   KeyAction = "DELETED"
)

// KeyUsageHistory is an append-only audit log of key lifecycle events.
// PrevKeyID/NextKeyID link rotation chains when a key replaces another.
type KeyUsageHistory struct {
	ID          uint      `gorm:"primaryKey"`
	EID         uuid.UUID `gorm:"type:uuid;not null"`
	AccessKeyID uint      `gorm:"not null;index"`
	UserID      *uint
	AdminID     *uint
	Action      KeyAction `gorm:"size:20;not null;index"`
	Note        *string   `gorm:"type:text;default:null"`
	PrevKeyID   *uint
	NextKeyID   *uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (h *KeyUsageHistory) BeforeCreate(tx *gorm.DB) (err error) {
	h.EID = uuid.New()
	return
}

func init() {
	AllModels = append(AllModels, &KeyUsageHistory{})
}
