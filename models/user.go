// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"gorm.io/gorm"
)

var AllModels []any

type User struct {
	ID               uint    `gorm:"primaryKey"`
	Email            string  `gorm:"size:255;not null;uniqueIndex"`
	Password         string  `gorm:"not null"`
	Nickname         *string `gorm:"size:100;default:null"`
	IsAdmin          bool    `gorm:"not null;default:false"`
	AccountExpiresAt *time.Time
	LastLoginAt      *time.Time
	LastLoginSession *string `gorm:"size:255;default:null"`
	AccessKeyID      *uint
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

// IsPremium reports whether the account's paid window is still open.
func (u *User) IsPremium(now time.Time) bool {
	return u.AccountExpiresAt != nil && u.AccountExpiresAt.After(now)
}

func init() {
	AllModels = append(AllModels, &User{})
}
