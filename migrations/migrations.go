// SPDX-License-Identifier: GPL-3.0-only

package migrations

import (
	"fmt"
	"strings"

	"github.com/cike7635-ux/love-ludo-sub000/commons"
	"github.com/cike7635-ux/love-ludo-sub000/crypto"
	"github.com/cike7635-ux/love-ludo-sub000/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func List() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "001_seed_admin_user",
			Migrate: func(tx *gorm.DB) error {
				adminEmail := commons.GetEnv("ADMIN_EMAIL")
				adminPassword := commons.GetEnv("ADMIN_PASSWORD")
				if adminEmail == "" || adminPassword == "" {
					commons.Logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
					return nil
				}

				var existing models.User
				if err := tx.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
					if !existing.IsAdmin {
						if err := tx.Model(&existing).Update("is_admin", true).Error; err != nil {
							return fmt.Errorf("failed to promote existing admin user: %w", err)
						}
					}
					return nil
				}

				newCrypto := crypto.NewCrypto()
				hash, err := newCrypto.HashPassword(adminPassword)
				if err != nil {
					return fmt.Errorf("failed to hash admin password: %w", err)
				}

				admin := models.User{
					Email:    adminEmail,
					Password: hash,
					IsAdmin:  true,
				}
				if err := tx.Create(&admin).Error; err != nil {
					return fmt.Errorf("failed to seed admin user: %w", err)
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error { return nil },
		},
		{
			ID: "002_backfill_key_prefixes",
			Migrate: func(tx *gorm.DB) error {
				var keys []models.AccessKey
				if err := tx.Where("prefix = ?", "").Find(&keys).Error; err != nil {
					return fmt.Errorf("failed to fetch keys without prefix: %w", err)
				}

				for i := range keys {
					prefix := keys[i].Code
					if idx := strings.IndexByte(prefix, '-'); idx > 0 {
						prefix = prefix[:idx]
					}
					if err := tx.Model(&keys[i]).Update("prefix", prefix).Error; err != nil {
						return fmt.Errorf("failed to backfill prefix for key %d: %w", keys[i].ID, err)
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error { return nil },
		},
	}
}
