package db

import (
	"gorm.io/gorm"
)

// ActiveOnly filters rows whose active flag is set.
//
//	db.Model(&models.ProviderModel{}).Scopes(db.ActiveOnly()).Find(&rows)
func ActiveOnly() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("active = ?", true)
	}
}

// OldestFirst orders rows by creation time with the primary key as tiebreak.
func OldestFirst() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC").Order("id ASC")
	}
}
