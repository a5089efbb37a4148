package models

import (
	"time"

	"github.com/orris-inc/plansearch/internal/shared/constants"
)

// ProviderModel is the GORM model for the providers table
type ProviderModel struct {
	ID          string    `gorm:"column:id;type:char(36);primaryKey"`
	Name        string    `gorm:"column:name;type:varchar(255);not null"`
	Description string    `gorm:"column:description;type:varchar(1000)"`
	URL         string    `gorm:"column:url;type:varchar(2048);not null"`
	Active      bool      `gorm:"column:active;not null;default:true;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (ProviderModel) TableName() string {
	return constants.TableProviders
}
