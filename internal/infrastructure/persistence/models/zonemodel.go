package models

import (
	"time"

	"github.com/orris-inc/plansearch/internal/shared/constants"
)

// ZoneModel is the GORM model for the zones table. Price is NULL when the
// provider did not publish a usable price.
type ZoneModel struct {
	ID         string    `gorm:"column:id;type:char(36);primaryKey"`
	PlanID     string    `gorm:"column:plan_id;type:char(36);not null;uniqueIndex:uk_zones_plan_external,priority:1"`
	ExternalID string    `gorm:"column:external_id;type:varchar(64);not null;uniqueIndex:uk_zones_plan_external,priority:2"`
	Name       string    `gorm:"column:name;type:varchar(255)"`
	Capacity   int64     `gorm:"column:capacity;not null;default:0"`
	Price      *float64  `gorm:"column:price"`
	Numbered   bool      `gorm:"column:numbered;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (ZoneModel) TableName() string {
	return constants.TableZones
}
