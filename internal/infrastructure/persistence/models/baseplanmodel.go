package models

import (
	"time"

	"github.com/orris-inc/plansearch/internal/shared/constants"
)

// BasePlanModel is the GORM model for the base_plans table. A base plan is
// unique per provider by the provider's own id.
type BasePlanModel struct {
	ID                 string    `gorm:"column:id;type:char(36);primaryKey"`
	ProviderID         string    `gorm:"column:provider_id;type:char(36);not null;uniqueIndex:uk_base_plans_provider_external,priority:1"`
	ExternalID         string    `gorm:"column:external_id;type:varchar(64);not null;uniqueIndex:uk_base_plans_provider_external,priority:2"`
	Title              string    `gorm:"column:title;type:varchar(255);not null"`
	SellMode           string    `gorm:"column:sell_mode;type:varchar(20);not null;index"`
	OrganizerCompanyID string    `gorm:"column:organizer_company_id;type:varchar(64)"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (BasePlanModel) TableName() string {
	return constants.TableBasePlans
}
