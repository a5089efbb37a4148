package models

import (
	"time"

	"github.com/orris-inc/plansearch/internal/shared/constants"
)

// PlanModel is the GORM model for the plans table, one dated occurrence of a
// base plan.
type PlanModel struct {
	ID         string     `gorm:"column:id;type:char(36);primaryKey"`
	BasePlanID string     `gorm:"column:base_plan_id;type:char(36);not null;uniqueIndex:uk_plans_base_plan_external,priority:1"`
	ExternalID string     `gorm:"column:external_id;type:varchar(64);not null;uniqueIndex:uk_plans_base_plan_external,priority:2"`
	StartsAt   time.Time  `gorm:"column:starts_at;not null;index"`
	EndsAt     time.Time  `gorm:"column:ends_at;not null"`
	SellFrom   *time.Time `gorm:"column:sell_from"`
	SellTo     *time.Time `gorm:"column:sell_to"`
	SoldOut    bool       `gorm:"column:sold_out;not null;default:false"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (PlanModel) TableName() string {
	return constants.TablePlans
}
