package migration

import (
	"github.com/orris-inc/plansearch/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.ProviderModel{},
		&models.BasePlanModel{},
		&models.PlanModel{},
		&models.ZoneModel{},
	}
}
