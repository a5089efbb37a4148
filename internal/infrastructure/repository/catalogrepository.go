package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/plansearch/internal/domain/catalog"
	"github.com/orris-inc/plansearch/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/plansearch/internal/infrastructure/persistence/models"
	"github.com/orris-inc/plansearch/internal/shared/db"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

type CatalogRepository struct {
	db     *gorm.DB
	txm    *db.TransactionManager
	mapper mappers.CatalogMapper
	logger logger.Interface
}

func NewCatalogRepository(gdb *gorm.DB, logger logger.Interface) catalog.Repository {
	return &CatalogRepository{
		db:     gdb,
		txm:    db.NewTransactionManager(gdb),
		mapper: mappers.NewCatalogMapper(),
		logger: logger,
	}
}

func (r *CatalogRepository) CreateProvider(ctx context.Context, provider *catalog.Provider) error {
	model := r.mapper.ProviderToModel(provider)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create provider", "name", provider.Name, "error", err)
		return persistError("create provider", err)
	}
	provider.CreatedAt = model.CreatedAt
	provider.UpdatedAt = model.UpdatedAt

	r.logger.Infow("provider created", "provider_id", provider.ID, "name", provider.Name)
	return nil
}

func (r *CatalogRepository) GetProvider(ctx context.Context, id uuid.UUID) (*catalog.Provider, error) {
	var model models.ProviderModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProviderNotFound
		}
		r.logger.Errorw("failed to get provider", "provider_id", id, "error", err)
		return nil, persistError("get provider", err)
	}
	return r.mapper.ProviderToEntity(&model)
}

func (r *CatalogRepository) ListProviders(ctx context.Context) ([]*catalog.Provider, error) {
	var rows []*models.ProviderModel
	if err := db.GetTxFromContext(ctx, r.db).Scopes(db.OldestFirst()).Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list providers", "error", err)
		return nil, persistError("list providers", err)
	}
	return r.mapper.ProvidersToEntities(rows)
}

func (r *CatalogRepository) ListActiveProviders(ctx context.Context) ([]*catalog.Provider, error) {
	var rows []*models.ProviderModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ActiveOnly(), db.OldestFirst()).
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to list active providers", "error", err)
		return nil, persistError("list active providers", err)
	}
	return r.mapper.ProvidersToEntities(rows)
}

func (r *CatalogRepository) SetProviderActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ProviderModel{}).
		Where("id = ?", id.String()).
		Update("active", active)
	if result.Error != nil {
		r.logger.Errorw("failed to update provider", "provider_id", id, "error", result.Error)
		return persistError("update provider", result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrProviderNotFound
	}
	return nil
}

// PersistBasePlan upserts the base plan, its plans and their zones in one
// transaction. Rows are matched on their natural keys, so replaying the same
// feed leaves ids unchanged. Zones a plan no longer publishes are deleted;
// plans are kept.
func (r *CatalogRepository) PersistBasePlan(ctx context.Context, basePlan *catalog.BasePlan) (*catalog.BasePlan, error) {
	var canonical *catalog.BasePlan

	err := r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		tx := db.GetTxFromContext(ctx, r.db)
		stored, err := r.upsertBasePlan(tx, basePlan)
		if err != nil {
			return err
		}

		canonical, err = r.mapper.BasePlanToEntity(stored)
		if err != nil {
			return err
		}
		canonical.Plans = make([]*catalog.Plan, 0, len(basePlan.Plans))

		for _, p := range basePlan.Plans {
			plan, err := r.upsertPlan(tx, canonical.ID, p)
			if err != nil {
				return err
			}
			canonical.Plans = append(canonical.Plans, plan)
		}
		return nil
	})
	if err != nil {
		r.logger.Errorw("failed to persist base plan",
			"provider_id", basePlan.ProviderID,
			"base_plan_id", basePlan.ExternalID,
			"error", err,
		)
		return nil, persistError("persist base plan", err)
	}

	return canonical, nil
}

func (r *CatalogRepository) upsertBasePlan(tx *gorm.DB, bp *catalog.BasePlan) (*models.BasePlanModel, error) {
	model := r.mapper.BasePlanToModel(bp)
	if bp.ID == uuid.Nil {
		model.ID = uuid.NewString()
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_id"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "sell_mode", "organizer_company_id", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return nil, fmt.Errorf("upsert base plan %s: %w", bp.ExternalID, err)
	}

	var stored models.BasePlanModel
	err = tx.Where("provider_id = ? AND external_id = ?", model.ProviderID, model.ExternalID).
		First(&stored).Error
	if err != nil {
		return nil, fmt.Errorf("reload base plan %s: %w", bp.ExternalID, err)
	}
	return &stored, nil
}

func (r *CatalogRepository) upsertPlan(tx *gorm.DB, basePlanID uuid.UUID, p *catalog.Plan) (*catalog.Plan, error) {
	model := r.mapper.PlanToModel(p)
	model.BasePlanID = basePlanID.String()
	if p.ID == uuid.Nil {
		model.ID = uuid.NewString()
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "base_plan_id"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"starts_at", "ends_at", "sell_from", "sell_to", "sold_out", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return nil, fmt.Errorf("upsert plan %s: %w", p.ExternalID, err)
	}

	var stored models.PlanModel
	err = tx.Where("base_plan_id = ? AND external_id = ?", model.BasePlanID, model.ExternalID).
		First(&stored).Error
	if err != nil {
		return nil, fmt.Errorf("reload plan %s: %w", p.ExternalID, err)
	}

	plan, err := r.mapper.PlanToEntity(&stored)
	if err != nil {
		return nil, err
	}
	plan.Zones, err = r.replaceZones(tx, plan.ID, p.Zones)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *CatalogRepository) replaceZones(tx *gorm.DB, planID uuid.UUID, zones []*catalog.Zone) ([]*catalog.Zone, error) {
	externalIDs := make([]string, 0, len(zones))
	for _, z := range zones {
		model := r.mapper.ZoneToModel(z)
		model.PlanID = planID.String()
		if z.ID == uuid.Nil {
			model.ID = uuid.NewString()
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plan_id"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "capacity", "price", "numbered", "updated_at"}),
		}).Create(model).Error
		if err != nil {
			return nil, fmt.Errorf("upsert zone %s: %w", z.ExternalID, err)
		}
		externalIDs = append(externalIDs, z.ExternalID)
	}

	stale := tx.Where("plan_id = ?", planID.String())
	if len(externalIDs) > 0 {
		stale = stale.Where("external_id NOT IN ?", externalIDs)
	}
	if err := stale.Delete(&models.ZoneModel{}).Error; err != nil {
		return nil, fmt.Errorf("delete stale zones of plan %s: %w", planID, err)
	}

	var rows []*models.ZoneModel
	if err := tx.Where("plan_id = ?", planID.String()).Order("external_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("reload zones of plan %s: %w", planID, err)
	}

	result := make([]*catalog.Zone, 0, len(rows))
	for _, row := range rows {
		z, err := r.mapper.ZoneToEntity(row)
		if err != nil {
			return nil, err
		}
		result = append(result, z)
	}
	return result, nil
}

func persistError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, catalog.ErrPersist, err)
}
