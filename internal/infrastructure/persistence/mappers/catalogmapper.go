package mappers

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orris-inc/plansearch/internal/domain/catalog"
	"github.com/orris-inc/plansearch/internal/infrastructure/persistence/models"
)

// CatalogMapper converts catalog entities to persistence models and back.
type CatalogMapper interface {
	ProviderToModel(p *catalog.Provider) *models.ProviderModel
	ProviderToEntity(m *models.ProviderModel) (*catalog.Provider, error)
	ProvidersToEntities(ms []*models.ProviderModel) ([]*catalog.Provider, error)

	BasePlanToModel(bp *catalog.BasePlan) *models.BasePlanModel
	BasePlanToEntity(m *models.BasePlanModel) (*catalog.BasePlan, error)

	PlanToModel(p *catalog.Plan) *models.PlanModel
	PlanToEntity(m *models.PlanModel) (*catalog.Plan, error)

	ZoneToModel(z *catalog.Zone) *models.ZoneModel
	ZoneToEntity(m *models.ZoneModel) (*catalog.Zone, error)
}

type catalogMapper struct{}

// NewCatalogMapper creates a new catalog mapper
func NewCatalogMapper() CatalogMapper {
	return &catalogMapper{}
}

func (m *catalogMapper) ProviderToModel(p *catalog.Provider) *models.ProviderModel {
	if p == nil {
		return nil
	}
	return &models.ProviderModel{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		URL:         p.URL,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *catalogMapper) ProviderToEntity(model *models.ProviderModel) (*catalog.Provider, error) {
	if model == nil {
		return nil, nil
	}
	id, err := parseID("provider", model.ID)
	if err != nil {
		return nil, err
	}
	return &catalog.Provider{
		ID:          id,
		Name:        model.Name,
		Description: model.Description,
		URL:         model.URL,
		Active:      model.Active,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}, nil
}

func (m *catalogMapper) ProvidersToEntities(ms []*models.ProviderModel) ([]*catalog.Provider, error) {
	entities := make([]*catalog.Provider, 0, len(ms))
	for _, model := range ms {
		p, err := m.ProviderToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, p)
	}
	return entities, nil
}

func (m *catalogMapper) BasePlanToModel(bp *catalog.BasePlan) *models.BasePlanModel {
	return &models.BasePlanModel{
		ID:                 bp.ID.String(),
		ProviderID:         bp.ProviderID.String(),
		ExternalID:         bp.ExternalID,
		Title:              bp.Title,
		SellMode:           bp.SellMode.String(),
		OrganizerCompanyID: bp.OrganizerCompanyID,
	}
}

func (m *catalogMapper) BasePlanToEntity(model *models.BasePlanModel) (*catalog.BasePlan, error) {
	id, err := parseID("base plan", model.ID)
	if err != nil {
		return nil, err
	}
	providerID, err := parseID("provider", model.ProviderID)
	if err != nil {
		return nil, err
	}
	return &catalog.BasePlan{
		ID:                 id,
		ProviderID:         providerID,
		ExternalID:         model.ExternalID,
		Title:              model.Title,
		SellMode:           catalog.SellMode(model.SellMode),
		OrganizerCompanyID: model.OrganizerCompanyID,
	}, nil
}

func (m *catalogMapper) PlanToModel(p *catalog.Plan) *models.PlanModel {
	return &models.PlanModel{
		ID:         p.ID.String(),
		BasePlanID: p.BasePlanID.String(),
		ExternalID: p.ExternalID,
		StartsAt:   p.StartsAt.UTC(),
		EndsAt:     p.EndsAt.UTC(),
		SellFrom:   optionalTime(p.SellFrom),
		SellTo:     optionalTime(p.SellTo),
		SoldOut:    p.SoldOut,
	}
}

func (m *catalogMapper) PlanToEntity(model *models.PlanModel) (*catalog.Plan, error) {
	id, err := parseID("plan", model.ID)
	if err != nil {
		return nil, err
	}
	basePlanID, err := parseID("base plan", model.BasePlanID)
	if err != nil {
		return nil, err
	}
	p := &catalog.Plan{
		ID:         id,
		BasePlanID: basePlanID,
		ExternalID: model.ExternalID,
		StartsAt:   model.StartsAt.UTC(),
		EndsAt:     model.EndsAt.UTC(),
		SoldOut:    model.SoldOut,
	}
	if model.SellFrom != nil {
		p.SellFrom = model.SellFrom.UTC()
	}
	if model.SellTo != nil {
		p.SellTo = model.SellTo.UTC()
	}
	return p, nil
}

func (m *catalogMapper) ZoneToModel(z *catalog.Zone) *models.ZoneModel {
	return &models.ZoneModel{
		ID:         z.ID.String(),
		PlanID:     z.PlanID.String(),
		ExternalID: z.ExternalID,
		Name:       z.Name,
		Capacity:   z.Capacity,
		Price:      z.Price,
		Numbered:   z.Numbered,
	}
}

func (m *catalogMapper) ZoneToEntity(model *models.ZoneModel) (*catalog.Zone, error) {
	id, err := parseID("zone", model.ID)
	if err != nil {
		return nil, err
	}
	planID, err := parseID("plan", model.PlanID)
	if err != nil {
		return nil, err
	}
	return &catalog.Zone{
		ID:         id,
		PlanID:     planID,
		ExternalID: model.ExternalID,
		Name:       model.Name,
		Capacity:   model.Capacity,
		Price:      model.Price,
		Numbered:   model.Numbered,
	}, nil
}

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q: %w", kind, raw, err)
	}
	return id, nil
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
