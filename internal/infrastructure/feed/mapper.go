package feed

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orris-inc/plansearch/internal/domain/catalog"
	"github.com/orris-inc/plansearch/internal/shared/biztime"
)

// MappingError describes one feed element that could not be turned into a
// catalog entity. The element is dropped and mapping continues.
type MappingError struct {
	BasePlanID string
	PlanID     string
	ZoneID     string
	Reason     string
}

func (e *MappingError) Error() string {
	var b strings.Builder
	b.WriteString("skipped")
	if e.BasePlanID != "" {
		fmt.Fprintf(&b, " base_plan=%s", e.BasePlanID)
	}
	if e.PlanID != "" {
		fmt.Fprintf(&b, " plan=%s", e.PlanID)
	}
	if e.ZoneID != "" {
		fmt.Fprintf(&b, " zone=%s", e.ZoneID)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// ToCatalog maps a decoded feed to catalog base plans owned by providerID.
// Elements that cannot be used are dropped and reported in the returned
// error list; a base plan whose plans were all dropped is still returned.
func ToCatalog(providerID uuid.UUID, list *PlanList) ([]*catalog.BasePlan, []error) {
	if list == nil {
		return nil, nil
	}

	var (
		result []*catalog.BasePlan
		errs   []error
	)
	for _, src := range list.Output.BasePlans {
		baseID := strings.TrimSpace(src.BasePlanID)
		if baseID == "" {
			errs = append(errs, &MappingError{Reason: "missing base_plan_id"})
			continue
		}
		if strings.Contains(baseID, ":") {
			// ':' separates the parts of index keys
			errs = append(errs, &MappingError{BasePlanID: baseID, Reason: "base_plan_id contains ':'"})
			continue
		}

		bp := &catalog.BasePlan{
			ProviderID:         providerID,
			ExternalID:         baseID,
			Title:              strings.TrimSpace(src.Title),
			SellMode:           catalog.ParseSellMode(src.SellMode),
			OrganizerCompanyID: strings.TrimSpace(src.OrganizerCompanyID),
			Plans:              make([]*catalog.Plan, 0, len(src.Plans)),
		}
		for _, p := range src.Plans {
			plan, planErrs := toPlan(baseID, p)
			errs = append(errs, planErrs...)
			if plan != nil {
				bp.Plans = append(bp.Plans, plan)
			}
		}
		result = append(result, bp)
	}
	return result, errs
}

func toPlan(baseID string, src Plan) (*catalog.Plan, []error) {
	planID := strings.TrimSpace(src.PlanID)
	fail := func(reason string) []error {
		return []error{&MappingError{BasePlanID: baseID, PlanID: planID, Reason: reason}}
	}

	if planID == "" {
		return nil, fail("missing plan_id")
	}
	if strings.Contains(planID, ":") {
		return nil, fail("plan_id contains ':'")
	}
	start, err := biztime.ParseNaive(src.StartDate)
	if err != nil {
		return nil, fail(err.Error())
	}
	end, err := biztime.ParseNaive(src.EndDate)
	if err != nil {
		return nil, fail(err.Error())
	}
	if end.Before(start) {
		return nil, fail("plan_end_date before plan_start_date")
	}

	plan := &catalog.Plan{
		ExternalID: planID,
		StartsAt:   start,
		EndsAt:     end,
		SellFrom:   optionalTime(src.SellFrom),
		SellTo:     optionalTime(src.SellTo),
		SoldOut:    parseBool(src.SoldOut),
		Zones:      make([]*catalog.Zone, 0, len(src.Zones)),
	}

	var errs []error
	for _, z := range src.Zones {
		zoneID := strings.TrimSpace(z.ZoneID)
		if zoneID == "" {
			errs = append(errs, &MappingError{BasePlanID: baseID, PlanID: planID, Reason: "missing zone_id"})
			continue
		}
		plan.Zones = append(plan.Zones, &catalog.Zone{
			ExternalID: zoneID,
			Name:       strings.TrimSpace(z.Name),
			Capacity:   parseCapacity(z.Capacity),
			Price:      parsePrice(z.Price),
			Numbered:   parseBool(z.Numbered),
		})
	}
	return plan, errs
}

func optionalTime(v string) time.Time {
	if strings.TrimSpace(v) == "" {
		return time.Time{}
	}
	t, err := biztime.ParseNaive(v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

func parseCapacity(v string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parsePrice(v string) *float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	return &f
}
