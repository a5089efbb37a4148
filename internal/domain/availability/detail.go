package availability

import (
	"encoding/json"
	"math"
)

// DetailSchemaVersion is written into every PlanDetail.
const DetailSchemaVersion = 1

// PlanDetail is the one serialized projection of an indexed plan. The write
// path encodes it and the query engine decodes it with the same JSON tags.
type PlanDetail struct {
	Version            int          `json:"v"`
	ProviderID         string       `json:"provider_id"`
	BasePlanID         string       `json:"base_plan_id"`
	PlanID             string       `json:"plan_id"`
	Title              string       `json:"title"`
	SellMode           string       `json:"sell_mode"`
	OrganizerCompanyID string       `json:"organizer_company_id,omitempty"`
	StartEpoch         int64        `json:"start_epoch"`
	EndEpoch           int64        `json:"end_epoch"`
	SellFromEpoch      int64        `json:"sell_from_epoch,omitempty"`
	SellToEpoch        int64        `json:"sell_to_epoch,omitempty"`
	SoldOut            bool         `json:"sold_out"`
	Zones              []ZoneDetail `json:"zones"`
}

// ZoneDetail is a priced sub-resource of a plan. Price is nil when the
// provider did not publish a usable price.
type ZoneDetail struct {
	ZoneID   string   `json:"zone_id"`
	Name     string   `json:"name"`
	Capacity int64    `json:"capacity"`
	Price    *float64 `json:"price"`
	Numbered bool     `json:"numbered"`
}

// Key returns the entry key this detail is stored under.
func (d *PlanDetail) Key() EntryKey {
	return EntryKey{Tenant: d.ProviderID, BaseID: d.BasePlanID, LeafID: d.PlanID}
}

// EncodeDetail serializes d with the shared schema.
func EncodeDetail(d *PlanDetail) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, &SerializationError{Key: d.Key().DetailKey(), Err: err}
	}
	return data, nil
}

// DecodeDetail parses a stored detail record. key is only used for error context.
func DecodeDetail(key string, data []byte) (*PlanDetail, error) {
	var d PlanDetail
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, &SerializationError{Key: key, Err: err}
	}
	return &d, nil
}

// PriceRange returns the lowest and highest finite zone price. A plan with no
// priced zones yields 0, 0.
func (d *PlanDetail) PriceRange() (minPrice, maxPrice float64) {
	found := false
	for _, z := range d.Zones {
		if z.Price == nil {
			continue
		}
		p := *z.Price
		if math.IsNaN(p) || math.IsInf(p, 0) {
			continue
		}
		if !found {
			minPrice, maxPrice = p, p
			found = true
			continue
		}
		minPrice = math.Min(minPrice, p)
		maxPrice = math.Max(maxPrice, p)
	}
	return minPrice, maxPrice
}
