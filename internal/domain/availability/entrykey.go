// Package availability defines the plan interval index vocabulary: entry
// keys, the persisted key layout, query windows, the detail record schema and
// the error taxonomy shared by the write path and the query engine.
package availability

import (
	"fmt"
	"strings"
)

// KeySchemaVersion identifies the persisted Redis key layout below. Bump it
// whenever any key or member format changes.
//
//	start_date                               sorted set, member -> start epoch seconds
//	end_date                                 sorted set, member -> end epoch seconds
//	member: {tenant}:{base_id}:{leaf_id}
//	detail:{tenant}:{base_id}:{leaf_id}     JSON PlanDetail with TTL
//
// Sorted sets are global; the tenant (provider id) is carried in the member.
const KeySchemaVersion = 1

const (
	StartSetKey     = "start_date"
	EndSetKey       = "end_date"
	DetailKeyPrefix = "detail"

	keySeparator = ":"
)

// EntryKey identifies one indexed plan.
type EntryKey struct {
	Tenant string
	BaseID string
	LeafID string
}

// Validate checks that every part is present and free of the separator so the
// member string can always be parsed back.
func (k EntryKey) Validate() error {
	parts := map[string]string{"tenant": k.Tenant, "base_id": k.BaseID, "leaf_id": k.LeafID}
	for _, name := range []string{"tenant", "base_id", "leaf_id"} {
		v := parts[name]
		if v == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidEntryKey, name)
		}
		if strings.Contains(v, keySeparator) {
			return fmt.Errorf("%w: %s %q contains %q", ErrInvalidEntryKey, name, v, keySeparator)
		}
	}
	return nil
}

// Member is the sorted-set member string.
func (k EntryKey) Member() string {
	return k.Tenant + keySeparator + k.BaseID + keySeparator + k.LeafID
}

// DetailKey is the key of the detail record belonging to this entry.
func (k EntryKey) DetailKey() string {
	return DetailKeyPrefix + keySeparator + k.Member()
}

func (k EntryKey) String() string {
	return k.Member()
}

// ParseMember parses a sorted-set member back into its key.
func ParseMember(member string) (EntryKey, error) {
	parts := strings.Split(member, keySeparator)
	if len(parts) != 3 {
		return EntryKey{}, fmt.Errorf("%w: member %q has %d parts", ErrInvalidEntryKey, member, len(parts))
	}
	key := EntryKey{Tenant: parts[0], BaseID: parts[1], LeafID: parts[2]}
	if err := key.Validate(); err != nil {
		return EntryKey{}, err
	}
	return key, nil
}

// DetailKeyForMember derives the detail key without parsing the member.
func DetailKeyForMember(member string) string {
	return DetailKeyPrefix + keySeparator + member
}
