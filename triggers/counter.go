package triggers

import (
	"fmt"

	"partflow/models"
)

// MembershipCounter reacts to any write on a membership document and emits
// the atomic increment that keeps the parent aggregate's member_count in
// step with membership existence. The underlying change feed fires on every
// field change, not only on existence transitions, so a zero delta must
// short-circuit without a write.
func MembershipCounter(ev ChangeEvent) ([]Command, error) {
	delta := membershipDelta(ev.Before != nil, ev.After != nil)
	if delta == 0 {
		return nil, nil
	}

	collection, err := aggregateCollection(ev.Params[ParamAggregateType])
	if err != nil {
		return nil, err
	}

	aggregateID := ev.Params[ParamAggregateID]
	if aggregateID == "" {
		return nil, fmt.Errorf("membership change missing aggregate id")
	}

	return []Command{
		IncrementField{
			Collection: collection,
			DocID:      aggregateID,
			Field:      "member_count",
			Delta:      delta,
		},
	}, nil
}

func membershipDelta(before, after bool) int64 {
	switch {
	case !before && after:
		return 1 // join
	case before && !after:
		return -1 // leave
	default:
		return 0
	}
}

func aggregateCollection(aggregateType string) (string, error) {
	switch aggregateType {
	case models.AggregateTag:
		return CollectionTags, nil
	case models.AggregateGroup:
		return CollectionGroups, nil
	default:
		return "", fmt.Errorf("unknown aggregate type %q", aggregateType)
	}
}
