package triggers

import (
	"context"
	"fmt"
	"time"

	"partflow/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Delivery is the pair of writes fan-out produces for one resolved recipient:
// an idempotent assignment copy keyed by (uid, assignmentID) and a fresh
// notification insert.
type Delivery struct {
	UID      string
	Commands []Command
}

// SkippedRecipient records a recipient entry the fan-out could not resolve.
// The original design dropped these silently; they are surfaced here so the
// caller can log a diagnostic per skipped entry.
type SkippedRecipient struct {
	Index  int
	Reason string
}

// AssignmentFanout resolves the recipient list of a newly created assignment
// into one Delivery per resolved individual. Group recipients expand to the
// group's membership at the moment of the query; members who join later are
// not retroactively notified. Fires on creation only, so ev.After carries
// the full assignment document.
func AssignmentFanout(ctx context.Context, store Store, ev ChangeEvent) ([]Delivery, []SkippedRecipient, error) {
	assignmentID := ev.Params[ParamAssignmentID]
	if assignmentID == "" {
		return nil, nil, fmt.Errorf("assignment create missing assignment id")
	}
	doc := ev.After
	if doc == nil {
		return nil, nil, fmt.Errorf("assignment create event for %s has no document", assignmentID)
	}

	rawRecipients, ok := asSlice(doc["recipients"])
	if !ok {
		return nil, []SkippedRecipient{{Index: -1, Reason: "assignment has no recipients list"}}, nil
	}

	var deliveries []Delivery
	var skipped []SkippedRecipient

	for i, raw := range rawRecipients {
		entry, ok := asMap(raw)
		if !ok {
			skipped = append(skipped, SkippedRecipient{Index: i, Reason: "recipient entry is not a document"})
			continue
		}

		switch stringField(entry, "type") {
		case models.RecipientUser:
			uid := stringField(entry, "uid")
			if uid == "" {
				skipped = append(skipped, SkippedRecipient{Index: i, Reason: "user recipient missing uid"})
				continue
			}
			deliveries = append(deliveries, buildDelivery(assignmentID, uid, doc, ""))

		case models.RecipientGroup:
			groupID := stringField(entry, "group_id")
			if groupID == "" {
				skipped = append(skipped, SkippedRecipient{Index: i, Reason: "group recipient missing group_id"})
				continue
			}
			members, err := store.QueryByField(ctx, CollectionMemberships, map[string]interface{}{
				"aggregate_type": models.AggregateGroup,
				"aggregate_id":   groupID,
			})
			if err != nil {
				return deliveries, skipped, fmt.Errorf("failed to expand group %s: %w", groupID, err)
			}
			for _, member := range members {
				uid := stringField(member, "uid")
				if uid == "" {
					continue
				}
				deliveries = append(deliveries, buildDelivery(assignmentID, uid, doc, groupID))
			}

		default:
			skipped = append(skipped, SkippedRecipient{Index: i, Reason: fmt.Sprintf("unknown recipient type %q", stringField(entry, "type"))})
		}
	}

	return deliveries, skipped, nil
}

// buildDelivery materializes one recipient's copy and notification. When the
// recipient was resolved through a group, the copy is stamped with the group
// id and assignment name so it retains provenance the flat recipient list
// entry lacks.
func buildDelivery(assignmentID, uid string, doc map[string]interface{}, viaGroup string) Delivery {
	fileID := stringField(doc, "file_id")
	partIDs := stringSliceField(doc, "part_ids")
	assignedBy := stringField(doc, "assigned_by")
	assignedAt := timeField(doc, "assigned_at")
	assignmentName := stringField(doc, "assignment_name")

	copyDoc := map[string]interface{}{
		"uid":           uid,
		"assignment_id": assignmentID,
		"file_id":       fileID,
		"part_ids":      partIDs,
		"assigned_by":   assignedBy,
		"assigned_at":   assignedAt,
	}
	if assignmentName != "" {
		copyDoc["assignment_name"] = assignmentName
	}
	if viaGroup != "" {
		copyDoc["group_id"] = viaGroup
	}

	notification := map[string]interface{}{
		"uid":           uid,
		"assignment_id": assignmentID,
		"from_uid":      assignedBy,
		"file_id":       fileID,
		"part_ids":      partIDs,
		"assigned_at":   assignedAt,
		"is_read":       false,
		"created_at":    time.Now().UTC(),
	}

	return Delivery{
		UID: uid,
		Commands: []Command{
			PutDocument{
				Collection: CollectionUserAssignments,
				DocID:      models.AssignmentCopyKey(uid, assignmentID),
				Data:       copyDoc,
			},
			InsertDocument{
				Collection: CollectionNotifications,
				Data:       notification,
			},
		},
	}
}

// Field helpers tolerant of the shapes bson decoding produces.

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case primitive.M:
		return m, true
	default:
		return nil, false
	}
}

func asSlice(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case primitive.A:
		return s, true
	default:
		return nil, false
	}
}

func stringField(doc map[string]interface{}, key string) string {
	if s, ok := doc[key].(string); ok {
		return s
	}
	return ""
}

func stringSliceField(doc map[string]interface{}, key string) []string {
	raw, ok := asSlice(doc[key])
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func timeField(doc map[string]interface{}, key string) time.Time {
	switch t := doc[key].(type) {
	case time.Time:
		return t
	case primitive.DateTime:
		return t.Time()
	default:
		return time.Time{}
	}
}
