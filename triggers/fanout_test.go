package triggers

import (
	"context"
	"testing"
	"time"

	"partflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assignmentDoc(recipients ...map[string]interface{}) map[string]interface{} {
	entries := make([]interface{}, len(recipients))
	for i, r := range recipients {
		entries[i] = r
	}
	return map[string]interface{}{
		"file_id":         "file-1",
		"part_ids":        []interface{}{"part-1", "part-2"},
		"assigned_by":     "conductor",
		"assignment_name": "Week 12 rehearsal",
		"assigned_at":     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		"recipients":      entries,
	}
}

func assignmentEvent(assignmentID string, doc map[string]interface{}) ChangeEvent {
	return ChangeEvent{
		Params: map[string]string{ParamAssignmentID: assignmentID},
		After:  doc,
	}
}

func seedGroup(t *testing.T, store *memStore, groupID string, uids ...string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, CollectionGroups, groupID, map[string]interface{}{
		"name":         groupID,
		"member_count": int64(len(uids)),
	}))
	for _, uid := range uids {
		key := models.MembershipKey(models.AggregateGroup, groupID, uid)
		require.NoError(t, store.Put(ctx, CollectionMemberships, key, map[string]interface{}{
			"aggregate_type": models.AggregateGroup,
			"aggregate_id":   groupID,
			"uid":            uid,
		}))
	}
}

func TestAssignmentFanoutUserRecipient(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	engine := NewEngine(store)

	doc := assignmentDoc(map[string]interface{}{"type": models.RecipientUser, "uid": "alice"})
	require.NoError(t, engine.HandleAssignmentCreate(ctx, assignmentEvent("a1", doc)))

	copyDoc, err := store.Get(ctx, CollectionUserAssignments, models.AssignmentCopyKey("alice", "a1"))
	require.NoError(t, err)
	assert.Equal(t, "alice", copyDoc["uid"])
	assert.Equal(t, "a1", copyDoc["assignment_id"])
	assert.Equal(t, "file-1", copyDoc["file_id"])
	assert.Equal(t, []string{"part-1", "part-2"}, copyDoc["part_ids"])
	assert.Equal(t, "conductor", copyDoc["assigned_by"])
	assert.NotContains(t, copyDoc, "group_id")

	assert.Equal(t, 1, store.count(CollectionNotifications))
}

func TestAssignmentFanoutGroupExpandsToCurrentMembers(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	engine := NewEngine(store)
	seedGroup(t, store, "ensemble", "alice", "bob", "carol")

	doc := assignmentDoc(map[string]interface{}{"type": models.RecipientGroup, "group_id": "ensemble"})
	require.NoError(t, engine.HandleAssignmentCreate(ctx, assignmentEvent("a2", doc)))

	for _, uid := range []string{"alice", "bob", "carol"} {
		copyDoc, err := store.Get(ctx, CollectionUserAssignments, models.AssignmentCopyKey(uid, "a2"))
		require.NoError(t, err, "member %s should have a copy", uid)
		assert.Equal(t, "ensemble", copyDoc["group_id"])
		assert.Equal(t, "Week 12 rehearsal", copyDoc["assignment_name"])
	}
	assert.Equal(t, 3, store.count(CollectionNotifications))
}

func TestAssignmentFanoutMixedRecipients(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	seedGroup(t, store, "ensemble", "alice", "bob")

	doc := assignmentDoc(
		map[string]interface{}{"type": models.RecipientUser, "uid": "dave"},
		map[string]interface{}{"type": models.RecipientGroup, "group_id": "ensemble"},
	)
	deliveries, skipped, err := AssignmentFanout(ctx, store, assignmentEvent("a3", doc))
	require.NoError(t, err)
	assert.Empty(t, skipped)

	uids := make(map[string]bool)
	for _, d := range deliveries {
		uids[d.UID] = true
	}
	assert.Equal(t, map[string]bool{"dave": true, "alice": true, "bob": true}, uids)
}

// Redelivery overwrites the copy in place but notifications are fresh
// inserts, so rerunning the fan-out accumulates notifications.
func TestAssignmentFanoutRedeliveryIsIdempotentForCopies(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	engine := NewEngine(store)

	doc := assignmentDoc(map[string]interface{}{"type": models.RecipientUser, "uid": "alice"})
	ev := assignmentEvent("a4", doc)
	require.NoError(t, engine.HandleAssignmentCreate(ctx, ev))
	require.NoError(t, engine.HandleAssignmentCreate(ctx, ev))

	assert.Equal(t, 1, store.count(CollectionUserAssignments))
	assert.Equal(t, 2, store.count(CollectionNotifications))
}

func TestAssignmentFanoutSkipsUnresolvableEntries(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	doc := assignmentDoc(
		map[string]interface{}{"type": "broadcast"},
		map[string]interface{}{"type": models.RecipientUser},
		map[string]interface{}{"type": models.RecipientGroup},
		map[string]interface{}{"type": models.RecipientUser, "uid": "alice"},
	)
	deliveries, skipped, err := AssignmentFanout(ctx, store, assignmentEvent("a5", doc))
	require.NoError(t, err)

	require.Len(t, deliveries, 1)
	assert.Equal(t, "alice", deliveries[0].UID)

	require.Len(t, skipped, 3)
	assert.Equal(t, 0, skipped[0].Index)
	assert.Contains(t, skipped[0].Reason, "unknown recipient type")
	assert.Equal(t, 1, skipped[1].Index)
	assert.Contains(t, skipped[1].Reason, "missing uid")
	assert.Equal(t, 2, skipped[2].Index)
	assert.Contains(t, skipped[2].Reason, "missing group_id")
}

func TestAssignmentFanoutEmptyGroupDeliversNothing(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	seedGroup(t, store, "silent")

	doc := assignmentDoc(map[string]interface{}{"type": models.RecipientGroup, "group_id": "silent"})
	deliveries, skipped, err := AssignmentFanout(ctx, store, assignmentEvent("a6", doc))
	require.NoError(t, err)
	assert.Empty(t, deliveries)
	assert.Empty(t, skipped)
}

func TestAssignmentFanoutMissingDocumentFails(t *testing.T) {
	_, _, err := AssignmentFanout(context.Background(), newMemStore(), ChangeEvent{
		Params: map[string]string{ParamAssignmentID: "a7"},
	})
	assert.Error(t, err)
}
