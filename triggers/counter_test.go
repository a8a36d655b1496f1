package triggers

import (
	"context"
	"testing"

	"partflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func membershipEventFor(aggregateType, aggregateID, uid string, before, after map[string]interface{}) ChangeEvent {
	return ChangeEvent{
		Params: map[string]string{
			ParamAggregateType: aggregateType,
			ParamAggregateID:   aggregateID,
			ParamUID:           uid,
		},
		Before: before,
		After:  after,
	}
}

func TestMembershipCounterDeltas(t *testing.T) {
	doc := map[string]interface{}{"uid": "alice", "role": "member"}
	promoted := map[string]interface{}{"uid": "alice", "role": "owner"}

	tests := []struct {
		name       string
		before     map[string]interface{}
		after      map[string]interface{}
		wantDelta  int64
		wantNoCmds bool
	}{
		{name: "join increments", before: nil, after: doc, wantDelta: 1},
		{name: "leave decrements", before: doc, after: nil, wantDelta: -1},
		{name: "field update is a no-op", before: doc, after: promoted, wantNoCmds: true},
		{name: "phantom event is a no-op", before: nil, after: nil, wantNoCmds: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev := membershipEventFor(models.AggregateGroup, "ensemble", "alice", tc.before, tc.after)
			cmds, err := MembershipCounter(ev)
			require.NoError(t, err)

			if tc.wantNoCmds {
				assert.Empty(t, cmds)
				return
			}

			require.Len(t, cmds, 1)
			inc, ok := cmds[0].(IncrementField)
			require.True(t, ok, "expected an IncrementField command")
			assert.Equal(t, CollectionGroups, inc.Collection)
			assert.Equal(t, "ensemble", inc.DocID)
			assert.Equal(t, "member_count", inc.Field)
			assert.Equal(t, tc.wantDelta, inc.Delta)
		})
	}
}

func TestMembershipCounterTagTargetsTagCollection(t *testing.T) {
	ev := membershipEventFor(models.AggregateTag, "soprano", "bob", nil, map[string]interface{}{"uid": "bob"})
	cmds, err := MembershipCounter(ev)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, CollectionTags, cmds[0].(IncrementField).Collection)
}

func TestMembershipCounterRejectsUnknownAggregateType(t *testing.T) {
	ev := membershipEventFor("playlist", "p1", "bob", nil, map[string]interface{}{"uid": "bob"})
	_, err := MembershipCounter(ev)
	assert.Error(t, err)
}

func TestMembershipCounterRejectsMissingAggregateID(t *testing.T) {
	ev := membershipEventFor(models.AggregateGroup, "", "bob", nil, map[string]interface{}{"uid": "bob"})
	_, err := MembershipCounter(ev)
	assert.Error(t, err)
}

// The count must equal net joins minus leaves regardless of interleaving,
// including repeated updates to an existing membership document.
func TestMembershipCounterSequenceKeepsCountInStep(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	engine := NewEngine(store)

	require.NoError(t, store.Put(ctx, CollectionGroups, "ensemble", map[string]interface{}{
		"name":         "Ensemble",
		"member_count": int64(0),
	}))

	member := func(uid string) map[string]interface{} {
		return map[string]interface{}{"uid": uid, "role": "member"}
	}

	steps := []struct {
		uid    string
		before map[string]interface{}
		after  map[string]interface{}
	}{
		{uid: "alice", after: member("alice")},                            // join
		{uid: "bob", after: member("bob")},                                // join
		{uid: "alice", before: member("alice"), after: member("alice")},   // role change
		{uid: "carol", after: member("carol")},                            // join
		{uid: "bob", before: member("bob")},                               // leave
	}

	for _, step := range steps {
		ev := membershipEventFor(models.AggregateGroup, "ensemble", step.uid, step.before, step.after)
		require.NoError(t, engine.HandleMembershipChange(ctx, ev))
	}

	assert.Equal(t, int64(2), store.field(CollectionGroups, "ensemble", "member_count"))
}

func TestMembershipCounterOrphanedMembershipSurfacesError(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(newMemStore())

	ev := membershipEventFor(models.AggregateGroup, "vanished", "alice", nil, map[string]interface{}{"uid": "alice"})
	err := engine.HandleMembershipChange(ctx, ev)
	assert.Error(t, err)
}
