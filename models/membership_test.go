package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipKeyRoundTrip(t *testing.T) {
	key := MembershipKey(AggregateGroup, "ensemble", "alice")
	assert.Equal(t, "group:ensemble:alice", key)

	aggType, aggID, uid, err := ParseMembershipKey(key)
	require.NoError(t, err)
	assert.Equal(t, AggregateGroup, aggType)
	assert.Equal(t, "ensemble", aggID)
	assert.Equal(t, "alice", uid)
}

func TestParseMembershipKeyUIDMayContainColons(t *testing.T) {
	aggType, aggID, uid, err := ParseMembershipKey("tag:soprano:auth0:12345")
	require.NoError(t, err)
	assert.Equal(t, AggregateTag, aggType)
	assert.Equal(t, "soprano", aggID)
	assert.Equal(t, "auth0:12345", uid)
}

func TestParseMembershipKeyRejectsMalformedKeys(t *testing.T) {
	for _, key := range []string{"", "group", "group:ensemble", "group::alice", ":ensemble:alice"} {
		_, _, _, err := ParseMembershipKey(key)
		assert.Error(t, err, "key %q should be rejected", key)
	}
}

func TestAssignmentCopyKey(t *testing.T) {
	assert.Equal(t, "alice:a1", AssignmentCopyKey("alice", "a1"))
}
