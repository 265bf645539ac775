package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAudience_Dedup_And_Without(t *testing.T) {
	req := require.New(t)

	// Given an audience with duplicates and an empty id
	audience := NewAudience("alice", "bob", "alice", "", "clara")

	// Then duplicates and empty ids are dropped
	req.Equal(Audience{"alice", "bob", "clara"}, audience)

	// When the actor is removed
	withoutBob := audience.Without("bob")

	// Then only the others remain and the original is untouched
	req.Equal(Audience{"alice", "clara"}, withoutBob)
	req.True(audience.Contains("bob"))
	req.False(withoutBob.Contains("bob"))
}

func TestParseRole(t *testing.T) {
	req := require.New(t)

	role, err := ParseRole("READ_WRITE")
	req.NoError(err)
	req.Equal(ReadWrite, role)

	_, err = ParseRole("OWNER")
	req.Error(err)
}
