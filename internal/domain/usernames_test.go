package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripsplit/backend/internal/domain"
)

func TestUsernameSet_AddIsIdempotent(t *testing.T) {
	s := domain.NewUsernameSet("alice")

	assert.True(t, s.Add("bob"))
	assert.False(t, s.Add("bob"))
	assert.False(t, s.Add("alice"))
	assert.Equal(t, []string{"alice", "bob"}, s.Slice(), "insertion order is kept")
}

func TestUsernameSet_RemoveIsIdempotent(t *testing.T) {
	s := domain.NewUsernameSet("alice", "bob", "carol")

	assert.True(t, s.Remove("bob"))
	assert.False(t, s.Remove("bob"))
	assert.False(t, s.Remove("zed"))
	assert.Equal(t, []string{"alice", "carol"}, s.Slice())
	assert.Equal(t, 2, s.Len())
}

// Remove must not write through to a copy that shares the backing array.
func TestUsernameSet_RemoveDoesNotAliasCopies(t *testing.T) {
	s := domain.NewUsernameSet("alice", "bob", "carol")
	c := s

	c.Remove("alice")

	assert.Equal(t, []string{"alice", "bob", "carol"}, s.Slice())
	assert.Equal(t, []string{"bob", "carol"}, c.Slice())
}

func TestUsernameSet_SliceIsACopy(t *testing.T) {
	s := domain.NewUsernameSet("alice")
	out := s.Slice()
	out[0] = "mallory"

	assert.True(t, s.Contains("alice"))
	assert.False(t, s.Contains("mallory"))
}

func TestUsernameSet_JSON(t *testing.T) {
	var zero domain.UsernameSet
	b, err := json.Marshal(zero)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b), "an empty set is never null")

	var s domain.UsernameSet
	require.NoError(t, json.Unmarshal([]byte(`["bob","alice","bob"]`), &s))
	assert.Equal(t, []string{"bob", "alice"}, s.Slice())

	b, err = json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["bob","alice"]`, string(b))

	require.Error(t, json.Unmarshal([]byte(`"bob"`), &s))
}
