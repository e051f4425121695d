package ws

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBareClient(userID uuid.UUID) *Client {
	return NewClient(nil, nil, userID)
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	user := uuid.New()
	c := newBareClient(user)

	replaced := r.Register(user, c)
	assert.Nil(t, replaced)

	got, ok := r.Lookup(user)
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, 1, r.Len())

	_, ok = r.Lookup(uuid.New())
	assert.False(t, ok)
}

func TestRegistry_SecondSessionReplacesFirst(t *testing.T) {
	r := NewRegistry()
	user := uuid.New()
	first := newBareClient(user)
	second := newBareClient(user)

	require.Nil(t, r.Register(user, first))

	replaced := r.Register(user, second)
	assert.Same(t, first, replaced, "the displaced session must be handed back for teardown")

	got, ok := r.Lookup(user)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, r.Len(), "a user never holds two entries")
}

func TestRegistry_ReRegisterSameClientIsNoop(t *testing.T) {
	r := NewRegistry()
	user := uuid.New()
	c := newBareClient(user)

	require.Nil(t, r.Register(user, c))
	assert.Nil(t, r.Register(user, c), "re-registering the live client must not report it as displaced")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_StaleUnregisterIsNoop(t *testing.T) {
	r := NewRegistry()
	user := uuid.New()
	old := newBareClient(user)
	current := newBareClient(user)

	require.Nil(t, r.Register(user, old))
	r.Register(user, current)

	// The old session disconnects after being replaced; its unregister must
	// not evict the current session.
	assert.False(t, r.Unregister(user, old))

	got, ok := r.Lookup(user)
	require.True(t, ok)
	assert.Same(t, current, got)

	assert.True(t, r.Unregister(user, current))
	_, ok = r.Lookup(user)
	assert.False(t, ok)
}

func TestRegistry_OnlineUserIDs(t *testing.T) {
	r := NewRegistry()
	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, u := range users {
		r.Register(u, newBareClient(u))
	}

	online := r.OnlineUserIDs()
	assert.ElementsMatch(t, users, online)
	assert.Len(t, r.Clients(), 3)
}
