package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := newRegistry()
	c := &Client{UserID: 1, Username: "ayaan", SessionID: "s1"}

	r.register(c)

	got, ok := r.byUser(1)
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, 1, r.size())
}

func TestRegistryReconnectDisplacesOldSession(t *testing.T) {
	r := newRegistry()
	first := &Client{UserID: 1, Username: "ayaan", SessionID: "s1"}
	second := &Client{UserID: 1, Username: "ayaan", SessionID: "s2"}

	r.register(first)
	r.register(second)

	assert.Equal(t, 1, r.size())
	got, ok := r.byUser(1)
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestRegistryStaleRemoveKeepsSuccessor(t *testing.T) {
	r := newRegistry()
	first := &Client{UserID: 1, Username: "ayaan", SessionID: "s1"}
	second := &Client{UserID: 1, Username: "ayaan", SessionID: "s2"}
	r.register(first)
	r.register(second)

	// The displaced connection tears down after the reconnect; it must
	// not take the live record with it.
	assert.False(t, r.remove(first))

	got, ok := r.byUser(1)
	require.True(t, ok)
	assert.Same(t, second, got)

	assert.True(t, r.remove(second))
	_, ok = r.byUser(1)
	assert.False(t, ok)
	assert.Equal(t, 0, r.size())
}

func TestRegistryRenameKeepsLiveSession(t *testing.T) {
	r := newRegistry()
	old := &Client{UserID: 1, Username: "alice", SessionID: "s1"}
	renamed := &Client{UserID: 1, Username: "bob", SessionID: "s2"}
	r.register(old)
	r.register(renamed)

	// One user, one record, even across a rename.
	assert.Equal(t, 1, r.size())

	// The old session disconnecting must not take the live record out.
	assert.False(t, r.remove(old))
	got, ok := r.byUser(1)
	require.True(t, ok)
	assert.Same(t, renamed, got)

	assert.True(t, r.remove(renamed))
	_, ok = r.byUser(1)
	assert.False(t, ok)
}

func TestRegistryRemoveUnknown(t *testing.T) {
	r := newRegistry()
	assert.False(t, r.remove(&Client{UserID: 5, Username: "ghost", SessionID: "s9"}))
}
