package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	a := &Connection{contentID: 1, name: "Astrid Snow"}
	b := &Connection{contentID: 2, name: "Björn Frost"}
	r.add(a)
	r.add(b)

	got, ok := r.findByContent(1)
	require.True(t, ok)
	assert.Same(t, a, got)

	// Name lookup is case-insensitive and NFC-normalized.
	got, ok = r.findByName("astrid snow")
	require.True(t, ok)
	assert.Same(t, a, got)

	got, ok = r.findByName("BJÖRN FROST")
	require.True(t, ok)
	assert.Same(t, b, got)

	_, ok = r.findByName("nobody")
	assert.False(t, ok)

	r.remove(a)
	_, ok = r.findByContent(1)
	assert.False(t, ok)
	_, ok = r.findByName("Astrid Snow")
	assert.False(t, ok)
}

func TestRegistryParties(t *testing.T) {
	r := NewRegistry()
	a := &Connection{contentID: 1, name: "A"}
	b := &Connection{contentID: 2, name: "B"}
	r.add(a)
	r.add(b)

	r.joinParty(42, a)
	r.joinParty(42, b)
	assert.Len(t, r.partyMembers(42), 2)
	assert.Empty(t, r.partyMembers(7))

	// Removal drops the session from every party channel.
	r.remove(b)
	members := r.partyMembers(42)
	require.Len(t, members, 1)
	assert.Same(t, a, members[0])
}
