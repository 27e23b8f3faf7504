package chat

import (
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Registry tracks live chat sessions for tell and party routing. Unlike
// zone state it is shared across connection goroutines, so it carries its
// own lock.
type Registry struct {
	mu        sync.Mutex
	byName    map[string]*Connection
	byContent map[uint64]*Connection
	parties   map[uint64]map[*Connection]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		byName:    make(map[string]*Connection),
		byContent: make(map[uint64]*Connection),
		parties:   make(map[uint64]map[*Connection]struct{}),
	}
}

func nameKey(name string) string {
	return strings.ToLower(norm.NFC.String(name))
}

func (r *Registry) add(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[nameKey(c.name)] = c
	r.byContent[c.contentID] = c
}

func (r *Registry) remove(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byName[nameKey(c.name)] == c {
		delete(r.byName, nameKey(c.name))
	}
	if r.byContent[c.contentID] == c {
		delete(r.byContent, c.contentID)
	}
	for _, members := range r.parties {
		delete(members, c)
	}
}

// findByName resolves a live session by character name.
func (r *Registry) findByName(name string) (*Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byName[nameKey(name)]
	return c, ok
}

// findByContent resolves a live session by content id.
func (r *Registry) findByContent(contentID uint64) (*Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byContent[contentID]
	return c, ok
}

// joinParty subscribes a session to a party channel.
func (r *Registry) joinParty(channel uint64, c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.parties[channel]
	if !ok {
		members = make(map[*Connection]struct{})
		r.parties[channel] = members
	}
	members[c] = struct{}{}
}

// partyMembers snapshots a party channel's sessions.
func (r *Registry) partyMembers(channel uint64) []*Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Connection
	for c := range r.parties[channel] {
		out = append(out, c)
	}
	return out
}
