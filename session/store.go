// Package session owns the client's bearer token: where its copies live,
// how they are written together and the login/logout lifecycle around them.
package session

import (
	"errors"
)

// Store holds one copy of the bearer token.
type Store interface {
	// Get returns the token and whether one is present.
	Get() (string, bool)
	Set(token string) error
	Clear() error
}

// replicated keeps the durable copy and the cookie copy in step. It is the
// only place both copies are written.
type replicated struct {
	durable Store
	cookie  Store
}

// Replicated joins the durable store and the cookie store behind one Store.
// Writes go to both copies. Reads prefer the durable copy and fall back to the
// cookie, so a token in either copy counts as present. The copies are not
// reconciled on read; a divergence lasts until the next Set or Clear.
func Replicated(durable, cookie Store) Store {
	return &replicated{durable: durable, cookie: cookie}
}

func (r *replicated) Get() (string, bool) {
	if token, ok := r.durable.Get(); ok {
		return token, true
	}
	return r.cookie.Get()
}

func (r *replicated) Set(token string) error {
	return errors.Join(r.durable.Set(token), r.cookie.Set(token))
}

func (r *replicated) Clear() error {
	return errors.Join(r.durable.Clear(), r.cookie.Clear())
}

// MemoryStore is a Store held in a variable. Used for tests and for callers
// with no durable backing.
type MemoryStore struct {
	token string
}

func (m *MemoryStore) Get() (string, bool) {
	return m.token, m.token != ""
}

func (m *MemoryStore) Set(token string) error {
	m.token = token
	return nil
}

func (m *MemoryStore) Clear() error {
	m.token = ""
	return nil
}
