package server

import (
	"sync"
	"time"

	"github.com/jrsteele09/go-todo-web/tasks"
	"github.com/jrsteele09/go-todo-web/users"
)

// pageView is one mounted dashboard: the user it was loaded for and the task
// list it holds. It belongs to the token it was mounted with.
type pageView struct {
	token string
	user  *users.User
	tasks *tasks.Controller
}

type viewEntry struct {
	view *pageView
	exp  time.Time
}

// viewCache keeps the mounted view of each device for ttl after its last use.
type viewCache struct {
	mu  sync.RWMutex
	m   map[string]viewEntry // deviceID -> view
	ttl time.Duration
	now func() time.Time
}

func newViewCache(ttl time.Duration) *viewCache {
	return &viewCache{m: make(map[string]viewEntry), ttl: ttl, now: time.Now}
}

func (c *viewCache) Get(deviceID string) (*pageView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[deviceID]
	if !ok {
		return nil, false
	}
	now := c.now()
	if now.After(e.exp) {
		delete(c.m, deviceID)
		return nil, false
	}
	e.exp = now.Add(c.ttl)
	c.m[deviceID] = e
	return e.view, true
}

func (c *viewCache) Put(deviceID string, v *pageView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictExpired()
	c.m[deviceID] = viewEntry{view: v, exp: c.now().Add(c.ttl)}
}

func (c *viewCache) Drop(deviceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, deviceID)
}

func (c *viewCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// evictExpired must be called with mu held.
func (c *viewCache) evictExpired() {
	now := c.now()
	for id, e := range c.m {
		if now.After(e.exp) {
			delete(c.m, id)
		}
	}
}
