package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/geocoder89/userapi/internal/domain/user"
)

// Memory is an in-process TTL cache of users keyed by user_id.
type Memory struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[int64]entry
	now func() time.Time
}

type entry struct {
	val user.User
	exp time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Memory{
		ttl: ttl,
		m:   make(map[int64]entry),
		now: time.Now,
	}
}

func (c *Memory) Get(_ context.Context, userID int64) (user.User, bool) {
	now := c.now()
	c.mu.RLock()
	e, ok := c.m[userID]
	c.mu.RUnlock()
	if !ok {
		return user.User{}, false
	}

	if now.After(e.exp) {
		c.evictExpired(userID, now)
		return user.User{}, false
	}

	return e.val, true
}

// evictExpired re-checks under the write lock: a Set may have refreshed the
// entry since the read lock was dropped.
func (c *Memory) evictExpired(userID int64, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.m[userID]; ok && now.After(cur.exp) {
		delete(c.m, userID)
	}
}

func (c *Memory) Set(_ context.Context, u user.User) {
	c.mu.Lock()
	c.m[u.UserID] = entry{val: u, exp: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Memory) Delete(_ context.Context, userID int64) {
	c.mu.Lock()
	delete(c.m, userID)
	c.mu.Unlock()
}

func (c *Memory) Clear() {
	c.mu.Lock()
	c.m = make(map[int64]entry)
	c.mu.Unlock()
}

func key(userID int64) string {
	return "userapi:user:" + strconv.FormatInt(userID, 10)
}
