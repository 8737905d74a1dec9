package fsindex

import (
	"os/user"
	"strconv"
	"sync"
)

type ownership struct {
	uid int
	gid int
}

// ownerCache resolves numeric ids to names once per id.
type ownerCache struct {
	mu     sync.Mutex
	users  map[int]string
	groups map[int]string
}

func newOwnerCache() *ownerCache {
	return &ownerCache{users: make(map[int]string), groups: make(map[int]string)}
}

func (c *ownerCache) user(uid int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name, ok := c.users[uid]; ok {
		return name
	}
	name := strconv.Itoa(uid)
	if u, err := user.LookupId(name); err == nil {
		name = u.Username
	}
	c.users[uid] = name
	return name
}

func (c *ownerCache) group(gid int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name, ok := c.groups[gid]; ok {
		return name
	}
	name := strconv.Itoa(gid)
	if g, err := user.LookupGroupId(name); err == nil {
		name = g.Name
	}
	c.groups[gid] = name
	return name
}
