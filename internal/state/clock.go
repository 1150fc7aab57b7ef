package state

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator mints annotation ids. Ids from one generator sort in
// creation order under string comparison.
type IDGenerator interface {
	NewID() ID
}

// UUIDGenerator mints version 7 uuids, which embed a millisecond timestamp
// followed by a per-process sequence, so two ids minted in the same tick
// still differ and still sort in creation order.
type UUIDGenerator struct {
	fallback Counter
}

func (g *UUIDGenerator) NewID() ID {
	u, err := uuid.NewV7()
	if err != nil {
		// only reachable when the random source fails
		return g.fallback.NewID()
	}
	return ID(u.String())
}

// Counter mints "<prefix>-000000000001", "<prefix>-000000000002", ...
type Counter struct {
	Prefix string
	n      uint64
}

func NewCounter(prefix string) *Counter {
	return &Counter{Prefix: prefix}
}

func (c *Counter) NewID() ID {
	n := atomic.AddUint64(&c.n, 1)
	prefix := c.Prefix
	if prefix == "" {
		prefix = "a"
	}
	return ID(fmt.Sprintf("%s-%012d", prefix, n))
}
