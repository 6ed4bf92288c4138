// SPDX-License-Identifier: MIT

package sampler

import "sync/atomic"

// selfCondCache holds the most recent prediction of a run. The slot is
// replaced wholesale; a nil value means empty.
type selfCondCache struct {
	slot atomic.Pointer[Prediction]
}

// Get returns the cached prediction or nil.
func (c *selfCondCache) Get() *Prediction {
	return c.slot.Load()
}

// Set stores a deep copy of p (nil empties the cache).
func (c *selfCondCache) Set(p *Prediction) {
	c.slot.Store(p.Clone())
}
