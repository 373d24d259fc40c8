// Package images provides the image-cache collaborator for layout: a
// process-wide decode cache plus a per-pipeline local cache that tracks
// which images were still pending during a reflow and notifies a
// responder capability when they arrive.
package images

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Responder is the capability a round's owner hands to the cache; it is
// invoked (from a cache goroutine) when an image that was pending during
// the round becomes available.
type Responder interface {
	ImageAvailable(path string)
}

// Cache is the process-wide decoded-image cache.
type Cache struct {
	mu    sync.RWMutex
	cache map[string]image.Image
}

func NewCache() *Cache {
	return &Cache{cache: make(map[string]image.Image)}
}

// Peek returns the decoded image for path if it is already cached,
// without triggering a load.
func (c *Cache) Peek(path string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.cache[path]
	return img, ok
}

// Load returns the decoded image for path, decoding and caching it on
// first use.
func (c *Cache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	img, ok := c.cache[path]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err = image.Decode(file)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[path] = img
	c.mu.Unlock()
	return img, nil
}

// LocalCache scopes the shared cache to one pipeline. Each reflow starts
// a round; images missing during that round are recorded and fetched in
// the background, and the round's responder is told when one lands.
type LocalCache struct {
	shared *Cache

	mu        sync.Mutex
	round     uint32
	pending   map[string]bool
	responder Responder
}

func NewLocalCache(shared *Cache) *LocalCache {
	return &LocalCache{
		shared:  shared,
		pending: make(map[string]bool),
	}
}

// NextRound begins a new reflow round. Pending entries from the previous
// round are dropped; the new responder owns availability notifications
// for this round only.
func (c *LocalCache) NextRound(responder Responder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.round++
	c.pending = make(map[string]bool)
	c.responder = responder
}

// Get returns the image if it is already decoded. A miss marks the path
// pending for this round and kicks off a background load; when the load
// completes the round's responder is notified.
func (c *LocalCache) Get(path string) (image.Image, bool) {
	if img, ok := c.shared.Peek(path); ok {
		return img, true
	}

	c.mu.Lock()
	alreadyPending := c.pending[path]
	c.pending[path] = true
	round := c.round
	responder := c.responder
	c.mu.Unlock()

	if !alreadyPending {
		go c.loadPending(path, round, responder)
	}
	return nil, false
}

func (c *LocalCache) loadPending(path string, round uint32, responder Responder) {
	if _, err := c.shared.Load(path); err != nil {
		return
	}
	c.mu.Lock()
	stale := c.round != round
	c.mu.Unlock()
	if stale || responder == nil {
		return
	}
	responder.ImageAvailable(path)
}

// Prefetch decodes a batch of images concurrently, returning the first
// error. Useful before a first reflow so layout sees sizes immediately.
func (c *LocalCache) Prefetch(paths []string) error {
	var g errgroup.Group
	for _, path := range paths {
		path := path
		g.Go(func() error {
			_, err := c.shared.Load(path)
			return err
		})
	}
	return g.Wait()
}
