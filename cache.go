package folio

import "sync"

// Cache holds the posts of the latest load, keyed by slug.
// Replace swaps the whole contents under one lock, so readers see either
// the previous load or the new one, never a mix.
type Cache struct {
	mu    sync.RWMutex
	order []string
	posts map[string]Post
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{posts: make(map[string]Post)}
}

// Replace discards the cached posts and stores posts in the given order.
// When slugs collide the later post wins and keeps the first position;
// the colliding slugs are returned.
func (c *Cache) Replace(posts []Post) []string {
	order := make([]string, 0, len(posts))
	index := make(map[string]Post, len(posts))
	var dupes []string
	for _, p := range posts {
		if _, ok := index[p.Slug]; ok {
			dupes = append(dupes, p.Slug)
		} else {
			order = append(order, p.Slug)
		}
		index[p.Slug] = p
	}

	c.mu.Lock()
	c.order = order
	c.posts = index
	c.mu.Unlock()
	return dupes
}

// Get returns the post for slug.
func (c *Cache) Get(slug string) (Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.posts[slug]
	return p, ok
}

// All returns the cached posts in load order.
func (c *Cache) All() []Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Post, 0, len(c.order))
	for _, slug := range c.order {
		out = append(out, c.posts[slug])
	}
	return out
}

// Len returns the number of cached posts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
