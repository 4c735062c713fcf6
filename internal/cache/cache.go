package cache

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a small wrapper over an in-process TTL cache used to shield the
// database from repeated reads of the same article pages. Writers flush it
// wholesale; entries otherwise expire on their own.
type Cache struct {
	*gocache.Cache
}

// New creates a cache with the given default TTL and cleanup interval
func New(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{gocache.New(ttl, cleanupInterval)}
}

// Set stores a value under the default TTL
func (c *Cache) Set(key string, value interface{}) {
	c.Cache.Set(key, value, gocache.DefaultExpiration)
}

// Get returns the cached value and whether it was present
func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

// Flush drops every entry
func (c *Cache) Flush() {
	c.Cache.Flush()
}

func KeyArticle(slugOrID string) string {
	return "article:" + slugOrID
}

func KeyArticleList(page int, category string) string {
	return "articles:" + strconv.Itoa(page) + ":" + category
}

func KeyCategoryCounts() string {
	return "category_counts"
}

func KeyCategories() string {
	return "categories"
}
