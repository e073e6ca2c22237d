package prompt

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultInstructions is used when the instructions record was never saved
// and the store cannot be reached.
const DefaultInstructions = "I am the portfolio assistant. Ask me about my work, skills and projects."

// Source loads the persisted instructions text.
type Source interface {
	Instructions(ctx context.Context) (string, error)
}

// Cache memoizes the most recently loaded instructions text. Staleness is
// detected lazily: an entry loaded before the last Bump is treated as a miss
// on the next Resolve, nothing is evicted eagerly.
type Cache struct {
	source Source

	mu            sync.Mutex
	text          string
	loadedAt      time.Time
	invalidatedAt time.Time
}

func NewCache(source Source) *Cache {
	return &Cache{
		source:        source,
		invalidatedAt: time.Now(),
	}
}

// Bump marks every previously cached entry stale and returns the new
// invalidation timestamp. Called once per successful instructions save.
func (c *Cache) Bump() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	// Keep the signal monotonic and strictly after the current cache entry,
	// so a save is never lost to a same-instant load.
	if !now.After(c.invalidatedAt) {
		now = c.invalidatedAt.Add(time.Nanosecond)
	}
	if !now.After(c.loadedAt) {
		now = c.loadedAt.Add(time.Nanosecond)
	}
	c.invalidatedAt = now
	return now
}

// Resolve returns the effective system prompt for a chat turn. A non-empty
// override wins unconditionally and repopulates the cache, so an admin's
// "save and apply" is never subject to the invalidation race. Resolve never
// fails: on a fetch error it falls back to the stale text, then to
// DefaultInstructions.
func (c *Cache) Resolve(ctx context.Context, override string) string {
	if override != "" {
		c.mu.Lock()
		c.text = override
		c.loadedAt = time.Now()
		c.mu.Unlock()
		return override
	}

	c.mu.Lock()
	if c.text != "" && !c.loadedAt.Before(c.invalidatedAt) {
		text := c.text
		c.mu.Unlock()
		return text
	}
	stale := c.text
	c.mu.Unlock()

	text, err := c.source.Instructions(ctx)
	if err != nil {
		log.Printf("⚠️ failed to load chat instructions: %v", err)
		if stale != "" {
			return stale
		}
		return DefaultInstructions
	}
	if text == "" {
		text = DefaultInstructions
	}

	c.mu.Lock()
	c.text = text
	c.loadedAt = time.Now()
	c.mu.Unlock()
	return text
}
