package storage

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
)

// templateCache is a read-through cache over NPC templates. Templates
// are config-seeded and immutable at runtime, so entries never expire;
// singleflight collapses concurrent misses for the same template into
// one query (the NPC pulse hydrates many spawns of the same template
// at once).
type templateCache struct {
	repo *sqliteRepository

	mu     sync.RWMutex
	byIDs  map[uint]*game.NPCTemplate
	byKeys map[string]*game.NPCTemplate

	group singleflight.Group
}

func newTemplateCache(repo *sqliteRepository) *templateCache {
	return &templateCache{
		repo:   repo,
		byIDs:  make(map[uint]*game.NPCTemplate),
		byKeys: make(map[string]*game.NPCTemplate),
	}
}

func (c *templateCache) byID(id uint) (*game.NPCTemplate, error) {
	c.mu.RLock()
	t, ok := c.byIDs[id]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}

	v, err, _ := c.group.Do(fmt.Sprintf("id:%d", id), func() (interface{}, error) {
		var t game.NPCTemplate
		if err := c.repo.db.First(&t, id).Error; err != nil {
			return nil, err
		}
		c.store(&t)
		return &t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*game.NPCTemplate), nil
}

func (c *templateCache) byName(name string) (*game.NPCTemplate, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	c.mu.RLock()
	t, ok := c.byKeys[key]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}

	v, err, _ := c.group.Do("name:"+key, func() (interface{}, error) {
		var t game.NPCTemplate
		if err := c.repo.db.Where("lower(name) = ?", key).First(&t).Error; err != nil {
			return nil, err
		}
		c.store(&t)
		return &t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*game.NPCTemplate), nil
}

func (c *templateCache) store(t *game.NPCTemplate) {
	c.mu.Lock()
	c.byIDs[t.ID] = t
	c.byKeys[strings.ToLower(t.Name)] = t
	c.mu.Unlock()
}
