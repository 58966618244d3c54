package pipeline

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/gogpu/cglib/internal/debug"
)

// programCache maps codegen state to programs. Keys are deep copies of the
// codegen authority so they do not keep user pipelines alive; entries
// sharing a hash are kept in one bucket and told apart with equal.
type programCache struct {
	g   *Graph
	lru *lru.Cache
}

type cacheEntry struct {
	key     *Pipeline
	program *Program
}

type cacheBucket struct {
	entries []cacheEntry
}

func newProgramCache(g *Graph, size int) *programCache {
	c := &programCache{g: g}
	l, err := lru.NewWithEvict(size, c.evicted)
	if err != nil {
		l, _ = lru.NewWithEvict(DefaultProgramCacheSize, c.evicted)
	}
	c.lru = l
	return c
}

func (c *programCache) evicted(_, value interface{}) {
	b := value.(*cacheBucket)
	for _, e := range b.entries {
		e.key.Release()
	}
	debug.Note(debug.Program, "program cache eviction", "entries", len(b.entries))
}

func (c *programCache) hashOf(n *node) uint32 {
	return c.g.hash(n, codegenState, codegenLayerState, codegenFlags)
}

func (c *programCache) lookup(n *node) *Program {
	v, ok := c.lru.Get(c.hashOf(n))
	if !ok {
		return nil
	}
	for _, e := range v.(*cacheBucket).entries {
		if c.g.equal(e.key.node(), n, codegenState, codegenLayerState, codegenFlags) {
			return e.program
		}
	}
	return nil
}

func (c *programCache) insert(n *node, prog *Program) {
	key := c.g.deepCopy(n, codegenState, codegenLayerState)
	key.breadcrumb = "program cache key"
	e := cacheEntry{key: key.handle, program: prog}
	h := c.hashOf(n)
	if v, ok := c.lru.Get(h); ok {
		b := v.(*cacheBucket)
		b.entries = append(b.entries, e)
		return
	}
	c.lru.Add(h, &cacheBucket{entries: []cacheEntry{e}})
}

func (c *programCache) len() int { return c.lru.Len() }

func (c *programCache) purge() { c.lru.Purge() }
