// Package cache provides the generic LRU cache used for tessellations and
// glyph outlines.
//
// Cache[K, V] keeps at most Capacity entries. Inserting past the cap evicts
// the least recently used entry. Hits, misses and evictions are counted so
// callers can check that repeated draws of an unchanged path amortize.
//
//	c := cache.New[uint64, *Tessellation](1024)
//	t := c.GetOrCreate(key, func() *Tessellation { return tessellate(p) })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
