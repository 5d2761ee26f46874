// Package cache models an L1 data cache over the simulator's word-addressed
// memory, using Akita cache components for tag state and LRU replacement.
//
// The simulator's sparse memory always holds the architectural data, so the
// cache keeps tags only: it classifies each MEM-stage access as a hit or a
// miss and maintains statistics. The measured hit rate can replace the
// assumed L1 hit rate in an energy profile.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache configuration parameters. Sizes are in words, matching
// the simulator's word-addressable memory.
type Config struct {
	// SizeWords is the total capacity in words.
	SizeWords int
	// Associativity is the number of ways per set.
	Associativity int
	// BlockWords is the cache line size in words.
	BlockWords int
	// HitLatency in cycles.
	HitLatency uint64
	// MissPenalty in cycles.
	MissPenalty uint64
}

// DefaultL1Config returns the demo accelerator's L1 D-cache configuration:
// a small 4KB (1024-word) 4-way cache with 8-word lines.
func DefaultL1Config() Config {
	return Config{
		SizeWords:     1024,
		Associativity: 4,
		BlockWords:    8,
		HitLatency:    1,
		MissPenalty:   40,
	}
}

// AccessResult classifies one cache access.
type AccessResult struct {
	// Hit indicates whether the access was a cache hit.
	Hit bool
	// Latency is the number of cycles this access would take.
	Latency uint64
}

// Statistics holds cache performance counters.
type Statistics struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// Cache is a tag-only L1 model built on an Akita cache directory.
type Cache struct {
	config    Config
	directory *akitacache.DirectoryImpl
	stats     Statistics
}

// New creates a cache with the given configuration.
func New(config Config) *Cache {
	numSets := config.SizeWords / (config.Associativity * config.BlockWords)

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockWords,
			akitacache.NewLRUVictimFinder(),
		),
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns the access counters.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears the access counters. Tag state is kept.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

// HitRate returns the fraction of accesses that hit. With no accesses
// recorded it returns 1, meaning no observed misses.
func (c *Cache) HitRate() float64 {
	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 1
	}
	return float64(c.stats.Hits) / float64(total)
}

// blockAddr aligns a word address down to its cache line.
func (c *Cache) blockAddr(addr int64) uint64 {
	bw := uint64(c.config.BlockWords)
	return (uint64(addr) / bw) * bw
}

// Read records a load access to the given word address.
func (c *Cache) Read(addr int64) AccessResult {
	c.stats.Reads++
	return c.access(c.blockAddr(addr), false)
}

// Write records a store access to the given word address. The cache is
// write-allocate: a miss installs the line and marks it dirty.
func (c *Cache) Write(addr int64) AccessResult {
	c.stats.Writes++
	return c.access(c.blockAddr(addr), true)
}

func (c *Cache) access(blockAddr uint64, isWrite bool) AccessResult {
	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		if isWrite {
			block.IsDirty = true
		}
		return AccessResult{Hit: true, Latency: c.config.HitLatency}
	}

	c.stats.Misses++

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return AccessResult{Latency: c.config.MissPenalty}
	}

	if victim.IsValid {
		c.stats.Evictions++
		if victim.IsDirty {
			c.stats.Writebacks++
		}
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = isWrite
	c.directory.Visit(victim) // Update LRU

	return AccessResult{Latency: c.config.MissPenalty}
}
