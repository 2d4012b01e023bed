package security

import (
	"container/list"
	"time"

	"github.com/cespare/xxhash"

	"github.com/named-data/certbundle/ndn"
)

// CertificateCache is the in-memory content store keyed by interest
// described in spec.md §3/§4.2. Entries are indexed by an xxhash over their
// full name's URI string followed by each component's type and value
// bytes (grounded on named-data-YaNFD's fw/table.PitCs,
// which indexes the content store by a name hash rather than the raw
// string, and on its CsLRU eviction queue built over container/list).
//
// Capacity 0 means unbounded (spec.md §6 "certCacheCapacity — unbounded by
// default").
type CertificateCache struct {
	capacity int
	entries  map[uint64]*list.Element
	lru      *list.List // front = least recently used
}

type cacheEntry struct {
	key       uint64
	data      *ndn.Data
	insertedAt time.Time
}

// NewCertificateCache creates a cache with the given capacity (0 =
// unbounded).
func NewCertificateCache(capacity int) *CertificateCache {
	return &CertificateCache{
		capacity: capacity,
		entries:  make(map[uint64]*list.Element),
		lru:      list.New(),
	}
}

func nameHash(n ndn.Name) uint64 {
	return xxhash.Sum64String(n.String() + "|" + hashDiscriminator(n))
}

// hashDiscriminator guards against URI-string collisions between distinct
// component type/value pairs that happen to render identically.
func hashDiscriminator(n ndn.Name) string {
	var sb []byte
	for _, c := range n {
		sb = append(sb, byte(c.Typ))
		sb = append(sb, c.Val...)
		sb = append(sb, 0)
	}
	return string(sb)
}

// Insert stores or replaces data by its full name. Re-inserting the same
// name refreshes its LRU position rather than duplicating the entry
// (spec.md §4.4 "duplicate certificates in a bundle are tolerated — cache
// insert is idempotent on name").
func (c *CertificateCache) Insert(data *ndn.Data) {
	key := nameHash(data.Name)
	if el, ok := c.entries[key]; ok {
		c.lru.Remove(el)
		el2 := c.lru.PushBack(key)
		c.entries[key] = el2
		el2.Value = &cacheEntry{key: key, data: data, insertedAt: time.Now()}
		return
	}
	el := c.lru.PushBack(&cacheEntry{key: key, data: data, insertedAt: time.Now()})
	c.entries[key] = el
	c.evict()
}

func (c *CertificateCache) evict() {
	if c.capacity <= 0 {
		return
	}
	for len(c.entries) > c.capacity {
		front := c.lru.Front()
		if front == nil {
			return
		}
		entry := front.Value.(*cacheEntry)
		delete(c.entries, entry.key)
		c.lru.Remove(front)
	}
}

// Find returns the newest stored data matching interest's name as a
// prefix and its selector constraints, applying childSelector to break
// ties among multiple matches (spec.md §4.2). A successful lookup
// refreshes the entry's LRU position.
func (c *CertificateCache) Find(i *ndn.Interest) (*ndn.Data, bool) {
	var candidates []*list.Element
	for el := c.lru.Front(); el != nil; el = el.Next() {
		entry := el.Value.(*cacheEntry)
		if ndn.MatchesInterest(entry.data, i) {
			candidates = append(candidates, el)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}

	best := candidates[0]
	bestData := best.Value.(*cacheEntry).data
	for _, el := range candidates[1:] {
		d := el.Value.(*cacheEntry).data
		cmp := d.Name.Compare(bestData.Name)
		switch i.Selectors.ChildSelector {
		case ndn.ChildSelectorRightmost:
			if cmp > 0 {
				best, bestData = el, d
			}
		default: // leftmost
			if cmp < 0 {
				best, bestData = el, d
			}
		}
	}

	c.lru.MoveToBack(best)
	return bestData, true
}

