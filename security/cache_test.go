package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/named-data/certbundle/ndn"
	"github.com/named-data/certbundle/security"
)

func freshData(name ndn.Name, content byte) *ndn.Data {
	d := ndn.NewData(name, []byte{content})
	d.MetaInfo.FreshnessPeriod = time.Second
	_, err := security.SignData(d, security.NewSha256Signer())
	if err != nil {
		panic(err)
	}
	return d
}

func TestCertificateCacheInsertAndFind(t *testing.T) {
	cache := security.NewCertificateCache(0)
	d := freshData(ndn.NewName("alice", "KEY", "1"), 1)
	cache.Insert(d)

	i := ndn.NewInterest(ndn.NewName("alice", "KEY", "1"))
	found, ok := cache.Find(i)
	require.True(t, ok)
	assert.True(t, found.Name.Equal(d.Name))
}

func TestCertificateCacheMissOnUnknownName(t *testing.T) {
	cache := security.NewCertificateCache(0)
	cache.Insert(freshData(ndn.NewName("alice", "KEY", "1"), 1))

	i := ndn.NewInterest(ndn.NewName("bob", "KEY", "1"))
	_, ok := cache.Find(i)
	assert.False(t, ok)
}

func TestCertificateCacheChildSelectorTieBreak(t *testing.T) {
	cache := security.NewCertificateCache(0)
	older := freshData(ndn.NewName("alice", "KEY", "1", "self", "v1"), 1)
	newer := freshData(ndn.NewName("alice", "KEY", "1", "self", "v2"), 2)
	cache.Insert(older)
	cache.Insert(newer)

	rightmost := ndn.NewInterest(ndn.NewName("alice", "KEY", "1"))
	rightmost.SetChildSelector(ndn.ChildSelectorRightmost)
	got, ok := cache.Find(rightmost)
	require.True(t, ok)
	assert.True(t, got.Name.Equal(newer.Name))

	leftmost := ndn.NewInterest(ndn.NewName("alice", "KEY", "1"))
	leftmost.SetChildSelector(ndn.ChildSelectorLeftmost)
	got, ok = cache.Find(leftmost)
	require.True(t, ok)
	assert.True(t, got.Name.Equal(older.Name))
}

func TestCertificateCacheMustBeFreshExcludesStale(t *testing.T) {
	cache := security.NewCertificateCache(0)
	stale := ndn.NewData(ndn.NewName("alice", "KEY", "1"), []byte{1})
	_, err := security.SignData(stale, security.NewSha256Signer())
	require.NoError(t, err)
	cache.Insert(stale)

	i := ndn.NewInterest(ndn.NewName("alice", "KEY", "1"))
	i.SetMustBeFresh(true)
	_, ok := cache.Find(i)
	assert.False(t, ok)
}

func TestCertificateCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := security.NewCertificateCache(2)
	a := freshData(ndn.NewName("a"), 1)
	b := freshData(ndn.NewName("b"), 2)
	c := freshData(ndn.NewName("c"), 3)

	cache.Insert(a)
	cache.Insert(b)

	// Touch a so b becomes the least-recently-used entry.
	_, ok := cache.Find(ndn.NewInterest(ndn.NewName("a")))
	require.True(t, ok)

	cache.Insert(c)

	_, ok = cache.Find(ndn.NewInterest(ndn.NewName("b")))
	assert.False(t, ok, "b should have been evicted as least recently used")

	_, ok = cache.Find(ndn.NewInterest(ndn.NewName("a")))
	assert.True(t, ok)
	_, ok = cache.Find(ndn.NewInterest(ndn.NewName("c")))
	assert.True(t, ok)
}

func TestCertificateCacheReinsertRefreshesWithoutDuplicating(t *testing.T) {
	cache := security.NewCertificateCache(0)
	d := freshData(ndn.NewName("alice", "KEY", "1"), 1)
	cache.Insert(d)
	cache.Insert(d)

	i := ndn.NewInterest(ndn.NewName("alice"))
	i.SetChildSelector(ndn.ChildSelectorRightmost)
	found, ok := cache.Find(i)
	require.True(t, ok)
	assert.True(t, found.Name.Equal(d.Name))
}
