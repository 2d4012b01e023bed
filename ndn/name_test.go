package ndn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/named-data/certbundle/ndn"
)

func TestDeriveBundleNameStripsSegmentAndDigest(t *testing.T) {
	base := ndn.NewName("alice", "video")
	withSeg := base.Append(ndn.NewSegmentComponent(7))
	withDigest := withSeg.Append(ndn.NewImplicitDigestComponent(make([]byte, 32)))

	got, err := ndn.DeriveBundleName(withDigest)
	require.NoError(t, err)
	want := base.Append(ndn.NewGenericComponent(ndn.BundleComponentLiteral))
	assert.True(t, got.Equal(want))
}

func TestDeriveBundleNameIdempotentUnderAppend(t *testing.T) {
	base := ndn.NewName("alice", "video")

	bundleFromBase, err := ndn.DeriveBundleName(base)
	require.NoError(t, err)

	withSeg := base.Append(ndn.NewSegmentComponent(0))
	bundleFromSeg, err := ndn.DeriveBundleName(withSeg)
	require.NoError(t, err)

	withDigest := base.Append(ndn.NewImplicitDigestComponent(make([]byte, 32)))
	bundleFromDigest, err := ndn.DeriveBundleName(withDigest)
	require.NoError(t, err)

	assert.True(t, bundleFromBase.Equal(bundleFromSeg))
	assert.True(t, bundleFromBase.Equal(bundleFromDigest))
}

func TestDeriveBundleNameEmptyInputFails(t *testing.T) {
	_, err := ndn.DeriveBundleName(ndn.Name{})
	assert.Error(t, err)
}

func TestNameCompareOrdersPrefixFirstThenByComponent(t *testing.T) {
	a := ndn.NewName("a")
	ab := ndn.NewName("a", "b")
	az := ndn.NewName("a", "z")

	assert.True(t, a.Compare(ab) < 0)
	assert.True(t, ab.Compare(az) < 0)
	assert.Equal(t, 0, a.Compare(a.Clone()))
}
