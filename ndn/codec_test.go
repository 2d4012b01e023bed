package ndn_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/named-data/certbundle/ndn"
	"github.com/named-data/certbundle/security"
)

func TestInterestRoundTrip(t *testing.T) {
	i := ndn.NewInterest(ndn.NewName("a", "b"))
	i.SetMustBeFresh(true)
	i.SetChildSelector(ndn.ChildSelectorRightmost)
	i.SetLifetime(2 * time.Second)

	wire, err := i.Encode()
	require.NoError(t, err)

	decoded, err := ndn.DecodeInterest(wire)
	require.NoError(t, err)

	assert.True(t, decoded.Name.Equal(i.Name))
	assert.True(t, decoded.Selectors.MustBeFresh)
	assert.Equal(t, ndn.ChildSelectorRightmost, decoded.Selectors.ChildSelector)
	assert.Equal(t, 2*time.Second, decoded.Lifetime)
	assert.Equal(t, i.Nonce, decoded.Nonce)
}

func TestInterestDefaultLifetimeOmitted(t *testing.T) {
	withDefault := ndn.NewInterest(ndn.NewName("a"))
	withDefault.Nonce = 0xdeadbeef
	wireDefault, err := withDefault.Encode()
	require.NoError(t, err)

	explicit := ndn.NewInterest(ndn.NewName("a"))
	explicit.Nonce = 0xdeadbeef
	explicit.SetLifetime(ndn.DefaultInterestLifetime)
	wireExplicit, err := explicit.Encode()
	require.NoError(t, err)

	// Omitting the default-valued InterestLifetime and setting it to the
	// same value explicitly must produce identical wire encodings
	// (spec.md §4.1: the default lifetime's encoding is omitted).
	assert.Equal(t, wireDefault, wireExplicit)

	decoded, err := ndn.DecodeInterest(wireDefault)
	require.NoError(t, err)
	assert.Equal(t, ndn.DefaultInterestLifetime, decoded.Lifetime)
}

func TestDataRoundTrip(t *testing.T) {
	d := ndn.NewData(ndn.NewName("a", "b", "c"), []byte("hello"))
	d.MetaInfo.FreshnessPeriod = 5 * time.Second
	_, err := security.SignData(d, security.NewSha256Signer())
	require.NoError(t, err)

	wire, err := d.Encode()
	require.NoError(t, err)

	decoded, err := ndn.DecodeData(wire)
	require.NoError(t, err)

	assert.True(t, decoded.Name.Equal(d.Name))
	assert.Equal(t, d.Content, decoded.Content)
	assert.Equal(t, 5*time.Second, decoded.MetaInfo.FreshnessPeriod)
	assert.Equal(t, ndn.SignatureDigestSha256, decoded.Signature.Info.SigType)
}

func TestDataFullName(t *testing.T) {
	d := ndn.NewData(ndn.NewName("a"), []byte("x"))
	_, err := security.SignData(d, security.NewSha256Signer())
	require.NoError(t, err)
	_, err = d.Encode()
	require.NoError(t, err)

	full, err := d.FullName()
	require.NoError(t, err)
	assert.Equal(t, len(d.Name)+1, len(full))
	assert.True(t, full.At(-1).IsImplicitDigest())
}

func TestDecodeDataStream(t *testing.T) {
	var wire []byte
	for i := 0; i < 3; i++ {
		d := ndn.NewData(ndn.NewName("seg", string(rune('a'+i))), []byte{byte(i)})
		_, err := security.SignData(d, security.NewSha256Signer())
		require.NoError(t, err)
		w, err := d.Encode()
		require.NoError(t, err)
		wire = append(wire, w...)
	}

	out, err := ndn.DecodeDataStream(wire)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, d := range out {
		assert.Equal(t, []byte{byte(i)}, d.Content)
	}
}
