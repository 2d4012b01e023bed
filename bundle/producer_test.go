package bundle_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/named-data/certbundle/bundle"
	"github.com/named-data/certbundle/engine"
	"github.com/named-data/certbundle/face"
	"github.com/named-data/certbundle/ndn"
	"github.com/named-data/certbundle/security"
)

// certFor builds a certificate named certName, signed with DigestSha256,
// carrying a KeyLocator pointing to issuerKeyName (nil for a self-signed
// root).
func certFor(t *testing.T, certName ndn.Name, issuerKeyName ndn.Name) *ndn.Data {
	t.Helper()
	d := ndn.NewData(certName, []byte("pubkey-bytes"))
	d.MetaInfo.ContentType = ndn.ContentTypeKey
	_, err := security.SignData(d, security.NewSha256Signer())
	require.NoError(t, err)
	if issuerKeyName != nil {
		d.Signature.Info.KeyLocator = &ndn.KeyLocator{Name: issuerKeyName}
	}
	return d
}

// respondNext pops the oldest frame the engine sent, decodes it as an
// Interest, and feeds back resp as the matching Data.
func respondNext(t *testing.T, f *face.DummyFace, resp *ndn.Data) {
	t.Helper()
	frame, err := f.Consume()
	require.NoError(t, err)
	_, err = ndn.DecodeInterest(frame)
	require.NoError(t, err)

	wire, err := resp.Encode()
	require.NoError(t, err)
	require.NoError(t, f.FeedPacket(wire))
}

func TestHelperWalksChainToSelfSignedRoot(t *testing.T) {
	f := face.NewDummyFace()
	eng := engine.NewEngine(f, engine.NewDummyTimer())
	require.NoError(t, eng.Start())

	rootKeyName := ndn.NewName("root", "KEY", "3")
	intermediateKeyName := ndn.NewName("bob", "KEY", "2")
	leafCertName := ndn.NewName("alice", "KEY", "1", "bob", "1")

	leaf := certFor(t, leafCertName, intermediateKeyName)
	intermediate := certFor(t, intermediateKeyName.Append(ndn.NewGenericComponent("root"), ndn.NewVersionComponent(1)), rootKeyName)
	root := certFor(t, rootKeyName.Append(ndn.NewGenericComponent("root"), ndn.NewVersionComponent(1)), nil)

	helper := bundle.NewHelper(eng)
	state := helper.BeginBundleCreation(leafCertName)

	respondNext(t, f, leaf)
	respondNext(t, f, intermediate)
	respondNext(t, f, root)

	assert.Equal(t, 3, state.Depth())
	chain := state.CertificateChain()
	assert.True(t, chain[0].Name.Equal(leaf.Name))
	assert.True(t, chain[2].Name.Equal(root.Name))
}

func TestHelperStopsAtMaxBundleSize(t *testing.T) {
	f := face.NewDummyFace()
	eng := engine.NewEngine(f, engine.NewDummyTimer())
	require.NoError(t, eng.Start())

	helper := bundle.NewHelper(eng)
	helper.SetMaxBundleSize(1)

	rootKeyName := ndn.NewName("root", "KEY", "3")
	leafCertName := ndn.NewName("alice", "KEY", "1", "bob", "1")
	leaf := certFor(t, leafCertName, rootKeyName)

	state := helper.BeginBundleCreation(leafCertName)
	respondNext(t, f, leaf)

	// depth already reached the cap after the first certificate, so no
	// further interest for the issuer should have been sent.
	assert.Equal(t, 1, state.Depth())
	_, err := f.Consume()
	assert.Error(t, err)
}

func TestHelperGuardsAgainstCycles(t *testing.T) {
	f := face.NewDummyFace()
	eng := engine.NewEngine(f, engine.NewDummyTimer())
	require.NoError(t, eng.Start())

	helper := bundle.NewHelper(eng)

	// A points to B, B points back to the exact name already used to fetch
	// A: the second visit must be suppressed by the revisit guard rather
	// than looping forever.
	keyA := ndn.NewName("a", "KEY", "1")
	keyB := ndn.NewName("b", "KEY", "1")
	certAName := keyA.Append(ndn.NewGenericComponent("b"), ndn.NewVersionComponent(1))
	certBName := keyB.Append(ndn.NewGenericComponent("a"), ndn.NewVersionComponent(1))
	certA := certFor(t, certAName, keyB)
	certB := certFor(t, certBName, certAName)

	state := helper.BeginBundleCreation(certAName)
	respondNext(t, f, certA)
	respondNext(t, f, certB)

	assert.Equal(t, 2, state.Depth())
	_, err := f.Consume()
	assert.Error(t, err, "revisiting certA's full name must not re-fetch")
}

func TestGetBundleProducesSingleSegmentWithFinalBlockId(t *testing.T) {
	f := face.NewDummyFace()
	eng := engine.NewEngine(f, engine.NewDummyTimer())
	require.NoError(t, eng.Start())

	leafCertName := ndn.NewName("alice", "KEY", "1", "bob", "1")
	leaf := certFor(t, leafCertName, nil)

	helper := bundle.NewHelper(eng)
	state := helper.BeginBundleCreation(leafCertName)
	respondNext(t, f, leaf)
	require.Equal(t, 1, state.Depth())

	bundleName, err := ndn.DeriveBundleName(leafCertName)
	require.NoError(t, err)

	segments, err := helper.GetBundle(bundleName, state)
	require.NoError(t, err)
	require.Len(t, segments, 1)

	seg := segments[0]
	require.NotNil(t, seg.MetaInfo.FinalBlockId)
	assert.True(t, seg.MetaInfo.FinalBlockId.Equal(seg.Name.At(-1)))
	assert.Equal(t, ndn.SignatureDigestSha256, seg.Signature.Info.SigType)

	certs, err := ndn.DecodeDataStream(seg.Content)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.True(t, certs[0].Name.Equal(leaf.Name))
}

func TestGetBundleSegmentsWhenContentExceedsMTU(t *testing.T) {
	f := face.NewDummyFace()
	eng := engine.NewEngine(f, engine.NewDummyTimer())
	require.NoError(t, eng.Start())

	helper := bundle.NewHelper(eng)
	state := bundle.NewState(ndn.NewName("alice", "KEY", "1", "bob", "1"))

	// Pack enough large certificates directly into state to force the
	// MTU-bounded segmenter to emit more than one segment.
	big := make([]byte, bundle.MaxNDNPacketSize/2)
	for i := 0; i < 4; i++ {
		certName := ndn.NewName("alice", "KEY", "1", "issuer", fmt.Sprintf("v%d", i))
		d := ndn.NewData(certName, big)
		_, err := security.SignData(d, security.NewSha256Signer())
		require.NoError(t, err)
		cert, err := ndn.AsCertificate(d)
		require.NoError(t, err)
		state.AddCertificate(cert)
	}

	bundleName, err := ndn.DeriveBundleName(state.SigningKeyName)
	require.NoError(t, err)

	segments, err := helper.GetBundle(bundleName, state)
	require.NoError(t, err)
	require.Greater(t, len(segments), 1)

	for i, seg := range segments {
		isLast := i == len(segments)-1
		if isLast {
			assert.NotNil(t, seg.MetaInfo.FinalBlockId)
		} else {
			assert.Nil(t, seg.MetaInfo.FinalBlockId)
		}
	}
}
