package validator_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/named-data/certbundle/engine"
	"github.com/named-data/certbundle/face"
	"github.com/named-data/certbundle/ndn"
	"github.com/named-data/certbundle/security"
	"github.com/named-data/certbundle/validator"
)

type fixture struct {
	t      *testing.T
	face   *face.DummyFace
	timer  *engine.DummyTimer
	eng    *engine.Engine
	cache  *security.CertificateCache
	policy *validator.TrustAnchorPolicy
	v      *validator.Validator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := face.NewDummyFace()
	timer := engine.NewDummyTimer()
	eng := engine.NewEngine(f, timer)
	require.NoError(t, eng.Start())

	cache := security.NewCertificateCache(0)
	policy := validator.NewTrustAnchorPolicy()
	v := validator.NewValidator(eng, cache, policy)

	return &fixture{t: t, face: f, timer: timer, eng: eng, cache: cache, policy: policy, v: v}
}

func (fx *fixture) consumeInterest() *ndn.Interest {
	fx.t.Helper()
	frame, err := fx.face.Consume()
	require.NoError(fx.t, err)
	i, err := ndn.DecodeInterest(frame)
	require.NoError(fx.t, err)
	return i
}

func (fx *fixture) feedData(d *ndn.Data) {
	fx.t.Helper()
	wire, err := d.Encode()
	require.NoError(fx.t, err)
	require.NoError(fx.t, fx.face.FeedPacket(wire))
}

func (fx *fixture) feedNack(name ndn.Name, reason string) {
	fx.t.Helper()
	require.NoError(fx.t, fx.face.FeedPacket(ndn.Nack{Name: name, Reason: reason}.Encode()))
}

// makeLeafAndCert builds an ECDSA-signed leaf Data under keyName, and its
// self-signed certificate. Callers that want the chain to terminate in one
// step register the certificate as a trust anchor.
func makeLeafAndCert(t *testing.T, leafName, keyName, certName ndn.Name) (*ndn.Data, *ndn.Certificate) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	leaf := ndn.NewData(leafName, []byte("payload"))
	_, err = security.SignData(leaf, security.NewEcdsaSigner(keyName, key))
	require.NoError(t, err)

	certData := ndn.NewData(certName, pubDER)
	certData.MetaInfo.ContentType = ndn.ContentTypeKey
	_, err = security.SignData(certData, security.NewEcdsaSigner(keyName, key))
	require.NoError(t, err)
	cert, err := ndn.AsCertificate(certData)
	require.NoError(t, err)

	return leaf, cert
}

func encodeCertStream(t *testing.T, certs ...*ndn.Certificate) []byte {
	t.Helper()
	var out []byte
	for _, c := range certs {
		w, err := c.Data.Encode()
		require.NoError(t, err)
		out = append(out, w...)
	}
	return out
}

func TestValidateSucceedsFetchingCertAcrossTwoBundleSegments(t *testing.T) {
	fx := newFixture(t)

	leafName := ndn.NewName("alice", "data", "1")
	keyName := ndn.NewName("alice", "KEY", "1")
	certName := keyName.Append(ndn.NewGenericComponent("root"), ndn.NewVersionComponent(1))
	leaf, cert := makeLeafAndCert(t, leafName, keyName, certName)
	fx.policy.AddAnchor(cert)

	bundleName, err := ndn.DeriveBundleName(leafName)
	require.NoError(t, err)
	versioned := bundleName.Append(ndn.NewVersionComponent(7))
	seg0Name := versioned.Append(ndn.NewSegmentComponent(0))
	seg1Name := versioned.Append(ndn.NewSegmentComponent(1))

	// An unrelated certificate occupies segment 0; the wanted cert only
	// appears on segment 1, which also carries FinalBlockId.
	noiseKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	noisePub, err := x509.MarshalPKIXPublicKey(&noiseKey.PublicKey)
	require.NoError(t, err)
	noiseCertData := ndn.NewData(ndn.NewName("bob", "KEY", "9", "root", "1"), noisePub)
	_, err = security.SignData(noiseCertData, security.NewSha256Signer())
	require.NoError(t, err)
	noiseCert, err := ndn.AsCertificate(noiseCertData)
	require.NoError(t, err)

	seg0 := ndn.NewData(seg0Name, encodeCertStream(t, noiseCert))
	seg0.MetaInfo.FreshnessPeriod = 10 * time.Second
	_, err = security.SignData(seg0, security.NewSha256Signer())
	require.NoError(t, err)

	seg1 := ndn.NewData(seg1Name, encodeCertStream(t, cert))
	seg1.MetaInfo.FreshnessPeriod = 10 * time.Second
	fb := seg1Name.At(-1)
	seg1.MetaInfo.FinalBlockId = &fb
	_, err = security.SignData(seg1, security.NewSha256Signer())
	require.NoError(t, err)

	var validated *ndn.Data
	var failErr error
	fx.v.Validate(leaf, func(d *ndn.Data) { validated = d }, func(err error) { failErr = err })

	firstInterest := fx.consumeInterest()
	assert.True(t, firstInterest.Name.Equal(bundleName))
	assert.Equal(t, ndn.ChildSelectorRightmost, firstInterest.Selectors.ChildSelector)
	assert.True(t, firstInterest.Selectors.MustBeFresh)
	fx.feedData(seg0)

	secondInterest := fx.consumeInterest()
	assert.True(t, secondInterest.Name.Equal(seg1Name))
	fx.feedData(seg1)

	require.NoError(t, failErr)
	require.NotNil(t, validated)
	assert.True(t, validated.Name.Equal(leaf.Name))

	_, err = fx.face.Consume()
	assert.Error(t, err, "no further interest should have been sent after the cache hit")
}

func TestValidateRerequestsSegmentZeroWhenDiscoveryReturnsLaterSegment(t *testing.T) {
	fx := newFixture(t)

	leafName := ndn.NewName("alice", "data", "1")
	keyName := ndn.NewName("alice", "KEY", "1")
	certName := keyName.Append(ndn.NewGenericComponent("root"), ndn.NewVersionComponent(1))
	leaf, cert := makeLeafAndCert(t, leafName, keyName, certName)
	fx.policy.AddAnchor(cert)

	bundleName, err := ndn.DeriveBundleName(leafName)
	require.NoError(t, err)
	versioned := bundleName.Append(ndn.NewVersionComponent(7))
	seg0Name := versioned.Append(ndn.NewSegmentComponent(0))
	seg1Name := versioned.Append(ndn.NewSegmentComponent(1))

	// The wanted cert lives only on segment 0, but the rightmost/
	// MustBeFresh discovery interest is answered with segment 1 first (the
	// producer's content store has no obligation to return segment 0 for a
	// name that does not pin a segment number). A forward scan starting
	// from segment 1 would never see segment 0 again.
	seg0 := ndn.NewData(seg0Name, encodeCertStream(t, cert))
	seg0.MetaInfo.FreshnessPeriod = 10 * time.Second
	_, err = security.SignData(seg0, security.NewSha256Signer())
	require.NoError(t, err)

	noiseKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	noisePub, err := x509.MarshalPKIXPublicKey(&noiseKey.PublicKey)
	require.NoError(t, err)
	noiseCertData := ndn.NewData(ndn.NewName("bob", "KEY", "9", "root", "1"), noisePub)
	_, err = security.SignData(noiseCertData, security.NewSha256Signer())
	require.NoError(t, err)
	noiseCert, err := ndn.AsCertificate(noiseCertData)
	require.NoError(t, err)

	seg1 := ndn.NewData(seg1Name, encodeCertStream(t, noiseCert))
	seg1.MetaInfo.FreshnessPeriod = 10 * time.Second
	fb := seg1Name.At(-1)
	seg1.MetaInfo.FinalBlockId = &fb
	_, err = security.SignData(seg1, security.NewSha256Signer())
	require.NoError(t, err)

	var validated *ndn.Data
	var failErr error
	fx.v.Validate(leaf, func(d *ndn.Data) { validated = d }, func(err error) { failErr = err })

	discoveryInterest := fx.consumeInterest()
	assert.True(t, discoveryInterest.Name.Equal(bundleName))
	assert.Equal(t, ndn.ChildSelectorRightmost, discoveryInterest.Selectors.ChildSelector)
	fx.feedData(seg1)

	rerequest := fx.consumeInterest()
	assert.True(t, rerequest.Name.Equal(seg0Name), "a non-zero first response must trigger an explicit re-request of segment 0")
	fx.feedData(seg0)

	require.NoError(t, failErr)
	require.NotNil(t, validated)
	assert.True(t, validated.Name.Equal(leaf.Name))
}

func TestValidateFallsBackToDirectFetchOnBundleNack(t *testing.T) {
	fx := newFixture(t)

	leafName := ndn.NewName("alice", "data", "1")
	keyName := ndn.NewName("alice", "KEY", "1")
	certName := keyName.Append(ndn.NewGenericComponent("root"), ndn.NewVersionComponent(1))
	leaf, cert := makeLeafAndCert(t, leafName, keyName, certName)
	fx.policy.AddAnchor(cert)

	bundleName, err := ndn.DeriveBundleName(leafName)
	require.NoError(t, err)

	var validated *ndn.Data
	fx.v.Validate(leaf, func(d *ndn.Data) { validated = d }, func(error) {})

	bundleInterest := fx.consumeInterest()
	assert.True(t, bundleInterest.Name.Equal(bundleName))
	fx.feedNack(bundleName, "no-route")

	directInterest := fx.consumeInterest()
	assert.True(t, directInterest.Name.Equal(keyName))
	assert.Equal(t, ndn.ChildSelectorRightmost, directInterest.Selectors.ChildSelector)
	fx.feedData(cert.Data)

	require.NotNil(t, validated)
	assert.True(t, validated.Name.Equal(leaf.Name))
}

func TestValidateFailsAfterExhaustingDirectFetchRetries(t *testing.T) {
	fx := newFixture(t)
	fx.v.SetNRetries(2)

	// A name that collapses to empty once its trailing segment component
	// is stripped forces checkKeyBundle's DeriveBundleName to fail, so
	// validation goes straight to the direct-fetch retry path.
	keyName := ndn.NewName("alice", "KEY", "1")
	leaf := ndn.NewData(ndn.Name{ndn.NewSegmentComponent(0)}, []byte("x"))
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	_, err = security.SignData(leaf, security.NewEcdsaSigner(keyName, key))
	require.NoError(t, err)

	var failErr error
	var failCount int
	fx.v.Validate(leaf, func(*ndn.Data) {}, func(err error) {
		failErr = err
		failCount++
	})

	nonces := make(map[uint32]bool)
	const timeoutWindow = 200 * time.Second
	for attempt := 0; attempt < 3; attempt++ {
		i := fx.consumeInterest()
		assert.True(t, i.Name.Equal(keyName))
		assert.False(t, nonces[i.Nonce], "each retry must carry a fresh nonce")
		nonces[i.Nonce] = true
		fx.timer.MoveForward(timeoutWindow)
	}

	require.Equal(t, 1, failCount, "onFailed must be called exactly once")
	require.Error(t, failErr)
	assert.Contains(t, failErr.Error(), "cert-fetch-failed")

	_, err = fx.face.Consume()
	assert.Error(t, err, "no fourth interest should have been sent")
}

func TestValidateAcceptsDigestSha256TerminatedData(t *testing.T) {
	fx := newFixture(t)
	d := ndn.NewData(ndn.NewName("seg", "0"), []byte("x"))
	_, err := security.SignData(d, security.NewSha256Signer())
	require.NoError(t, err)

	var validated *ndn.Data
	fx.v.Validate(d, func(got *ndn.Data) { validated = got }, func(error) {
		t.Fatal("onFailed should not be called for a digest-terminated packet")
	})
	require.NotNil(t, validated)

	_, err = fx.face.Consume()
	assert.Error(t, err, "a digest-signed packet requires no certificate fetch at all")
}

func TestValidateRejectsChainExceedingMaxDepth(t *testing.T) {
	fx := newFixture(t)
	fx.v.SetMaxDepth(0)

	leafName := ndn.NewName("alice", "data", "1")
	keyName := ndn.NewName("alice", "KEY", "1")
	certName := keyName.Append(ndn.NewGenericComponent("root"), ndn.NewVersionComponent(1))
	leaf, cert := makeLeafAndCert(t, leafName, keyName, certName)
	// Deliberately not registered as a trust anchor: with maxDepth 0, the
	// one extra recursion step needed to validate cert itself already
	// exceeds the cap, regardless of what the cert's own signature says.

	var failErr error
	fx.v.Validate(leaf, func(*ndn.Data) {
		t.Fatal("onValidated should not be called once the depth cap is exceeded")
	}, func(err error) { failErr = err })

	bundleInterest := fx.consumeInterest()
	bundleName, err := ndn.DeriveBundleName(leafName)
	require.NoError(t, err)
	assert.True(t, bundleInterest.Name.Equal(bundleName))
	fx.feedNack(bundleName, "no-route")

	directInterest := fx.consumeInterest()
	assert.True(t, directInterest.Name.Equal(keyName))
	fx.feedData(cert.Data)

	require.Error(t, failErr)
	assert.Contains(t, failErr.Error(), "policy-rejected")
}
