package ndn

// KeyComponentLiteral is the reserved component marking the key-name
// portion of a certificate name: /<identity>/KEY/<key-id>/<issuer-id>/<version>
// (spec.md §3 "Certificate name").
const KeyComponentLiteral = "KEY"

// MinCertificateNameComponents is the minimum trailing component count a
// certificate name must carry beyond the identity: KEY, key-id, issuer-id,
// version (spec.md §4.4 "a certificate name with fewer than 4 trailing
// components after the identity is malformed").
const MinCertificateNameComponents = 4

// Certificate is a Data packet whose name follows the KEY naming
// convention and whose Content carries a public key (spec.md §3
// "Certificate"). It is not a distinct wire type: any Data matching the
// naming convention can be treated as a Certificate.
type Certificate struct {
	*Data
}

// AsCertificate validates d's name against the certificate naming
// convention and returns it wrapped as a Certificate, or a NamingError if
// the name is malformed (spec.md §4.4 edge case).
func AsCertificate(d *Data) (*Certificate, error) {
	if err := validateCertificateName(d.Name); err != nil {
		return nil, err
	}
	return &Certificate{Data: d}, nil
}

func validateCertificateName(n Name) error {
	if len(n) < MinCertificateNameComponents {
		return ErrNaming("certificate name has fewer than %d components: %s", MinCertificateNameComponents, n)
	}
	keyIdx := len(n) - MinCertificateNameComponents
	if !(n[keyIdx].Typ == TypeGenericComponent && string(n[keyIdx].Val) == KeyComponentLiteral) {
		return ErrNaming("certificate name missing KEY component: %s", n)
	}
	return nil
}

// IdentityName returns the identity portion of the certificate name: the
// prefix before the KEY component.
func (c *Certificate) IdentityName() Name {
	return c.Name.Prefix(len(c.Name) - MinCertificateNameComponents)
}

// KeyName returns the key name: identity/KEY/key-id.
func (c *Certificate) KeyName() Name {
	return c.Name.Prefix(len(c.Name) - MinCertificateNameComponents + 2)
}

// IssuerId returns the issuer-id component.
func (c *Certificate) IssuerId() Component {
	return c.Name.At(-2)
}

// CertVersion returns the version component (the last name component).
func (c *Certificate) CertVersion() Component {
	return c.Name.At(-1)
}

// PublicKey returns the raw public-key bytes carried in Content.
func (c *Certificate) PublicKey() []byte {
	return c.Content
}

// IsSelfSigned reports whether the certificate's KeyLocator names its own
// key, i.e. it was signed by its own private key rather than by an issuer
// (spec.md §4.4 "a self-signed certificate is its own trust anchor").
func (c *Certificate) IsSelfSigned() bool {
	kn := c.Signature.KeyName()
	if kn == nil {
		return false
	}
	return kn.Equal(c.KeyName())
}
