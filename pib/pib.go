// Package pib is a minimal SQLite-backed store for the signing keys and
// certificates a producer needs (spec.md's "black box" signing-key
// storage, expanded per SPEC_FULL.md's domain-stack section). Grounded
// on the teacher's std/security/pib.SqlitePib, trimmed to the handful of
// queries the bundle producer actually issues: look up a key's private
// bits to build a security.Signer, and look up or store the identity's
// certificates.
package pib

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/named-data/certbundle/ndn"
	"github.com/named-data/certbundle/security"
	"github.com/named-data/certbundle/tlv"
)

const schema = `
CREATE TABLE IF NOT EXISTS keys (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	key_name    BLOB NOT NULL UNIQUE,
	sig_type    INTEGER NOT NULL,
	private_key BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS certificates (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	certificate_name BLOB NOT NULL UNIQUE,
	key_name        BLOB NOT NULL,
	certificate_data BLOB NOT NULL,
	is_default      INTEGER NOT NULL DEFAULT 0
);
`

// Store is a single signing-key and certificate database, one file per
// producer identity directory (matching the teacher's one-sqlite-file-
// per-keychain layout).
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutKey stores (or replaces) the DER-encoded PKCS#8 private key for
// keyName.
func (s *Store) PutKey(keyName ndn.Name, sigType ndn.SigType, pkcs8Key []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO keys (key_name, sig_type, private_key) VALUES (?, ?, ?)
		 ON CONFLICT(key_name) DO UPDATE SET sig_type=excluded.sig_type, private_key=excluded.private_key`,
		keyNameWire(keyName), int(sigType), pkcs8Key,
	)
	return err
}

// Signer builds a security.Signer from the stored private key for
// keyName.
func (s *Store) Signer(keyName ndn.Name) (security.Signer, error) {
	row := s.db.QueryRow(`SELECT sig_type, private_key FROM keys WHERE key_name=?`, keyNameWire(keyName))

	var sigType int
	var der []byte
	if err := row.Scan(&sigType, &der); err != nil {
		return nil, errKeyNotFound("%s", keyName)
	}

	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, errKeyNotFound("%s: %v", keyName, err)
	}

	switch k := key.(type) {
	case *rsa.PrivateKey:
		return security.NewRsaSigner(keyName, k), nil
	case *ecdsa.PrivateKey:
		return security.NewEcdsaSigner(keyName, k), nil
	default:
		return nil, errKeyNotFound("%s: unsupported key type", keyName)
	}
}

// PutCertificate stores cert, keyed by its full certificate name.
// isDefault marks it as the identity's default certificate (at most one
// per key should carry true, but this is left to the caller — the
// producer only ever has one certificate per key in practice).
func (s *Store) PutCertificate(cert *ndn.Certificate, isDefault bool) error {
	wire, err := cert.Data.Encode()
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO certificates (certificate_name, key_name, certificate_data, is_default) VALUES (?, ?, ?, ?)
		 ON CONFLICT(certificate_name) DO UPDATE SET certificate_data=excluded.certificate_data, is_default=excluded.is_default`,
		keyNameWire(cert.Name), keyNameWire(cert.KeyName()), wire, boolToInt(isDefault),
	)
	return err
}

// GetCertificate looks up a certificate by its exact name.
func (s *Store) GetCertificate(certName ndn.Name) (*ndn.Certificate, error) {
	row := s.db.QueryRow(`SELECT certificate_data FROM certificates WHERE certificate_name=?`, keyNameWire(certName))
	var wire []byte
	if err := row.Scan(&wire); err != nil {
		return nil, errCertNotFound("%s", certName)
	}
	return decodeStoredCert(wire)
}

// DefaultCertificate returns the certificate marked default for keyName.
func (s *Store) DefaultCertificate(keyName ndn.Name) (*ndn.Certificate, error) {
	row := s.db.QueryRow(
		`SELECT certificate_data FROM certificates WHERE key_name=? AND is_default=1 LIMIT 1`,
		keyNameWire(keyName),
	)
	var wire []byte
	if err := row.Scan(&wire); err != nil {
		return nil, errCertNotFound("no default certificate for %s", keyName)
	}
	return decodeStoredCert(wire)
}

func decodeStoredCert(wire []byte) (*ndn.Certificate, error) {
	data, err := ndn.DecodeData(wire)
	if err != nil {
		return nil, err
	}
	return ndn.AsCertificate(data)
}

// keyNameWire gives names a stable byte encoding for use as a SQL key,
// matching the teacher's enc.Name.Bytes(): each component's TLV (type,
// length, value) in order, i.e. the value of the wire-encoded Name TLV
// rather than the URI string.
func keyNameWire(n ndn.Name) []byte {
	var buf []byte
	for _, c := range n {
		buf = append(buf, c.Typ.Bytes()...)
		buf = append(buf, tlv.VarNum(len(c.Val)).Bytes()...)
		buf = append(buf, c.Val...)
	}
	return buf
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
