package pib

import "fmt"

// KeyNotFoundError reports that no private key is stored under a name.
type KeyNotFoundError string

func (e KeyNotFoundError) Error() string { return "key-not-found: " + string(e) }

func errKeyNotFound(format string, args ...any) error {
	return KeyNotFoundError(fmt.Sprintf(format, args...))
}

// CertNotFoundError reports that no certificate is stored under a name.
type CertNotFoundError string

func (e CertNotFoundError) Error() string { return "cert-not-found: " + string(e) }

func errCertNotFound(format string, args ...any) error {
	return CertNotFoundError(fmt.Sprintf(format, args...))
}
