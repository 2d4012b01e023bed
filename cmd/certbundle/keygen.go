package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/named-data/certbundle/ndn"
	"github.com/named-data/certbundle/pib"
	"github.com/named-data/certbundle/security"
)

type keygenOpts struct {
	pibPath string
}

func cmdKeygen() *cobra.Command {
	opts := &keygenOpts{}
	cmd := &cobra.Command{
		GroupID: "sec",
		Use:     "keygen IDENTITY",
		Short:   "Generate a self-signed ECDSA identity certificate",
		Long: `Generate a self-signed ECDSA identity certificate.

Creates a new secp256r1 key pair under IDENTITY/KEY/<key-id>, wraps it in
a self-signed certificate, and stores both the private key and the
certificate in the configured PIB (spec.md's signing-key black box).`,
		Args:    cobra.ExactArgs(1),
		Example: `  certbundle keygen /alice --pib alice-pib.db`,
		Run:     opts.run,
	}
	cmd.Flags().StringVar(&opts.pibPath, "pib", "pib.db", "PIB database file")
	return cmd
}

func (o *keygenOpts) run(_ *cobra.Command, args []string) {
	identity := ndn.NewName(splitURI(args[0])...)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		fail("keygen: %v", err)
	}

	keyId := make([]byte, 8)
	if _, err := rand.Read(keyId); err != nil {
		fail("keygen: %v", err)
	}
	keyName := identity.Append(
		ndn.NewGenericComponent(ndn.KeyComponentLiteral),
		ndn.NewGenericComponent(hex.EncodeToString(keyId)),
	)
	certName := keyName.Append(
		ndn.NewGenericComponent("self"),
		ndn.NewVersionComponent(uint64(unixMillis())),
	)

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		fail("keygen: %v", err)
	}

	certData := ndn.NewData(certName, pubDER)
	certData.MetaInfo.ContentType = ndn.ContentTypeKey
	signer := security.NewEcdsaSigner(keyName, key)
	if _, err := security.SignData(certData, signer); err != nil {
		fail("keygen: %v", err)
	}
	cert, err := ndn.AsCertificate(certData)
	if err != nil {
		fail("keygen: %v", err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		fail("keygen: %v", err)
	}

	store, err := pib.Open(o.pibPath)
	if err != nil {
		fail("keygen: %v", err)
	}
	defer store.Close()

	if err := store.PutKey(keyName, ndn.SignatureSha256WithEcdsa, privDER); err != nil {
		fail("keygen: %v", err)
	}
	if err := store.PutCertificate(cert, true); err != nil {
		fail("keygen: %v", err)
	}

	fmt.Fprintf(os.Stderr, "generated %s\n", certName)
}

func unixMillis() int64 {
	return time.Now().UnixMilli()
}
