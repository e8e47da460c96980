// Package testcert writes self-signed certificates in lego's on-disk layout
// for tests.
package testcert

import (
	"crypto"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-acme/lego/v4/certcrypto"
)

// PEM returns a PEM certificate for domain expiring at notAfter, and its PEM key.
func PEM(t testing.TB, domain string, notAfter time.Time) (certPEM, keyPEM []byte) {
	t.Helper()

	key, err := certcrypto.GeneratePrivateKey(certcrypto.EC256)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer := key.(crypto.Signer)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: domain},
		DNSNames:     []string{domain, "*." + domain},
		NotBefore:    notAfter.Add(-90 * 24 * time.Hour),
		NotAfter:     notAfter,
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, signer.Public(), signer)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}

	return certcrypto.PEMEncode(certcrypto.DERCertificateBytes(der)), certcrypto.PEMEncode(key)
}

// Write stores a certificate pair for domain in dir using the wildcard file
// names when wildcard is true. It returns the certificate path.
func Write(t testing.TB, dir, domain string, wildcard bool, notAfter time.Time) string {
	t.Helper()

	certPEM, keyPEM := PEM(t, domain, notAfter)

	base := domain
	if wildcard {
		base = "_." + domain
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	certPath := filepath.Join(dir, base+".crt")
	if err := os.WriteFile(certPath, certPEM, 0o600); err != nil {
		t.Fatalf("write cert: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, base+".key"), keyPEM, 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	return certPath
}
