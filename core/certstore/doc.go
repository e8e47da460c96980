// Package certstore reads the certificate and key files lego leaves in its
// certificates directory and decides when they need renewal.
//
// lego names wildcard certificates `_.<domain>.crt` and plain ones
// `<domain>.crt`. Lookups prefer the wildcard form and fall back to the plain
// one unless WildcardOnly is requested.
//
//	store, _ := certstore.New(filepath.Join(dir, ".lego", "certificates"))
//
//	due, err := store.NeedsRenewal("example.com", 30*24*time.Hour)
//	if errors.Is(err, certstore.ErrCertificateNotFound) {
//		// nothing to renew; the domain was never issued
//	}
package certstore
