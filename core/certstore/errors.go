package certstore

import "errors"

var (
	// ErrCertificateNotFound is returned when neither naming form exists for a domain.
	ErrCertificateNotFound = errors.New("certificate not found")

	// ErrKeyNotFound is returned when no private key exists for a domain.
	ErrKeyNotFound = errors.New("private key not found")

	// ErrInvalidCertificate is returned when a certificate file is not PEM-encoded X.509.
	ErrInvalidCertificate = errors.New("invalid certificate")

	// ErrInvalidDomain is returned for empty names or names containing path separators.
	ErrInvalidDomain = errors.New("invalid domain name")

	// ErrCertDirRequired is returned when no certificates directory is configured.
	ErrCertDirRequired = errors.New("certificate directory is required")
)
