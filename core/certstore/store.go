package certstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-acme/lego/v4/certcrypto"
)

const (
	certExt = ".crt"
	keyExt  = ".key"

	// wildcardPrefix is how lego names files for *.<domain> certificates.
	wildcardPrefix = "_."
)

// Lookup selects which file names are considered for a domain.
type Lookup int

const (
	// PreferWildcard tries _.<domain> first, then <domain>.
	PreferWildcard Lookup = iota
	// WildcardOnly considers only _.<domain>.
	WildcardOnly
)

// Files is a located certificate/key pair.
type Files struct {
	Cert     string
	Key      string
	Wildcard bool
}

// Info describes a parsed certificate.
type Info struct {
	Domains   []string
	NotBefore time.Time
	NotAfter  time.Time
	Wildcard  bool
	Path      string
}

// Store reads certificate artifacts written by the issuance tool.
// It never writes into the directory.
type Store struct {
	dir string
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Store over dir. The directory does not need to exist yet.
func New(dir string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrCertDirRequired
	}

	s := &Store{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the certificates directory.
func (s *Store) Dir() string {
	return s.dir
}

// Exists reports whether a private key exists for domain under either naming
// form. A key file is what marks a domain as provisioned.
func (s *Store) Exists(domain string) bool {
	_, err := s.locate(domain, keyExt, PreferWildcard)
	return err == nil
}

// Locate returns the paths of the preferred certificate/key pair.
// The pair is chosen by the certificate file.
func (s *Store) Locate(domain string, lookup Lookup) (Files, error) {
	cert, err := s.locate(domain, certExt, lookup)
	if err != nil {
		return Files{}, err
	}

	wildcard := strings.HasPrefix(filepath.Base(cert), wildcardPrefix)
	return Files{
		Cert:     cert,
		Key:      strings.TrimSuffix(cert, certExt) + keyExt,
		Wildcard: wildcard,
	}, nil
}

// ReadCertificate returns the PEM certificate bytes for domain.
func (s *Store) ReadCertificate(domain string, lookup Lookup) ([]byte, error) {
	path, err := s.locate(domain, certExt, lookup)
	if err != nil {
		return nil, err
	}
	return readFile(path)
}

// ReadKey returns the PEM private key bytes for domain.
func (s *Store) ReadKey(domain string, lookup Lookup) ([]byte, error) {
	path, err := s.locate(domain, keyExt, lookup)
	if errors.Is(err, ErrCertificateNotFound) {
		return nil, fmt.Errorf("%w for %s", ErrKeyNotFound, domain)
	}
	if err != nil {
		return nil, err
	}
	return readFile(path)
}

// Inspect parses the preferred certificate for domain.
func (s *Store) Inspect(domain string) (Info, error) {
	path, err := s.locate(domain, certExt, PreferWildcard)
	if err != nil {
		return Info{}, err
	}

	data, err := readFile(path)
	if err != nil {
		return Info{}, err
	}

	cert, err := certcrypto.ParsePEMCertificate(data)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s: %w", ErrInvalidCertificate, path, err)
	}

	return Info{
		Domains:   certcrypto.ExtractDomains(cert),
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
		Wildcard:  strings.HasPrefix(filepath.Base(path), wildcardPrefix),
		Path:      path,
	}, nil
}

// TimeLeft returns how long the preferred certificate remains valid.
// Negative for expired certificates.
func (s *Store) TimeLeft(domain string) (time.Duration, error) {
	info, err := s.Inspect(domain)
	if err != nil {
		return 0, err
	}
	return info.NotAfter.Sub(s.now()), nil
}

// NeedsRenewal reports whether the certificate expires within threshold.
// A missing or unparseable certificate is an error, never false.
func (s *Store) NeedsRenewal(domain string, threshold time.Duration) (bool, error) {
	left, err := s.TimeLeft(domain)
	if err != nil {
		return false, err
	}
	return left < threshold, nil
}

func (s *Store) locate(domain, ext string, lookup Lookup) (string, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" || strings.ContainsAny(domain, `/\`) || domain == "." || domain == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}

	candidates := []string{wildcardPrefix + domain + ext}
	if lookup != WildcardOnly {
		candidates = append(candidates, domain+ext)
	}

	for _, name := range candidates {
		path := filepath.Join(s.dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w for %s", ErrCertificateNotFound, domain)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrCertificateNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
