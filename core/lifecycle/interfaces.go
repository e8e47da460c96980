package lifecycle

import (
	"context"
	"time"

	"github.com/dmitrymomot/lazyacme/core/acmeconfig"
	"github.com/dmitrymomot/lazyacme/core/certstore"
	"github.com/dmitrymomot/lazyacme/pkg/subprocess"
)

// ConfigSource loads domain and provider configuration and persists new domains.
// Implemented by *acmeconfig.Store.
type ConfigSource interface {
	LoadDomains() ([]acmeconfig.Domain, error)
	LoadProvider(name string) (acmeconfig.Provider, error)
	AppendDomain(d acmeconfig.Domain) error
}

// CertStore answers questions about certificates on disk.
// Implemented by *certstore.Store.
type CertStore interface {
	Exists(domain string) bool
	Locate(domain string, lookup certstore.Lookup) (certstore.Files, error)
	TimeLeft(domain string) (time.Duration, error)
}

// Executor runs one issuance tool command line.
// Implemented by *subprocess.Runner.
type Executor interface {
	Run(ctx context.Context, cmd subprocess.Command) error
}

// Mirror copies a freshly issued certificate somewhere else.
// Implemented by *s3.Mirror.
type Mirror interface {
	Mirror(ctx context.Context, domain string, files certstore.Files) error
}
