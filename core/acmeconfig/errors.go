package acmeconfig

import "errors"

var (
	// ErrDomainConfigNotFound is returned when config.toml does not exist.
	ErrDomainConfigNotFound = errors.New("domain config not found")

	// ErrInvalidDomainConfig is returned when config.toml cannot be parsed.
	ErrInvalidDomainConfig = errors.New("invalid domain config")

	// ErrProviderNotFound is returned when <provider>.dns.toml does not exist.
	ErrProviderNotFound = errors.New("dns provider config not found")

	// ErrInvalidProvider is returned when a provider file cannot be parsed or
	// has no command template.
	ErrInvalidProvider = errors.New("invalid dns provider config")

	// ErrInvalidEntry is returned when persisting an entry with an empty field.
	ErrInvalidEntry = errors.New("domain entry requires name and dns_provider")
)
