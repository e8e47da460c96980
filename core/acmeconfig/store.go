package acmeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

const (
	// DomainsFile is the name of the domain list inside the config directory.
	DomainsFile = "config.toml"

	providerSuffix = ".dns.toml"
)

// Store reads and writes the TOML files in the lazyacme config directory.
// Writes are serialized; reads never observe a partially written file.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the config directory.
func (s *Store) Dir() string {
	return s.dir
}

// DomainsPath returns the path of config.toml.
func (s *Store) DomainsPath() string {
	return filepath.Join(s.dir, DomainsFile)
}

// ProviderPath returns the path of the provider's config file.
func (s *Store) ProviderPath(name string) string {
	return filepath.Join(s.dir, strings.TrimSpace(name)+providerSuffix)
}

// LoadDomains returns the configured domains in file order, names trimmed.
// A file without a domains table yields an empty list.
func (s *Store) LoadDomains() ([]Domain, error) {
	data, err := os.ReadFile(s.DomainsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDomainConfigNotFound, s.DomainsPath())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.DomainsPath(), err)
	}

	var file domainFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDomainConfig, s.DomainsPath(), err)
	}

	domains := make([]Domain, 0, len(file.Domains))
	for _, d := range file.Domains {
		domains = append(domains, d.Trimmed())
	}
	return domains, nil
}

// LoadProvider parses <name>.dns.toml. The cmd key is required.
func (s *Store) LoadProvider(name string) (Provider, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return Provider{}, fmt.Errorf("%w: %q", ErrProviderNotFound, name)
	}

	path := s.ProviderPath(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Provider{}, fmt.Errorf("%w for %q at %s", ErrProviderNotFound, name, path)
	}
	if err != nil {
		return Provider{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	raw := make(map[string]any)
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Provider{}, fmt.Errorf("%w: %s: %w", ErrInvalidProvider, path, err)
	}

	cmd, ok := raw[commandKey].(string)
	if !ok || strings.TrimSpace(cmd) == "" {
		return Provider{}, fmt.Errorf("%w: %s: missing %q", ErrInvalidProvider, path, commandKey)
	}
	delete(raw, commandKey)

	var renew string
	if v, exists := raw[renewCommandKey]; exists {
		renew, ok = v.(string)
		if !ok {
			return Provider{}, fmt.Errorf("%w: %s: %q must be a string", ErrInvalidProvider, path, renewCommandKey)
		}
		delete(raw, renewCommandKey)
	}

	return Provider{
		Name:         name,
		Command:      cmd,
		RenewCommand: renew,
		Vars:         raw,
	}, nil
}

// AppendDomain persists d in config.toml, replacing an entry with the same
// name. A missing file is created. A new name is appended as a [[domains]]
// block so existing comments survive; replacing an entry rewrites the whole
// file and drops its comments.
func (s *Store) AppendDomain(d Domain) error {
	d = d.Trimmed()
	if d.Name == "" || d.DNSProvider == "" {
		return ErrInvalidEntry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	domains, err := s.LoadDomains()
	if err != nil && !errors.Is(err, ErrDomainConfigNotFound) {
		return err
	}

	replaced := false
	for i := range domains {
		if domains[i].Name == d.Name {
			domains[i] = d
			replaced = true
		}
	}

	if !replaced {
		if data, ok := s.appendBlock(d, len(domains)+1); ok {
			return writeAtomic(s.DomainsPath(), data, 0o600)
		}
		domains = append(domains, d)
	}

	data, err := toml.Marshal(domainFile{Domains: domains})
	if err != nil {
		return fmt.Errorf("failed to encode domain config: %w", err)
	}

	return writeAtomic(s.DomainsPath(), data, 0o600)
}

// appendBlock returns the current config.toml text with a [[domains]] block
// for d added at the end. It reports false when the result would not decode
// to want entries, e.g. when the file declares domains as an inline array.
func (s *Store) appendBlock(d Domain, want int) ([]byte, bool) {
	current, err := os.ReadFile(s.DomainsPath())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, false
	}

	block, err := toml.Marshal(domainFile{Domains: []Domain{d}})
	if err != nil {
		return nil, false
	}

	var buf bytes.Buffer
	buf.Write(current)
	if len(current) > 0 {
		if current[len(current)-1] != '\n' {
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}
	buf.Write(block)

	var check domainFile
	if err := toml.Unmarshal(buf.Bytes(), &check); err != nil || len(check.Domains) != want {
		return nil, false
	}
	return buf.Bytes(), true
}

// writeAtomic replaces path via a temp file and rename.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
