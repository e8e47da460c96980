package acmeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const defaultDomainsTOML = `# Domains managed by lazyacme, each mapped to a DNS provider file
# named <dns_provider>.dns.toml in this directory.
#
# [[domains]]
# name = "example.com"
# dns_provider = "cloudflare"
`

const defaultCloudflareTOML = `# DNS provider 'cloudflare'.
# Create an API token at https://dash.cloudflare.com/profile/api-tokens
#
# {{DOMAIN}} is the domain being issued. Every other {{NAME}} is replaced by
# the matching key below, case-insensitively.

cmd = "CLOUDFLARE_DNS_API_TOKEN={{API_KEY}} lego --email {{EMAIL}} --dns cloudflare -d '*.{{DOMAIN}}' -d {{DOMAIN}} run"

# Used for scheduled renewals. Falls back to cmd when absent.
renew_cmd = "CLOUDFLARE_DNS_API_TOKEN={{API_KEY}} lego --email {{EMAIL}} --dns cloudflare -d '*.{{DOMAIN}}' -d {{DOMAIN}} renew"

api_key = "YOUR_CLOUDFLARE_API_TOKEN"
email = "your-email@example.com"
`

// Bootstrap creates the config directory, the lego working directory and the
// default config files that are missing. Existing files are never touched.
// It returns the paths it created; a non-empty result means first-time setup.
func (s *Store) Bootstrap() ([]string, error) {
	for _, dir := range []string{s.dir, filepath.Join(s.dir, ".lego")} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	files := []struct {
		path    string
		content string
	}{
		{path: s.DomainsPath(), content: defaultDomainsTOML},
		{path: s.ProviderPath("cloudflare"), content: defaultCloudflareTOML},
	}

	var created []string
	for _, f := range files {
		_, err := os.Stat(f.path)
		if err == nil {
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return created, fmt.Errorf("failed to stat %s: %w", f.path, err)
		}

		if err := os.WriteFile(f.path, []byte(f.content), 0o600); err != nil {
			return created, fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		created = append(created, f.path)
	}

	return created, nil
}
