package acmeconfig

import "strings"

// Domain is one [[domains]] entry of config.toml.
type Domain struct {
	Name        string `toml:"name"`
	DNSProvider string `toml:"dns_provider"`
}

// Trimmed returns the entry with surrounding whitespace removed from both fields.
func (d Domain) Trimmed() Domain {
	return Domain{
		Name:        strings.TrimSpace(d.Name),
		DNSProvider: strings.TrimSpace(d.DNSProvider),
	}
}

type domainFile struct {
	Domains []Domain `toml:"domains"`
}

const (
	commandKey      = "cmd"
	renewCommandKey = "renew_cmd"
)

// Provider is a parsed <name>.dns.toml file.
type Provider struct {
	Name string
	// Command is the issuance command template.
	Command string
	// RenewCommand is the renewal template. Empty means reuse Command.
	RenewCommand string
	// Vars holds every other top-level key. Values keep their TOML types.
	Vars map[string]any
}

// Template returns the command template for a renewal or first issuance.
func (p Provider) Template(renew bool) string {
	if renew && strings.TrimSpace(p.RenewCommand) != "" {
		return p.RenewCommand
	}
	return p.Command
}
