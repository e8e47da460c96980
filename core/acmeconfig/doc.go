// Package acmeconfig loads and persists the TOML files that drive lazyacme.
//
// The config directory holds config.toml, the list of managed domains:
//
//	[[domains]]
//	name = "example.com"
//	dns_provider = "cloudflare"
//
// and one <provider>.dns.toml per DNS provider. In a provider file, cmd is the
// issuance command template, the optional renew_cmd is the renewal template,
// and every other top-level key is a template variable.
//
// Bootstrap writes commented defaults on first run.
package acmeconfig
