// Package cmdtemplate turns a DNS provider command template into a concrete
// shell command and redacts secrets from it before logging.
//
//	cmd := cmdtemplate.Render(
//		"CLOUDFLARE_DNS_API_TOKEN={{API_KEY}} lego -d '*.{{DOMAIN}}' run",
//		"example.com",
//		map[string]any{"api_key": "secret"},
//	)
//	log.Info("executing", "command", cmdtemplate.NewRedactor().Redact(cmd))
//
// Render is lenient: unknown placeholders become empty text. Use Unresolved
// to find them ahead of time.
package cmdtemplate
