package app

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrymomot/lazyacme/core/acmeconfig"
	"github.com/dmitrymomot/lazyacme/core/certstore"
	"github.com/dmitrymomot/lazyacme/pkg/cmdtemplate"
)

// ErrCheckFailed is returned by Check when at least one domain could not be
// evaluated.
var ErrCheckFailed = errors.New("certificate check failed")

// CheckResult is the evaluation of one configured domain.
type CheckResult struct {
	Domain   string
	Provider string
	NotAfter time.Time
	Left     time.Duration
	Due      bool
	// Unresolved lists template placeholders the provider file does not define.
	Unresolved []string
	Err        error
}

// Check evaluates every configured domain without running the issuance tool
// and writes a table to w. It returns ErrCheckFailed if any domain could not
// be evaluated.
func Check(cfg Config, w io.Writer) ([]CheckResult, error) {
	cfg, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	certs, err := certstore.New(cfg.CertsDir)
	if err != nil {
		return nil, err
	}
	store := acmeconfig.New(cfg.DirPath)

	domains, err := store.LoadDomains()
	if err != nil {
		return nil, err
	}

	results := make([]CheckResult, 0, len(domains))
	failed := 0
	for _, d := range domains {
		r := evaluate(store, certs, d, cfg.Threshold())
		if r.Err != nil {
			failed++
		}
		results = append(results, r)
	}

	if err := writeReport(w, results); err != nil {
		return results, err
	}

	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d domains", ErrCheckFailed, failed, len(domains))
	}
	return results, nil
}

func evaluate(store *acmeconfig.Store, certs *certstore.Store, d acmeconfig.Domain, threshold time.Duration) CheckResult {
	r := CheckResult{Domain: d.Name, Provider: d.DNSProvider}

	provider, err := store.LoadProvider(d.DNSProvider)
	if err != nil {
		r.Err = err
		return r
	}
	r.Unresolved = append(
		cmdtemplate.Unresolved(provider.Template(false), provider.Vars),
		cmdtemplate.Unresolved(provider.RenewCommand, provider.Vars)...,
	)
	r.Unresolved = dedupe(r.Unresolved)

	info, err := certs.Inspect(d.Name)
	if err != nil {
		r.Err = err
		return r
	}
	r.NotAfter = info.NotAfter
	r.Left = time.Until(info.NotAfter)
	r.Due = r.Left < threshold
	return r
}

func writeReport(w io.Writer, results []CheckResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DOMAIN\tPROVIDER\tEXPIRES\tDAYS LEFT\tRENEW\tNOTES")

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\terror: %v\n", r.Domain, r.Provider, r.Err)
			continue
		}

		notes := ""
		if len(r.Unresolved) > 0 {
			notes = "unresolved: " + strings.Join(r.Unresolved, ", ")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.Domain,
			r.Provider,
			r.NotAfter.UTC().Format(time.DateOnly),
			int(r.Left.Hours()/24),
			yesNo(r.Due),
			notes,
		)
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
