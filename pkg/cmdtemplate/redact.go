package cmdtemplate

import (
	"regexp"
	"strings"
)

const (
	// DefaultTool is the issuance tool token redaction looks for.
	DefaultTool = "lego"

	// DefaultMarker replaces redacted values.
	DefaultMarker = "***"
)

var assignmentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

// Redactor hides the values of environment assignments that prefix an
// issuance tool invocation, e.g. `TOKEN=secret lego run` logs as
// `TOKEN=*** lego run`. Only the contiguous run of NAME=VALUE words directly
// before the tool word is touched.
type Redactor struct {
	tool   string
	marker string
}

// RedactorOption configures a Redactor.
type RedactorOption func(*Redactor)

// WithTool sets the tool name. A word matches when it equals the name or
// ends in "/<name>". Empty names are ignored.
func WithTool(name string) RedactorOption {
	return func(r *Redactor) {
		if name = strings.TrimSpace(name); name != "" {
			r.tool = name
		}
	}
}

// WithMarker sets the replacement text for redacted values.
func WithMarker(marker string) RedactorOption {
	return func(r *Redactor) {
		r.marker = marker
	}
}

// NewRedactor creates a Redactor for the lego tool unless configured otherwise.
func NewRedactor(opts ...RedactorOption) *Redactor {
	r := &Redactor{
		tool:   DefaultTool,
		marker: DefaultMarker,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Redact returns cmd with secret assignment values replaced.
// The result is for logging only and must never be executed.
func (r *Redactor) Redact(cmd string) string {
	words := splitWords(cmd)

	var values []wordSpan

	for i, w := range words {
		if !r.isTool(cmd[w.start:w.end]) {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			text := cmd[words[j].start:words[j].end]
			loc := assignmentRe.FindStringIndex(text)
			if loc == nil {
				break
			}
			values = append(values, wordSpan{start: words[j].start + loc[1], end: words[j].end})
		}
	}

	if len(values) == 0 {
		return cmd
	}

	redact := make(map[int]int, len(values))
	for _, v := range values {
		redact[v.start] = v.end
	}

	var b strings.Builder
	b.Grow(len(cmd))
	for i := 0; i < len(cmd); {
		if end, ok := redact[i]; ok {
			b.WriteString(r.marker)
			delete(redact, i)
			i = end
			continue
		}
		b.WriteByte(cmd[i])
		i++
	}
	return b.String()
}

func (r *Redactor) isTool(word string) bool {
	return word == r.tool || strings.HasSuffix(word, "/"+r.tool)
}

type wordSpan struct{ start, end int }

// splitWords splits a shell command line on unquoted whitespace, keeping
// quotes inside the word. Backslash escapes the next byte outside single quotes.
func splitWords(s string) []wordSpan {
	var (
		words []wordSpan
		start = -1
		quote byte
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case quote == '\'':
			if c == '\'' {
				quote = 0
			}
			continue
		case quote == '"':
			if c == '\\' {
				i++
			} else if c == '"' {
				quote = 0
			}
			continue
		}

		if c == ' ' || c == '\t' || c == '\n' {
			if start >= 0 {
				words = append(words, wordSpan{start: start, end: i})
				start = -1
			}
			continue
		}

		if start < 0 {
			start = i
		}
		switch c {
		case '\'', '"':
			quote = c
		case '\\':
			i++
		}
	}

	if start >= 0 {
		words = append(words, wordSpan{start: start, end: len(s)})
	}
	return words
}
