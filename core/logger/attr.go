package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers return an empty Attr for zero inputs so call sites can
// pass them unconditionally: log.Info("msg", logger.Error(err)).

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Latency is Duration under the key used for HTTP requests.
func Latency(d time.Duration) slog.Attr {
	return slog.Duration("latency", d)
}

// Method creates an attribute for HTTP methods.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path creates an attribute for URL paths.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// RequestID creates an attribute for request IDs.
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// StatusCode creates an attribute for HTTP status codes.
func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Action creates an attribute for action names.
func Action(action string) slog.Attr {
	return slog.String("action", action)
}

// Result creates an attribute for operation results (success/failure/skipped).
func Result(result string) slog.Attr {
	return slog.String("result", result)
}

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Domain creates an attribute for a managed domain name.
func Domain(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("domain", name)
}

// Provider creates an attribute for a DNS provider name.
func Provider(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("dns_provider", name)
}

// AttemptID creates an attribute identifying one acquisition attempt.
func AttemptID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("attempt_id", id)
}

// Stream names the subprocess stream a line came from (stdout/stderr).
func Stream(name string) slog.Attr {
	return slog.String("stream", name)
}

// Command creates an attribute for a shell command line.
// Callers must pass the redacted form.
func Command(cmd string) slog.Attr {
	return slog.String("command", cmd)
}
