package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/dmitrymomot/lazyacme/core/logger"
)

// Check verifies one dependency.
type Check func(context.Context) error

// ErrNotDirectory is returned by DirReadable when the path is a file.
var ErrNotDirectory = errors.New("not a directory")

// Liveness always answers "ALIVE" with 200 OK. No dependency checks.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		write(w, http.StatusOK, "ALIVE")
	}
}

// Readiness answers "READY" if every check passes, 503 otherwise.
// A nil logger discards failures.
func Readiness(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				write(w, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
				return
			}
		}
		write(w, http.StatusOK, "READY")
	}
}

// DirReadable reports whether dir exists, is a directory and can be listed.
func DirReadable(dir string) Check {
	return func(context.Context) error {
		f, err := os.Open(dir)
		if err != nil {
			return fmt.Errorf("open %s: %w", dir, err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("stat %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s: %w", dir, ErrNotDirectory)
		}

		if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read %s: %w", dir, err)
		}
		return nil
	}
}

func write(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
