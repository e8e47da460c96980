package subprocess

import "log/slog"

const (
	// DefaultShell runs every command line as `<shell> -c <line>`.
	DefaultShell = "sh"

	// DefaultPrompt is the terms-of-service question printed by lego.
	DefaultPrompt = "Do you accept the TOS? Y/n"

	// DefaultAnswer is written to stdin each time the prompt is seen.
	DefaultAnswer = "y\n"

	// maxLineSize bounds a single output line.
	maxLineSize = 1 << 20
)

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger that receives process output. Nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithShell overrides the shell used to interpret command lines.
func WithShell(shell string) Option {
	return func(r *Runner) {
		if shell != "" {
			r.shell = shell
		}
	}
}

// WithPrompt sets the stdout text that triggers an automatic answer, and the
// answer itself. An empty prompt disables auto-answering.
func WithPrompt(prompt, answer string) Option {
	return func(r *Runner) {
		r.prompt = prompt
		r.answer = answer
	}
}
