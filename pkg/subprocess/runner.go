package subprocess

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/dmitrymomot/lazyacme/core/logger"
)

// Command is one shell command line to execute.
type Command struct {
	// Line is passed verbatim to the shell. It may contain secrets.
	Line string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Logger receives the process output. Falls back to the Runner's logger.
	Logger *slog.Logger
}

// Runner executes shell commands, streams their output to the log and
// answers the terms-of-service prompt.
type Runner struct {
	logger *slog.Logger
	shell  string
	prompt string
	answer string
}

// New creates a Runner using sh and the lego TOS prompt.
func New(opts ...Option) *Runner {
	r := &Runner{
		logger: logger.Discard(),
		shell:  DefaultShell,
		prompt: DefaultPrompt,
		answer: DefaultAnswer,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes cmd and blocks until both output streams are drained and the
// process has exited. The process is not bound to ctx: cancellation does not
// kill it and there is no timeout.
//
// Returns nil on exit status 0 and an *ExitError otherwise. Stream read
// failures are logged and never change the outcome.
func (r *Runner) Run(ctx context.Context, cmd Command) error {
	if strings.TrimSpace(cmd.Line) == "" {
		return ErrEmptyCommand
	}

	log := cmd.Logger
	if log == nil {
		log = r.logger
	}

	proc := exec.Command(r.shell, "-c", cmd.Line)
	proc.Dir = cmd.Dir

	stdin, err := proc.StdinPipe()
	if err != nil {
		return errors.Join(ErrStart, err)
	}

	// exec copies into these writers from its own goroutines; Wait returns
	// only after the copies finish, so the writers close after the last byte.
	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()
	proc.Stdout = stdoutW
	proc.Stderr = stderrW

	if err := proc.Start(); err != nil {
		_ = stdoutW.Close()
		_ = stderrW.Close()
		return errors.Join(ErrStart, err)
	}

	exited := make(chan error, 1)
	go func() {
		err := proc.Wait()
		_ = stdoutW.Close()
		_ = stderrW.Close()
		exited <- err
	}()

	err = r.drive(ctx, log, stdoutR, stderrR, stdin, exited)
	_ = stdin.Close()

	return classify(err)
}

// drive multiplexes stdout lines, stderr lines and process exit until all
// three are done. It returns the raw error from the exit channel.
func (r *Runner) drive(
	ctx context.Context,
	log *slog.Logger,
	stdout, stderr io.Reader,
	stdin io.Writer,
	exited <-chan error,
) error {
	outLines := make(chan string)
	errLines := make(chan string)

	go r.scan(ctx, log, "stdout", stdout, outLines)
	go r.scan(ctx, log, "stderr", stderr, errLines)

	var (
		exitErr error
		done    bool
	)
	for outLines != nil || errLines != nil || !done {
		select {
		case line, ok := <-outLines:
			if !ok {
				outLines = nil
				continue
			}
			log.InfoContext(ctx, line, logger.Stream("stdout"))

			if r.prompt != "" && strings.Contains(line, r.prompt) {
				log.WarnContext(ctx, "terms of service prompt detected, answering")
				if _, err := io.WriteString(stdin, r.answer); err != nil {
					log.ErrorContext(ctx, "failed to answer prompt", logger.Error(err))
				}
			}

		case line, ok := <-errLines:
			if !ok {
				errLines = nil
				continue
			}
			log.ErrorContext(ctx, line, logger.Stream("stderr"))

		case err := <-exited:
			exitErr = err
			done = true
			exited = nil
		}
	}

	return exitErr
}

// scan sends lines from rd to out and closes out at end of stream. On a read
// error it logs and discards the remainder so the writer never blocks.
func (r *Runner) scan(ctx context.Context, log *slog.Logger, stream string, rd io.Reader, out chan<- string) {
	defer close(out)

	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	sc.Split(r.splitLines)

	for sc.Scan() {
		out <- sc.Text()
	}

	if err := sc.Err(); err != nil {
		log.ErrorContext(ctx, "failed to read process output", logger.Stream(stream), logger.Error(err))
		_, _ = io.Copy(io.Discard, rd)
	}
}

// splitLines is bufio.ScanLines that also yields a partial line once it
// contains the prompt, since interactive prompts are not newline-terminated.
func (r *Runner) splitLines(data []byte, atEOF bool) (int, []byte, error) {
	if bytes.IndexByte(data, '\n') >= 0 || atEOF {
		return bufio.ScanLines(data, atEOF)
	}
	if r.prompt != "" && bytes.Contains(data, []byte(r.prompt)) {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func classify(err error) error {
	if err == nil {
		return nil
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Code: ee.ExitCode(), State: ee.String()}
	}
	return fmt.Errorf("%w: %w", ErrWait, err)
}
