package subprocess

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu     sync.Mutex
	writes []string
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = append(w.writes, string(p))
	return len(p), nil
}

func (w *recordingWriter) Writes() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.writes...)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func runDrive(t *testing.T, r *Runner, stdout, stderr string, exitErr error) (*recordingWriter, string, error) {
	t.Helper()

	var logs syncBuffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	stdin := &recordingWriter{}
	exited := make(chan error, 1)
	exited <- exitErr

	errCh := make(chan error, 1)
	go func() {
		errCh <- r.drive(context.Background(), log, strings.NewReader(stdout), strings.NewReader(stderr), stdin, exited)
	}()

	select {
	case err := <-errCh:
		return stdin, logs.String(), err
	case <-time.After(2 * time.Second):
		t.Fatal("drive did not return")
		return nil, "", nil
	}
}

func TestDriveAnswersPromptOncePerOccurrence(t *testing.T) {
	t.Parallel()

	stdout := "starting\nDo you accept the TOS? Y/n\nworking\nDo you accept the TOS? Y/n\ndone\n"

	stdin, _, err := runDrive(t, New(), stdout, "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"y\n", "y\n"}, stdin.Writes())
}

func TestDriveNoPromptNoInput(t *testing.T) {
	t.Parallel()

	stdin, _, err := runDrive(t, New(), "line one\nline two\n", "warning\n", nil)
	require.NoError(t, err)
	assert.Empty(t, stdin.Writes())
}

func TestDrivePromptOnStderrIgnored(t *testing.T) {
	t.Parallel()

	stdin, _, err := runDrive(t, New(), "", "Do you accept the TOS? Y/n\n", nil)
	require.NoError(t, err)
	assert.Empty(t, stdin.Writes())
}

func TestDriveLogsStreamsBySeverity(t *testing.T) {
	t.Parallel()

	_, logs, err := runDrive(t, New(), "out line\n", "err line\n", nil)
	require.NoError(t, err)

	assert.Contains(t, logs, `level=INFO msg="out line" stream=stdout`)
	assert.Contains(t, logs, `level=ERROR msg="err line" stream=stderr`)
}

func TestDriveReturnsExitError(t *testing.T) {
	t.Parallel()

	want := errors.New("exit status 1")
	_, _, err := runDrive(t, New(), "x\n", "", want)
	assert.Equal(t, want, err)
}

func TestDriveWaitsForStreamsAfterExit(t *testing.T) {
	t.Parallel()

	outR, outW := io.Pipe()
	errR, errW := io.Pipe()

	var logs syncBuffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	exited := make(chan error, 1)
	exited <- nil

	errCh := make(chan error, 1)
	go func() {
		errCh <- New().drive(context.Background(), log, outR, errR, &recordingWriter{}, exited)
	}()

	// exit already reported, streams still open
	select {
	case <-errCh:
		t.Fatal("returned before streams reached end")
	case <-time.After(50 * time.Millisecond):
	}

	_, _ = io.WriteString(outW, "late line\n")
	require.NoError(t, outW.Close())
	require.NoError(t, errW.Close())

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("drive did not return")
	}
	assert.Contains(t, logs.String(), "late line")
}

func TestSplitLinesYieldsUnterminatedPrompt(t *testing.T) {
	t.Parallel()

	r := New()

	advance, token, err := r.splitLines([]byte("Do you accept the TOS? Y/n"), false)
	require.NoError(t, err)
	assert.Equal(t, len("Do you accept the TOS? Y/n"), advance)
	assert.Equal(t, "Do you accept the TOS? Y/n", string(token))

	advance, token, err = r.splitLines([]byte("partial"), false)
	require.NoError(t, err)
	assert.Zero(t, advance)
	assert.Nil(t, token)

	advance, token, err = r.splitLines([]byte("a\r\nb"), false)
	require.NoError(t, err)
	assert.Equal(t, 3, advance)
	assert.Equal(t, "a", string(token))
}

func TestDriveReadErrorDoesNotFail(t *testing.T) {
	t.Parallel()

	outR, outW := io.Pipe()
	readErr := errors.New("broken pipe")

	var logs syncBuffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	exited := make(chan error, 1)
	exited <- nil

	errCh := make(chan error, 1)
	go func() {
		errCh <- New().drive(context.Background(), log, outR, strings.NewReader(""), &recordingWriter{}, exited)
	}()

	_, _ = io.WriteString(outW, "before\n")
	outW.CloseWithError(readErr)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("drive did not return")
	}
	assert.Contains(t, logs.String(), "failed to read process output")
	assert.Contains(t, logs.String(), "broken pipe")
}
