// Package subprocess runs an issuance tool command line through the shell and
// streams its output into the log.
//
// Standard output lines are logged at info level and standard error lines at
// error level. When a stdout line contains the lego terms-of-service prompt,
// the runner writes "y\n" to the process input, once per occurrence.
//
//	r := subprocess.New(subprocess.WithLogger(log))
//	err := r.Run(ctx, subprocess.Command{Line: cmd, Dir: workDir})
//	if errors.Is(err, subprocess.ErrNonZeroExit) {
//		// the tool reported failure
//	}
//
// Run has no timeout and never kills the process; a hung tool blocks the
// caller.
package subprocess
