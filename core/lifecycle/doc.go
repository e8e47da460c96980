// Package lifecycle orchestrates certificate issuance and renewal.
//
// The Manager renders a provider's command template, runs the issuance tool
// and records the outcome in the registry. At most one acquisition runs
// process-wide; every entry point takes the registry's global lock first.
//
// Three callers share the Manager:
//
//   - Submit, for on-demand requests from the HTTP API. It rejects rather
//     than waits and persists the domain on success.
//   - Reconcile, once at startup. It issues missing certificates one by one,
//     waiting for the lock.
//   - Scheduler, which renews certificates close to expiry on every tick and
//     skips the rest of a tick when the lock is taken.
//
// Wiring:
//
//	mgr, _ := lifecycle.NewManager(reg, cfgStore, certs, subprocess.New(),
//		lifecycle.WithWorkDir(dir),
//		lifecycle.WithLogger(log),
//	)
//	sched, _ := lifecycle.NewScheduler(mgr, 24*time.Hour)
//
//	eg.Go(sched.ArmAfterReconcile(ctx))
//
// The issuance tool runs without a timeout. A hung tool holds the lock and
// blocks all other acquisitions.
package lifecycle
