// Package registry tracks the certificate status of every managed domain and
// guards the single global acquisition lock.
//
// A domain moves through Acquiring and then either Ready or Failed. Only one
// acquisition may be in flight process-wide: callers take the global lock with
// TryAcquireGlobalLock (reject on contention) or AcquireGlobalLock (wait), and
// the operation holding it releases it when done.
//
// # Usage
//
//	reg := registry.New()
//
//	if !reg.TryAcquireGlobalLock() {
//		return errBusy
//	}
//	defer reg.ReleaseGlobalLock()
//
//	reg.Set("example.com", registry.Acquiring(attemptID))
//	// ... run the issuance tool ...
//	reg.Set("example.com", registry.Ready(attemptID))
//
// Status entries are created lazily and live for the lifetime of the process.
package registry
