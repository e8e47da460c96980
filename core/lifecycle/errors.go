package lifecycle

import "errors"

var (
	// ErrAcquisitionInProgress is returned when the requested domain is already being acquired.
	ErrAcquisitionInProgress = errors.New("certificate acquisition already in progress")

	// ErrAlreadyProvisioned is returned when the requested domain already has a certificate.
	ErrAlreadyProvisioned = errors.New("certificate already provisioned")

	// ErrBusy is returned when another acquisition holds the global lock.
	ErrBusy = errors.New("another acquisition is in progress")

	// ErrProviderUnavailable is returned when the DNS provider config is missing or unreadable.
	ErrProviderUnavailable = errors.New("dns provider config unavailable")

	// ErrInvalidRequest is returned for an empty domain or provider name.
	ErrInvalidRequest = errors.New("domain and dns provider are required")

	// ErrReconcileIncomplete is returned when at least one startup issuance failed.
	ErrReconcileIncomplete = errors.New("startup issuance incomplete")

	// ErrMissingDependency is returned when a constructor gets a nil collaborator.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrSchedulerRunning is returned when Start is called twice.
	ErrSchedulerRunning = errors.New("scheduler already running")
)
