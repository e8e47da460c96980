package server

import "time"

const (
	// DefaultAddr is the loopback address the API listens on.
	DefaultAddr = "127.0.0.1:33301"

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultMaxHeaderBytes is 1 MB.
	DefaultMaxHeaderBytes = 1 << 20
)
