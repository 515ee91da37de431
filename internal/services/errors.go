package services

import "errors"

var (
	// ErrLockContention means another poll holds the channel lease.
	ErrLockContention = errors.New("poll already in progress for channel")
	// ErrLeaseExpired means the lease ran too low to send safely.
	ErrLeaseExpired = errors.New("lease too close to expiry")
	// ErrMisconfigured fails a whole poll run before any channel is touched.
	ErrMisconfigured = errors.New("misconfigured")
)
