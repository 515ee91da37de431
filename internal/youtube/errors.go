package youtube

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrInvalidReference is returned for empty or whitespace-only references.
	ErrInvalidReference = errors.New("invalid channel reference")
	// ErrResolutionFailed means no strategy produced a channel ID.
	ErrResolutionFailed = errors.New("channel could not be resolved")
	// ErrChannelNotFound means the channel does not exist upstream.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrInvalidCredentials is the only resolver failure that aborts the cascade.
	ErrInvalidCredentials = errors.New("youtube api credentials rejected")
)

var credentialReasons = map[string]bool{
	"keyInvalid":          true,
	"keyExpired":          true,
	"accessNotConfigured": true,
	"ipRefererBlocked":    true,
}

// UpstreamError describes a failed call to the Data API.
type UpstreamError struct {
	Op      string
	Status  int
	Reason  string
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %d %s (%s)", e.Op, e.Status, http.StatusText(e.Status), e.Reason)
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, http.StatusText(e.Status))
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Temporary reports whether another attempt may succeed.
func (e *UpstreamError) Temporary() bool {
	if e.Err != nil {
		return !errors.Is(e.Err, context.Canceled) && !errors.Is(e.Err, context.DeadlineExceeded) || isNetTimeout(e.Err)
	}
	switch e.Status {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func isNetTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsRetryable is the retry classifier for Data API calls.
func IsRetryable(err error) bool {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr.Temporary()
	}
	return false
}
