package llm

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

var (
	// ErrEmptyCompletion indicates the provider answered but the response
	// carried no usable text.
	ErrEmptyCompletion = errors.New("completion contained no usable text")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("completion retry attempts exhausted")
)

// ErrorClass classifies a provider failure for retry decisions and logging.
type ErrorClass string

const (
	ClassConnTimeout  ErrorClass = "conn_timeout"
	ClassConnReset    ErrorClass = "conn_reset"
	ClassDNSTemporary ErrorClass = "dns_temporary"
	ClassHTTPStatus   ErrorClass = "http_status"
	ClassEmpty        ErrorClass = "empty_completion"
	ClassOther        ErrorClass = "other"
)

// Retryable reports whether a failure of this class is transient enough
// to retry with the same payload. Auth failures, malformed requests,
// rate limits and the like are deliberately excluded: retrying them
// wastes the latency budget without changing the outcome.
func (c ErrorClass) Retryable() bool {
	switch c {
	case ClassConnTimeout, ClassConnReset, ClassDNSTemporary:
		return true
	default:
		return false
	}
}

// Classify maps a transport or provider error onto an ErrorClass.
func Classify(err error) ErrorClass {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmptyCompletion) {
		return ClassEmpty
	}
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return ClassHTTPStatus
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTemporary || dnsErr.IsTimeout {
			return ClassDNSTemporary
		}
		return ClassOther
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return ClassConnReset
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassConnTimeout
	}
	return ClassOther
}

// statusError is a non-2xx provider response. Never retryable: the
// request reached the provider and was rejected.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.code, e.body)
}
