package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FailureCause classifies why a delivery attempt failed. Transports map
// their provider-specific failures onto these causes; the composer passes
// them through without further interpretation.
type FailureCause string

const (
	// CauseAuthRejected means the provider rejected the transport's credentials.
	CauseAuthRejected FailureCause = "auth_rejected"
	// CauseNetwork means the provider could not be reached.
	CauseNetwork FailureCause = "network"
	// CauseRecipientRejected means the remote server refused one or more recipients.
	CauseRecipientRejected FailureCause = "recipient_rejected"
	// CausePayloadTooLarge means the message exceeded the provider's size limit.
	CausePayloadTooLarge FailureCause = "payload_too_large"
	// CauseUnknown covers failures the transport could not classify.
	CauseUnknown FailureCause = "unknown"
)

// Error is a delivery failure annotated with a FailureCause. Transports
// wrap provider errors in an Error so callers can classify failures
// without depending on provider SDK types.
type Error struct {
	Cause  FailureCause
	Detail string
	Err    error
}

// NewError creates an Error with the given cause and detail, wrapping err.
func NewError(cause FailureCause, detail string, err error) *Error {
	return &Error{Cause: cause, Detail: detail, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Cause, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Cause, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CauseOf extracts the FailureCause from a delivery error. Errors that do
// not carry an explicit cause are classified by shape: network-level
// failures and cancelled contexts map to CauseNetwork, everything else to
// CauseUnknown.
func CauseOf(err error) FailureCause {
	if err == nil {
		return ""
	}

	var te *Error
	if errors.As(err, &te) {
		return te.Cause
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return CauseNetwork
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CauseNetwork
	}

	return CauseUnknown
}
