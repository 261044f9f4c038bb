package compose

import "github.com/sehwan/mailgate/internal/transport"

// DispatchResult reports the outcome of a single dispatch attempt. It is
// returned to the caller and never persisted.
//
// A result with Delivered set carries the transport's receipt fields;
// otherwise Cause and Detail describe the failure.
type DispatchResult struct {
	// MessageID is the identifier stamped onto the dispatched message.
	MessageID string

	// Delivered reports whether the transport accepted the message.
	Delivered bool

	// ProviderID and Response echo the transport receipt on success.
	ProviderID string
	Response   string

	// Cause and Detail describe the transport failure, if any.
	Cause  transport.FailureCause
	Detail string
}
