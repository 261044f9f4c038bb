// Package transport defines the interface for email delivery backends.
package transport

import (
	"context"

	"github.com/sehwan/mailgate/internal/mail"
)

// Transport is the interface that email delivery backends must implement.
// Each transport handles the actual delivery of a composed message to the
// target service (e.g., stdout, AWS SES, the Resend API).
//
// Implementations must not mutate the message they receive and are
// responsible for their own timeouts and internal serialization; the
// composer makes no ordering guarantee between concurrent sends.
type Transport interface {
	// Send delivers a message through this transport. It returns a
	// Receipt describing the provider's acknowledgement, or an error
	// (ideally a *Error carrying a FailureCause) if delivery fails.
	Send(ctx context.Context, msg *mail.Message) (*Receipt, error)

	// Name returns the human-readable name of this transport.
	Name() string
}

// Receipt carries the opaque provider metadata returned on a successful
// delivery attempt.
type Receipt struct {
	// ProviderID is the provider-assigned identifier for the accepted
	// message, if the provider returns one.
	ProviderID string

	// Response is the provider's acknowledgement text.
	Response string
}
