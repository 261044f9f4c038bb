package compose

import (
	"errors"
	"fmt"

	"github.com/sehwan/mailgate/internal/mail"
)

var (
	// ErrNoRecipient indicates dispatch was attempted without any recipient.
	ErrNoRecipient = errors.New("message must have at least one recipient")

	// ErrInvalidRecipient indicates a recipient address failed validation
	// at dispatch time. It wraps mail.ErrInvalidAddress, so errors.Is
	// matches either sentinel.
	ErrInvalidRecipient = fmt.Errorf("invalid recipient address: %w", mail.ErrInvalidAddress)

	// ErrNoBody indicates dispatch was attempted with neither a text nor
	// an HTML body.
	ErrNoBody = errors.New("message must have a text or html body")

	// ErrAlreadyDispatched indicates a builder was reused after dispatch.
	// This is a programmer error, not a retryable condition.
	ErrAlreadyDispatched = errors.New("builder has already been dispatched")

	// ErrNoTransport indicates a builder was constructed without a transport.
	ErrNoTransport = errors.New("no transport configured")
)
