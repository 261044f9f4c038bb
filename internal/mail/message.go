// Package mail defines the outbound message data model shared by the
// composer, the HTTP intake layer, and the delivery transports.
package mail

import (
	"errors"
	"fmt"
	netmail "net/mail"
	"strings"
)

// ErrInvalidAddress is returned when an address cannot be parsed as a
// bare RFC 5322 address.
var ErrInvalidAddress = errors.New("invalid email address")

// Message represents a fully-composed outbound email. A Message is built
// by a compose.Builder and must not be mutated after dispatch.
type Message struct {
	// MessageID is assigned by the composer at dispatch time.
	MessageID   string
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	TextBody    string
	HtmlBody    string
	Attachments []Attachment
}

// Attachment represents a file attached to a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// HasBody reports whether the message carries at least one body part.
func (m *Message) HasBody() bool {
	return m.TextBody != "" || m.HtmlBody != ""
}

// FormatAddress formats a display name and address into RFC 5322 form.
// Returns "Name <address>" if name is provided, otherwise just the address.
func FormatAddress(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

// ValidateAddress checks that the value parses as a single bare email
// address without a display name.
func ValidateAddress(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("%w: address is empty", ErrInvalidAddress)
	}

	addr, err := netmail.ParseAddress(trimmed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	if addr.Name != "" || addr.Address != trimmed {
		return fmt.Errorf("%w: must be a bare address", ErrInvalidAddress)
	}

	return nil
}
