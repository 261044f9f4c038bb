// Package compose implements the single-use message builder that
// accumulates field values, validates them, and dispatches the resulting
// message through a configured transport.
package compose

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/sehwan/mailgate/internal/mail"
	"github.com/sehwan/mailgate/internal/transport"
)

// Sender is the process-wide sender identity stamped onto every message.
// It comes from configuration at startup, never from a request.
type Sender struct {
	Address string
	Name    string
}

// Builder accumulates the fields of one outbound message. Setters may be
// called in any order and any number of times; the last write wins. Once
// Dispatch has run, the builder is terminal and every further call
// returns ErrAlreadyDispatched.
//
// A Builder is single-use and not safe for concurrent use; create one
// per message.
type Builder struct {
	sender    Sender
	transport transport.Transport

	to          []string
	cc          []string
	bcc         []string
	subject     string
	textBody    string
	htmlBody    string
	attachments []mail.Attachment

	dispatched bool
}

// NewBuilder creates a Builder that will stamp messages with the given
// sender identity and dispatch them through t.
func NewBuilder(sender Sender, t transport.Transport) *Builder {
	return &Builder{
		sender:    sender,
		transport: t,
	}
}

// SetRecipients replaces the recipient list. Addresses are not validated
// here; validation is deferred to Dispatch.
func (b *Builder) SetRecipients(addrs ...string) error {
	if b.dispatched {
		return ErrAlreadyDispatched
	}
	b.to = slices.Clone(addrs)
	return nil
}

// SetCc replaces the carbon-copy recipient list.
func (b *Builder) SetCc(addrs ...string) error {
	if b.dispatched {
		return ErrAlreadyDispatched
	}
	b.cc = slices.Clone(addrs)
	return nil
}

// SetBcc replaces the blind-carbon-copy recipient list.
func (b *Builder) SetBcc(addrs ...string) error {
	if b.dispatched {
		return ErrAlreadyDispatched
	}
	b.bcc = slices.Clone(addrs)
	return nil
}

// SetSubject replaces the subject line.
func (b *Builder) SetSubject(subject string) error {
	if b.dispatched {
		return ErrAlreadyDispatched
	}
	b.subject = subject
	return nil
}

// SetText replaces the plain-text body.
func (b *Builder) SetText(text string) error {
	if b.dispatched {
		return ErrAlreadyDispatched
	}
	b.textBody = text
	return nil
}

// SetHTML replaces the HTML body. Setting both a text and an HTML body is
// allowed; transports send both as multipart alternatives.
func (b *Builder) SetHTML(markup string) error {
	if b.dispatched {
		return ErrAlreadyDispatched
	}
	b.htmlBody = markup
	return nil
}

// AddAttachment appends a file attachment.
func (b *Builder) AddAttachment(att mail.Attachment) error {
	if b.dispatched {
		return ErrAlreadyDispatched
	}
	b.attachments = append(b.attachments, att)
	return nil
}

// Dispatch validates the accumulated fields, takes an immutable message
// snapshot, and hands it to the transport exactly once.
//
// Validation and lifecycle errors are returned as errors before any I/O
// is attempted; the builder stays composing on a validation failure so
// the caller can correct and retry. Once the transport is invoked the
// builder is terminal regardless of the outcome, and transport failures
// are captured in the DispatchResult rather than returned as errors.
func (b *Builder) Dispatch(ctx context.Context) (*DispatchResult, error) {
	if b.dispatched {
		return nil, ErrAlreadyDispatched
	}
	if b.transport == nil {
		return nil, ErrNoTransport
	}

	if err := b.validate(); err != nil {
		return nil, err
	}

	msg := b.snapshot()
	b.dispatched = true

	receipt, err := b.transport.Send(ctx, msg)
	if err != nil {
		return &DispatchResult{
			MessageID: msg.MessageID,
			Cause:     transport.CauseOf(err),
			Detail:    err.Error(),
		}, nil
	}

	result := &DispatchResult{
		MessageID: msg.MessageID,
		Delivered: true,
	}
	if receipt != nil {
		result.ProviderID = receipt.ProviderID
		result.Response = receipt.Response
	}
	return result, nil
}

func (b *Builder) validate() error {
	if len(b.to) == 0 {
		return ErrNoRecipient
	}
	if b.textBody == "" && b.htmlBody == "" {
		return ErrNoBody
	}

	for _, addr := range b.to {
		if err := mail.ValidateAddress(addr); err != nil {
			return fmt.Errorf("recipient %q: %w", addr, ErrInvalidRecipient)
		}
	}
	for _, addr := range b.cc {
		if err := mail.ValidateAddress(addr); err != nil {
			return fmt.Errorf("cc %q: %w", addr, ErrInvalidRecipient)
		}
	}
	for _, addr := range b.bcc {
		if err := mail.ValidateAddress(addr); err != nil {
			return fmt.Errorf("bcc %q: %w", addr, ErrInvalidRecipient)
		}
	}

	return nil
}

// snapshot builds the immutable message handed to the transport. Slices
// are copied so later builder state cannot affect an in-flight send.
func (b *Builder) snapshot() *mail.Message {
	return &mail.Message{
		MessageID:   uuid.NewString(),
		From:        mail.FormatAddress(b.sender.Name, b.sender.Address),
		To:          slices.Clone(b.to),
		Cc:          slices.Clone(b.cc),
		Bcc:         slices.Clone(b.bcc),
		Subject:     b.subject,
		TextBody:    b.textBody,
		HtmlBody:    b.htmlBody,
		Attachments: slices.Clone(b.attachments),
	}
}
