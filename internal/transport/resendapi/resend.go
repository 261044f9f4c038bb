// Package resendapi implements a Transport that delivers messages through
// the Resend HTTP API.
package resendapi

import (
	"context"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/sehwan/mailgate/internal/mail"
	"github.com/sehwan/mailgate/internal/transport"
)

// Config holds Resend API configuration.
type Config struct {
	APIKey string
}

// Transport sends messages via the Resend API.
type Transport struct {
	client *resend.Client
}

// New creates a new Resend Transport.
func New(cfg Config) *Transport {
	return &Transport{client: resend.NewClient(cfg.APIKey)}
}

// NewWithClient creates a Transport with a custom client, used for testing.
func NewWithClient(client *resend.Client) *Transport {
	return &Transport{client: client}
}

// Send delivers a message via the Resend API.
func (t *Transport) Send(ctx context.Context, msg *mail.Message) (*transport.Receipt, error) {
	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Cc:      msg.Cc,
		Bcc:     msg.Bcc,
		Subject: msg.Subject,
		Html:    msg.HtmlBody,
		Text:    msg.TextBody,
	}

	if len(msg.Attachments) > 0 {
		req.Attachments = convertAttachments(msg.Attachments)
	}

	resp, err := t.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return nil, transport.NewError(classify(err), "resend API request failed", err)
	}

	receipt := &transport.Receipt{Response: "accepted by Resend"}
	if resp != nil {
		receipt.ProviderID = resp.Id
	}
	return receipt, nil
}

// Name returns the transport name.
func (t *Transport) Name() string {
	return "resend"
}

// classify maps Resend API errors onto the shared failure taxonomy. The
// client surfaces HTTP-level failures as plain errors, so classification
// falls back to inspecting the error text.
func classify(err error) transport.FailureCause {
	text := strings.ToLower(err.Error())

	switch {
	case strings.Contains(text, "401") || strings.Contains(text, "403") ||
		strings.Contains(text, "unauthorized") || strings.Contains(text, "invalid api key"):
		return transport.CauseAuthRejected
	case strings.Contains(text, "413") || strings.Contains(text, "too large"):
		return transport.CausePayloadTooLarge
	case strings.Contains(text, "invalid `to`") || strings.Contains(text, "invalid recipient"):
		return transport.CauseRecipientRejected
	default:
		return transport.CauseOf(err)
	}
}

func convertAttachments(attachments []mail.Attachment) []*resend.Attachment {
	result := make([]*resend.Attachment, len(attachments))
	for i, a := range attachments {
		result[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		}
	}
	return result
}
