package resendapi

import (
	"errors"
	"testing"

	"github.com/sehwan/mailgate/internal/mail"
	"github.com/sehwan/mailgate/internal/transport"
)

func TestName(t *testing.T) {
	t.Parallel()

	tr := New(Config{APIKey: "re_test"})
	if got := tr.Name(); got != "resend" {
		t.Errorf("Name(): got %q, want %q", got, "resend")
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want transport.FailureCause
	}{
		{"unauthorized status", errors.New("resend API returned 401"), transport.CauseAuthRejected},
		{"forbidden status", errors.New("403 Forbidden"), transport.CauseAuthRejected},
		{"invalid api key", errors.New("Invalid API key"), transport.CauseAuthRejected},
		{"payload too large", errors.New("413 Request Entity Too Large"), transport.CausePayloadTooLarge},
		{"invalid recipient", errors.New("Invalid `to` field"), transport.CauseRecipientRejected},
		{"anything else", errors.New("internal server error"), transport.CauseUnknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classify(tt.err); got != tt.want {
				t.Errorf("classify(%v): got %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestConvertAttachments(t *testing.T) {
	t.Parallel()

	attachments := []mail.Attachment{
		{Filename: "report.pdf", ContentType: "application/pdf", Content: []byte("pdf bytes")},
		{Filename: "notes.txt", ContentType: "text/plain", Content: []byte("notes")},
	}

	converted := convertAttachments(attachments)
	if len(converted) != 2 {
		t.Fatalf("converted count: got %d, want 2", len(converted))
	}
	if converted[0].Filename != "report.pdf" {
		t.Errorf("Filename: got %q, want %q", converted[0].Filename, "report.pdf")
	}
	if converted[0].ContentType != "application/pdf" {
		t.Errorf("ContentType: got %q, want %q", converted[0].ContentType, "application/pdf")
	}
	if string(converted[1].Content) != "notes" {
		t.Errorf("Content: got %q, want %q", converted[1].Content, "notes")
	}
}

// Verify Transport implements transport.Transport
func TestTransportInterface(t *testing.T) {
	t.Parallel()
	var _ transport.Transport = (*Transport)(nil)
}
