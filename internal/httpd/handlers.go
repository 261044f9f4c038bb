package httpd

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sehwan/mailgate/internal/compose"
	"github.com/sehwan/mailgate/internal/mail"
)

// recipientList accepts either a single address string or an array of
// addresses, so both {"to": "a@x.com"} and {"to": ["a@x.com"]} work.
type recipientList []string

func (l *recipientList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = recipientList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = recipientList(many)
	return nil
}

// sendRequest is the intake payload. Each field maps onto exactly one
// builder setter; absent fields are simply not set.
type sendRequest struct {
	To          recipientList       `json:"to"`
	Cc          recipientList       `json:"cc"`
	Bcc         recipientList       `json:"bcc"`
	Subject     *string             `json:"subject"`
	Text        *string             `json:"text"`
	HTML        *string             `json:"html"`
	Attachments []attachmentPayload `json:"attachments"`
}

// attachmentPayload carries a file attachment; content is base64 in JSON.
type attachmentPayload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

// sendResponse reports the dispatch outcome. The request is answered 202
// even when the transport fails; the failure is described in the body
// and logged.
type sendResponse struct {
	MessageID  string `json:"message_id"`
	Delivered  bool   `json:"delivered"`
	ProviderID string `json:"provider_id,omitempty"`
	Response   string `json:"response,omitempty"`
	Cause      string `json:"cause,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSendMessage maps the request onto a fresh builder, dispatches,
// and reports the outcome.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodySize)

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b := compose.NewBuilder(s.config.Sender, s.config.Transport)

	// One request field to one setter; a fresh builder cannot be in the
	// dispatched state, so setter errors are impossible here.
	if len(req.To) > 0 {
		_ = b.SetRecipients(req.To...)
	}
	if len(req.Cc) > 0 {
		_ = b.SetCc(req.Cc...)
	}
	if len(req.Bcc) > 0 {
		_ = b.SetBcc(req.Bcc...)
	}
	if req.Subject != nil {
		_ = b.SetSubject(*req.Subject)
	}
	if req.Text != nil {
		_ = b.SetText(*req.Text)
	}
	if req.HTML != nil {
		_ = b.SetHTML(*req.HTML)
	}
	for _, att := range req.Attachments {
		_ = b.AddAttachment(mail.Attachment{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Content:     att.Content,
		})
	}

	result, err := b.Dispatch(r.Context())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if result.Delivered {
		slog.Info("message dispatched",
			"message_id", result.MessageID,
			"transport", s.config.Transport.Name(),
			"provider_id", result.ProviderID,
		)
	} else {
		slog.Error("message dispatch failed",
			"message_id", result.MessageID,
			"transport", s.config.Transport.Name(),
			"cause", result.Cause,
			"detail", result.Detail,
		)
	}

	writeJSON(w, http.StatusAccepted, sendResponse{
		MessageID:  result.MessageID,
		Delivered:  result.Delivered,
		ProviderID: result.ProviderID,
		Response:   result.Response,
		Cause:      string(result.Cause),
		Detail:     result.Detail,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
