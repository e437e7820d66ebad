package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/ingest/email"
	"jobtrack-engine/internal/parse"
	"jobtrack-engine/internal/service"
)

type WebhooksHandler struct {
	Svc *service.Service
}

type webhookResult struct {
	MessageID     string `json:"messageId"`
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
	ApplicationID string `json:"applicationId,omitempty"`
}

// gmailMessage mirrors the Gmail API "full" message format pushed by a
// forwarding integration.
type gmailMessage struct {
	ID      string `json:"id"`
	Payload struct {
		Headers []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers"`
		Body struct {
			Data string `json:"data"`
		} `json:"body"`
		Parts []json.RawMessage `json:"parts"`
	} `json:"payload"`
}

type gmailWebhookReq struct {
	Message  *gmailMessage  `json:"message"`
	Messages []gmailMessage `json:"messages"`
}

func (h WebhooksHandler) Gmail(w http.ResponseWriter, r *http.Request) {
	var req gmailWebhookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}

	msgs := req.Messages
	if len(msgs) == 0 && req.Message != nil {
		msgs = []gmailMessage{*req.Message}
	}
	if len(msgs) == 0 {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "no messages provided")
		return
	}

	results := make([]webhookResult, 0, len(msgs))
	for _, m := range msgs {
		data := extractGmailData(m)
		results = append(results, h.ingest(r, data))
	}
	writeJSON(w, map[string]any{"success": true, "results": results})
}

// outlookMessage mirrors the Microsoft Graph message format.
type outlookMessage struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	From    struct {
		EmailAddress struct {
			Name    string `json:"name"`
			Address string `json:"address"`
		} `json:"emailAddress"`
	} `json:"from"`
	Body struct {
		ContentType string `json:"contentType"`
		Content     string `json:"content"`
	} `json:"body"`
}

type outlookWebhookReq struct {
	Message  *outlookMessage  `json:"message"`
	Messages []outlookMessage `json:"messages"`
}

func (h WebhooksHandler) Outlook(w http.ResponseWriter, r *http.Request) {
	var req outlookWebhookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}

	msgs := req.Messages
	if len(msgs) == 0 && req.Message != nil {
		msgs = []outlookMessage{*req.Message}
	}
	if len(msgs) == 0 {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "no messages provided")
		return
	}

	results := make([]webhookResult, 0, len(msgs))
	for _, m := range msgs {
		content := m.Body.Content
		if strings.EqualFold(m.Body.ContentType, "html") {
			content = email.HTMLToText(content)
		}
		sender := m.From.EmailAddress.Address
		if m.From.EmailAddress.Name != "" {
			sender = m.From.EmailAddress.Name + " <" + sender + ">"
		}
		results = append(results, h.ingest(r, emailData{
			MessageID: m.ID,
			Subject:   m.Subject,
			Sender:    sender,
			Content:   content,
		}))
	}
	writeJSON(w, map[string]any{"success": true, "results": results})
}

type emailData struct {
	MessageID string
	Subject   string
	Sender    string
	Content   string
}

func (h WebhooksHandler) ingest(r *http.Request, data emailData) webhookResult {
	parsed := parse.ParseReceipt(parse.EmailData{
		Content: data.Content,
		Subject: data.Subject,
		Sender:  data.Sender,
	})
	if parsed == nil {
		return webhookResult{MessageID: data.MessageID, Status: "skipped", Reason: "unparseable"}
	}

	app, _, err := h.Svc.CreateFromParsed(r.Context(), parsed, domain.SourceEmail, data.MessageID)
	if err != nil {
		return webhookResult{MessageID: data.MessageID, Status: "error", Reason: err.Error()}
	}
	return webhookResult{MessageID: data.MessageID, Status: "success", ApplicationID: app.ID}
}

func extractGmailData(m gmailMessage) emailData {
	getHeader := func(name string) string {
		for _, h := range m.Payload.Headers {
			if strings.EqualFold(h.Name, name) {
				return h.Value
			}
		}
		return ""
	}

	body := decodeGmailBase64(m.Payload.Body.Data)
	if body == "" {
		body = extractGmailParts(m.Payload.Parts)
	}

	return emailData{
		MessageID: m.ID,
		Subject:   getHeader("Subject"),
		Sender:    getHeader("From"),
		Content:   body,
	}
}

// gmailPart is the recursive part shape inside a payload.
type gmailPart struct {
	Body struct {
		Data string `json:"data"`
	} `json:"body"`
	Parts []json.RawMessage `json:"parts"`
}

func extractGmailParts(parts []json.RawMessage) string {
	for _, raw := range parts {
		var p gmailPart
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		if s := decodeGmailBase64(p.Body.Data); s != "" {
			return s
		}
		if s := extractGmailParts(p.Parts); s != "" {
			return s
		}
	}
	return ""
}

// Gmail uses URL-safe base64; accept the standard alphabet too.
func decodeGmailBase64(data string) string {
	if data == "" {
		return ""
	}
	for _, enc := range []*base64.Encoding{
		base64.URLEncoding, base64.RawURLEncoding,
		base64.StdEncoding, base64.RawStdEncoding,
	} {
		if b, err := enc.DecodeString(data); err == nil {
			return string(b)
		}
	}
	return ""
}
