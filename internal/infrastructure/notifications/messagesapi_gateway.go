package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/rahulwaghole14/mandap/domain"
)

// MessagesAPIGateway implements domain.MessagingGateway against the
// messagesapi.co.in WhatsApp gateway. The content variant picks the
// endpoint: text goes out as a GET with the message in the path, anything
// carrying a file goes out as a multipart POST.
type MessagesAPIGateway struct {
	base       string
	userID     string
	device     string
	senderName string
	http       *http.Client
	log        *slog.Logger
}

// MessagesAPIConfig holds the sender identity used on every request
type MessagesAPIConfig struct {
	BaseURL    string
	UserID     string
	Device     string
	SenderName string
	Timeout    time.Duration
}

// NewMessagesAPIGateway creates the gateway
func NewMessagesAPIGateway(cfg MessagesAPIConfig, logger *slog.Logger) *MessagesAPIGateway {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SenderName == "" {
		cfg.SenderName = "Frontend User"
	}
	return &MessagesAPIGateway{
		base:       strings.TrimRight(cfg.BaseURL, "/"),
		userID:     cfg.UserID,
		device:     cfg.Device,
		senderName: cfg.SenderName,
		http:       &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

var _ domain.MessagingGateway = (*MessagesAPIGateway)(nil)

// Send implements domain.MessagingGateway
func (g *MessagesAPIGateway) Send(ctx context.Context, phone string, content domain.OutboundContent) (string, error) {
	var (
		req *http.Request
		err error
	)
	switch content.Kind() {
	case domain.ContentText:
		req, err = g.textRequest(ctx, phone, content.Text())
	case domain.ContentTextAndFile:
		req, err = g.fileRequest(ctx, "sendMessageFile", phone, content.Text(), content.Attachment())
	case domain.ContentFile:
		req, err = g.fileRequest(ctx, "sendFile", phone, "", content.Attachment())
	default:
		return "", domain.ErrEmptyContent
	}
	if err != nil {
		return "", err
	}
	return g.do(req)
}

func (g *MessagesAPIGateway) textRequest(ctx context.Context, phone, text string) (*http.Request, error) {
	u := fmt.Sprintf("%s/chat/sendMessage/%s/%s/%s/%s",
		g.base,
		url.PathEscape(g.userID),
		url.PathEscape(g.device),
		url.PathEscape(phone),
		encodeComponent(text))
	return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
}

func (g *MessagesAPIGateway) fileRequest(ctx context.Context, endpoint, phone, text string, att *domain.Attachment) (*http.Request, error) {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	fields := [][2]string{{"id", g.userID}, {"name", g.senderName}, {"phone", phone}}
	if text != "" {
		fields = append(fields, [2]string{"message", text})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(att.Filename)))
	ct := att.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(att.Data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/chat/%s/%s/%s", g.base, endpoint, url.PathEscape(g.userID), url.PathEscape(g.device))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, nil
}

func (g *MessagesAPIGateway) do(req *http.Request) (string, error) {
	resp, err := g.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var res struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(b, &res)

	if resp.StatusCode/100 != 2 {
		msg := res.Error
		if msg == "" {
			msg = res.Message
		}
		return "", &domain.APIError{Status: resp.StatusCode, Message: msg}
	}
	g.log.Debug("gateway send", slog.String("path", req.URL.Path), slog.Int("status", resp.StatusCode))
	return res.Message, nil
}

// encodeComponent escapes like JavaScript's encodeURIComponent
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
