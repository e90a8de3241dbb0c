package notifications

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rahulwaghole14/mandap/domain"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioWhatsAppGateway implements domain.MessagingGateway over Twilio's
// WhatsApp channel. It only sends text; Twilio needs a public media URL for
// files, which this service does not host.
type TwilioWhatsAppGateway struct {
	api        messageCreator
	fromNumber string
}

// NewTwilioWhatsAppGateway creates a new Twilio WhatsApp gateway
func NewTwilioWhatsAppGateway(accountSID, authToken, fromNumber string) *TwilioWhatsAppGateway {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioWhatsAppGateway{
		api:        client.Api,
		fromNumber: fromNumber,
	}
}

var _ domain.MessagingGateway = (*TwilioWhatsAppGateway)(nil)

// Send implements domain.MessagingGateway
func (t *TwilioWhatsAppGateway) Send(ctx context.Context, phone string, content domain.OutboundContent) (string, error) {
	if content.Kind() != domain.ContentText {
		return "", domain.ErrAttachmentUnsupported
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:+" + phone)
	params.SetFrom("whatsapp:" + t.fromNumber)
	params.SetBody(content.Text())

	msg, err := t.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("failed to send WhatsApp message: %w", err)
	}
	if msg != nil && msg.Sid != nil {
		return "Queued as " + *msg.Sid, nil
	}
	return "", nil
}
