package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type twilioMessenger interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioGateway envia SMS pelo número configurado
type TwilioGateway struct {
	api  twilioMessenger
	from string
}

func NewTwilioGateway(accountSID, authToken, from string) (*TwilioGateway, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, errors.New("twilio account sid, auth token and sender are required")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioGateway{api: client.Api, from: from}, nil
}

func (g *TwilioGateway) SendText(ctx context.Context, phone, text string) error {
	// o SDK não recebe context; respeitamos ao menos o cancelamento prévio
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("+" + phone)
	params.SetFrom(g.from)
	params.SetBody(text)

	resp, err := g.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}
	if resp == nil || resp.Sid == nil {
		return errors.New("twilio response missing sid")
	}
	return nil
}
