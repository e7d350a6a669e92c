package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/GlebRadaev/taskmarket/internal/config"
	"github.com/GlebRadaev/taskmarket/pkg/clients"
	"go.uber.org/zap"
)

// Provider talks to the external payment gateway that charges real money for
// credit purchases. Only the charge confirmation matters here; everything
// else about the gateway is its problem.
type Provider struct {
	url    string
	client clients.HTTPClientI
}

func New(cfg *config.Config, client clients.HTTPClientI) *Provider {
	return &Provider{
		url:    cfg.PaymentAddress,
		client: client,
	}
}

type chargeRequest struct {
	CardNumber string `json:"card_number"`
	Amount     int64  `json:"amount"`
}

func (p *Provider) Charge(ctx context.Context, cardNumber string, amount int64) error {
	body, err := json.Marshal(chargeRequest{CardNumber: cardNumber, Amount: amount})
	if err != nil {
		return err
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	statusCode, _, err := p.client.Post(p.url+"/api/charge", headers, body)
	if err != nil {
		zap.L().Error("payment gateway unreachable", zap.Error(err))
		return err
	}
	if statusCode != http.StatusOK {
		return fmt.Errorf("payment gateway returned status %d", statusCode)
	}
	return nil
}
