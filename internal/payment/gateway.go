package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"calmtable/internal/pkg/config"
	"calmtable/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const stripeIntentEndpoint = "https://api.stripe.com/v1/payment_intents"

var ErrPaymentFailure = errs.New("payment gateway failure")

// Gateway creates a payment intent for an order total and returns the
// provider's reference. Capture and webhooks are the provider dashboard's
// concern, not this service's.
type Gateway interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, orderNumber string) (string, error)
}

// StripeGateway talks to the Stripe payment_intents API directly. Amounts go
// over the wire in the currency's smallest unit.
type StripeGateway struct {
	secretKey string
	currency  string
	endpoint  string
	client    *http.Client
}

func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	return &StripeGateway{
		secretKey: cfg.SecretKey,
		currency:  cfg.Currency,
		endpoint:  stripeIntentEndpoint,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount decimal.Decimal, orderNumber string) (string, error) {
	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(cents, 10))
	form.Set("currency", g.currency)
	form.Set("metadata[order_number]", orderNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errs.Mark(err, ErrPaymentFailure)
	}
	req.SetBasicAuth(g.secretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errs.Mark(err, ErrPaymentFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", errs.Mark(errs.New("stripe returned status "+resp.Status), ErrPaymentFailure)
	}

	// The client secret is what the frontend needs to confirm the intent; the
	// intent id alone cannot complete a payment.
	var body struct {
		ClientSecret string `json:"client_secret"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errs.Mark(err, ErrPaymentFailure)
	}
	return body.ClientSecret, nil
}

// DisabledGateway is used when no secret key is configured; orders simply
// carry no payment reference.
type DisabledGateway struct{}

func (DisabledGateway) CreateIntent(context.Context, decimal.Decimal, string) (string, error) {
	return "", nil
}

func NewGateway(cfg config.StripeConfig) Gateway {
	if cfg.SecretKey == "" {
		return DisabledGateway{}
	}
	return NewStripeGateway(cfg)
}
