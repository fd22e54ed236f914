package payments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	IntentCapture   = "CAPTURE"
	StatusCompleted = "COMPLETED"
	CurrencyUSD     = "USD"
)

// Gateway is the remote payment processor used by the checkout workflow.
type Gateway interface {
	CreateOrder(ctx context.Context, req CheckoutRequest) (*GatewayOrder, error)
	CaptureOrder(ctx context.Context, gatewayOrderID string) (*GatewayOrder, error)
}

// Client is the process-wide gateway, set at startup.
var Client Gateway

type CheckoutRequest struct {
	Title     string
	Amount    float64
	ReturnURL string
	CancelURL string
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount *Money `json:"amount,omitempty"`
}

type UnitPayments struct {
	Captures []Capture `json:"captures"`
}

type PurchaseUnit struct {
	ReferenceID string        `json:"reference_id,omitempty"`
	Payments    *UnitPayments `json:"payments,omitempty"`
}

type Payer struct {
	PayerID      string `json:"payer_id,omitempty"`
	EmailAddress string `json:"email_address,omitempty"`
}

type GatewayOrder struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Links         []Link         `json:"links,omitempty"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units,omitempty"`
	Payer         *Payer         `json:"payer,omitempty"`
}

// ApproveURL is where the buyer must be redirected to approve the payment.
func (o *GatewayOrder) ApproveURL() string {
	for _, link := range o.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			return link.Href
		}
	}
	return ""
}

// CaptureID returns the id of the first capture, falling back to the order id.
func (o *GatewayOrder) CaptureID() string {
	for _, unit := range o.PurchaseUnits {
		if unit.Payments == nil {
			continue
		}
		for _, c := range unit.Payments.Captures {
			if c.ID != "" {
				return c.ID
			}
		}
	}
	return o.ID
}

type GatewayError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("paypal %s failed with status %d: %s", e.Op, e.StatusCode, e.Body)
}

// FormatAmount renders an amount the way the gateway expects it.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

type PayPalGateway struct {
	http         *resty.Client
	clientID     string
	clientSecret string

	tokenMu     sync.RWMutex
	token       string
	tokenExpiry time.Time
	now         func() time.Time
}

func NewPayPalGateway(baseURL, clientID, clientSecret string) *PayPalGateway {
	return &PayPalGateway{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15 * time.Second).
			SetHeader("Accept", "application/json"),
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}
}

func (g *PayPalGateway) CreateOrder(ctx context.Context, req CheckoutRequest) (*GatewayOrder, error) {
	accessToken, err := g.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	amount := FormatAmount(req.Amount)
	payload := map[string]interface{}{
		"intent": IntentCapture,
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]interface{}{
					"currency_code": CurrencyUSD,
					"value":         amount,
					"breakdown": map[string]interface{}{
						"item_total": Money{CurrencyCode: CurrencyUSD, Value: amount},
					},
				},
				"description": req.Title,
				"items": []map[string]interface{}{
					{
						"name":        req.Title,
						"unit_amount": Money{CurrencyCode: CurrencyUSD, Value: amount},
						"quantity":    "1",
					},
				},
			},
		},
		"application_context": map[string]string{
			"return_url": req.ReturnURL,
			"cancel_url": req.CancelURL,
		},
	}

	var order GatewayOrder
	resp, err := g.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=representation").
		SetBody(payload).
		SetResult(&order).
		Post("/v2/checkout/orders")
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	if resp.IsError() {
		return nil, &GatewayError{Op: "create order", StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return &order, nil
}

func (g *PayPalGateway) CaptureOrder(ctx context.Context, gatewayOrderID string) (*GatewayOrder, error) {
	accessToken, err := g.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var order GatewayOrder
	resp, err := g.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=representation").
		SetBody(map[string]interface{}{}).
		SetPathParam("orderId", gatewayOrderID).
		SetResult(&order).
		Post("/v2/checkout/orders/{orderId}/capture")
	if err != nil {
		return nil, fmt.Errorf("capture order request: %w", err)
	}
	if resp.IsError() {
		return nil, &GatewayError{Op: "capture order", StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return &order, nil
}
