package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AmirAliEidivandi/movie/pkg/config"

	"github.com/go-resty/resty/v2"
)

// Result codes the gateway reports for a paid transaction. 101 means the
// payment was already verified by an earlier call; both count as success.
const (
	CodeVerified        = 100
	CodeAlreadyVerified = 101
)

// Error wraps a network failure or a non-success gateway response. It is
// never retried here; retry policy belongs to the caller.
type Error struct {
	Op      string
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("zarinpal %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("zarinpal %s: code=%d message=%s", e.Op, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type PaymentRequest struct {
	Authority   string
	RedirectURL string
}

type VerifyResult struct {
	Code    int
	Message string
	RefID   int64
	CardPan string
}

// Client is stateless; every call is independent. Side effects happen on the
// gateway's side only.
type Client struct {
	http            *resty.Client
	merchantID      string
	startPayURL     string
	callbackBaseURL string
}

func NewClient(cfg *config.Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.ZarinpalAPIBaseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:            httpClient,
		merchantID:      cfg.ZarinpalMerchantID,
		startPayURL:     cfg.ZarinpalStartPayURL,
		callbackBaseURL: cfg.ZarinpalCallbackBaseURL,
	}
}

type paymentData struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Authority string `json:"authority,omitempty"`
	RefID     int64  `json:"ref_id,omitempty"`
	CardPan   string `json:"card_pan,omitempty"`
}

type paymentResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// decodeData tolerates the gateway's habit of sending `data: []` on failures
// and an object under `errors` instead.
func (r *paymentResponse) decodeData() (*paymentData, error) {
	var data paymentData
	if len(r.Data) > 0 && r.Data[0] == '{' {
		if err := json.Unmarshal(r.Data, &data); err != nil {
			return nil, err
		}
		if data.Code != 0 {
			return &data, nil
		}
	}
	if len(r.Errors) > 0 && r.Errors[0] == '{' {
		if err := json.Unmarshal(r.Errors, &data); err != nil {
			return nil, err
		}
	}
	return &data, nil
}

// RequestPayment registers a payment attempt with the gateway and returns the
// authority token plus the hosted page URL the user must be redirected to.
func (c *Client) RequestPayment(ctx context.Context, amount int, description, callbackPath string) (*PaymentRequest, error) {
	body := map[string]interface{}{
		"merchant_id":  c.merchantID,
		"amount":       amount,
		"description":  description,
		"callback_url": c.callbackBaseURL + callbackPath,
	}

	var out paymentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&out).
		Post("/request.json")
	if err != nil {
		return nil, &Error{Op: "request", Err: err}
	}

	data, err := out.decodeData()
	if err != nil {
		return nil, &Error{Op: "request", Err: err}
	}
	if resp.IsError() || data.Code != CodeVerified || data.Authority == "" {
		return nil, &Error{Op: "request", Code: data.Code, Message: data.Message}
	}

	return &PaymentRequest{
		Authority:   data.Authority,
		RedirectURL: fmt.Sprintf("%s/%s", c.startPayURL, data.Authority),
	}, nil
}

// VerifyPayment must be called with the same amount used at request time; the
// gateway rejects mismatched amounts. Callers pass the persisted transaction
// amount, never a value echoed back through the redirect.
func (c *Client) VerifyPayment(ctx context.Context, authority string, amount int) (*VerifyResult, error) {
	body := map[string]interface{}{
		"merchant_id": c.merchantID,
		"amount":      amount,
		"authority":   authority,
	}

	var out paymentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&out).
		Post("/verify.json")
	if err != nil {
		return nil, &Error{Op: "verify", Err: err}
	}

	data, err := out.decodeData()
	if err != nil {
		return nil, &Error{Op: "verify", Err: err}
	}
	if resp.IsError() && data.Code == 0 {
		return nil, &Error{Op: "verify", Code: data.Code, Message: data.Message}
	}

	return &VerifyResult{
		Code:    data.Code,
		Message: data.Message,
		RefID:   data.RefID,
		CardPan: data.CardPan,
	}, nil
}
