package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"guesthouse-backend/utils"
)

// PaymentGateway is the payment provider surface the booking flow needs.
// The production implementation talks to Paystack; tests swap in a fake.
type PaymentGateway interface {
	InitializeTransaction(email, reference string, amountCents int64, metadata map[string]interface{}) (*CheckoutSession, error)
	VerifyTransaction(reference string) (*VerifyResult, error)
	Refund(reference string) error
	Configured() bool
	PublicKey() string
	Currency() string
}

// CheckoutSession is what the frontend needs to hand the guest to the
// gateway's hosted payment page.
type CheckoutSession struct {
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
	Reference        string `json:"reference"`
	Sandbox          bool   `json:"sandbox,omitempty"`
}

// VerifyResult is the normalized outcome of a transaction lookup.
type VerifyResult struct {
	Reference string
	Status    string
	Paid      bool
	Amount    int64
	Currency  string
}

// PaystackService calls the Paystack REST API. When no secret key is
// configured it runs in sandbox mode: initialize and verify succeed
// locally without contacting the gateway, and every response is marked
// sandbox so the frontend can tell.
type PaystackService struct {
	secretKey string
	publicKey string
	baseURL   string
	currency  string
	client    *http.Client
}

func NewPaystackService() *PaystackService {
	s := &PaystackService{
		secretKey: utils.EnvOrDefault("PAYSTACK_SECRET_KEY", ""),
		publicKey: utils.EnvOrDefault("PAYSTACK_PUBLIC_KEY", ""),
		baseURL:   utils.EnvOrDefault("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		currency:  utils.EnvOrDefault("PAYSTACK_CURRENCY", "ZAR"),
		client:    &http.Client{Timeout: 10 * time.Second},
	}
	if !s.Configured() {
		log.Println("WARNING: PAYSTACK_SECRET_KEY not set - payment gateway running in sandbox mode")
	}
	return s
}

func (s *PaystackService) Configured() bool {
	return s.secretKey != ""
}

func (s *PaystackService) PublicKey() string {
	return s.publicKey
}

func (s *PaystackService) Currency() string {
	return s.currency
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *PaystackService) call(method, path string, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &GatewayError{Op: path, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reader)
	if err != nil {
		return nil, &GatewayError{Op: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &GatewayError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{Op: path, Err: err}
	}

	var envelope paystackEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &GatewayError{Op: path, Err: fmt.Errorf("invalid response (%d): %w", resp.StatusCode, err)}
	}
	if resp.StatusCode >= 400 || !envelope.Status {
		return nil, &GatewayError{Op: path, Err: fmt.Errorf("gateway rejected request (%d): %s", resp.StatusCode, envelope.Message)}
	}
	return envelope.Data, nil
}

// InitializeTransaction opens a checkout session. amountCents is the total
// in cents; Paystack also wants minor units, so it passes through directly.
func (s *PaystackService) InitializeTransaction(email, reference string, amountCents int64, metadata map[string]interface{}) (*CheckoutSession, error) {
	if !s.Configured() {
		log.Printf("[SANDBOX PAYMENT] initialize reference=%s amount=%d %s", reference, amountCents, s.currency)
		return &CheckoutSession{
			AuthorizationURL: "https://sandbox.invalid/pay/" + reference,
			AccessCode:       "sandbox_" + reference,
			Reference:        reference,
			Sandbox:          true,
		}, nil
	}

	data, err := s.call(http.MethodPost, "/transaction/initialize", map[string]interface{}{
		"email":     email,
		"amount":    amountCents,
		"currency":  s.currency,
		"reference": reference,
		"metadata":  metadata,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &GatewayError{Op: "initialize", Err: err}
	}
	return &CheckoutSession{
		AuthorizationURL: out.AuthorizationURL,
		AccessCode:       out.AccessCode,
		Reference:        out.Reference,
	}, nil
}

// VerifyTransaction looks up a transaction by reference. In sandbox mode
// every reference verifies as paid.
func (s *PaystackService) VerifyTransaction(reference string) (*VerifyResult, error) {
	if !s.Configured() {
		log.Printf("[SANDBOX PAYMENT] verify reference=%s -> success", reference)
		return &VerifyResult{Reference: reference, Status: "success", Paid: true, Currency: s.currency}, nil
	}

	data, err := s.call(http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		Reference string `json:"reference"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &GatewayError{Op: "verify", Err: err}
	}
	return &VerifyResult{
		Reference: out.Reference,
		Status:    out.Status,
		Paid:      strings.EqualFold(out.Status, "success"),
		Amount:    out.Amount,
		Currency:  out.Currency,
	}, nil
}

// Refund asks the gateway to refund the full transaction.
func (s *PaystackService) Refund(reference string) error {
	if !s.Configured() {
		log.Printf("[SANDBOX PAYMENT] refund reference=%s", reference)
		return nil
	}
	_, err := s.call(http.MethodPost, "/refund", map[string]interface{}{
		"transaction": reference,
	})
	return err
}
