package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// HostedClient talks to the hosted-checkout processor's REST API.
type HostedClient struct {
	BaseURL       string
	APIKey        string
	WebhookSecret string
	client        *http.Client
}

func NewHostedClient(baseURL, apiKey, webhookSecret string, timeout time.Duration) *HostedClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HostedClient{
		BaseURL:       baseURL,
		APIKey:        apiKey,
		WebhookSecret: webhookSecret,
		client:        &http.Client{Timeout: timeout},
	}
}

func (g *HostedClient) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	log.Printf("[gateway] POST /v1/checkout/sessions ref=%s items=%d", req.ClientReferenceID, len(req.LineItems))
	var s Session
	if err := g.do(ctx, http.MethodPost, "/v1/checkout/sessions", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (g *HostedClient) GetSession(ctx context.Context, id string) (*Session, error) {
	var s Session
	if err := g.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+id+"?expand=payment_intent", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (g *HostedClient) CreateRefund(ctx context.Context, req RefundRequest) (*Refund, error) {
	log.Printf("[gateway] POST /v1/refunds payment_intent=%s amount=%d", req.PaymentRef, req.AmountCents)
	var r Refund
	if err := g.do(ctx, http.MethodPost, "/v1/refunds", req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (g *HostedClient) VerifyEvent(body []byte, signature string) (*Event, error) {
	return VerifyEvent(g.WebhookSecret, body, signature)
}

func (g *HostedClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("[gateway] %s %s status=%d body=%s", method, path, resp.StatusCode, string(respBody))
		return fmt.Errorf("gateway %s %s: %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("gateway decode: %w", err)
		}
	}
	return nil
}
