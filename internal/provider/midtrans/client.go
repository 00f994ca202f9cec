package midtrans

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	sandboxBaseURL    = "https://app.sandbox.midtrans.com"
	productionBaseURL = "https://app.midtrans.com"
)

// Client talks to the Midtrans Snap API. Server key auth is HTTP basic with
// an empty password.
type Client struct {
	BaseURL    string
	ServerKey  string
	HTTPClient *http.Client
}

func NewClient(serverKey string, production bool) *Client {
	baseURL := sandboxBaseURL
	if production {
		baseURL = productionBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		ServerKey:  serverKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type snapTransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type snapCustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type snapItemDetail struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type snapExpiry struct {
	Duration int    `json:"expiry_duration"`
	Unit     string `json:"unit"`
}

type snapRequest struct {
	TransactionDetails snapTransactionDetails `json:"transaction_details"`
	CustomerDetails    snapCustomerDetails    `json:"customer_details"`
	ItemDetails        []snapItemDetail       `json:"item_details"`
	Expiry             *snapExpiry            `json:"expiry,omitempty"`
}

type snapResponse struct {
	Token         string   `json:"token"`
	RedirectURL   string   `json:"redirect_url"`
	ErrorMessages []string `json:"error_messages,omitempty"`
}

// CreateSnapTransaction opens a hosted payment session and returns the Snap
// token plus redirect URL.
func (c *Client) CreateSnapTransaction(ctx context.Context, req snapRequest) (*snapResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/snap/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(c.ServerKey, "")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("snap transaction failed: status %d: %s", resp.StatusCode, string(raw))
	}

	var out snapResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.ErrorMessages) > 0 {
		return nil, fmt.Errorf("snap transaction rejected: %v", out.ErrorMessages)
	}
	return &out, nil
}
