// Package assetledger - клиент внешнего реестра активов.
// Через него уходят выплаты из кастодиального контура и проверяется
// способность адресата принять актив.
package assetledger

import (
	"bytes"
	"context"
	"custody_backend/internal/config"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(cfg config.AssetLedgerConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL(),
		token:   cfg.Token(),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type transferRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// Transfer - запрос на перевод ранее задепонированного актива адресату to
func (c *Client) Transfer(ctx context.Context, to string, amount int64) error {
	body, err := json.Marshal(transferRequest{To: to, Amount: amount})
	if err != nil {
		return fmt.Errorf("marshal transfer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transfer", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("asset ledger transfer: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("asset ledger transfer: unexpected status %d", res.StatusCode)
	}

	return nil
}

type receivableResponse struct {
	Receivable bool `json:"receivable"`
}

// CanReceive - может ли адрес принять актив.
// Контрактные адреса без поддержки приема отклоняются реестром
func (c *Client) CanReceive(ctx context.Context, address string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/receivable/"+address, nil)
	if err != nil {
		return false, fmt.Errorf("build receivable request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("asset ledger receivable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return false, fmt.Errorf("asset ledger receivable: unexpected status %d", res.StatusCode)
	}

	var payload receivableResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return false, fmt.Errorf("decode receivable response: %w", err)
	}

	return payload.Receivable, nil
}
