package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mkolchin/shopcart/internal/domain/entity"
	"github.com/mkolchin/shopcart/internal/repository"
)

const (
	responseBodyReadLimit int64 = 1 << 20
)

// Client talks to the inventory service's read-only REST API:
// GET /stock/{id} for the available quantity and GET /products/{id} for
// product metadata.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg ClientConfig) (repository.InventoryClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("inventory base URL is not configured")
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
	}, nil
}

type stockResponse struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

func (c *Client) StockQuota(ctx context.Context, productID int64) (int, error) {
	var stock stockResponse
	url := fmt.Sprintf("%s/stock/%d", c.baseURL, productID)
	if err := c.getJSON(ctx, url, &stock); err != nil {
		return 0, fmt.Errorf("failed to fetch stock for product %d: %w", productID, err)
	}
	return stock.Amount, nil
}

func (c *Client) Product(ctx context.Context, productID int64) (*entity.Product, error) {
	var product entity.Product
	url := fmt.Sprintf("%s/products/%d", c.baseURL, productID)
	if err := c.getJSON(ctx, url, &product); err != nil {
		return nil, fmt.Errorf("failed to fetch product %d: %w", productID, err)
	}
	return &product, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from inventory service", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("malformed inventory response: %w", err)
	}
	return nil
}
