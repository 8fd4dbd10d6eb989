// Package woocommerce is a minimal client for the WooCommerce REST API v3
// surface this service needs: product and variation reads plus partial
// stock/price updates.
package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the literal fallback used when no base URL is
// configured.
const DefaultBaseURL = "https://sustenance.co.in/wp-json/wc/v3"

const variationsPerPage = 100

// maxErrorBody bounds how much of a failing response body is carried into
// the error message.
const maxErrorBody = 300

// APIError is a non-2xx response from the catalog.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API error (status %d): %s", e.StatusCode, e.Body)
}

// Product is a remote product or variation as this service reads it.
// Absent numeric fields decode as nil and default to zero downstream;
// absent price fields default to empty string.
type Product struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	StockQuantity *int   `json:"stock_quantity"`
	SalePrice     string `json:"sale_price"`
	RegularPrice  string `json:"regular_price"`
	ManageStock   bool   `json:"manage_stock"`
}

// ProductUpdate is the partial update body. Only set fields are sent.
type ProductUpdate struct {
	StockQuantity *int    `json:"stock_quantity,omitempty"`
	SalePrice     *string `json:"sale_price,omitempty"`
	ManageStock   *bool   `json:"manage_stock,omitempty"`
}

// Client talks to one WooCommerce store using transport-level basic
// authentication with the consumer key/secret pair.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	key         string
	secret      string
	rateLimiter *rate.Limiter
}

func NewClient(baseURL, key, secret string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     baseURL,
		key:         key,
		secret:      secret,
		rateLimiter: rate.NewLimiter(rate.Limit(2), 1), // 2 requests per second
	}
}

// GetProduct fetches the base product.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	body, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/products/%d", productID), nil, nil)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("failed to parse product response: %w", err)
	}
	return &product, nil
}

// ListVariations fetches one page of a variable product's variations. An
// empty page signals the end of pagination.
func (c *Client) ListVariations(ctx context.Context, productID int64, page int) ([]Product, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(variationsPerPage))
	params.Set("page", strconv.Itoa(page))

	body, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/products/%d/variations", productID), params, nil)
	if err != nil {
		return nil, err
	}

	var variations []Product
	if err := json.Unmarshal(body, &variations); err != nil {
		return nil, fmt.Errorf("failed to parse variations response: %w", err)
	}
	return variations, nil
}

// UpdateProduct applies a partial update to a base product.
func (c *Client) UpdateProduct(ctx context.Context, productID int64, update ProductUpdate) error {
	_, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/products/%d", productID), nil, update)
	return err
}

// UpdateVariation applies a partial update through the variation endpoint.
func (c *Client) UpdateVariation(ctx context.Context, parentID, variationID int64, update ProductUpdate) error {
	_, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/products/%d/variations/%d", parentID, variationID), nil, update)
	return err
}

func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, body interface{}) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		text := string(respBody)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: text}
	}

	return respBody, nil
}
