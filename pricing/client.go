// Package pricing implements the client for the retail pricing lookup
// service consumed by the pricing specialist. The service is an external
// REST API (Azure Retail Prices shape): results are filtered server-side via
// an OData-style $filter string and paged, so callers must follow the page
// cursor to assemble a complete answer.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public retail prices endpoint.
	DefaultBaseURL = "https://prices.azure.com/api/retail/prices"

	// maxPageSize is the per-call item cap. The service never returns more
	// than this many items per page regardless of what the caller asks for.
	maxPageSize = 10

	// listTopCount is how many rows the service-name listing samples.
	listTopCount = 1000
)

// Item is one priced SKU row.
type Item struct {
	ServiceName   string  `json:"serviceName"`
	SKU           string  `json:"skuName"`
	UnitPrice     float64 `json:"unitPrice"`
	Currency      string  `json:"currencyCode"`
	UnitOfMeasure string  `json:"unitOfMeasure"`
	Region        string  `json:"armRegionName"`
}

// Page is one page of pricing results. When HasMore is true, passing
// NextCursor back via Query.Cursor fetches the following page.
type Page struct {
	Items      []Item
	HasMore    bool
	NextCursor string
}

// Query filters a pricing lookup. ServiceName is required; Region and
// Currency are optional narrowing filters. Cursor resumes a paged lookup.
type Query struct {
	ServiceName string
	Region      string
	Currency    string
	Cursor      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the pricing endpoint, e.g. for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// Client queries the retail pricing service. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a pricing client against the public endpoint.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse is the wire shape of the pricing service.
type apiResponse struct {
	Items        []Item `json:"Items"`
	NextPageLink string `json:"NextPageLink"`
	Count        int    `json:"Count"`
}

// ListServiceNames returns the sorted unique service names observed in a
// sample of the catalog.
func (c *Client) ListServiceNames(ctx context.Context) ([]string, error) {
	requestURL := fmt.Sprintf("%s?$top=%d", c.baseURL, listTopCount)

	resp, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, &ServiceError{Op: "list service names", Err: err}
	}

	unique := make(map[string]bool, len(resp.Items))
	for _, item := range resp.Items {
		if item.ServiceName != "" {
			unique[item.ServiceName] = true
		}
	}

	names := make([]string, 0, len(unique))
	for name := range unique {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetPricing fetches one page of pricing for the query. A first page with no
// matching items is reported as *NotFoundError, never as an empty success.
// Transport and decode failures are wrapped in *ServiceError and are not
// retried here; retry policy belongs to the caller.
func (c *Client) GetPricing(ctx context.Context, q Query) (Page, error) {
	requestURL := q.Cursor
	if requestURL == "" {
		requestURL = fmt.Sprintf("%s?$filter=%s&$top=%d",
			c.baseURL, url.QueryEscape(buildFilter(q)), maxPageSize)
	}

	resp, err := c.get(ctx, requestURL)
	if err != nil {
		return Page{}, &ServiceError{Op: "get pricing for " + q.ServiceName, Err: err}
	}

	if len(resp.Items) == 0 && q.Cursor == "" {
		return Page{}, &NotFoundError{ServiceName: q.ServiceName, Region: q.Region, Currency: q.Currency}
	}

	return Page{
		Items:      resp.Items,
		HasMore:    resp.NextPageLink != "",
		NextCursor: resp.NextPageLink,
	}, nil
}

// GetAllPricing follows the page cursor until HasMore is false and returns
// the assembled item list.
func (c *Client) GetAllPricing(ctx context.Context, q Query) ([]Item, error) {
	var items []Item
	for {
		page, err := c.GetPricing(ctx, q)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)

		if !page.HasMore {
			return items, nil
		}
		q.Cursor = page.NextCursor
	}
}

func (c *Client) get(ctx context.Context, requestURL string) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded apiResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &decoded, nil
}

// buildFilter assembles the OData-style filter string from the query.
func buildFilter(q Query) string {
	filters := []string{fmt.Sprintf("serviceName eq '%s'", q.ServiceName)}
	if q.Region != "" {
		filters = append(filters, fmt.Sprintf("armRegionName eq '%s'", q.Region))
	}
	if q.Currency != "" {
		filters = append(filters, fmt.Sprintf("currencyCode eq '%s'", q.Currency))
	}
	return strings.Join(filters, " and ")
}
