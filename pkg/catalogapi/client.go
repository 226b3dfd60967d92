package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// API is the read-only remote catalog the Catalog Store loads from.
type API interface {
	ListProducts(ctx context.Context, limit int) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListCategoryProducts(ctx context.Context, slug string) ([]models.Product, error)
	Ping(ctx context.Context) error
}

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog api %s returned status %d", e.URL, e.StatusCode)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient returns a traced client. A zero timeout means none.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	}
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}

	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type productPage struct {
	Products *[]models.Product `json:"products"`
	Total    int               `json:"total"`
}

func (c *Client) ListProducts(ctx context.Context, limit int) ([]models.Product, error) {

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	return c.products(ctx, "/products?"+query.Encode())
}

func (c *Client) ListCategoryProducts(ctx context.Context, slug string) ([]models.Product, error) {
	return c.products(ctx, "/products/category/"+url.PathEscape(slug))
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {

	var categories []models.Category

	if err := c.get(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}

	if categories == nil {
		return nil, fmt.Errorf("catalog api returned no category list")
	}

	return categories, nil
}

// Ping checks that the catalog answers at all.
func (c *Client) Ping(ctx context.Context) error {

	var page productPage

	return c.get(ctx, "/products?limit=1&select=id", &page)
}

func (c *Client) products(ctx context.Context, path string) ([]models.Product, error) {

	var page productPage

	if err := c.get(ctx, path, &page); err != nil {
		return nil, err
	}

	if page.Products == nil {
		return nil, fmt.Errorf("catalog api response for %s has no products field", path)
	}

	return *page.Products, nil
}

func (c *Client) get(ctx context.Context, path string, dest any) error {

	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("malformed catalog response from %s: %w", endpoint, err)
	}

	return nil
}
