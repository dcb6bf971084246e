package voucher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meridian-erp/meridian-ledger/internal/ledger"
)

// pageSize is the voucher service page size; pages are fetched sequentially
// because each response's totalPages decides whether another request is
// issued.
const pageSize = 100

// Client reads the voucher service. It implements ledger.VoucherSource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	onPage     func()
}

// NewClient constructs a voucher service client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// WithPageObserver registers a callback invoked once per fetched page.
func (c *Client) WithPageObserver(fn func()) *Client {
	c.onPage = fn
	return c
}

type pageResponse struct {
	Data []rawVoucher `json:"data"`
	Misc struct {
		TotalPages flexFloat `json:"totalPages"`
	} `json:"misc"`
}

// FetchVouchers concatenates every page into one in-memory list. Any page
// failure aborts the whole read; the engine never works on a partial voucher
// stream.
func (c *Client) FetchVouchers(ctx context.Context) ([]ledger.Voucher, error) {
	var vouchers []ledger.Voucher
	totalPages := 1
	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		page, err := c.fetchPage(ctx, pageIndex)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageIndex, err)
		}
		if c.onPage != nil {
			c.onPage()
		}
		if reported := int(page.Misc.TotalPages); reported > totalPages {
			totalPages = reported
		}
		for _, raw := range page.Data {
			vouchers = append(vouchers, normalizeVoucher(raw))
		}
	}
	c.logger.Debug("voucher snapshot fetched",
		slog.Int("vouchers", len(vouchers)),
		slog.Int("pages", totalPages))
	return vouchers, nil
}

func (c *Client) fetchPage(ctx context.Context, pageIndex int) (pageResponse, error) {
	query := url.Values{}
	query.Set("pageIndex", strconv.Itoa(pageIndex))
	query.Set("pageSize", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/vouchers?"+query.Encode(), nil)
	if err != nil {
		return pageResponse{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pageResponse{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return pageResponse{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	var payload pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return pageResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}
