package coa

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meridian-erp/meridian-ledger/internal/ledger"
)

// categoryPageSize is the single-page read the category services accept; a
// category is expected to fit in one page.
const categoryPageSize = 10000

// categorySegments maps each synthetic category root to its endpoint path.
var categorySegments = map[string]string{
	ledger.CategoryAssets:      "assets",
	ledger.CategoryRevenues:    "revenues",
	ledger.CategoryLiabilities: "liabilities",
	ledger.CategoryExpenses:    "expenses",
	ledger.CategoryEquities:    "equities",
}

// Client reads the five account category endpoints. It implements
// ledger.ChartSource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a category service client.
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

type categoryResponse struct {
	Data []rawAccount `json:"data"`
}

// FetchChart reads all five categories concurrently. An individual category
// failure degrades to an empty list plus a warning so one unhealthy service
// does not take the whole chart down; the error return stays nil in that
// case.
func (c *Client) FetchChart(ctx context.Context) (ledger.ChartSnapshot, []string, error) {
	results := make([][]ledger.AccountRecord, len(ledger.Categories))
	warnSlots := make([]string, len(ledger.Categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range ledger.Categories {
		g.Go(func() error {
			records, err := c.fetchCategory(gctx, category)
			if err != nil {
				c.logger.Warn("category fetch degraded",
					slog.String("category", category),
					slog.Any("error", err))
				warnSlots[i] = fmt.Sprintf("%s: %v (continuing with empty list)", category, err)
				return nil
			}
			results[i] = records
			return nil
		})
	}
	_ = g.Wait()

	snap := ledger.ChartSnapshot{Categories: make([]ledger.CategoryAccounts, 0, len(ledger.Categories))}
	var warnings []string
	for i, category := range ledger.Categories {
		snap.Categories = append(snap.Categories, ledger.CategoryAccounts{
			Category: category,
			Accounts: results[i],
		})
		if warnSlots[i] != "" {
			warnings = append(warnings, warnSlots[i])
		}
	}
	return snap, warnings, nil
}

func (c *Client) fetchCategory(ctx context.Context, category string) ([]ledger.AccountRecord, error) {
	endpoint := fmt.Sprintf("%s/api/accounts/%s", c.baseURL, categorySegments[category])
	query := url.Values{}
	query.Set("pageIndex", "1")
	query.Set("pageSize", fmt.Sprintf("%d", categoryPageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var payload categoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	records := make([]ledger.AccountRecord, 0, len(payload.Data))
	for _, raw := range payload.Data {
		record := normalizeAccount(raw)
		if record.ID == "" {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
