package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client calls the exchangerate-api latest endpoint. The free tier needs
// no credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a client against the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type latestResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// FetchJPYToTWD returns how many TWD one JPY buys right now.
func (c *Client) FetchJPYToTWD(ctx context.Context) (float64, error) {
	url := c.baseURL + "/JPY"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build exchange rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call exchange rate api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("read exchange rate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("exchange rate api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed latestResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("decode exchange rate response: %w", err)
	}
	rate, ok := parsed.Rates["TWD"]
	if !ok {
		return 0, fmt.Errorf("exchange rate response missing TWD rate")
	}
	return rate, nil
}
