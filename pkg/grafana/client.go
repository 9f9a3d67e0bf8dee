// Package grafana is the render-backend client: it fetches dashboard
// definitions and rasterizes single panels through the image render
// endpoint.
package grafana

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

	"github.com/rs/zerolog/log"

	"github.com/rcourtman/dashreport/internal/report"
)

// ClientConfig holds configuration for the dashboard API client.
type ClientConfig struct {
	// BaseURL of the dashboard server, with or without scheme.
	BaseURL string
	// APIToken is sent as a bearer token when set.
	APIToken string
	// Timeout for each HTTP call. Zero defaults to 60 seconds.
	Timeout time.Duration
}

// Client talks to the dashboard server's HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a dashboard API client.
func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("grafana base URL is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
		log.Debug().Str("url", base).Msg("No protocol specified in server URL, defaulting to HTTP")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimSuffix(base, "/"),
		token:      cfg.APIToken,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GetDashboard fetches a dashboard definition by uid.
func (c *Client) GetDashboard(ctx context.Context, uid string) (*Dashboard, error) {
	if uid == "" {
		return nil, report.ErrMissingDashboard
	}

	body, err := c.get(ctx, "/api/dashboards/uid/"+url.PathEscape(uid), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching dashboard %s: %w", uid, err)
	}

	var resp dashboardResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding dashboard %s: %w", uid, err)
	}

	return resp.toModel(uid), nil
}

// RenderPanel implements report.RenderBackend against the single-panel
// render endpoint. The returned bytes are the raw image payload.
func (c *Client) RenderPanel(ctx context.Context, req report.RenderRequest) ([]byte, error) {
	q := url.Values{}
	q.Set("panelId", req.PanelID)
	q.Set("from", req.From)
	q.Set("to", req.To)
	q.Set("width", strconv.Itoa(req.Width))
	q.Set("height", strconv.Itoa(req.Height))
	if req.Theme != "" {
		q.Set("theme", req.Theme)
	}
	if req.Timezone != "" {
		q.Set("tz", req.Timezone)
	}
	for _, v := range req.Variables {
		q.Add("var-"+v.Name, v.Value)
	}

	body, err := c.get(ctx, "/render/d-solo/"+url.PathEscape(req.DashboardUID)+"/_", q)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json, image/png, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
	}
	return body, nil
}
