package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/AngelCh415/outreach-report/internal/models"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// CRM fetches pre-classified daily totals from the CRM's reporting endpoints:
//
//	GET {base}/daily/categories?date=YYYY-MM-DD -> {"categories": {"creator": 12, ...}}
//	GET {base}/daily/channels?date=YYYY-MM-DD   -> {"channels": {"whatsapp": 7, ...}}
//
// Query and classification live on the CRM side; this adapter only moves the
// contracted shape.
type CRM struct {
	base string
	c    HTTPClient
}

func NewCRM(base string, c HTTPClient) *CRM {
	return &CRM{base: base, c: c}
}

func (s *CRM) Name() string { return "crm" }

type categoryResp struct {
	Categories map[string]int `json:"categories"`
}

type channelResp struct {
	Channels map[string]int `json:"channels"`
}

func (s *CRM) FetchCategoryCounts(ctx context.Context, date string) (models.CategoryCounts, error) {
	var resp categoryResp
	if err := getJSON(ctx, s.c, s.endpoint("daily/categories", date), &resp); err != nil {
		return nil, fmt.Errorf("%w: crm categories: %v", models.ErrSourceUnavailable, err)
	}
	return models.CategoryCounts(resp.Categories), nil
}

func (s *CRM) FetchChannelCounts(ctx context.Context, date string) (models.ChannelCounts, error) {
	var resp channelResp
	if err := getJSON(ctx, s.c, s.endpoint("daily/channels", date), &resp); err != nil {
		return nil, fmt.Errorf("%w: crm channels: %v", models.ErrSourceUnavailable, err)
	}
	return models.ChannelCounts(resp.Channels), nil
}

func (s *CRM) endpoint(path, date string) string {
	return s.base + "/" + path + "?date=" + url.QueryEscape(date)
}

// getJSON is a single attempt; the orchestrator owns the retry policy.
func getJSON(ctx context.Context, c HTTPClient, u string, dst any) error {
	if u == "" {
		return errors.New("empty url")
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(b))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
