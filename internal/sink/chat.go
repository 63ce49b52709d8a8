package sink

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/AngelCh415/outreach-report/internal/models"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Chat posts the rendered summary as plain text to a webhook-style endpoint,
// signed the same way inbound slash commands are verified.
type Chat struct {
	url    string
	secret string
	c      HTTPClient
}

func NewChat(url, secret string, c HTTPClient) *Chat {
	return &Chat{url: url, secret: secret, c: c}
}

func (s *Chat) Name() string { return "chat" }

func (s *Chat) Deliver(ctx context.Context, rep models.DailyReport) error {
	body := rep.Summary()
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(body))
	sig := hex.EncodeToString(mac.Sum(nil))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: chat: %v", models.ErrSink, err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("X-Signature", sig)
	resp, err := s.c.Do(req)
	if err != nil {
		return fmt.Errorf("%w: chat: %v", models.ErrSink, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: chat: non-2xx %d", models.ErrSink, resp.StatusCode)
	}
	return nil
}
