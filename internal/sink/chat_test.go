package sink

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AngelCh415/outreach-report/internal/models"
)

func TestChatDeliverySignedBody(t *testing.T) {
	var gotBody, gotSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotSig = r.Header.Get("X-Signature")
		w.WriteHeader(200)
	}))
	defer srv.Close()

	rep := models.DailyReport{
		Date:       "2026-02-25",
		Channels:   models.ChannelCounts{"telegram": 3},
		Categories: models.CategoryCounts{"creator": 1},
	}
	s := NewChat(srv.URL, "shhh", &http.Client{Timeout: 2 * time.Second})
	if err := s.Deliver(context.Background(), rep); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if gotBody != rep.Summary() {
		t.Fatalf("body should be the rendered summary:\n%s", gotBody)
	}
	mac := hmac.New(sha256.New, []byte("shhh"))
	mac.Write([]byte(gotBody))
	if want := hex.EncodeToString(mac.Sum(nil)); gotSig != want {
		t.Fatalf("bad signature: got %s want %s", gotSig, want)
	}
}

func TestChatDeliveryNon2xxIsSinkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewChat(srv.URL, "shhh", &http.Client{Timeout: 2 * time.Second})
	if err := s.Deliver(context.Background(), models.DailyReport{Date: "2026-02-25"}); !errors.Is(err, models.ErrSink) {
		t.Fatalf("expected ErrSink, got %v", err)
	}
}
