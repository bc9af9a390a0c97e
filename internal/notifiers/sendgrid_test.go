package notifiers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/neonlabs/contact-backend/internal/config"
	"github.com/neonlabs/contact-backend/internal/notifiers"
)

type recordedRequest struct {
	authorization string
	contentType   string
	body          map[string]interface{}
}

// sendGridRecorder is an httptest handler that captures every request and
// answers with a fixed status and body.
type sendGridRecorder struct {
	mu       sync.Mutex
	status   int
	respBody string
	requests []recordedRequest
}

func (r *sendGridRecorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	raw, _ := io.ReadAll(req.Body)
	var parsed map[string]interface{}
	_ = json.Unmarshal(raw, &parsed)

	r.mu.Lock()
	r.requests = append(r.requests, recordedRequest{
		authorization: req.Header.Get("Authorization"),
		contentType:   req.Header.Get("Content-Type"),
		body:          parsed,
	})
	r.mu.Unlock()

	w.WriteHeader(r.status)
	_, _ = io.WriteString(w, r.respBody)
}

func (r *sendGridRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func newSendGridSender(t *testing.T, cfg *config.Config, endpoint string) *notifiers.SendGridSender {
	t.Helper()
	logger := zerolog.New(io.Discard)
	return notifiers.NewSendGridSender(cfg, &logger, notifiers.WithSendGridEndpoint(endpoint))
}

func TestSendGridNotConfigured(t *testing.T) {
	recorder := &sendGridRecorder{status: http.StatusAccepted}
	server := httptest.NewServer(recorder)
	defer server.Close()

	sender := newSendGridSender(t, &config.Config{}, server.URL)

	if sender.Configured() {
		t.Fatalf("sender without api key must not report configured")
	}
	if err := sender.Send(context.Background(), testMessage()); !errors.Is(err, notifiers.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if recorder.count() != 0 {
		t.Fatalf("unconfigured sender must not touch the network, saw %d requests", recorder.count())
	}
}

func TestSendGridAcceptedStatuses(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusAccepted} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			recorder := &sendGridRecorder{status: status}
			server := httptest.NewServer(recorder)
			defer server.Close()

			cfg := &config.Config{SendGrid: config.SendGridConfig{APIKey: "SG.test-key"}}
			sender := newSendGridSender(t, cfg, server.URL)

			if err := sender.Send(context.Background(), testMessage()); err != nil {
				t.Fatalf("unexpected send error: %v", err)
			}
		})
	}
}

func TestSendGridRepeatedSendsAreIndependent(t *testing.T) {
	recorder := &sendGridRecorder{status: http.StatusAccepted}
	server := httptest.NewServer(recorder)
	defer server.Close()

	cfg := &config.Config{SendGrid: config.SendGridConfig{APIKey: "SG.test-key"}}
	sender := newSendGridSender(t, cfg, server.URL)

	msg := testMessage()
	for i := 0; i < 2; i++ {
		if err := sender.Send(context.Background(), msg); err != nil {
			t.Fatalf("send %d: unexpected error: %v", i+1, err)
		}
	}

	if recorder.count() != 2 {
		t.Fatalf("expected two distinct outbound requests, got %d", recorder.count())
	}
}

func TestSendGridPayloadShape(t *testing.T) {
	recorder := &sendGridRecorder{status: http.StatusAccepted}
	server := httptest.NewServer(recorder)
	defer server.Close()

	cfg := &config.Config{
		SendGrid: config.SendGridConfig{APIKey: "SG.test-key"},
		Email:    config.EmailConfig{From: "team@example.com", FromName: "Team"},
	}
	sender := newSendGridSender(t, cfg, server.URL)

	if err := sender.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}

	if recorder.count() != 1 {
		t.Fatalf("expected one request, got %d", recorder.count())
	}
	req := recorder.requests[0]

	if req.authorization != "Bearer SG.test-key" {
		t.Fatalf("unexpected authorization header: %q", req.authorization)
	}
	if req.contentType != "application/json" {
		t.Fatalf("unexpected content type: %q", req.contentType)
	}

	from, _ := req.body["from"].(map[string]interface{})
	if from["email"] != "team@example.com" || from["name"] != "Team" {
		t.Fatalf("unexpected from block: %v", from)
	}
	if req.body["subject"] != "subject" {
		t.Fatalf("unexpected subject: %v", req.body["subject"])
	}

	content, _ := req.body["content"].([]interface{})
	if len(content) != 1 {
		t.Fatalf("expected exactly one content part, got %v", req.body["content"])
	}
	part, _ := content[0].(map[string]interface{})
	if part["type"] != "text/html" || part["value"] != "<p>body</p>" {
		t.Fatalf("unexpected content part: %v", part)
	}
}

func TestSendGridDefaultSenderIdentity(t *testing.T) {
	recorder := &sendGridRecorder{status: http.StatusAccepted}
	server := httptest.NewServer(recorder)
	defer server.Close()

	cfg := &config.Config{SendGrid: config.SendGridConfig{APIKey: "SG.test-key"}}
	sender := newSendGridSender(t, cfg, server.URL)

	if err := sender.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}

	from, _ := recorder.requests[0].body["from"].(map[string]interface{})
	if from["email"] != "noreply@neonlabs.app" || from["name"] != "Neon Labs" {
		t.Fatalf("expected literal fallback identity, got %v", from)
	}
}

func TestSendGridRejectionTruncatesBody(t *testing.T) {
	longBody := "quota exceeded..." + strings.Repeat("x", 300) + "SENTINEL"
	recorder := &sendGridRecorder{status: http.StatusInternalServerError, respBody: longBody}
	server := httptest.NewServer(recorder)
	defer server.Close()

	cfg := &config.Config{SendGrid: config.SendGridConfig{APIKey: "SG.test-key"}}
	sender := newSendGridSender(t, cfg, server.URL)

	err := sender.Send(context.Background(), testMessage())
	if err == nil {
		t.Fatalf("expected error on status 500")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected status in error, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected truncated body prefix in error, got %q", err.Error())
	}
	if strings.Contains(err.Error(), "SENTINEL") {
		t.Fatalf("expected body truncated to 200 characters, got %q", err.Error())
	}
}

func TestSendGridTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Refuse connections from now on.

	cfg := &config.Config{SendGrid: config.SendGridConfig{APIKey: "SG.test-key"}}
	sender := newSendGridSender(t, cfg, server.URL)

	if err := sender.Send(context.Background(), testMessage()); err == nil {
		t.Fatalf("expected transport failure to surface as an error")
	}
}
