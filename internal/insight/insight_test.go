package insight

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/talkincode/smartpos/internal/domain"
)

type stubSettings struct {
	apiKey string
	model  string
}

func (s *stubSettings) GetSettingsStringValue(category, key string) string {
	if category != "insight" {
		return ""
	}
	switch key {
	case "api_key":
		return s.apiKey
	case "model":
		return s.model
	}
	return ""
}

func sampleSales() []domain.SaleRecord {
	return []domain.SaleRecord{
		{
			Timestamp:   time.Date(2026, 8, 30, 9, 15, 0, 0, time.Local),
			TotalAmount: 45000,
			Items: []domain.SaleItem{
				{Name: "Cà phê Sữa", Quantity: 1},
				{Name: "Cà phê Đen", Quantity: 1},
			},
		},
	}
}

func TestSummarizeEmptyLedger(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	svc := NewWithBaseURL(&stubSettings{apiKey: "k"}, server.URL)
	got := svc.Summarize(nil)
	if got != MsgNoData {
		t.Errorf("expected fixed no-data notice, got %q", got)
	}
	if called {
		t.Error("empty ledger must not call the model")
	}
}

func TestSummarizeReturnsModelText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "k" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Cà phê bán chạy nhất."}]}}]}`))
	}))
	defer server.Close()

	svc := NewWithBaseURL(&stubSettings{apiKey: "k", model: "test-model"}, server.URL)
	got := svc.Summarize(sampleSales())
	if got != "Cà phê bán chạy nhất." {
		t.Errorf("expected model text passed through, got %q", got)
	}
}

func TestSummarizeConnectionError(t *testing.T) {
	svc := NewWithBaseURL(&stubSettings{apiKey: "k"}, "http://127.0.0.1:1")
	got := svc.Summarize(sampleSales())
	if got != MsgConnectErr {
		t.Errorf("expected fixed connection notice, got %q", got)
	}
}

func TestSummarizeErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewWithBaseURL(&stubSettings{apiKey: "k"}, server.URL)
	got := svc.Summarize(sampleSales())
	if got != MsgConnectErr {
		t.Errorf("expected fixed connection notice, got %q", got)
	}
}

func TestSummarizeBlankReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	svc := NewWithBaseURL(&stubSettings{apiKey: "k"}, server.URL)
	got := svc.Summarize(sampleSales())
	if got != MsgEmptyReply {
		t.Errorf("expected fixed empty-reply notice, got %q", got)
	}
}

func TestSummarizeMissingAPIKey(t *testing.T) {
	svc := New(&stubSettings{})
	got := svc.Summarize(sampleSales())
	if got != MsgConnectErr {
		t.Errorf("expected fixed connection notice, got %q", got)
	}
}

func TestBuildPromptEmbedsSalesData(t *testing.T) {
	prompt, err := BuildPrompt(sampleSales())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(prompt, "Cà phê Sữa x1") {
		t.Errorf("prompt missing item summary: %s", prompt)
	}
	if !strings.Contains(prompt, "45000") {
		t.Errorf("prompt missing total: %s", prompt)
	}
	if !strings.Contains(prompt, "tiếng Việt") {
		t.Errorf("prompt must ask for a Vietnamese analysis")
	}
}
