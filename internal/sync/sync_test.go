package sync

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/talkincode/smartpos/internal/domain"
)

type stubSettings struct {
	endpoint string
}

func (s *stubSettings) GetSettingsStringValue(category, key string) string {
	if category == "sync" && key == "endpoint_url" {
		return s.endpoint
	}
	return ""
}

func newTestService(t *testing.T, endpoint string) *Service {
	t.Helper()
	workdir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(workdir, "data"), 0755); err != nil {
		t.Fatal(err)
	}
	svc, err := New(&stubSettings{endpoint: endpoint}, workdir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func sampleSale() *domain.SaleRecord {
	return &domain.SaleRecord{
		ID:            1,
		Ref:           "AB12CD",
		Timestamp:     time.Date(2026, 8, 30, 14, 30, 5, 0, time.Local),
		TotalAmount:   75000,
		PaymentMethod: domain.PaymentCash,
		CustomerName:  domain.DefaultCustomerName,
		Items: []domain.SaleItem{
			{Name: "Cà phê Đen", Price: 20000, Quantity: 2},
			{Name: "Trà Vải", Price: 35000, Quantity: 1},
		},
	}
}

func TestBuildPayloadFormat(t *testing.T) {
	payload := BuildPayload(sampleSale())

	if payload.ID != "AB12CD" {
		t.Errorf("unexpected id %q", payload.ID)
	}
	if payload.Items != "Cà phê Đen (x2), Trà Vải (x1)" {
		t.Errorf("unexpected items line %q", payload.Items)
	}
	if payload.Timestamp != "14:30:05 30/8/2026" {
		t.Errorf("unexpected timestamp %q", payload.Timestamp)
	}
	if payload.TotalAmount != 75000 {
		t.Errorf("unexpected total %d", payload.TotalAmount)
	}
	if payload.PaymentMethod != "TIỀN MẶT" {
		t.Errorf("unexpected payment label %q", payload.PaymentMethod)
	}
}

func TestPaymentLabel(t *testing.T) {
	if PaymentLabel(domain.PaymentCash) != "TIỀN MẶT" {
		t.Error("cash label mismatch")
	}
	if PaymentLabel(domain.PaymentTransfer) != "CHUYỂN KHOẢN" {
		t.Error("transfer label mismatch")
	}
}

func TestSubmitWithoutEndpointIsNoop(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	svc := newTestService(t, "")
	svc.Submit(sampleSale())
	time.Sleep(100 * time.Millisecond)

	if called {
		t.Error("no network call may happen without a configured endpoint")
	}
	entries, err := svc.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("no journal entries expected, got %d", len(entries))
	}
}

func TestPushPostsPayloadAndJournals(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	svc.push(server.URL, BuildPayload(sampleSale()))

	if !strings.Contains(body, `"id":"AB12CD"`) {
		t.Errorf("posted body missing sale ref: %s", body)
	}
	if !strings.Contains(body, "TIỀN MẶT") {
		t.Errorf("posted body missing payment label: %s", body)
	}

	entries, err := svc.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(entries))
	}
	if !entries[0].OK || entries[0].Ref != "AB12CD" {
		t.Errorf("unexpected journal entry: %+v", entries[0])
	}
}

func TestPushFailureIsJournaledOnly(t *testing.T) {
	svc := newTestService(t, "http://127.0.0.1:1")

	// must not panic or surface the error
	svc.push("http://127.0.0.1:1", BuildPayload(sampleSale()))

	entries, err := svc.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(entries))
	}
	if entries[0].OK || entries[0].Error == "" {
		t.Errorf("failed push must journal the error: %+v", entries[0])
	}
}

func TestSubmitTestWithoutEndpoint(t *testing.T) {
	svc := newTestService(t, "")
	if svc.SubmitTest() {
		t.Error("test push must report false without an endpoint")
	}
}
