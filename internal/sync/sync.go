// Package sync mirrors completed sales to an external spreadsheet
// webhook. Pushes are strictly best-effort: the ledger write has always
// committed before a push starts, and push failures are logged and
// journaled but never surfaced to the checkout path.
package sync

import (
	"encoding/binary"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/panjf2000/ants/v2"
	"github.com/talkincode/smartpos/internal/domain"
	"github.com/talkincode/smartpos/internal/pos"
	"github.com/talkincode/smartpos/pkg/common"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const (
	pushTimeout = 10 * time.Second
	poolSize    = 4

	journalBucket = "sync_journal"
	journalKeep   = 200
)

// Settings is the slice of application settings the adapter needs.
type Settings interface {
	GetSettingsStringValue(category, key string) string
}

// Payload is the flattened row appended to the external sheet.
// One row per completed sale.
type Payload struct {
	ID            string `json:"id"`
	Timestamp     string `json:"timestamp"`
	CustomerName  string `json:"customerName"`
	Items         string `json:"items"`
	TotalAmount   int64  `json:"totalAmount"`
	PaymentMethod string `json:"paymentMethod"`
}

// JournalEntry is one diagnostic record of a push attempt. The journal
// exists purely for the settings screen; it is never replayed.
type JournalEntry struct {
	Ref   string    `json:"ref"`
	URL   string    `json:"url"`
	At    time.Time `json:"at"`
	OK    bool      `json:"ok"`
	Error string    `json:"error,omitempty"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Service is the external sync adapter.
type Service struct {
	settings Settings
	pool     *ants.Pool
	journal  *bbolt.DB
}

// New creates the adapter and opens its journal under workdir/data.
func New(settings Settings, workdir string) (*Service, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	jdb, err := bbolt.Open(filepath.Join(workdir, "data", "sync_journal.db"), 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		pool.Release()
		return nil, err
	}
	err = jdb.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(journalBucket))
		return err
	})
	if err != nil {
		_ = jdb.Close()
		pool.Release()
		return nil, err
	}
	return &Service{settings: settings, pool: pool, journal: jdb}, nil
}

// SubscribeBus wires the adapter to ledger events so every recorded
// sale is mirrored without the checkout path knowing about it.
func (s *Service) SubscribeBus(bus EventBus.Bus) error {
	return bus.Subscribe(pos.TopicSaleRecorded, func(sale *domain.SaleRecord) {
		s.Submit(sale)
	})
}

// Submit schedules a fire-and-forget push of the sale. It returns
// nothing by contract: the outcome is only ever logged. With no
// endpoint configured it is a no-op and performs no network call.
func (s *Service) Submit(sale *domain.SaleRecord) {
	url := s.endpoint()
	if url == "" {
		return
	}
	payload := BuildPayload(sale)
	if err := s.pool.Submit(func() { s.push(url, payload) }); err != nil {
		zap.L().Warn("sync: submit rejected", zap.String("ref", payload.ID), zap.Error(err))
	}
}

// SubmitTest sends a synthetic payload through the real push path so
// operators can verify the webhook wiring without ringing up a sale.
// Returns false when no endpoint is configured.
func (s *Service) SubmitTest() bool {
	url := s.endpoint()
	if url == "" {
		return false
	}
	payload := Payload{
		ID:            "KIEM-TRA",
		Timestamp:     common.FormatVNDateTime(time.Now()),
		CustomerName:  "Kiểm tra hệ thống",
		Items:         "Đang test đồng bộ Sheet 1",
		TotalAmount:   0,
		PaymentMethod: "TEST",
	}
	if err := s.pool.Submit(func() { s.push(url, payload) }); err != nil {
		zap.L().Warn("sync: test submit rejected", zap.Error(err))
	}
	return true
}

// BuildPayload flattens a sale into the webhook row format.
func BuildPayload(sale *domain.SaleRecord) Payload {
	parts := make([]string, 0, len(sale.Items))
	for _, it := range sale.Items {
		parts = append(parts, it.Name+" (x"+strconv.Itoa(it.Quantity)+")")
	}
	return Payload{
		ID:            sale.Ref,
		Timestamp:     common.FormatVNDateTime(sale.Timestamp),
		CustomerName:  sale.CustomerName,
		Items:         strings.Join(parts, ", "),
		TotalAmount:   sale.TotalAmount,
		PaymentMethod: PaymentLabel(sale.PaymentMethod),
	}
}

// PaymentLabel maps the stored payment method onto the localized label
// the sheet displays.
func PaymentLabel(method string) string {
	if method == domain.PaymentCash {
		return "TIỀN MẶT"
	}
	return "CHUYỂN KHOẢN"
}

func (s *Service) endpoint() string {
	if s.settings == nil {
		return ""
	}
	return strings.TrimSpace(s.settings.GetSettingsStringValue("sync", "endpoint_url"))
}

// push performs the POST. The target is a script endpoint that returns
// nothing useful, so only transport errors are observable.
func (s *Service) push(url string, payload Payload) {
	err := gout.POST(url).
		SetJSON(payload).
		SetTimeout(pushTimeout).
		Do()
	if err != nil {
		zap.L().Warn("sync: push failed", zap.String("ref", payload.ID), zap.Error(err))
	} else {
		zap.L().Info("sync: push sent", zap.String("ref", payload.ID))
	}
	s.record(JournalEntry{
		Ref: payload.ID,
		URL: url,
		At:  time.Now(),
		OK:  err == nil,
		Error: func() string {
			if err != nil {
				return err.Error()
			}
			return ""
		}(),
	})
}

func (s *Service) record(entry JournalEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	err = s.journal.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(journalBucket))
		seq, _ := b.NextSequence()
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		if err := b.Put(key, data); err != nil {
			return err
		}
		// keep the journal bounded
		c := b.Cursor()
		for k, _ := c.First(); k != nil && b.Stats().KeyN > journalKeep; k, _ = c.First() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		zap.L().Warn("sync: journal write failed", zap.Error(err))
	}
}

// Recent returns up to n journal entries, newest first.
func (s *Service) Recent(n int) ([]JournalEntry, error) {
	var out []JournalEntry
	err := s.journal.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(journalBucket)).Cursor()
		for k, v := c.Last(); k != nil && len(out) < n; k, v = c.Prev() {
			var e JournalEntry
			if err := json.Unmarshal(v, &e); err != nil {
				continue
			}
			out = append(out, e)
		}
		return nil
	})
	return out, err
}

// Close releases the worker pool and the journal.
func (s *Service) Close() error {
	s.pool.Release()
	return s.journal.Close()
}
