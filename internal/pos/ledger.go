package pos

import (
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/talkincode/smartpos/internal/domain"
	"github.com/talkincode/smartpos/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TopicSaleRecorded is published on the event bus after a sale has been
// committed to the ledger. Subscribers must treat it as informational:
// the checkout has already succeeded and nothing downstream may undo it.
const TopicSaleRecorded = "sale.recorded"

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidPayment = errors.New("invalid payment method")
)

// BuildSaleRecord assembles an immutable sale from cart lines. Pure:
// no persistence, no side effects. The returned record owns deep copies
// of the lines, so later catalog changes cannot reach into it.
func BuildSaleRecord(lines []CartLine, paymentMethod, customerName string, now time.Time) (*domain.SaleRecord, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if paymentMethod != domain.PaymentCash && paymentMethod != domain.PaymentTransfer {
		return nil, ErrInvalidPayment
	}

	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		customerName = domain.DefaultCustomerName
	}

	sale := &domain.SaleRecord{
		ID:            common.UUIDint64(),
		Ref:           common.SaleRef(),
		Timestamp:     now,
		PaymentMethod: paymentMethod,
		CustomerName:  customerName,
	}
	for i, ln := range lines {
		sale.Items = append(sale.Items, domain.SaleItem{
			ID:       common.UUIDint64(),
			SaleID:   sale.ID,
			Sort:     i,
			Name:     ln.Name,
			Price:    ln.Price,
			Quantity: ln.Quantity,
		})
		sale.TotalAmount += ln.Price * int64(ln.Quantity)
	}
	return sale, nil
}

// Ledger persists completed sales and serves the history views.
type Ledger struct {
	db  *gorm.DB
	bus EventBus.Bus
}

func NewLedger(db *gorm.DB, bus EventBus.Bus) *Ledger {
	return &Ledger{db: db, bus: bus}
}

// saleRefRetries bounds how often a colliding sale ref is regenerated
// before the checkout fails.
const saleRefRetries = 3

// RecordSale converts the cart into a SaleRecord, commits it and
// announces it on the bus. The cart lines are taken atomically up
// front and restored on any failure, so a concurrent add on the same
// terminal is never dropped and a second concurrent checkout sees an
// empty cart instead of the same lines. The bus publish is
// fire-and-forget; whatever subscribers do with the record cannot fail
// the checkout.
func (l *Ledger) RecordSale(cart *Cart, paymentMethod, customerName string) (*domain.SaleRecord, error) {
	lines := cart.TakeAll()
	sale, err := BuildSaleRecord(lines, paymentMethod, customerName, time.Now())
	if err != nil {
		cart.Restore(lines)
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		err = l.db.Create(sale).Error
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < saleRefRetries {
			sale.Ref = common.SaleRef()
			continue
		}
		cart.Restore(lines)
		return nil, errors.Wrap(err, "record sale")
	}

	zap.L().Info("sale recorded",
		zap.String("ref", sale.Ref),
		zap.Int64("total", sale.TotalAmount),
		zap.String("payment", sale.PaymentMethod))

	if l.bus != nil {
		l.bus.Publish(TopicSaleRecorded, sale)
	}
	return sale, nil
}

// List returns sales newest first, with item snapshots attached.
// Zero time bounds mean unbounded.
func (l *Ledger) List(limit, offset int, from, to time.Time) ([]domain.SaleRecord, int64, error) {
	query := l.db.Model(&domain.SaleRecord{})
	if !from.IsZero() {
		query = query.Where("timestamp >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("timestamp < ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []domain.SaleRecord
	q := query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort ASC")
	}).Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&sales).Error; err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// All returns the full ledger newest first. Used by the aggregate views
// and the insight adapter, which both operate over the whole history.
func (l *Ledger) All() ([]domain.SaleRecord, error) {
	sales, _, err := l.List(0, 0, time.Time{}, time.Time{})
	return sales, err
}
