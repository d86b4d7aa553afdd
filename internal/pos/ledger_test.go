package pos

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/smartpos/internal/domain"
	"github.com/talkincode/smartpos/pkg/common"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&domain.MenuItem{}, &domain.SaleRecord{}, &domain.SaleItem{}); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestBuildSaleRecordEmptyCart(t *testing.T) {
	_, err := BuildSaleRecord(nil, domain.PaymentCash, "", time.Now())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestBuildSaleRecordInvalidPayment(t *testing.T) {
	lines := []CartLine{{ItemID: 1, Name: "Cà phê Đen", Price: 20000, Quantity: 1}}
	_, err := BuildSaleRecord(lines, "CARD", "", time.Now())
	if !errors.Is(err, ErrInvalidPayment) {
		t.Fatalf("expected ErrInvalidPayment, got %v", err)
	}
}

func TestBuildSaleRecordTotalsAndDefaults(t *testing.T) {
	lines := []CartLine{
		{ItemID: 1, Name: "Cà phê Đen", Price: 20000, Quantity: 2},
		{ItemID: 2, Name: "Trà Vải", Price: 35000, Quantity: 1},
	}
	sale, err := BuildSaleRecord(lines, domain.PaymentTransfer, "  ", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if sale.TotalAmount != 75000 {
		t.Errorf("expected total 75000, got %d", sale.TotalAmount)
	}
	if sale.CustomerName != domain.DefaultCustomerName {
		t.Errorf("blank customer must default to %q, got %q", domain.DefaultCustomerName, sale.CustomerName)
	}
	if len(sale.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(sale.Items))
	}
	if sale.Items[0].Sort != 0 || sale.Items[1].Sort != 1 {
		t.Error("items must keep cart order")
	}
	if sale.Ref == "" {
		t.Error("sale must carry a reference code")
	}
}

func TestRecordSaleAppendsAndListsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, nil)

	cart := NewCart()
	cart.Add(domain.MenuItem{ID: 1, Name: "Cà phê Đen", Price: 20000})
	first, err := ledger.RecordSale(cart, domain.PaymentCash, "")
	if err != nil {
		t.Fatal(err)
	}
	if cart.Len() != 0 {
		t.Fatalf("cart must be empty after checkout, got %d lines", cart.Len())
	}

	time.Sleep(10 * time.Millisecond)
	cart.Add(domain.MenuItem{ID: 2, Name: "Trà Vải", Price: 35000})
	second, err := ledger.RecordSale(cart, domain.PaymentTransfer, "Anh Tuấn")
	if err != nil {
		t.Fatal(err)
	}

	sales, total, err := ledger.List(0, 0, time.Time{}, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(sales) != 2 {
		t.Fatalf("expected 2 ledger entries, got total=%d len=%d", total, len(sales))
	}
	if sales[0].Ref != second.Ref || sales[1].Ref != first.Ref {
		t.Errorf("expected newest first, got %s then %s", sales[0].Ref, sales[1].Ref)
	}
	if len(sales[0].Items) != 1 || sales[0].Items[0].Name != "Trà Vải" {
		t.Errorf("items must load with the sale: %+v", sales[0].Items)
	}
}

func TestRecordedSaleSurvivesMenuDeletion(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, nil)

	item := domain.MenuItem{ID: common.UUIDint64(), Name: "Bạc Xỉu", Price: 28000, Category: "Cà phê"}
	if err := db.Create(&item).Error; err != nil {
		t.Fatal(err)
	}

	cart := NewCart()
	cart.Add(item)
	sale, err := ledger.RecordSale(cart, domain.PaymentCash, "")
	if err != nil {
		t.Fatal(err)
	}

	if err := db.Delete(&domain.MenuItem{}, item.ID).Error; err != nil {
		t.Fatal(err)
	}

	sales, _, err := ledger.List(0, 0, time.Time{}, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 1 || sales[0].Ref != sale.Ref {
		t.Fatalf("expected the recorded sale, got %+v", sales)
	}
	if len(sales[0].Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(sales[0].Items))
	}
	if sales[0].Items[0].Name != "Bạc Xỉu" || sales[0].Items[0].Price != 28000 {
		t.Errorf("sale items must outlive the catalog row: %+v", sales[0].Items[0])
	}
}

func TestRecordSaleRestoresCartOnFailure(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, nil)

	cart := NewCart()
	cart.Add(domain.MenuItem{ID: 1, Name: "Cà phê Đen", Price: 20000})

	if _, err := ledger.RecordSale(cart, "CARD", ""); !errors.Is(err, ErrInvalidPayment) {
		t.Fatalf("expected ErrInvalidPayment, got %v", err)
	}
	if cart.Len() != 1 {
		t.Errorf("failed checkout must leave the cart intact, got %d lines", cart.Len())
	}

	var count int64
	db.Model(&domain.SaleRecord{}).Count(&count)
	if count != 0 {
		t.Errorf("failed checkout must not write to the ledger, got %d rows", count)
	}
}

func TestDuplicateSaleRefDetected(t *testing.T) {
	db := newTestDB(t)

	base := domain.SaleRecord{
		Ref:           "SAMERF",
		Timestamp:     time.Now(),
		PaymentMethod: domain.PaymentCash,
		CustomerName:  domain.DefaultCustomerName,
	}
	first := base
	first.ID = common.UUIDint64()
	if err := db.Create(&first).Error; err != nil {
		t.Fatal(err)
	}

	dup := base
	dup.ID = common.UUIDint64()
	err := db.Create(&dup).Error
	// the checkout retry regenerates the ref when it sees this error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestBuildSaleRecordSnapshotsLines(t *testing.T) {
	lines := []CartLine{{ItemID: 1, Name: "Cà phê Đen", Price: 20000, Quantity: 1}}
	sale, err := BuildSaleRecord(lines, domain.PaymentCash, "Anh Tuấn", time.Now())
	if err != nil {
		t.Fatal(err)
	}

	// mutating the source lines must not reach the recorded sale
	lines[0].Name = "changed"
	lines[0].Price = 1

	if sale.Items[0].Name != "Cà phê Đen" || sale.Items[0].Price != 20000 {
		t.Error("sale items must be value snapshots of the cart lines")
	}
	if sale.CustomerName != "Anh Tuấn" {
		t.Errorf("unexpected customer name %q", sale.CustomerName)
	}
}
