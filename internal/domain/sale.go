package domain

import "time"

// Payment methods accepted at the register.
const (
	PaymentCash     = "CASH"
	PaymentTransfer = "TRANSFER"
)

// DefaultCustomerName is used when the cashier leaves the name blank.
const DefaultCustomerName = "Khách lẻ"

// SaleRecord is one completed checkout. Records are immutable once
// created; the ledger is only ever prepended to (newest first).
type SaleRecord struct {
	ID            int64      `json:"id,string" form:"id"`
	Ref           string     `gorm:"size:16;uniqueIndex" json:"ref" form:"ref"`
	Timestamp     time.Time  `gorm:"index" json:"timestamp"`
	TotalAmount   int64      `json:"total_amount" form:"total_amount"`
	PaymentMethod string     `gorm:"size:16" json:"payment_method" form:"payment_method"`
	CustomerName  string     `gorm:"size:200" json:"customer_name" form:"customer_name"`
	Items         []SaleItem `gorm:"foreignKey:SaleID;references:ID" json:"items"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TableName Specify table name
func (SaleRecord) TableName() string {
	return "pos_sale"
}

// SaleItem is a by-value snapshot of a cart line at checkout time.
// It carries no reference back to the menu row: later catalog edits or
// deletions must not alter historical records.
type SaleItem struct {
	ID       int64  `json:"id,string"`
	SaleID   int64  `gorm:"index" json:"sale_id,string"`
	Sort     int    `json:"sort"`
	Name     string `gorm:"size:200" json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// TableName Specify table name
func (SaleItem) TableName() string {
	return "pos_sale_item"
}
