package domain

import "time"

// CategoryAll is the sentinel category that matches every menu item.
const CategoryAll = "Tất cả"

// Categories is the open set of menu categories offered by the shop,
// the first entry being the unfiltered sentinel.
var Categories = []string{CategoryAll, "Cà phê", "Trà", "Nước ép", "Sữa chua", "Đồ ăn"}

// MenuItem is a sellable catalog entry. Prices are whole VND.
type MenuItem struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Price     int64     `json:"price" form:"price"`
	Category  string    `gorm:"size:64;index" json:"category" form:"category"`
	Image     string    `gorm:"size:1024" json:"image" form:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (MenuItem) TableName() string {
	return "pos_menu_item"
}
