package models

import "time"

// Product category codes. The set is fixed; anything else is a data bug.
const (
	CategoryParts        = "1" // phụ tùng
	CategoryFittingLabor = "2" // công thay thế phụ tùng
	CategoryGeneralLabor = "3" // nhân công sửa chữa
)

// CategoryOrder is the presentation order for grouped line items.
var CategoryOrder = []string{CategoryParts, CategoryFittingLabor, CategoryGeneralLabor}

// CategoryLabels maps a category code to its display label.
var CategoryLabels = map[string]string{
	CategoryParts:        "Phụ tùng",
	CategoryFittingLabor: "Công thay thế phụ tùng",
	CategoryGeneralLabor: "Nhân công sửa chữa",
}

// Product is one billable line within a quote. Prices are whole VND, VAT is
// an integer percentage.
type Product struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	UnitPrice int       `gorm:"not null;default:0" json:"unitPrice"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Unit      string    `gorm:"not null" json:"unit"`
	VAT       int       `gorm:"not null;default:0" json:"vat"`
	Category  string    `gorm:"not null;default:'1';size:4" json:"type"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
