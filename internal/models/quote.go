package models

import "time"

// Quote is one repair-quote record ("phiếu báo giá").
// ProductIDs is the quote-owned reference list; products themselves are
// stored independently and carry no back pointer.
type Quote struct {
	ID                    string `gorm:"primaryKey;size:36" json:"id"`
	No                    string `gorm:"not null" json:"no"`
	CustomerName          string `gorm:"not null;index" json:"customerName"`
	PhoneNumber           string `gorm:"not null" json:"phoneNumber"`
	Address               string `json:"address"`
	TaxCode               string `json:"taxCode"`
	CarModel              string `json:"carModel"`
	CarRegistrationNumber string `json:"carRegistrationNumber"`
	CarVin                string `json:"carVin"`
	CarOdometer           int    `json:"carOdometer"`
	// Date is the quote date picked on the form; CreatedAt is set once on insert.
	Date       time.Time `gorm:"not null" json:"date"`
	ProductIDs []string  `gorm:"serializer:json" json:"products"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"-"`
}
