package models

import "time"

// Product represents a stocked item in the inventory system.
//
// InitialQuantity is a snapshot of CurrentQuantity taken when the product is
// created. It never changes afterwards and is the denominator for every
// "percent remaining" computation, no matter how CurrentQuantity is adjusted
// by sales or manual edits.
type Product struct {
	ID              int       `json:"id"`
	UserID          int       `json:"user_id"`
	Name            string    `json:"name"`
	SupplierName    string    `json:"supplier_name"`
	BuyingPrice     float64   `json:"buying_price"`
	CurrentQuantity int       `json:"current_quantity"`
	InitialQuantity int       `json:"initial_quantity"`
	ExpirationDate  time.Time `json:"expiration_date"`
	CreatedAt       time.Time `json:"created_at"`
}
