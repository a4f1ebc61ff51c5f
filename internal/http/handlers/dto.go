package handlers

import "github.com/lfmartins/stock-manager/internal/models"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type ProductRequest struct {
	Name            string  `json:"name" validate:"required"`
	SupplierName    string  `json:"supplier_name" validate:"required"`
	BuyingPrice     float64 `json:"buying_price" validate:"required,gt=0"`
	CurrentQuantity int     `json:"current_quantity" validate:"required,gt=0"`
	ExpirationDate  string  `json:"expiration_date" validate:"required,datetime=2006-01-02"`
}

// ProductUpdateRequest is a partial update: only provided fields are
// persisted. initial_quantity is not updatable.
type ProductUpdateRequest struct {
	Name            *string  `json:"name" validate:"omitempty,min=1"`
	SupplierName    *string  `json:"supplier_name" validate:"omitempty,min=1"`
	BuyingPrice     *float64 `json:"buying_price" validate:"omitempty,gt=0"`
	CurrentQuantity *int     `json:"current_quantity" validate:"omitempty,gte=0"`
	ExpirationDate  *string  `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
}

type SaleRequest struct {
	ProductID    int     `json:"product_id" validate:"required,gt=0"`
	QuantitySold int     `json:"quantity_sold" validate:"required,gt=0"`
	SellingPrice float64 `json:"selling_price" validate:"required,gt=0"`
}

// SaleResponse enriches a persisted sale with its derived profit status.
type SaleResponse struct {
	models.Sale
	ProfitStatus string `json:"profitStatus"`
}

type UnreadCountResult struct {
	UnreadCount int `json:"unread_count"`
}
