package handlers

import (
	"github.com/lfmartins/stock-manager/internal/notify"
	"github.com/lfmartins/stock-manager/internal/redissvc"
	repo "github.com/lfmartins/stock-manager/internal/repo"
)

var (
	productRepo      repo.ProductRepository
	saleRepo         repo.SaleRepository
	notificationRepo repo.NotificationRepository
	userRepo         repo.UserRepository

	deriver *notify.Deriver
	cache   *redissvc.Cache
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetSaleRepo(r repo.SaleRepository) {
	saleRepo = r
}

func SetNotificationRepo(r repo.NotificationRepository) {
	notificationRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetDeriver(d *notify.Deriver) {
	deriver = d
}

// SetCache wires the optional unread-count cache; nil disables it.
func SetCache(c *redissvc.Cache) {
	cache = c
}
