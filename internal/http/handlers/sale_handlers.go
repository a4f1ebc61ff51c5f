package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lfmartins/stock-manager/internal/http/middleware"
	"github.com/lfmartins/stock-manager/internal/models"
	repo "github.com/lfmartins/stock-manager/internal/repo"
)

// GetSalesHandler godoc
// @Summary List the user's sales
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /api/sales [get]
func GetSalesHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	sales, err := saleRepo.GetAllByUser(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch sales")
		respondError(w, http.StatusInternalServerError, "Failed to fetch sales")
		return
	}
	respondList(w, http.StatusOK, sales, len(sales))
}

// GetSalesByProductHandler godoc
// @Summary List the user's sales for one product
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param productId path int true "Product ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /api/sales/product/{productId} [get]
func GetSalesByProductHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if _, err := productRepo.GetByIDAndUser(productID, user.ID); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found or you do not have permission to view its sales")
			return
		}
		log.Error().Err(err).Int("product_id", productID).Msg("failed to fetch product")
		respondError(w, http.StatusInternalServerError, "Failed to fetch product sales")
		return
	}

	sales, err := saleRepo.GetByProductAndUser(productID, user.ID)
	if err != nil {
		log.Error().Err(err).Int("product_id", productID).Msg("failed to fetch product sales")
		respondError(w, http.StatusInternalServerError, "Failed to fetch product sales")
		return
	}
	respondList(w, http.StatusOK, sales, len(sales))
}

// CreateSaleHandler godoc
// @Summary Record a sale against a product
// @Description Inserts the sale and decrements the product quantity atomically.
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sale body SaleRequest true "Sale to record"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /api/sales [post]
func CreateSaleHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req SaleRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if errs := validateStruct(req); len(errs) > 0 {
		writeEnvelope(w, http.StatusBadRequest, Envelope{Message: "Validation failed", Data: errs})
		return
	}

	sale, err := saleRepo.Record(models.Sale{
		ProductID:    req.ProductID,
		UserID:       user.ID,
		QuantitySold: req.QuantitySold,
		SellingPrice: req.SellingPrice,
	})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrProductNotFound):
			respondError(w, http.StatusNotFound, "Product not found or you do not have permission to record sales for it")
		case errors.Is(err, repo.ErrInsufficientStock):
			respondError(w, http.StatusBadRequest, insufficientStockMessage(req.ProductID, user.ID))
		default:
			log.Error().Err(err).Int("product_id", req.ProductID).Msg("failed to record sale")
			respondError(w, http.StatusInternalServerError, "Failed to record sale")
		}
		return
	}

	checkLowStock(sale.ProductID)
	respondMessageData(w, http.StatusCreated, "Sale recorded successfully",
		SaleResponse{Sale: sale, ProfitStatus: sale.ProfitStatus()})
}

// SalesSummaryHandler godoc
// @Summary Aggregate sales summary for the user
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /api/sales/summary [get]
func SalesSummaryHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	summary, err := saleRepo.Summary(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch sales summary")
		respondError(w, http.StatusInternalServerError, "Failed to fetch sales summary")
		return
	}
	respondData(w, http.StatusOK, summary)
}

func insufficientStockMessage(productID, userID int) string {
	if product, err := productRepo.GetByIDAndUser(productID, userID); err == nil {
		return fmt.Sprintf("Insufficient stock. Current quantity: %d", product.CurrentQuantity)
	}
	return "Insufficient stock"
}
