package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lfmartins/stock-manager/internal/http/middleware"
	"github.com/lfmartins/stock-manager/internal/models"
	repo "github.com/lfmartins/stock-manager/internal/repo"
)

const dateLayout = "2006-01-02"

// GetProductsHandler godoc
// @Summary List the user's products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /api/products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	products, err := productRepo.GetAllByUser(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch products")
		respondError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	respondList(w, http.StatusOK, products, len(products))
}

// GetProductByIDHandler godoc
// @Summary Get one of the user's products by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /api/products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := productRepo.GetByIDAndUser(id, user.ID)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Error().Err(err).Int("product_id", id).Msg("failed to fetch product")
		respondError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	respondData(w, http.StatusOK, product)
}

// CreateProductHandler godoc
// @Summary Add a product to the inventory
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope
// @Router /api/products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if errs := validateStruct(req); len(errs) > 0 {
		writeEnvelope(w, http.StatusBadRequest, Envelope{Message: "Validation failed", Data: errs})
		return
	}

	expiration, _ := time.Parse(dateLayout, req.ExpirationDate)
	created, err := productRepo.Create(models.Product{
		UserID:          user.ID,
		Name:            req.Name,
		SupplierName:    req.SupplierName,
		BuyingPrice:     req.BuyingPrice,
		CurrentQuantity: req.CurrentQuantity,
		ExpirationDate:  expiration,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create product")
		respondError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	checkLowStock(created.ID)
	respondMessageData(w, http.StatusCreated, "Product added successfully", created)
}

// UpdateProductHandler godoc
// @Summary Partially update one of the user's products
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body ProductUpdateRequest true "Fields to update"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /api/products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req ProductUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if errs := validateStruct(req); len(errs) > 0 {
		writeEnvelope(w, http.StatusBadRequest, Envelope{Message: "Validation failed", Data: errs})
		return
	}

	update := repo.ProductUpdate{
		Name:            req.Name,
		SupplierName:    req.SupplierName,
		BuyingPrice:     req.BuyingPrice,
		CurrentQuantity: req.CurrentQuantity,
	}
	if req.ExpirationDate != nil {
		expiration, _ := time.Parse(dateLayout, *req.ExpirationDate)
		update.ExpirationDate = &expiration
	}

	updated, err := productRepo.Update(id, user.ID, update)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNoFieldsToUpdate):
			respondError(w, http.StatusBadRequest, "No fields to update")
		case errors.Is(err, repo.ErrProductNotFound):
			respondError(w, http.StatusNotFound, "Product not found or you do not have permission to update it")
		default:
			log.Error().Err(err).Int("product_id", id).Msg("failed to update product")
			respondError(w, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}

	checkLowStock(updated.ID)
	respondMessageData(w, http.StatusOK, "Product updated successfully", updated)
}

// DeleteProductHandler godoc
// @Summary Delete one of the user's products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /api/products/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := productRepo.Delete(id, user.ID); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found or you do not have permission to delete it")
			return
		}
		log.Error().Err(err).Int("product_id", id).Msg("failed to delete product")
		respondError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	respondMessage(w, http.StatusOK, "Product deleted successfully")
}

// LowStockProductsHandler godoc
// @Summary List the user's products currently below the low-stock threshold
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /api/products/status/low-stock [get]
func LowStockProductsHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	products, err := productRepo.LowStockByUser(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch low stock products")
		respondError(w, http.StatusInternalServerError, "Failed to fetch low stock products")
		return
	}
	respondList(w, http.StatusOK, products, len(products))
}

// ExpiringProductsHandler godoc
// @Summary List the user's products expiring within 30 days
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /api/products/status/expiring-soon [get]
func ExpiringProductsHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	products, err := productRepo.ExpiringSoonByUser(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch expiring products")
		respondError(w, http.StatusInternalServerError, "Failed to fetch expiring products")
		return
	}
	respondList(w, http.StatusOK, products, len(products))
}

// checkLowStock runs the synchronous low-stock check after a mutation. Its
// failure never unwinds the mutation that triggered it.
func checkLowStock(productID int) {
	if deriver == nil {
		return
	}
	if err := deriver.CheckLowStockForProduct(productID); err != nil {
		log.Error().Err(err).Int("product_id", productID).Msg("low stock check failed")
	}
}
