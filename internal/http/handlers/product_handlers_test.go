package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	handler "github.com/lfmartins/stock-manager/internal/http/handlers"
	"github.com/lfmartins/stock-manager/internal/models"
)

func farExpiration() string {
	return time.Now().AddDate(1, 0, 0).Format("2006-01-02")
}

func TestCreateProduct(t *testing.T) {
	f := setup(t)

	product := f.createProduct(t, f.token, handler.ProductRequest{
		Name:            "Olive Oil",
		SupplierName:    "Sunrise Foods",
		BuyingPrice:     8.5,
		CurrentQuantity: 40,
		ExpirationDate:  "2027-06-30",
	})

	if product.ID == 0 {
		t.Error("expected a non-zero product id")
	}
	if product.UserID != f.user.ID {
		t.Errorf("UserID = %d, want %d", product.UserID, f.user.ID)
	}
	if product.InitialQuantity != 40 || product.CurrentQuantity != 40 {
		t.Errorf("quantities = %d/%d, want 40/40", product.CurrentQuantity, product.InitialQuantity)
	}
	if got := product.ExpirationDate.Format("2006-01-02"); got != "2027-06-30" {
		t.Errorf("ExpirationDate = %s, want 2027-06-30", got)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name string
		req  handler.ProductRequest
	}{
		{"missing name", handler.ProductRequest{SupplierName: "S", BuyingPrice: 1, CurrentQuantity: 1, ExpirationDate: "2027-01-01"}},
		{"zero quantity", handler.ProductRequest{Name: "P", SupplierName: "S", BuyingPrice: 1, CurrentQuantity: 0, ExpirationDate: "2027-01-01"}},
		{"negative price", handler.ProductRequest{Name: "P", SupplierName: "S", BuyingPrice: -1, CurrentQuantity: 1, ExpirationDate: "2027-01-01"}},
		{"bad date", handler.ProductRequest{Name: "P", SupplierName: "S", BuyingPrice: 1, CurrentQuantity: 1, ExpirationDate: "30/06/2027"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/api/products", tc.req, f.token)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetProducts(t *testing.T) {
	f := setup(t)

	f.createProduct(t, f.token, handler.ProductRequest{
		Name: "A", SupplierName: "S", BuyingPrice: 1, CurrentQuantity: 10, ExpirationDate: farExpiration(),
	})
	f.createProduct(t, f.token, handler.ProductRequest{
		Name: "B", SupplierName: "S", BuyingPrice: 2, CurrentQuantity: 20, ExpirationDate: farExpiration(),
	})

	w := f.do(t, http.MethodGet, "/api/products", nil, f.token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var products []models.Product
	env := decodeData(t, w, &products)
	if env.Count == nil || *env.Count != 2 {
		t.Errorf("count = %v, want 2", env.Count)
	}
	if len(products) != 2 {
		t.Errorf("len(products) = %d, want 2", len(products))
	}

	// Another user sees an empty inventory.
	_, otherToken := f.createUser(t, "bob", "bob@example.com")
	w = f.do(t, http.MethodGet, "/api/products", nil, otherToken)
	var otherProducts []models.Product
	env = decodeData(t, w, &otherProducts)
	if env.Count == nil || *env.Count != 0 {
		t.Errorf("other user's count = %v, want 0", env.Count)
	}
}

func TestGetProductByID(t *testing.T) {
	f := setup(t)

	product := f.createProduct(t, f.token, handler.ProductRequest{
		Name: "Rice", SupplierName: "S", BuyingPrice: 3, CurrentQuantity: 50, ExpirationDate: farExpiration(),
	})

	w := f.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), nil, f.token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var got models.Product
	decodeData(t, w, &got)
	if got.ID != product.ID || got.Name != "Rice" {
		t.Errorf("got %+v", got)
	}

	w = f.do(t, http.MethodGet, "/api/products/9999", nil, f.token)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/products/abc", nil, f.token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: status = %d, want 400", w.Code)
	}
}

func TestUpdateProduct_Partial(t *testing.T) {
	f := setup(t)

	product := f.createProduct(t, f.token, handler.ProductRequest{
		Name: "Flour", SupplierName: "Old Supplier", BuyingPrice: 2, CurrentQuantity: 100, ExpirationDate: farExpiration(),
	})

	path := fmt.Sprintf("/api/products/%d", product.ID)
	w := f.do(t, http.MethodPut, path, map[string]string{"supplier_name": "New Supplier"}, f.token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var updated models.Product
	decodeData(t, w, &updated)

	if updated.SupplierName != "New Supplier" {
		t.Errorf("SupplierName = %q, want %q", updated.SupplierName, "New Supplier")
	}
	if updated.Name != "Flour" || updated.CurrentQuantity != 100 || updated.BuyingPrice != 2 {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.InitialQuantity != 100 {
		t.Errorf("InitialQuantity = %d, want 100", updated.InitialQuantity)
	}
}

func TestUpdateProduct_InitialQuantityPinned(t *testing.T) {
	f := setup(t)

	product := f.createProduct(t, f.token, handler.ProductRequest{
		Name: "Flour", SupplierName: "S", BuyingPrice: 2, CurrentQuantity: 100, ExpirationDate: farExpiration(),
	})

	path := fmt.Sprintf("/api/products/%d", product.ID)
	w := f.do(t, http.MethodPut, path, map[string]int{"current_quantity": 500}, f.token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var updated models.Product
	decodeData(t, w, &updated)
	if updated.CurrentQuantity != 500 {
		t.Errorf("CurrentQuantity = %d, want 500", updated.CurrentQuantity)
	}
	if updated.InitialQuantity != 100 {
		t.Errorf("InitialQuantity = %d, want 100 (must not follow current)", updated.InitialQuantity)
	}
}

func TestUpdateProduct_NoFields(t *testing.T) {
	f := setup(t)

	product := f.createProduct(t, f.token, handler.ProductRequest{
		Name: "Flour", SupplierName: "S", BuyingPrice: 2, CurrentQuantity: 100, ExpirationDate: farExpiration(),
	})

	w := f.do(t, http.MethodPut, fmt.Sprintf("/api/products/%d", product.ID), map[string]any{}, f.token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Message != "No fields to update" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestUpdateProduct_TriggersLowStockNotification(t *testing.T) {
	f := setup(t)

	product := f.createProduct(t, f.token, handler.ProductRequest{
		Name: "Honey", SupplierName: "S", BuyingPrice: 5, CurrentQuantity: 100, ExpirationDate: farExpiration(),
	})

	f.setQuantity(t, f.token, product.ID, 15)

	w := f.do(t, http.MethodGet, "/api/notifications", nil, f.token)
	var notifications []models.Notification
	env := decodeData(t, w, &notifications)
	if env.Count == nil || *env.Count != 1 {
		t.Fatalf("count = %v, want 1", env.Count)
	}
	n := notifications[0]
	if n.Type != models.NotificationLowStock || n.ProductID != product.ID {
		t.Errorf("notification = %+v", n)
	}
	if !strings.Contains(n.Message, "15% remaining") {
		t.Errorf("message = %q, want it to mention 15%% remaining", n.Message)
	}

	// Raising the quantity back above the threshold must not add anything.
	f.setQuantity(t, f.token, product.ID, 90)
	w = f.do(t, http.MethodGet, "/api/notifications", nil, f.token)
	env = decodeData(t, w, &notifications)
	if *env.Count != 1 {
		t.Errorf("count after restock = %d, want 1", *env.Count)
	}
}

func TestProductOwnership(t *testing.T) {
	f := setup(t)
	_, otherToken := f.createUser(t, "bob", "bob@example.com")

	product := f.createProduct(t, f.token, handler.ProductRequest{
		Name: "Salt", SupplierName: "S", BuyingPrice: 1, CurrentQuantity: 30, ExpirationDate: farExpiration(),
	})
	path := fmt.Sprintf("/api/products/%d", product.ID)

	if w := f.do(t, http.MethodGet, path, nil, otherToken); w.Code != http.StatusNotFound {
		t.Errorf("foreign GET: status = %d, want 404", w.Code)
	}
	if w := f.do(t, http.MethodPut, path, map[string]string{"name": "Stolen"}, otherToken); w.Code != http.StatusNotFound {
		t.Errorf("foreign PUT: status = %d, want 404", w.Code)
	}
	if w := f.do(t, http.MethodDelete, path, nil, otherToken); w.Code != http.StatusNotFound {
		t.Errorf("foreign DELETE: status = %d, want 404", w.Code)
	}

	// The owner still sees the product untouched.
	w := f.do(t, http.MethodGet, path, nil, f.token)
	var got models.Product
	decodeData(t, w, &got)
	if got.Name != "Salt" {
		t.Errorf("Name = %q after foreign update attempt", got.Name)
	}
}

func TestDeleteProduct(t *testing.T) {
	f := setup(t)

	product := f.createProduct(t, f.token, handler.ProductRequest{
		Name: "Sugar", SupplierName: "S", BuyingPrice: 1, CurrentQuantity: 30, ExpirationDate: farExpiration(),
	})
	path := fmt.Sprintf("/api/products/%d", product.ID)

	w := f.do(t, http.MethodDelete, path, nil, f.token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Message != "Product deleted successfully" {
		t.Errorf("message = %q", env.Message)
	}

	if w := f.do(t, http.MethodGet, path, nil, f.token); w.Code != http.StatusNotFound {
		t.Errorf("GET after delete: status = %d, want 404", w.Code)
	}
	if w := f.do(t, http.MethodDelete, path, nil, f.token); w.Code != http.StatusNotFound {
		t.Errorf("second DELETE: status = %d, want 404", w.Code)
	}
}

func TestProductStatusEndpoints(t *testing.T) {
	f := setup(t)

	low := f.createProduct(t, f.token, handler.ProductRequest{
		Name: "Low", SupplierName: "S", BuyingPrice: 1, CurrentQuantity: 100, ExpirationDate: farExpiration(),
	})
	f.setQuantity(t, f.token, low.ID, 10)

	expiring := f.createProduct(t, f.token, handler.ProductRequest{
		Name: "Expiring", SupplierName: "S", BuyingPrice: 1, CurrentQuantity: 100,
		ExpirationDate: time.Now().AddDate(0, 0, 5).Format("2006-01-02"),
	})

	f.createProduct(t, f.token, handler.ProductRequest{
		Name: "Healthy", SupplierName: "S", BuyingPrice: 1, CurrentQuantity: 100, ExpirationDate: farExpiration(),
	})

	w := f.do(t, http.MethodGet, "/api/products/status/low-stock", nil, f.token)
	var products []models.Product
	env := decodeData(t, w, &products)
	if *env.Count != 1 || products[0].ID != low.ID {
		t.Errorf("low-stock = count %d %+v", *env.Count, products)
	}

	w = f.do(t, http.MethodGet, "/api/products/status/expiring-soon", nil, f.token)
	env = decodeData(t, w, &products)
	if *env.Count != 1 || products[0].ID != expiring.ID {
		t.Errorf("expiring-soon = count %d %+v", *env.Count, products)
	}
}
