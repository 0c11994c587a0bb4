package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
)

// errorCode is a machine-readable error identifier in error responses.
type errorCode string

const (
	codeBadRequest               errorCode = "bad_request"
	codeUnauthorized             errorCode = "unauthorized"
	codeForbidden                errorCode = "forbidden"
	codeValidationFailed         errorCode = "validation_failed"
	codeProductNotFound          errorCode = "product_not_found"
	codeSKUExists                errorCode = "sku_already_exists"
	codeInvalidSearchMethod      errorCode = "invalid_search_method"
	codeInvalidPagination        errorCode = "invalid_pagination"
	codeInvalidSort              errorCode = "invalid_sort"
	codeStoreUnavailable         errorCode = "store_unavailable"
	codeEmbeddingProviderError   errorCode = "embedding_provider_error"
	codeSearchBackendUnavailable errorCode = "search_backend_unavailable"
	codeInternalError            errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type productResponse struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	Category      string    `json:"category,omitempty"`
	SKU           string    `json:"sku"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func productToDTO(p *product.Product) productResponse {
	return productResponse{
		ID:            p.ID(),
		OwnerID:       p.OwnerID(),
		Name:          p.Name(),
		Description:   p.Description(),
		Price:         p.Price(),
		StockQuantity: p.StockQuantity(),
		Category:      p.Category(),
		SKU:           p.SKU(),
		Active:        p.Active(),
		CreatedAt:     p.CreatedAt().UTC(),
		UpdatedAt:     p.UpdatedAt().UTC(),
	}
}

func productsToDTO(products []product.Product) []productResponse {
	items := make([]productResponse, len(products))
	for i := range products {
		items[i] = productToDTO(&products[i])
	}
	return items
}

type pageResponse struct {
	Items  []productResponse `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type createProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	Category      string  `json:"category"`
	SKU           string  `json:"sku"`
}

type updateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	StockQuantity *int     `json:"stock_quantity"`
	Category      *string  `json:"category"`
	Active        *bool    `json:"active"`
}

type statisticsResponse struct {
	TotalProducts    int     `json:"total_products"`
	ActiveProducts   int     `json:"active_products"`
	InactiveProducts int     `json:"inactive_products"`
	TotalValue       float64 `json:"total_value"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// filterFromQuery parses the shared filter parameters present on listing and
// search endpoints.
func filterFromQuery(values url.Values) (filter.Filter, error) {
	f := filter.Filter{Category: values.Get("category")}

	var err error
	if f.MinPrice, err = floatParam(values, "min_price"); err != nil {
		return filter.Filter{}, err
	}
	if f.MaxPrice, err = floatParam(values, "max_price"); err != nil {
		return filter.Filter{}, err
	}
	if f.MinStock, err = intParam(values, "min_stock"); err != nil {
		return filter.Filter{}, err
	}
	if f.MaxStock, err = intParam(values, "max_stock"); err != nil {
		return filter.Filter{}, err
	}
	if f.ActiveOnly, err = boolParam(values, "active_only", false); err != nil {
		return filter.Filter{}, err
	}
	return f, nil
}

func floatParam(values url.Values, name string) (*float64, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	return &v, nil
}

func intParam(values url.Values, name string) (*int, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return &v, nil
}

func intParamOr(values url.Values, name string, fallback int) (int, error) {
	v, err := intParam(values, name)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return fallback, nil
	}
	return *v, nil
}

func boolParam(values url.Values, name string, fallback bool) (bool, error) {
	raw := values.Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", name, raw)
	}
	return v, nil
}
