package product

import (
	"strconv"
	"time"

	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
)

// Hash field names for a stored product.
const (
	fieldOwner       = "owner_id"
	fieldName        = "name"
	fieldDescription = "description"
	fieldPrice       = "price"
	fieldStock       = "stock_quantity"
	fieldCategory    = "category"
	fieldSKU         = "sku"
	fieldActive      = "active"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
)

// buildHashFields converts a domain Product into a flat map[string]string for HSET.
func buildHashFields(p *domprod.Product) map[string]string {
	return map[string]string{
		fieldOwner:       p.OwnerID(),
		fieldName:        p.Name(),
		fieldDescription: p.Description(),
		fieldPrice:       strconv.FormatFloat(p.Price(), 'f', -1, 64),
		fieldStock:       strconv.Itoa(p.StockQuantity()),
		fieldCategory:    p.Category(),
		fieldSKU:         p.SKU(),
		fieldActive:      strconv.FormatBool(p.Active()),
		fieldCreatedAt:   p.CreatedAt().UTC().Format(time.RFC3339Nano),
		fieldUpdatedAt:   p.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}
}

// parseHashFields converts a flat hash map back into a domain Product.
// Malformed numeric or time fields fail the whole record; the caller decides
// whether to skip it.
func parseHashFields(id string, m map[string]string) (domprod.Product, error) {
	price, err := strconv.ParseFloat(m[fieldPrice], 64)
	if err != nil {
		return domprod.Product{}, err
	}
	stock, err := strconv.Atoi(m[fieldStock])
	if err != nil {
		return domprod.Product{}, err
	}
	active, err := strconv.ParseBool(m[fieldActive])
	if err != nil {
		return domprod.Product{}, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, m[fieldCreatedAt])
	if err != nil {
		return domprod.Product{}, err
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, m[fieldUpdatedAt])
	if err != nil {
		return domprod.Product{}, err
	}

	return domprod.Reconstruct(
		id, m[fieldOwner], m[fieldName], m[fieldDescription],
		price, stock, m[fieldCategory], m[fieldSKU],
		active, createdAt, updatedAt,
	), nil
}
