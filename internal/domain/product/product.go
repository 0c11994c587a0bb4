package product

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain"
)

// Field length limits, matching the catalog schema.
const (
	MaxNameLength     = 200
	MaxCategoryLength = 100
	MaxSKULength      = 100
)

// Product is a catalog entry. The search core treats it as read-only input;
// mutation happens only through Apply during catalog updates.
type Product struct {
	id            string
	ownerID       string
	name          string
	description   string
	price         float64
	stockQuantity int
	category      string
	sku           string
	active        bool
	createdAt     time.Time
	updatedAt     time.Time
}

// New validates and creates a product. The ID is store-assigned and attached
// by the repository layer; SKU is normalized to uppercase.
func New(
	ownerID, name, description string,
	price float64, stockQuantity int,
	category, sku string,
	now time.Time,
) (Product, error) {
	if ownerID == "" {
		return Product{}, fmt.Errorf("%w: owner is required", domain.ErrInvalidProduct)
	}
	if name == "" || len(name) > MaxNameLength {
		return Product{}, fmt.Errorf("%w: name must be 1-%d characters", domain.ErrInvalidProduct, MaxNameLength)
	}
	if price < 0 {
		return Product{}, fmt.Errorf("%w: price must be non-negative", domain.ErrInvalidProduct)
	}
	if stockQuantity < 0 {
		return Product{}, fmt.Errorf("%w: stock_quantity must be non-negative", domain.ErrInvalidProduct)
	}
	if len(category) > MaxCategoryLength {
		return Product{}, fmt.Errorf("%w: category too long (max %d)", domain.ErrInvalidProduct, MaxCategoryLength)
	}
	sku = strings.ToUpper(sku)
	if err := validateSKU(sku); err != nil {
		return Product{}, err
	}

	return Product{
		ownerID:       ownerID,
		name:          name,
		description:   description,
		price:         price,
		stockQuantity: stockQuantity,
		category:      category,
		sku:           sku,
		active:        true,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
	}, nil
}

// Reconstruct rebuilds a product from storage without validation.
func Reconstruct(
	id, ownerID, name, description string,
	price float64, stockQuantity int,
	category, sku string,
	active bool,
	createdAt, updatedAt time.Time,
) Product {
	return Product{
		id:            id,
		ownerID:       ownerID,
		name:          name,
		description:   description,
		price:         price,
		stockQuantity: stockQuantity,
		category:      category,
		sku:           sku,
		active:        active,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ID returns the store-assigned identifier.
func (p *Product) ID() string { return p.id }

// OwnerID returns the owning principal.
func (p *Product) OwnerID() string { return p.ownerID }

// Name returns the product name.
func (p *Product) Name() string { return p.name }

// Description returns the product description.
func (p *Product) Description() string { return p.description }

// Price returns the unit price.
func (p *Product) Price() float64 { return p.price }

// StockQuantity returns the available stock.
func (p *Product) StockQuantity() int { return p.stockQuantity }

// Category returns the optional category.
func (p *Product) Category() string { return p.category }

// SKU returns the unique stock keeping unit.
func (p *Product) SKU() string { return p.sku }

// Active reports whether the product is visible in the catalog.
func (p *Product) Active() bool { return p.active }

// CreatedAt returns the creation timestamp.
func (p *Product) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last modification timestamp.
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// SetID attaches the store-assigned identifier. Called once by the repository.
func (p *Product) SetID(id string) { p.id = id }

// SearchText returns the concatenated text fields used for fuzzy and
// vector matching.
func (p *Product) SearchText() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.name, p.description, p.category} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Patch is a partial product update. Nil fields are left unchanged.
// SKU is immutable after creation and deliberately absent.
type Patch struct {
	Name          *string
	Description   *string
	Price         *float64
	StockQuantity *int
	Category      *string
	Active        *bool
}

// Apply validates and applies a patch. Returns true when a searchable text
// field changed, which obsoletes the product's stored embedding.
func (p *Product) Apply(patch Patch, now time.Time) (bool, error) {
	if patch.Name != nil && (*patch.Name == "" || len(*patch.Name) > MaxNameLength) {
		return false, fmt.Errorf("%w: name must be 1-%d characters", domain.ErrInvalidProduct, MaxNameLength)
	}
	if patch.Price != nil && *patch.Price < 0 {
		return false, fmt.Errorf("%w: price must be non-negative", domain.ErrInvalidProduct)
	}
	if patch.StockQuantity != nil && *patch.StockQuantity < 0 {
		return false, fmt.Errorf("%w: stock_quantity must be non-negative", domain.ErrInvalidProduct)
	}
	if patch.Category != nil && len(*patch.Category) > MaxCategoryLength {
		return false, fmt.Errorf("%w: category too long (max %d)", domain.ErrInvalidProduct, MaxCategoryLength)
	}

	textChanged := false
	if patch.Name != nil && *patch.Name != p.name {
		p.name = *patch.Name
		textChanged = true
	}
	if patch.Description != nil && *patch.Description != p.description {
		p.description = *patch.Description
		textChanged = true
	}
	if patch.Category != nil && *patch.Category != p.category {
		p.category = *patch.Category
		textChanged = true
	}
	if patch.Price != nil {
		p.price = *patch.Price
	}
	if patch.StockQuantity != nil {
		p.stockQuantity = *patch.StockQuantity
	}
	if patch.Active != nil {
		p.active = *patch.Active
	}
	p.updatedAt = now.UTC()

	return textChanged, nil
}

// validateSKU checks the SKU charset: uppercase alphanumerics, hyphen, underscore.
func validateSKU(sku string) error {
	if sku == "" || len(sku) > MaxSKULength {
		return fmt.Errorf("%w: sku must be 1-%d characters", domain.ErrInvalidProduct, MaxSKULength)
	}
	for _, r := range sku {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return fmt.Errorf("%w: sku may contain only A-Z, 0-9, hyphen and underscore", domain.ErrInvalidProduct)
		}
	}
	return nil
}
