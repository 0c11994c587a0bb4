package domain

import "errors"

var (
	// ErrProductNotFound signals a missing product.
	ErrProductNotFound = errors.New("product not found")
	// ErrSKUExists signals a duplicate SKU.
	ErrSKUExists = errors.New("sku already exists")
	// ErrNotOwner signals a mutation attempted by a non-owner.
	ErrNotOwner = errors.New("caller does not own the product")
	// ErrInvalidProduct signals a product failing validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidSearchMethod signals an unknown search method value.
	ErrInvalidSearchMethod = errors.New("invalid search method")
	// ErrInvalidPagination signals limit/offset outside the allowed range.
	ErrInvalidPagination = errors.New("invalid pagination")
	// ErrInvalidSortField signals an unknown sort field or order.
	ErrInvalidSortField = errors.New("invalid sort field")
	// ErrSearchBackendUnavailable signals that the vector backend cannot serve
	// the request. Recoverable: the orchestrator degrades to combined search.
	ErrSearchBackendUnavailable = errors.New("search backend unavailable")
	// ErrStoreUnavailable signals that the product store cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
