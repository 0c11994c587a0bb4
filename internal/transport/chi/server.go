package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/method"
	"github.com/kailas-cloud/prodex/internal/domain/search/query"
	"github.com/kailas-cloud/prodex/internal/logger"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	productuc "github.com/kailas-cloud/prodex/internal/usecase/product"
	searchuc "github.com/kailas-cloud/prodex/internal/usecase/search"
	"github.com/kailas-cloud/prodex/internal/version"
)

const defaultPageSize = 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the product catalog API over chi routes.
type Server struct {
	products      *productuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
	pageSize      int
}

// NewServer creates an HTTP API server.
func NewServer(
	products *productuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		products: products,
		search:   search,
		health:   health,
		logger:   logger,
		pageSize: defaultPageSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrProductNotFound, http.StatusNotFound, codeProductNotFound),
		sentinelHandler(domain.ErrSKUExists, http.StatusConflict, codeSKUExists),
		sentinelHandler(domain.ErrNotOwner, http.StatusForbidden, codeForbidden),
		sentinelHandler(domain.ErrInvalidProduct, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidSearchMethod, http.StatusBadRequest, codeInvalidSearchMethod),
		sentinelHandler(domain.ErrInvalidPagination, http.StatusBadRequest, codeInvalidPagination),
		sentinelHandler(domain.ErrInvalidSortField, http.StatusBadRequest, codeInvalidSort),
		sentinelHandler(domain.ErrSearchBackendUnavailable,
			http.StatusServiceUnavailable, codeSearchBackendUnavailable),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, codeStoreUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, codeEmbeddingProviderError),
	}
	return s
}

// WithPageSize overrides the default page size used when a request omits the
// limit parameter.
func (s *Server) WithPageSize(n int) *Server {
	if n > 0 {
		s.pageSize = n
	}
	return s
}

// Routes mounts all API endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", s.CreateProduct)
			r.Get("/", s.ListProducts)
			r.Get("/search", s.SearchProducts)
			r.Get("/suggest", s.SuggestProducts)
			r.Get("/statistics", s.ProductStatistics)
			r.Get("/{id}", s.GetProduct)
			r.Put("/{id}", s.UpdateProduct)
			r.Delete("/{id}", s.DeleteProduct)
		})
		r.Get("/search/methods", s.SearchMethods)
		r.Get("/categories", s.ListCategories)
	})
}

// CreateProduct handles POST /api/v1/products.
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := s.products.Create(r.Context(), productuc.CreateInput{
		OwnerID:       principal,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
		SKU:           req.SKU,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, productToDTO(&p))
}

// ListProducts handles GET /api/v1/products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	scope, ok := s.scopeFromRequest(w, r)
	if !ok {
		return
	}
	f, err := filterFromQuery(values)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	limit, offset, ok := s.pagination(w, values)
	if !ok {
		return
	}

	products, total, err := s.products.List(r.Context(), scope, f, limit, offset)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pageResponse{
		Items:  productsToDTO(products),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// GetProduct handles GET /api/v1/products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productToDTO(&p))
}

// UpdateProduct handles PUT /api/v1/products/{id}.
func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := s.products.Update(r.Context(), principal, chi.URLParam(r, "id"), domprod.Patch{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
		Active:        req.Active,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, productToDTO(&p))
}

// DeleteProduct handles DELETE /api/v1/products/{id}.
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	if err := s.products.Delete(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchProducts handles GET /api/v1/products/search.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	scope, ok := s.scopeFromRequest(w, r)
	if !ok {
		return
	}
	f, err := filterFromQuery(values)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	limit, offset, ok := s.pagination(w, values)
	if !ok {
		return
	}

	q, err := query.New(
		values.Get("q"),
		method.Method(values.Get("method")),
		f,
		query.SortField(values.Get("sort_by")),
		query.SortOrder(values.Get("sort_order")),
		limit,
		offset,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	// Tag downstream log lines (fallback warnings in particular) with the method.
	ctx := logger.With(r.Context(), zap.String("search_method", string(q.Method())))

	products, total, err := s.search.Search(ctx, scope, &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pageResponse{
		Items:  productsToDTO(products),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// SuggestProducts handles GET /api/v1/products/suggest.
func (s *Server) SuggestProducts(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.scopeFromRequest(w, r)
	if !ok {
		return
	}

	suggestions, err := s.search.Suggest(r.Context(), scope, r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// SearchMethods handles GET /api/v1/search/methods.
func (s *Server) SearchMethods(w http.ResponseWriter, r *http.Request) {
	methods := s.search.Methods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = string(m)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"methods": names})
}

// ProductStatistics handles GET /api/v1/products/statistics.
func (s *Server) ProductStatistics(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.scopeFromRequest(w, r)
	if !ok {
		return
	}

	stats, err := s.products.Stats(r.Context(), scope)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statisticsResponse{
		TotalProducts:    stats.TotalProducts,
		ActiveProducts:   stats.ActiveProducts,
		InactiveProducts: stats.InactiveProducts,
		TotalValue:       stats.TotalValue,
	})
}

// ListCategories handles GET /api/v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.scopeFromRequest(w, r)
	if !ok {
		return
	}

	categories, err := s.products.Categories(r.Context(), scope)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":  report.Status,
		"version": version.String(),
		"checks":  report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// requirePrincipal resolves the authenticated principal or writes a 401.
func (s *Server) requirePrincipal(w http.ResponseWriter, r *http.Request) (string, bool) {
	principal := PrincipalFromContext(r.Context())
	if principal == "" {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return "", false
	}
	return principal, true
}

// scopeFromRequest maps the mine parameter to a visibility scope. mine=true
// narrows reads to the caller's own products and requires a principal.
func (s *Server) scopeFromRequest(w http.ResponseWriter, r *http.Request) (domain.Scope, bool) {
	mine, err := boolParam(r.URL.Query(), "mine", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return domain.Scope{}, false
	}
	if !mine {
		return domain.ScopeAll(), true
	}

	principal, ok := s.requirePrincipal(w, r)
	if !ok {
		return domain.Scope{}, false
	}
	return domain.ScopeOwner(principal), true
}

func (s *Server) pagination(w http.ResponseWriter, values url.Values) (int, int, bool) {
	limit, err := intParamOr(values, "limit", s.pageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return 0, 0, false
	}
	offset, err := intParamOr(values, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return 0, 0, false
	}
	return limit, offset, true
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrProductNotFound,
		domain.ErrSKUExists,
		domain.ErrNotOwner,
		domain.ErrInvalidProduct,
		domain.ErrInvalidSearchMethod,
		domain.ErrInvalidPagination,
		domain.ErrInvalidSortField,
		domain.ErrSearchBackendUnavailable,
		domain.ErrStoreUnavailable,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
