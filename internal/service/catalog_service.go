package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/Haroldke13/geniusbabycosmetics/internal/models"
	"github.com/Haroldke13/geniusbabycosmetics/internal/repository"
)

const (
	maxPerPage      = 60
	homeSectionSize = 8
	relatedLimit    = 8
)

var validSorts = map[string]bool{
	repository.SortNewest:    true,
	repository.SortPriceAsc:  true,
	repository.SortPriceDesc: true,
	repository.SortRating:    true,
	repository.SortNameAsc:   true,
	repository.SortNameDesc:  true,
}

// ListParams are the raw query string values of a listing request, before
// any validation.
type ListParams struct {
	Q        string
	Category string
	Brand    string
	MinPrice string
	MaxPrice string
	Sort     string
	Page     string
	PerPage  string
}

// ProductListing is the catalog page payload.
type ProductListing struct {
	Items      []models.Product `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Pages      int              `json:"pages"`
	PerPage    int              `json:"per_page"`
	Categories []string         `json:"categories"`
	Brands     []string         `json:"brands"`
}

// HomeData carries the storefront landing sections plus the filter facets
// the navigation is built from.
type HomeData struct {
	Featured    []models.Product `json:"featured"`
	NewArrivals []models.Product `json:"new_arrivals"`
	Categories  []string         `json:"categories"`
	Brands      []string         `json:"brands"`
}

// ProductDetail is a single product plus related picks from its category.
type ProductDetail struct {
	Product *models.Product  `json:"product"`
	Related []models.Product `json:"related"`
}

// CatalogService answers storefront browse queries.
type CatalogService struct {
	products repository.ProductRepository
	perPage  int
}

// NewCatalogService constructs a CatalogService. perPage is the page size
// used when a request does not name one.
func NewCatalogService(products repository.ProductRepository, perPage int) *CatalogService {
	if perPage <= 0 {
		perPage = 12
	}
	return &CatalogService{products: products, perPage: perPage}
}

// ParseListQuery normalizes raw query string values into a ProductQuery.
// Filter text is trimmed, malformed numbers fall back to their defaults
// and unrecognized sort keys collapse to newest. Feeding a normalized
// query back through changes nothing.
func (s *CatalogService) ParseListQuery(raw ListParams) repository.ProductQuery {
	query := repository.ProductQuery{
		Term:     strings.TrimSpace(raw.Q),
		Category: strings.TrimSpace(raw.Category),
		Brand:    strings.TrimSpace(raw.Brand),
		Sort:     repository.SortNewest,
		Page:     1,
		PerPage:  s.perPage,
	}

	if raw.MinPrice != "" {
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw.MinPrice), 64); err == nil {
			query.MinPrice = &v
		}
	}
	if raw.MaxPrice != "" {
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw.MaxPrice), 64); err == nil {
			query.MaxPrice = &v
		}
	}

	if validSorts[raw.Sort] {
		query.Sort = raw.Sort
	}

	if v, err := strconv.Atoi(raw.Page); err == nil && v > 1 {
		query.Page = v
	}
	if v, err := strconv.Atoi(raw.PerPage); err == nil {
		query.PerPage = v
	}
	if query.PerPage < 1 {
		query.PerPage = 1
	}
	if query.PerPage > maxPerPage {
		query.PerPage = maxPerPage
	}

	return query
}

// ListProducts runs a normalized query and assembles the listing payload
// together with the distinct category and brand menus.
func (s *CatalogService) ListProducts(ctx context.Context, query repository.ProductQuery) (*ProductListing, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 {
		query.PerPage = s.perPage
	}

	items, total, err := s.products.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	categories, err := s.products.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}
	brands, err := s.products.DistinctBrands(ctx)
	if err != nil {
		return nil, err
	}

	return &ProductListing{
		Items:      items,
		Total:      total,
		Page:       query.Page,
		Pages:      (total + query.PerPage - 1) / query.PerPage,
		PerPage:    query.PerPage,
		Categories: categories,
		Brands:     brands,
	}, nil
}

// GetProduct resolves a product by slug or ObjectID hex and attaches up to
// eight related picks from the same category.
func (s *CatalogService) GetProduct(ctx context.Context, key string) (*ProductDetail, error) {
	p, err := s.products.GetBySlugOrID(ctx, strings.TrimSpace(key))
	if err != nil {
		return nil, err
	}
	related, err := s.products.Related(ctx, p, relatedLimit)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: p, Related: related}, nil
}

// Home returns the featured shelf, the newest arrivals and the facets.
func (s *CatalogService) Home(ctx context.Context) (*HomeData, error) {
	featured, err := s.products.Featured(ctx, homeSectionSize)
	if err != nil {
		return nil, err
	}
	latest, err := s.products.Latest(ctx, homeSectionSize)
	if err != nil {
		return nil, err
	}
	categories, err := s.products.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}
	brands, err := s.products.DistinctBrands(ctx)
	if err != nil {
		return nil, err
	}
	return &HomeData{
		Featured:    featured,
		NewArrivals: latest,
		Categories:  categories,
		Brands:      brands,
	}, nil
}
