package service

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Haroldke13/geniusbabycosmetics/internal/models"
	"github.com/Haroldke13/geniusbabycosmetics/internal/repository"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

const placeholderImage = "/static/img/placeholder.svg"

const (
	defaultRating = 4.8
	defaultStock  = 100
)

// ProductInput carries admin-supplied fields for a product write. A zero
// rating or stock falls back to the storefront defaults.
type ProductInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	SalePrice   float64 `json:"sale_price"`
	Description string  `json:"description"`
	Ingredients string  `json:"ingredients"`
	SkinType    string  `json:"skin_type"`
	ImageURL    string  `json:"image_url"`
	Rating      float64 `json:"rating"`
	Stock       int     `json:"stock"`
	IsFeatured  bool    `json:"is_featured"`
}

// ProductManagementService handles the admin product CRUD.
type ProductManagementService struct {
	products repository.ProductRepository
}

// NewProductManagementService constructs a ProductManagementService.
func NewProductManagementService(products repository.ProductRepository) *ProductManagementService {
	return &ProductManagementService{products: products}
}

// normalize turns an input into a product document: trims text, derives
// the slug from the name when absent and applies defaults.
func (s *ProductManagementService) normalize(in ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, utils.ErrMissingFields
	}

	slugSource := in.Slug
	if strings.TrimSpace(slugSource) == "" {
		slugSource = name
	}
	slug := utils.Slugify(slugSource)
	if slug == "" {
		return nil, utils.ErrMissingFields
	}

	image := strings.TrimSpace(in.ImageURL)
	if image == "" {
		image = placeholderImage
	}
	rating := in.Rating
	if rating == 0 {
		rating = defaultRating
	}
	stock := in.Stock
	if stock == 0 {
		stock = defaultStock
	}

	return &models.Product{
		Name:        name,
		Slug:        slug,
		Brand:       strings.TrimSpace(in.Brand),
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		SalePrice:   in.SalePrice,
		Description: strings.TrimSpace(in.Description),
		Ingredients: strings.TrimSpace(in.Ingredients),
		SkinType:    strings.TrimSpace(in.SkinType),
		ImageURL:    image,
		Rating:      rating,
		Stock:       stock,
		IsFeatured:  in.IsFeatured,
	}, nil
}

// CreateProduct validates and stores a new product.
func (s *ProductManagementService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	p, err := s.normalize(in)
	if err != nil {
		return nil, err
	}

	taken, err := s.products.SlugExists(ctx, p.Slug, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, utils.ErrDuplicateSlug
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct replaces an existing product's fields. Creation time and
// the seeder-only fields (currency, market, tags) are preserved since the
// admin form cannot express them.
func (s *ProductManagementService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, utils.ErrInvalidID
	}

	existing, err := s.products.GetBySlugOrID(ctx, oid.Hex())
	if err != nil {
		return nil, err
	}

	p, err := s.normalize(in)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.Currency = existing.Currency
	p.Market = existing.Market
	p.Tags = existing.Tags

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product by ID.
func (s *ProductManagementService) DeleteProduct(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return utils.ErrInvalidID
	}
	return s.products.Delete(ctx, oid)
}
