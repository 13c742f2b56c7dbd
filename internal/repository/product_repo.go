package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Haroldke13/geniusbabycosmetics/internal/models"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

// Sort keys accepted by Search. Anything else falls back to SortNewest.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
	SortNameAsc   = "name_asc"
	SortNameDesc  = "name_desc"
)

// ProductQuery is the normalized form of a catalog listing request. It is
// produced by the catalog service's parser; repositories treat it as
// already validated.
type ProductQuery struct {
	Term     string
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Page     int
	PerPage  int
}

// ProductRepository handles data access for products.
type ProductRepository interface {
	Search(ctx context.Context, query ProductQuery) ([]models.Product, int, error)
	GetBySlugOrID(ctx context.Context, key string) (*models.Product, error)
	SlugExists(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error)
	Related(ctx context.Context, p *models.Product, limit int) ([]models.Product, error)
	Featured(ctx context.Context, limit int) ([]models.Product, error)
	Latest(ctx context.Context, limit int) ([]models.Product, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctBrands(ctx context.Context) ([]string, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type productRepository struct {
	coll *mongo.Collection
}

// NewProductRepository creates a ProductRepository backed by the products
// collection.
func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{coll: db.Collection("products")}
}

// buildFilter composes the Mongo filter document for a query. Conditions
// compose by AND. Price bounds are applied independently, so an inverted
// range passes through unchanged and simply matches nothing.
func buildFilter(q ProductQuery) bson.M {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Brand != "" {
		filter["brand"] = q.Brand
	}
	price := bson.M{}
	if q.MinPrice != nil {
		price["$gte"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lte"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if q.Term != "" {
		filter["$text"] = bson.M{"$search": q.Term}
	}
	return filter
}

// buildSort maps a sort key to its Mongo sort document. Unknown keys fall
// back to newest. The trailing _id component keeps pagination stable when
// the primary key ties.
func buildSort(key string) bson.D {
	var primary bson.E
	switch key {
	case SortPriceAsc:
		primary = bson.E{Key: "price", Value: 1}
	case SortPriceDesc:
		primary = bson.E{Key: "price", Value: -1}
	case SortRating:
		primary = bson.E{Key: "rating", Value: -1}
	case SortNameAsc:
		primary = bson.E{Key: "name", Value: 1}
	case SortNameDesc:
		primary = bson.E{Key: "name", Value: -1}
	default:
		primary = bson.E{Key: "created_at", Value: -1}
	}
	return bson.D{primary, {Key: "_id", Value: 1}}
}

// Search returns one page of products matching the query plus the total
// match count. Text queries additionally project the textScore meta field;
// ordering still follows the requested sort key.
func (r *productRepository) Search(ctx context.Context, query ProductQuery) ([]models.Product, int, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PerPage <= 0 {
		query.PerPage = 12
	}

	filter := buildFilter(query)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(buildSort(query.Sort)).
		SetSkip(int64((query.Page - 1) * query.PerPage)).
		SetLimit(int64(query.PerPage))
	if query.Term != "" {
		opts.SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}})
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	products := make([]models.Product, 0, query.PerPage)
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, int(total), nil
}

// GetBySlugOrID resolves a product by ObjectID hex first, then by slug.
// A valid-looking hex that matches nothing still falls through to the slug
// lookup.
func (r *productRepository) GetBySlugOrID(ctx context.Context, key string) (*models.Product, error) {
	if oid, err := primitive.ObjectIDFromHex(key); err == nil {
		var p models.Product
		err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
		if err == nil {
			return &p, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
	}

	var p models.Product
	if err := r.coll.FindOne(ctx, bson.M{"slug": key}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SlugExists reports whether another product already uses the slug.
// excludeID is ignored when zero.
func (r *productRepository) SlugExists(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"slug": slug}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Related returns up to limit products sharing the category, newest first,
// excluding the product itself.
func (r *productRepository) Related(ctx context.Context, p *models.Product, limit int) ([]models.Product, error) {
	filter := bson.M{
		"category": p.Category,
		"_id":      bson.M{"$ne": p.ID},
	}
	return r.findSorted(ctx, filter, limit)
}

// Featured returns the newest featured products.
func (r *productRepository) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	return r.findSorted(ctx, bson.M{"is_featured": true}, limit)
}

// Latest returns the newest products overall.
func (r *productRepository) Latest(ctx context.Context, limit int) ([]models.Product, error) {
	return r.findSorted(ctx, bson.M{}, limit)
}

func (r *productRepository) findSorted(ctx context.Context, filter bson.M, limit int) ([]models.Product, error) {
	opts := options.Find().
		SetSort(buildSort(SortNewest)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, limit)
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// DistinctCategories returns all distinct non-empty categories, sorted.
func (r *productRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinctStrings(ctx, "category")
}

// DistinctBrands returns all distinct non-empty brands, sorted.
func (r *productRepository) DistinctBrands(ctx context.Context) ([]string, error) {
	return r.distinctStrings(ctx, "brand")
}

// distinctStrings cleans a raw distinct result: keeps non-empty strings and
// sorts them ascending. The cleanup runs application-side because distinct
// has no server-side ordering.
func (r *productRepository) distinctStrings(ctx context.Context, field string) ([]string, error) {
	raw, err := r.coll.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	sort.Strings(values)
	return values, nil
}

// Create inserts a new product. A duplicate slug surfaces as
// utils.ErrDuplicateSlug.
func (r *productRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.ErrDuplicateSlug
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// Update replaces an existing product document.
func (r *productRepository) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now().UTC()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.ErrDuplicateSlug
		}
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrProductNotFound
	}
	return nil
}

// Delete removes a product by ID.
func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrProductNotFound
	}
	return nil
}
