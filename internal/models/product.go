package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog item in the products collection.
// Fields are tagged for both BSON storage and JSON serialization.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Brand       string             `bson:"brand" json:"brand"`
	Category    string             `bson:"category" json:"category"`
	Price       float64            `bson:"price" json:"price"`
	SalePrice   float64            `bson:"sale_price" json:"sale_price"`
	Currency    string             `bson:"currency,omitempty" json:"currency,omitempty"`
	Market      string             `bson:"market,omitempty" json:"market,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Description string             `bson:"description" json:"description"`
	Ingredients string             `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	SkinType    string             `bson:"skin_type,omitempty" json:"skin_type,omitempty"`
	ImageURL    string             `bson:"image_url" json:"image_url"`
	Rating      float64            `bson:"rating" json:"rating"`
	Stock       int                `bson:"stock" json:"stock"`
	IsFeatured  bool               `bson:"is_featured" json:"is_featured"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`

	// Populated via the textScore meta projection on search queries.
	Score float64 `bson:"score,omitempty" json:"score,omitempty"`
}
