package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Haroldke13/geniusbabycosmetics/internal/models"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

var brands = []string{
	"GeniusBaby", "LuxeLily", "VelvetBloom", "AuraGlow", "NairobiNectar",
	"NyotaBeauty", "SafariGlow", "CoastalCharm", "Malaika Cosmetics", "KenChic",
	"Umoja Organics", "Jambo Glam", "AfriSheen", "Mrembo Luxe", "Karibu Beauty",
}

var categories = []string{
	"Lipstick", "Foundation", "Concealer", "Mascara", "Blush", "Skincare", "Fragrance",
	"Serum", "Sunscreen", "Cleanser", "Toner", "Setting Spray", "Highlighter",
	"Eyeshadow", "Nail Polish", "Body Lotion", "Haircare", "Lip Gloss", "BB Cream",
}

var skinTypes = []string{"All", "Dry", "Oily", "Combination", "Sensitive"}

var shadeNames = []string{
	"Nairobi Nude", "Kilimani Caramel", "Eldoret Espresso", "Mombasa Mocha", "Kisumu Cocoa",
	"Embu Ivory", "Malindi Sand", "Thika Beige", "Meru Chestnut", "Kakamega Amber",
	"Naivasha Rose", "Diani Coral", "Maasai Red", "Lakeview Plum", "Turkana Bronze",
}

var styles = []string{"Matte", "Silk", "Radiant", "Ultra", "Hydra", "Pro", "Velvet"}

var descriptions = []string{
	"Lightweight, long-wear formula designed for comfort in warm climates.",
	"Hydrating finish with buildable coverage and skin-loving botanicals.",
	"Matte yet breathable, formulated for all-day Nairobi hustle.",
	"Vitamin-enriched blend for a luminous, photo-ready glow.",
	"Dermatologist-tested, suitable for sensitive and combination skin.",
}

var ingredients = []string{
	"Aqua, Glycerin, Shea Butter, Vitamin E, Fragrance.",
	"Aqua, Hyaluronic Acid, Niacinamide, Vitamin C, Aloe Vera.",
	"Aqua, Squalane, Jojoba Oil, Shea Butter, Tocopherol.",
	"Aqua, Zinc Oxide, Titanium Dioxide, Vitamin E.",
	"Aqua, Lactic Acid, Glycerin, Green Tea Extract.",
}

// sampleImages are safe stock fallbacks when no lookup result is usable.
var sampleImages = []string{
	"https://images.unsplash.com/photo-1512496015851-a90fb38ba796?q=80&w=1200&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1522335789203-aabd1fc54bc9?q=80&w=1200&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1522335789203-9d5f4b8f96d1?q=80&w=1200&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1505577072269-83d9b993f1f4?q=80&w=1200&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1585386959984-a41552231653?q=80&w=1200&auto=format&fit=crop",
}

// marketName pairs a real shelf product with the search query that finds
// its photo. Renaming to one of these raises the lookup hit rate.
type marketName struct {
	name  string
	query string
}

var marketNames = map[string][]marketName{
	"Lipstick": {
		{"Maybelline SuperStay Matte Ink", "Maybelline SuperStay Matte Ink lipstick"},
		{"MAC Retro Matte Ruby Woo", "MAC Ruby Woo lipstick"},
		{"Fenty Beauty Stunna Lip Paint", "Fenty Beauty Stunna Lip Paint"},
		{"Revlon Super Lustrous Lipstick", "Revlon Super Lustrous lipstick"},
	},
	"Foundation": {
		{"Maybelline Fit Me Matte + Poreless", "Maybelline Fit Me foundation bottle"},
		{"L'Oréal Paris True Match", "Loreal True Match foundation"},
		{"Black Opal True Color Stick Foundation", "Black Opal foundation stick"},
		{"Fenty Beauty Pro Filt'r Soft Matte", "Fenty Pro Filt'r foundation"},
	},
	"Concealer": {
		{"Maybelline Instant Age Rewind Concealer", "Maybelline Age Rewind concealer"},
		{"NARS Radiant Creamy Concealer", "NARS Radiant Creamy Concealer"},
		{"L.A. Girl Pro Conceal", "LA Girl Pro Conceal"},
	},
	"Mascara": {
		{"L'Oréal Voluminous Lash Paradise", "Loreal Lash Paradise mascara"},
		{"Maybelline Lash Sensational", "Maybelline Lash Sensational mascara"},
		{"Essence Lash Princess", "Essence Lash Princess mascara"},
	},
	"Blush": {
		{"NARS Blush Orgasm", "NARS Orgasm blush"},
		{"MAC Powder Blush", "MAC Powder Blush"},
		{"Maybelline Fit Me Blush", "Maybelline Fit Me blush"},
	},
	"Skincare": {
		{"CeraVe Hydrating Cleanser", "CeraVe Hydrating Cleanser"},
		{"Neutrogena Hydro Boost Water Gel", "Neutrogena Hydro Boost"},
		{"Garnier Micellar Cleansing Water", "Garnier Micellar Water"},
	},
	"Fragrance": {
		{"Carolina Herrera Good Girl", "Good Girl perfume"},
		{"Dior J'adore", "J'adore Dior perfume bottle"},
		{"YSL Black Opium", "YSL Black Opium perfume"},
	},
	"Serum": {
		{"The Ordinary Niacinamide 10% + Zinc 1%", "The Ordinary Niacinamide"},
		{"L'Oréal Revitalift Serum", "Loreal Revitalift serum"},
		{"Garnier Vitamin C Serum", "Garnier Vitamin C Serum"},
	},
	"Sunscreen": {
		{"NIVEA Sun Protect & Moisture", "Nivea Sun Protect Moisture sunscreen"},
		{"Neutrogena Ultra Sheer", "Neutrogena Ultra Sheer Dry-Touch"},
		{"La Roche-Posay Anthelios", "La Roche-Posay Anthelios sunscreen"},
	},
	"Cleanser": {
		{"CeraVe Foaming Cleanser", "CeraVe Foaming Facial Cleanser"},
		{"Simple Kind To Skin Facial Wash", "Simple facial wash"},
		{"Garnier Pure Active", "Garnier Pure Active cleanser"},
	},
	"Toner": {
		{"Thayers Witch Hazel Toner", "Thayers Witch Hazel Toner"},
		{"The Ordinary Glycolic Acid 7% Toning Solution", "Ordinary Glycolic Acid Toner"},
	},
	"Setting Spray": {
		{"Urban Decay All Nighter", "Urban Decay All Nighter Setting Spray"},
		{"NYX Matte Finish Setting Spray", "NYX Matte Finish Setting Spray"},
	},
	"Highlighter": {
		{"Becca Shimmering Skin Perfector", "Becca highlighter compact"},
		{"Maybelline Master Chrome", "Maybelline Master Chrome highlighter"},
	},
	"Eyeshadow": {
		{"Huda Beauty Obsessions Palette", "Huda Beauty Obsessions eyeshadow"},
		{"NYX Ultimate Shadow Palette", "NYX Ultimate Shadow Palette"},
	},
	"Nail Polish": {
		{"OPI Nail Lacquer", "OPI nail polish bottle"},
		{"Essie Nail Polish", "Essie nail polish bottle"},
	},
	"Body Lotion": {
		{"NIVEA Body Lotion", "Nivea body lotion bottle"},
		{"Vaseline Intensive Care Lotion", "Vaseline Intensive Care body lotion"},
	},
	"Haircare": {
		{"Tresemme Keratin Smooth", "Tresemme Keratin Smooth shampoo"},
		{"L'Oréal Elvive", "Loreal Elvive shampoo"},
	},
	"Lip Gloss": {
		{"Fenty Beauty Gloss Bomb", "Fenty Beauty Gloss Bomb"},
		{"NYX Butter Gloss", "NYX Butter Gloss"},
	},
	"BB Cream": {
		{"Garnier BB Cream", "Garnier BB cream"},
		{"Maybelline Dream Fresh BB", "Maybelline Dream Fresh BB Cream"},
	},
}

// cosmeticImages is the curated pool used when lookups are off.
var cosmeticImages = []string{
	"https://im.idiva.com/content/2023/Apr/1-66_643e75b0c37b6.jpg?w=900&h=675&cc=1",
	"https://lfactorcosmetics.com/cdn/shop/articles/Essential_makeup_products.jpg?v=1701681592",
	"https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcSKHQv8G9ZTSr_ga1KBy-ntsZ6GKaDJjDr8Gg&s",
	"https://m.media-amazon.com/images/I/71W25WUkTUL._AC_UF1000,1000_QL80_.jpg",
	"https://www.ubuy.ke/productimg/?image=aHR0cHM6Ly9tLm1lZGlhLWFtYXpvbi5jb20vaW1hZ2VzL0kvNzFPK3A2LWpGbUwuX1NMMTUwMF8uanBn.jpg",
	"https://thumbs.dreamstime.com/b/set-various-watercolor-decorative-cosmetic-makeup-products-beauty-items-mascara-lipstick-foundation-cream-brushes-eye-shadow-69331688.jpg",
	"https://i.pinimg.com/736x/ba/73/66/ba736612e254ea4c1ed5fd9ad180d09d.jpg",
}

// Generator produces randomized Kenya-market cosmetics.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator creates a Generator. A zero seed uses the clock.
func NewGenerator(seedVal int64) *Generator {
	if seedVal == 0 {
		seedVal = time.Now().UnixNano()
	}
	return &Generator{rnd: rand.New(rand.NewSource(seedVal))}
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rnd.Intn(len(pool))]
}

// randomPrice returns a KES price in [299, 4999] rounded to ten shillings.
func (g *Generator) randomPrice() float64 {
	base := 299 + g.rnd.Float64()*(4999-299)
	return float64(int(base/10+0.5) * 10)
}

// randomSale leaves half the products at full price; the rest get 70-95%
// of the list price, rounded to whole shillings.
func (g *Generator) randomSale(price float64) float64 {
	if g.rnd.Intn(2) == 0 {
		return price
	}
	factor := 0.70 + g.rnd.Float64()*0.25
	return float64(int(price*factor + 0.5))
}

// randomName builds "Brand Style Category" with an optional shade suffix.
func (g *Generator) randomName() string {
	name := fmt.Sprintf("%s %s %s", g.pick(brands), g.pick(styles), g.pick(categories))
	if g.rnd.Intn(2) == 1 {
		name += " - " + g.pick(shadeNames)
	}
	return name
}

// categoryFromName returns the pool category contained in the name, or a
// random one when the name carries none.
func (g *Generator) categoryFromName(name string) string {
	for _, c := range categories {
		if strings.Contains(name, c) {
			return c
		}
	}
	return g.pick(categories)
}

// Product builds one randomized catalog document without an image; the
// caller assigns image_url so lookups stay optional.
func (g *Generator) Product() *models.Product {
	name := g.randomName()
	price := g.randomPrice()
	now := time.Now().UTC()

	return &models.Product{
		Name:        name,
		Slug:        utils.Slugify(name),
		Brand:       firstWord(name),
		Category:    g.categoryFromName(name),
		Price:       price,
		SalePrice:   g.randomSale(price),
		Currency:    "KES",
		Market:      "KE",
		Tags:        []string{"Kenya", "Ladies", "Beauty"},
		Description: g.pick(descriptions),
		Ingredients: g.pick(ingredients),
		SkinType:    g.pick(skinTypes),
		Rating:      float64(int(40+g.rnd.Float64()*10+0.5)) / 10,
		Stock:       10 + g.rnd.Intn(491),
		IsFeatured:  g.rnd.Intn(10) == 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// marketNameFor picks a real shelf product for the category, falling back
// to a generic name when the category has no curated entries.
func (g *Generator) marketNameFor(category string) marketName {
	options := marketNames[category]
	if len(options) == 0 {
		return marketName{
			name:  category + " Classic",
			query: category + " product bottle",
		}
	}
	return options[g.rnd.Intn(len(options))]
}

// PoolImage picks from the curated cosmetic image pool.
func (g *Generator) PoolImage() string {
	return g.pick(cosmeticImages)
}

// SampleImage picks a stock fallback image.
func (g *Generator) SampleImage() string {
	return g.pick(sampleImages)
}

func firstWord(s string) string {
	word, _, _ := strings.Cut(s, " ")
	return word
}
