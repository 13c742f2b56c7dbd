package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Haroldke13/geniusbabycosmetics/internal/models"
)

const (
	chunkSize = 250

	// Duplicate slugs burn attempts without producing documents, so the
	// generation loop gets a bounded overshoot before giving up.
	attemptsPerDoc = 6
)

// ImageMode selects how product photos are filled in.
type ImageMode string

const (
	// ImagesPool picks from the curated image pool, no network calls.
	ImagesPool ImageMode = "pool"
	// ImagesLookup resolves photos through the provider chain.
	ImagesLookup ImageMode = "lookup"
)

// Options configures a seeding run.
type Options struct {
	Count  int
	Drop   bool
	Images ImageMode
	Seed   int64
	Finder *ImageFinder
}

// Run generates and inserts randomized products. It returns the number of
// documents actually written; slug collisions and failed inserts are
// skipped, not fatal.
func Run(ctx context.Context, db *mongo.Database, opts Options) (int, error) {
	if opts.Count <= 0 {
		opts.Count = 120
	}
	if opts.Images == "" {
		opts.Images = ImagesPool
	}
	if opts.Images == ImagesLookup && opts.Finder == nil {
		opts.Finder = NewImageFinder(FinderConfigFromEnv())
	}

	coll := db.Collection("products")
	if opts.Drop {
		if err := coll.Drop(ctx); err != nil {
			return 0, fmt.Errorf("drop products: %w", err)
		}
		log.Info().Msg("Dropped products collection")
	}

	seen, err := existingSlugs(ctx, coll)
	if err != nil {
		return 0, fmt.Errorf("load existing slugs: %w", err)
	}
	log.Info().Int("existing", len(seen)).Int("target", opts.Count).Msg("Seeding products")

	gen := NewGenerator(opts.Seed)

	var (
		batch    []any
		inserted int
		queued   int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := insertBatch(ctx, coll, batch)
		inserted += n
		batch = batch[:0]
		return err
	}

	for attempts := 0; queued < opts.Count && attempts < opts.Count*attemptsPerDoc; attempts++ {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}

		p := gen.Product()
		if seen[p.Slug] {
			continue
		}

		switch opts.Images {
		case ImagesLookup:
			opts.Finder.AssignImage(ctx, gen, p)
			// The lookup may have renamed the product; the new slug can
			// collide where the generated one did not.
			if seen[p.Slug] {
				continue
			}
		default:
			p.ImageURL = gen.PoolImage()
		}

		seen[p.Slug] = true
		batch = append(batch, p)
		queued++

		if len(batch) >= chunkSize {
			if err := flush(); err != nil {
				return inserted, err
			}
		}
	}

	if err := flush(); err != nil {
		return inserted, err
	}

	log.Info().Int("inserted", inserted).Int("queued", queued).Msg("Seeding finished")
	return inserted, nil
}

// existingSlugs collects every slug already in the collection so reruns
// only add new products.
func existingSlugs(ctx context.Context, coll *mongo.Collection) (map[string]bool, error) {
	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"slug": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	seen := map[string]bool{}
	for cursor.Next(ctx) {
		var doc struct {
			Slug string `bson:"slug"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		if doc.Slug != "" {
			seen[doc.Slug] = true
		}
	}
	return seen, cursor.Err()
}

// insertBatch bulk inserts unordered and falls back to per-document writes
// when the bulk call reports errors, so one bad document cannot sink the
// chunk.
func insertBatch(ctx context.Context, coll *mongo.Collection, batch []any) (int, error) {
	res, err := coll.InsertMany(ctx, batch, options.InsertMany().SetOrdered(false))
	if err == nil {
		return len(res.InsertedIDs), nil
	}

	log.Warn().Err(err).Int("size", len(batch)).Msg("Bulk insert failed, retrying per document")

	inserted := 0
	for _, doc := range batch {
		if _, err := coll.InsertOne(ctx, doc); err != nil {
			p, _ := doc.(*models.Product)
			if p != nil {
				log.Debug().Err(err).Str("slug", p.Slug).Msg("Document insert failed")
			}
			continue
		}
		inserted++
	}
	return inserted, nil
}
