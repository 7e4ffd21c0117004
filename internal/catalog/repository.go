package catalog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
)

// Repository reads the product and category collections. Consumers define the
// interface, not the MongoDB implementation.
type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type mongoRepository struct {
	products   *mongo.Collection
	categories *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		products:   db.Collection("products"),
		categories: db.Collection("categories"),
	}
}

// rawProduct tolerates the two document shapes that coexist in the products
// collection: a legacy single "category" string and the newer "categories"
// array. Normalization happens here once so nothing downstream branches on
// shape again.
type rawProduct struct {
	ID           string    `bson:"_id,omitempty"`
	Name         string    `bson:"name"`
	Description  string    `bson:"description"`
	Price        float64   `bson:"price"`
	RegularPrice float64   `bson:"regularPrice"`
	Category     string    `bson:"category"`
	Categories   []string  `bson:"categories"`
	Keywords     []string  `bson:"keywords"`
	ThumbnailURL string    `bson:"thumbnailUrl"`
	ImageURLs    []string  `bson:"imageUrls"`
	Colors       []string  `bson:"colors"`
	Sizes        []string  `bson:"sizes"`
	CreatedAt    time.Time `bson:"createdAt"`
}

func (r rawProduct) normalize() domain.Product {
	categories := r.Categories
	if len(categories) == 0 && r.Category != "" {
		categories = []string{r.Category}
	}
	return domain.Product{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		RegularPrice: r.RegularPrice,
		Categories:   categories,
		Keywords:     r.Keywords,
		ThumbnailURL: r.ThumbnailURL,
		ImageURLs:    r.ImageURLs,
		Colors:       r.Colors,
		Sizes:        r.Sizes,
		CreatedAt:    r.CreatedAt,
	}
}

func (m *mongoRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []domain.Product
	for cursor.Next(ctx) {
		var raw rawProduct
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, raw.normalize())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration error: %w", err)
	}
	return products, nil
}

func (m *mongoRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []domain.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

// ConnectMongoDB dials the document store with the pool settings used across
// the app.
func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client.Database(database), nil
}
