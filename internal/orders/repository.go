package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
)

// Repository persists submitted orders and serves order history.
type Repository interface {
	Insert(ctx context.Context, order *domain.Order) (string, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// ProfileRepository syncs the profile convenience cache after an order.
type ProfileRepository interface {
	RecordOrder(ctx context.Context, userID string, draft *domain.CheckoutDraft) error
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateFields(ctx context.Context, userID string, fields map[string]any) error
}

type mongoRepository struct {
	orders *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{orders: db.Collection("orders")}
}

// Insert writes the order with a server-assigned createdAt so clock-skewed
// clients cannot reorder history. The upsert with $currentDate is the mongo
// equivalent of a server timestamp on insert.
func (m *mongoRepository) Insert(ctx context.Context, order *domain.Order) (string, error) {
	id := uuid.New().String()
	doc := bson.M{
		"userId": order.UserID,
	}
	draft, err := bson.Marshal(order.CheckoutDraft)
	if err != nil {
		return "", fmt.Errorf("failed to encode order: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(draft, &fields); err != nil {
		return "", fmt.Errorf("failed to encode order: %w", err)
	}
	for k, v := range fields {
		doc[k] = v
	}

	update := bson.M{
		"$set":         doc,
		"$currentDate": bson.M{"createdAt": true},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := m.orders.UpdateOne(ctx, bson.M{"_id": id}, update, opts); err != nil {
		return "", fmt.Errorf("failed to insert order: %w", err)
	}
	return id, nil
}

func (m *mongoRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.orders.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	var result []domain.Order
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return result, nil
}

type mongoProfileRepository struct {
	profiles *mongo.Collection
}

func NewMongoProfileRepository(db *mongo.Database) ProfileRepository {
	return &mongoProfileRepository{profiles: db.Collection("userProfiles")}
}

// RecordOrder overwrites contact fields with the latest order's values and
// bumps the order counter. The profile is a cache over order history, last
// write wins.
func (m *mongoProfileRepository) RecordOrder(ctx context.Context, userID string, draft *domain.CheckoutDraft) error {
	update := bson.M{
		"$set": bson.M{
			"name":        draft.CustomerName,
			"phone":       draft.CustomerPhone,
			"email":       draft.CustomerEmail,
			"lastAddress": draft.AddressDetails,
		},
		"$inc":         bson.M{"totalOrders": 1},
		"$currentDate": bson.M{"lastOrderDate": true, "updatedAt": true},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := m.profiles.UpdateOne(ctx, bson.M{"_id": userID}, update, opts); err != nil {
		return fmt.Errorf("failed to sync profile: %w", err)
	}
	return nil
}

func (m *mongoProfileRepository) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := m.profiles.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// UpdateFields applies a partial profile edit, used by the completion step
// and the profile page.
func (m *mongoProfileRepository) UpdateFields(ctx context.Context, userID string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	update := bson.M{
		"$set":         set,
		"$currentDate": bson.M{"updatedAt": true},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := m.profiles.UpdateOne(ctx, bson.M{"_id": userID}, update, opts); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
