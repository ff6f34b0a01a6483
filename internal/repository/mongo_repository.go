package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/pickup-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const MenuCollection = "menuItems"

var ErrMenuItemNotFound = errors.New("menu item not found")

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) MenuRepository {
	return &mongoRepository{
		collection: db.Collection(MenuCollection),
	}
}

func (m mongoRepository) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]domain.MenuItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode menu: %w", err)
	}

	return items, nil
}

func (m mongoRepository) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	var item domain.MenuItem

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}

	return &item, nil
}

func (m mongoRepository) UpsertMenuItem(ctx context.Context, item domain.MenuItem) error {
	filter := bson.M{"_id": item.ID}
	update := bson.M{
		"$set": bson.M{
			"name":        item.Name,
			"description": item.Description,
			"price":       item.UnitPrice,
			"image":       item.ImageRef,
			"category":    item.Category,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert menu item: %w", err)
	}

	return nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// EnsureIndexes creates the menu indexes when repo is backed by MongoDB
func EnsureIndexes(ctx context.Context, repo MenuRepository) error {
	if m, ok := repo.(*mongoRepository); ok {
		return m.CreateIndexes(ctx)
	}
	return nil
}
