package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kakao-login/internal/domain"
)

const UsersCollection = "users"

var ErrUserNotFound = errors.New("user not found")

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	// UpsertByProviderID inserta el usuario si no existe su provider_id y
	// devuelve el registro almacenado. En un usuario existente solo se
	// refresca updated_at.
	UpsertByProviderID(ctx context.Context, user domain.User) (domain.User, error)
	GetByProviderID(ctx context.Context, providerID string) (domain.User, error)
	Ping(ctx context.Context) error
}

// MongoUserRepository implementa UserRepository sobre una colección de MongoDB.
type MongoUserRepository struct {
	db    *mongo.Database
	users *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		db:    db,
		users: db.Collection(UsersCollection),
	}
}

// EnsureIndexes crea el índice único sobre provider_id.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "provider_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_provider_id"),
	})
	if err != nil {
		return fmt.Errorf("create provider_id index: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) UpsertByProviderID(ctx context.Context, user domain.User) (domain.User, error) {
	now := user.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	insert := bson.M{
		"_id":        user.ID,
		"email":      user.Email,
		"created_at": createdAt,
	}
	if user.ProfileImageURL != "" {
		insert["profile_image_url"] = user.ProfileImageURL
	}
	update := bson.M{
		"$setOnInsert": insert,
		"$set":         bson.M{"updated_at": now},
	}
	filter := bson.M{"provider_id": user.ProviderID}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.User
	err := r.users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if mongo.IsDuplicateKeyError(err) {
		// Otro login concurrente del mismo usuario insertó primero.
		err = r.users.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"updated_at": now}},
			options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&stored)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("upsert user %s: %w", user.ProviderID, err)
	}
	return stored, nil
}

func (r *MongoUserRepository) GetByProviderID(ctx context.Context, providerID string) (domain.User, error) {
	var u domain.User
	err := r.users.FindOne(ctx, bson.M{"provider_id": providerID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *MongoUserRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}
