// Package store implements the user record store on top of MongoDB
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	// ErrInvalidID marks an id string that is not a valid ObjectID hex.
	// Distinct from ErrNotFound: a malformed id is a caller error.
	ErrInvalidID = errors.New("invalid user id")
	ErrNotFound  = errors.New("user not found")
)

// User is a single stored user record
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

// UserStore defines the persistence contract for user records
type UserStore interface {
	// ListAll returns every stored user. Order is the collection's
	// natural cursor order and must not be relied upon.
	ListAll(ctx context.Context) ([]User, error)
	// GetByID retrieves one user, ErrNotFound if no record matches
	GetByID(ctx context.Context, id string) (*User, error)
	// Insert persists a new user and returns it with the assigned id
	Insert(ctx context.Context, name, email string) (*User, error)
	// DeleteByID removes at most one user, reporting whether it existed
	DeleteByID(ctx context.Context, id string) (bool, error)
	// Ping verifies the storage engine is reachable
	Ping(ctx context.Context) error
}

// Store is the MongoDB-backed UserStore. Safe for concurrent use:
// it holds only the driver handles.
type Store struct {
	client *mongo.Client
	users  *mongo.Collection
	logger *zap.Logger
}

// Connect opens the Mongo client, pings it and selects the target collection
func Connect(ctx context.Context, uri, db, collection string, logger *zap.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("Connected to MongoDB",
		zap.String("db", db),
		zap.String("collection", collection))

	return &Store{
		client: client,
		users:  client.Database(db).Collection(collection),
		logger: logger,
	}, nil
}

// Close disconnects the underlying client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) ListAll(ctx context.Context) ([]User, error) {
	cursor, err := s.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var u User
	err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) Insert(ctx context.Context, name, email string) (*User, error) {
	res, err := s.users.InsertOne(ctx, bson.M{"name": name, "email": email})
	if err != nil {
		return nil, err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	return &User{ID: oid, Name: name, Email: email}, nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrInvalidID
	}

	res, err := s.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
