package book

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the document-store collection holding books.
const Collection = "books"

type MongoRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoRepo(db *mongo.Database, timeout time.Duration) *MongoRepo {
	return &MongoRepo{coll: db.Collection(Collection), timeout: timeout}
}

func (r *MongoRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *MongoRepo) List(ctx context.Context) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})
	cur, err := r.coll.Find(timeoutCtx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(timeoutCtx)

	var out []Book
	for cur.Next(timeoutCtx) {
		var d Document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.Book())
	}
	return out, cur.Err()
}

func (r *MongoRepo) Get(ctx context.Context, id string) (Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Book{}, ErrNotFound
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var d Document
	if err := r.coll.FindOne(timeoutCtx, bson.D{{Key: "_id", Value: oid}}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return d.Book(), nil
}

func (r *MongoRepo) Count(ctx context.Context) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(timeoutCtx, bson.D{})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Insert stores a new book and sets its identity. Used by the seeder.
func (r *MongoRepo) Insert(ctx context.Context, b *Book) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.InsertOne(timeoutCtx, Document{
		Title:   b.Title,
		Author:  b.Author,
		Summary: b.Summary,
		ISBN:    b.ISBN,
	})
	if err != nil {
		return err
	}
	b.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}
