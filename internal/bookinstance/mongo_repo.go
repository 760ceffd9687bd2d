package bookinstance

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"locallibrary/internal/book"
)

// Collection is the document-store collection holding book instances.
const Collection = "bookinstances"

// document is the stored shape of a book instance. BookDoc is only set
// on reads, by the $lookup stage.
type document struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Book    primitive.ObjectID `bson:"book"`
	Imprint string             `bson:"imprint"`
	Status  string             `bson:"status"`
	DueBack *time.Time         `bson:"due_back,omitempty"`
	BookDoc *book.Document     `bson:"book_doc,omitempty"`
}

func (p document) instance() BookInstance {
	bi := BookInstance{
		ID:      p.ID.Hex(),
		BookID:  p.Book.Hex(),
		Imprint: p.Imprint,
		Status:  Status(p.Status),
		DueBack: p.DueBack,
	}
	if p.BookDoc != nil {
		bi.Book = p.BookDoc.Book()
	}
	return bi
}

func toDocument(bi BookInstance) (document, error) {
	bookID, err := primitive.ObjectIDFromHex(bi.BookID)
	if err != nil {
		return document{}, fmt.Errorf("invalid book reference %q: %w", bi.BookID, err)
	}
	return document{
		Book:    bookID,
		Imprint: bi.Imprint,
		Status:  string(bi.Status),
		DueBack: bi.DueBack,
	}, nil
}

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

// aggregate runs match, resolves the book reference, and sorts.
func (r *MongoRepo) aggregate(ctx context.Context, match bson.D, sort bson.D) ([]BookInstance, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: book.Collection},
			{Key: "localField", Value: "book"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "book_doc"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$book_doc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$sort", Value: sort}},
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	cur, err := r.coll.Aggregate(timeoutCtx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(timeoutCtx)

	var out []BookInstance
	for cur.Next(timeoutCtx) {
		var p document
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, p.instance())
	}
	return out, cur.Err()
}

func (r *MongoRepo) List(ctx context.Context) ([]BookInstance, error) {
	return r.aggregate(ctx, bson.D{}, bson.D{{Key: "book_doc.title", Value: 1}, {Key: "imprint", Value: 1}})
}

func (r *MongoRepo) ListByBook(ctx context.Context, bookID string) ([]BookInstance, error) {
	oid, err := primitive.ObjectIDFromHex(bookID)
	if err != nil {
		return nil, nil
	}
	return r.aggregate(ctx, bson.D{{Key: "book", Value: oid}}, bson.D{{Key: "imprint", Value: 1}})
}

func (r *MongoRepo) Get(ctx context.Context, id string) (BookInstance, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return BookInstance{}, ErrNotFound
	}
	out, err := r.aggregate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "_id", Value: 1}})
	if err != nil {
		return BookInstance{}, err
	}
	if len(out) == 0 {
		return BookInstance{}, ErrNotFound
	}
	return out[0], nil
}

func (r *MongoRepo) Create(ctx context.Context, bi *BookInstance) error {
	doc, err := toDocument(*bi)
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.coll.InsertOne(timeoutCtx, doc)
	if err != nil {
		return err
	}
	bi.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *MongoRepo) Update(ctx context.Context, bi BookInstance) error {
	oid, err := primitive.ObjectIDFromHex(bi.ID)
	if err != nil {
		return ErrNotFound
	}
	doc, err := toDocument(bi)
	if err != nil {
		return err
	}
	doc.ID = oid

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.coll.ReplaceOne(timeoutCtx, bson.D{{Key: "_id", Value: oid}}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.coll.DeleteOne(timeoutCtx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Count(ctx context.Context, status Status) (int, error) {
	filter := bson.D{}
	if status != "" {
		filter = bson.D{{Key: "status", Value: string(status)}}
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	n, err := r.coll.CountDocuments(timeoutCtx, filter)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
