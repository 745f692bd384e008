// Package mongostore persists transactions in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

const Collection = "transactions"

type document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"ownerId"`
	Title       string             `bson:"title"`
	Amount      float64            `bson:"amount"`
	Type        string             `bson:"type"`
	Date        time.Time          `bson:"date"`
	Category    string             `bson:"category"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type Store struct {
	coll    *mongo.Collection
	Timeout time.Duration
}

// Connect dials uri, pings the primary and returns a store over db.transactions.
func Connect(ctx context.Context, uri, db string, timeout time.Duration) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := New(client.Database(db))
	s.Timeout = timeout
	return s, nil
}

func New(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(Collection)}
}

// EnsureIndexes creates the owner/date index that backs List.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "date", Value: -1}},
		Options: options.Index().SetName("owner_date"),
	})
	return err
}

func (s *Store) Close(ctx context.Context) error {
	return s.coll.Database().Client().Disconnect(ctx)
}

func (s *Store) Insert(ctx context.Context, t transactions.Transaction) (transactions.Transaction, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	doc := fromTransaction(t)
	doc.ID = primitive.NewObjectID()
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return transactions.Transaction{}, err
	}
	return doc.toTransaction(), nil
}

func (s *Store) FindByOwner(ctx context.Context, ownerID string) ([]transactions.Transaction, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, err
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]transactions.Transaction, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toTransaction())
	}
	return out, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (transactions.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return transactions.Transaction{}, transactions.ErrNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc document
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return transactions.Transaction{}, transactions.ErrNotFound
		}
		return transactions.Transaction{}, err
	}
	return doc.toTransaction(), nil
}

func (s *Store) Update(ctx context.Context, id, ownerID string, p transactions.Patch, updatedAt time.Time) (transactions.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return transactions.Transaction{}, transactions.ErrNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	set := patchFields(p)
	set["updatedAt"] = updatedAt

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc document
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid, "ownerId": ownerID}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return transactions.Transaction{}, transactions.ErrNotFound
		}
		return transactions.Transaction{}, err
	}
	return doc.toTransaction(), nil
}

func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return transactions.ErrNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return transactions.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}

func patchFields(p transactions.Patch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Amount != nil {
		set["amount"] = *p.Amount
	}
	if p.Type != nil {
		set["type"] = string(*p.Type)
	}
	if p.Date != nil {
		set["date"] = *p.Date
	}
	if p.Category != nil {
		set["category"] = strings.TrimSpace(*p.Category)
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	return set
}

func fromTransaction(t transactions.Transaction) document {
	return document{
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Amount:      t.Amount,
		Type:        string(t.Type),
		Date:        t.Date,
		Category:    t.Category,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d document) toTransaction() transactions.Transaction {
	return transactions.Transaction{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Amount:      d.Amount,
		Type:        transactions.Type(d.Type),
		Date:        d.Date.UTC(),
		Category:    d.Category,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}
