// Package mongostore keeps ledger entries in a MongoDB collection, one document per entry.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	interfaces "github.com/sheikh-saqib/bookkeeping-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models"
)

const (
	DefaultDatabase = "ledger"
	Collection      = "ledgers"
)

// entryDocument is the stored shape. Amounts are Decimal128 so sums stay exact.
type entryDocument struct {
	ID             string               `bson:"_id"`
	AccountName    string               `bson:"accountName"`
	AmountDue      primitive.Decimal128 `bson:"amountDue"`
	AmountReceived primitive.Decimal128 `bson:"amountReceived"`
	Reference      string               `bson:"reference"`
	Date           string               `bson:"date"`
}

type MongoLedgerStore struct {
	client *mongo.Client
	db     *mongo.Database
	coll   *mongo.Collection
}

// Open connects using the database named in the URI path, or DefaultDatabase.
func Open(ctx context.Context, uri string) (*MongoLedgerStore, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid mongo uri: %w", err)
	}
	name := cs.Database
	if name == "" {
		name = DefaultDatabase
	}
	return OpenDatabase(ctx, uri, name)
}

func OpenDatabase(ctx context.Context, uri, database string) (*MongoLedgerStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	coll := db.Collection(Collection)

	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "accountName", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create accountName index: %w", err)
	}

	return &MongoLedgerStore{client: client, db: db, coll: coll}, nil
}

func (m *MongoLedgerStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoLedgerStore) Create(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	doc, err := toDocument(entry)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		return models.LedgerEntry{}, err
	}
	return entry, nil
}

func (m *MongoLedgerStore) Update(ctx context.Context, id string, entry models.LedgerEntry) (models.LedgerEntry, error) {
	entry.ID = id
	doc, err := toDocument(entry)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	res, err := m.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if res.MatchedCount == 0 {
		return models.LedgerEntry{}, interfaces.ErrNotFound
	}
	return entry, nil
}

func (m *MongoLedgerStore) Get(ctx context.Context, id string) (models.LedgerEntry, error) {
	var doc entryDocument
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.LedgerEntry{}, interfaces.ErrNotFound
	}
	if err != nil {
		return models.LedgerEntry{}, err
	}
	return fromDocument(doc)
}

func (m *MongoLedgerStore) ListAll(ctx context.Context) ([]models.LedgerEntry, error) {
	return m.find(ctx, bson.M{})
}

func (m *MongoLedgerStore) ListByAccount(ctx context.Context, accountName string) ([]models.LedgerEntry, error) {
	return m.find(ctx, bson.M{"accountName": accountName})
}

// CreateBulk uses an ordered InsertMany. A standalone server has no
// multi-document transactions, so on failure the documents written before
// the failing one are deleted again.
func (m *MongoLedgerStore) CreateBulk(ctx context.Context, entries []models.LedgerEntry) (int, error) {
	docs := make([]any, len(entries))
	ids := make([]string, len(entries))
	for i, e := range entries {
		doc, err := toDocument(e)
		if err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
		docs[i] = doc
		ids[i] = e.ID
	}

	_, err := m.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err == nil {
		return len(entries), nil
	}

	inserted := ids
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) && len(bwe.WriteErrors) > 0 {
		inserted = ids[:bwe.WriteErrors[0].Index]
	}
	if len(inserted) > 0 {
		if _, delErr := m.coll.DeleteMany(context.WithoutCancel(ctx), bson.M{"_id": bson.M{"$in": inserted}}); delErr != nil {
			return 0, fmt.Errorf("bulk insert failed: %v; rollback failed: %w", err, delErr)
		}
	}
	return 0, fmt.Errorf("bulk insert failed: %w", err)
}

func (m *MongoLedgerStore) find(ctx context.Context, filter bson.M) ([]models.LedgerEntry, error) {
	cur, err := m.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []entryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	entries := make([]models.LedgerEntry, 0, len(docs))
	for _, doc := range docs {
		e, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func toDocument(e models.LedgerEntry) (entryDocument, error) {
	due, err := primitive.ParseDecimal128(e.AmountDue.String())
	if err != nil {
		return entryDocument{}, fmt.Errorf("amountDue: %w", err)
	}
	received, err := primitive.ParseDecimal128(e.AmountReceived.String())
	if err != nil {
		return entryDocument{}, fmt.Errorf("amountReceived: %w", err)
	}
	return entryDocument{
		ID:             e.ID,
		AccountName:    e.AccountName,
		AmountDue:      due,
		AmountReceived: received,
		Reference:      e.Reference,
		Date:           e.Date.String(),
	}, nil
}

func fromDocument(doc entryDocument) (models.LedgerEntry, error) {
	due, err := decimal.NewFromString(doc.AmountDue.String())
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("entry %s amountDue: %w", doc.ID, err)
	}
	received, err := decimal.NewFromString(doc.AmountReceived.String())
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("entry %s amountReceived: %w", doc.ID, err)
	}
	date, err := models.ParseDate(doc.Date)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("entry %s: %w", doc.ID, err)
	}
	return models.LedgerEntry{
		ID:             doc.ID,
		AccountName:    doc.AccountName,
		AmountDue:      due,
		AmountReceived: received,
		Reference:      doc.Reference,
		Date:           date,
	}, nil
}

var _ interfaces.LedgerStore = (*MongoLedgerStore)(nil)
