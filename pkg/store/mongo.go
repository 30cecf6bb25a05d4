package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindwell/mindgrid/pkg/mapdoc"
	"github.com/mindwell/mindgrid/pkg/observability"
)

// MongoStore implements DocumentStore on a MongoDB collection.
// Documents are upserted by name, so saving twice replaces the previous
// version in place.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoRecord is the stored shape: the document plus bookkeeping fields.
type mongoRecord struct {
	Name      string          `bson:"_id"`
	Document  mapdoc.Document `bson:"document"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

// NewMongoStore connects to the given URI and uses the "maps" collection
// of the named database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection("maps"),
	}, nil
}

// Save upserts the document under name.
func (s *MongoStore) Save(ctx context.Context, name string, doc mapdoc.Document) error {
	rec := mongoRecord{
		Name:      name,
		Document:  doc,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": name},
		rec,
		options.Replace().SetUpsert(true),
	)
	observability.Store().OnStoreWrite(ctx, "mongo", name, len(doc.Nodes), err)
	if err != nil {
		return fmt.Errorf("save document %s: %w", name, err)
	}
	return nil
}

// Load retrieves the document stored under name.
func (s *MongoStore) Load(ctx context.Context, name string) (mapdoc.Document, error) {
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	observability.Store().OnStoreRead(ctx, "mongo", name, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return mapdoc.Document{}, ErrNotFound
		}
		return mapdoc.Document{}, fmt.Errorf("load document %s: %w", name, err)
	}
	return rec.Document, nil
}

// Delete removes the document. Deleting a missing name is not an error.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return fmt.Errorf("delete document %s: %w", name, err)
	}
	return nil
}

// List returns the names of all stored documents in sorted order.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Find(ctx,
		bson.M{},
		options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var rec struct {
			Name string `bson:"_id"`
		}
		if err := cur.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode document name: %w", err)
		}
		names = append(names, rec.Name)
	}
	return names, cur.Err()
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements DocumentStore.
var _ DocumentStore = (*MongoStore)(nil)
