package etl

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BartekS5/uncoupledetl/pkg/database"
	"github.com/BartekS5/uncoupledetl/pkg/etlerrors"
	"github.com/BartekS5/uncoupledetl/pkg/models"
)

// LoadToMongo writes records into a MongoDB collection named after the
// table. The collection is dropped and recreated, then every document is
// inserted inside one transaction, which needs a replica set or sharded
// cluster.
func LoadToMongo[T models.Row](ctx context.Context, records []T, target string) error {
	t, err := database.ParseTarget(target)
	if err != nil {
		return etlerrors.NewPersistenceError("connect", target, err)
	}
	name := t.Redacted()

	client, err := database.ConnectMongo(ctx, t.DSN)
	if err != nil {
		return etlerrors.NewPersistenceError("connect", name, err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	// Checked before the drop so a standalone server keeps its data.
	ok, err := database.SupportsTransactions(ctx, client)
	if err != nil {
		return etlerrors.NewPersistenceError("connect", name, err)
	}
	if !ok {
		return etlerrors.NewPersistenceError("connect", name,
			errors.New("deployment does not support transactions; use a replica set or mongos"))
	}

	var zero T
	db := client.Database(t.Database)
	coll := db.Collection(zero.TableName())

	// 1. Reset collection
	if err := coll.Drop(ctx); err != nil {
		return etlerrors.NewPersistenceError("reset", name, pkgerrors.WithMessage(err, "drop collection"))
	}
	if err := db.CreateCollection(ctx, zero.TableName()); err != nil {
		return etlerrors.NewPersistenceError("reset", name, pkgerrors.WithMessage(err, "create collection"))
	}
	if len(records) == 0 {
		return nil
	}

	// 2. Insert all documents in one transaction
	cols := zero.Columns()
	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		docs = append(docs, toDocument(cols, r.Values()))
	}

	session, err := client.StartSession()
	if err != nil {
		return etlerrors.NewPersistenceError("begin", name, err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return coll.InsertMany(sc, docs)
	})
	if err != nil {
		return etlerrors.NewPersistenceError("commit", name, err)
	}
	return nil
}

// toDocument maps a row onto a BSON document, storing the primary key
// column as _id.
func toDocument(cols []models.Column, values []any) bson.D {
	doc := make(bson.D, 0, len(cols))
	for i, c := range cols {
		key := c.Name
		if c.PrimaryKey {
			key = "_id"
		}
		doc = append(doc, bson.E{Key: key, Value: values[i]})
	}
	return doc
}
