package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoConnector opens MongoDB clients with the official driver.
type MongoConnector struct{}

// Connect dials connString and verifies it with a ping.
func (MongoConnector) Connect(ctx context.Context, connString string) (Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(connString))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &mongoClient{client: client}, nil
}

type mongoClient struct {
	client *mongo.Client
}

func (m *mongoClient) CreateCollection(ctx context.Context, db, coll string) error {
	return m.client.Database(db).CreateCollection(ctx, coll)
}

func (m *mongoClient) Insert(ctx context.Context, db, coll string, docs []any) ([]any, error) {
	c := m.client.Database(db).Collection(coll)
	if len(docs) == 1 {
		res, err := c.InsertOne(ctx, docs[0])
		if err != nil {
			return nil, err
		}
		return []any{res.InsertedID}, nil
	}

	res, err := c.InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}
	return res.InsertedIDs, nil
}

func (m *mongoClient) Find(ctx context.Context, db, coll string, filter map[string]any, limit int64) ([]map[string]any, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	f := bson.M{}
	for k, v := range filter {
		f[k] = v
	}

	cur, err := m.client.Database(db).Collection(coll).Find(ctx, f, opts)
	if err != nil {
		return nil, err
	}

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, map[string]any(d))
	}
	return out, nil
}

func (m *mongoClient) DropCollection(ctx context.Context, db, coll string) error {
	return m.client.Database(db).Collection(coll).Drop(ctx)
}

func (m *mongoClient) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
