package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo adapts a MongoDB database to the Store contract: one Mongo collection
// per logical collection, the store key carried as "_id", equality queries as
// filtered finds in natural order. Values round-trip through extended JSON in
// relaxed mode so field order survives.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

// toOrderedDoc decodes a JSON object into a bson.D, keeping key order.
func toOrderedDoc(value any) (bson.D, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("mongo store: encode value: %w", err)
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		return nil, fmt.Errorf("mongo store: value is not an object: %w", err)
	}
	return doc, nil
}

// fromRaw renders a stored document back to plain JSON, dropping the "_id"
// key the adapter added.
func fromRaw(raw bson.Raw) (string, json.RawMessage, error) {
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return "", nil, err
	}
	var id string
	out := make(bson.D, 0, len(doc))
	for _, e := range doc {
		if e.Key == "_id" {
			id, _ = e.Value.(string)
			continue
		}
		out = append(out, e)
	}
	b, err := bson.MarshalExtJSON(out, false, false)
	if err != nil {
		return "", nil, err
	}
	return id, b, nil
}

func (m *Mongo) Get(ctx context.Context, path string) (json.RawMessage, error) {
	col, id := SplitPath(path)
	if id == "" {
		cur, err := m.db.Collection(col).Find(ctx, bson.M{})
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)
		var entries []Entry
		for cur.Next(ctx) {
			cid, val, err := fromRaw(cur.Current)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{ID: cid, Value: val})
		}
		if err := cur.Err(); err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, nil
		}
		return EncodeEntries(entries), nil
	}
	res := m.db.Collection(col).FindOne(ctx, bson.M{"_id": id})
	raw, err := res.Raw()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	_, val, err := fromRaw(raw)
	if err != nil {
		return nil, err
	}
	if IsEmptyValue(val) {
		return nil, nil
	}
	return val, nil
}

func (m *Mongo) Set(ctx context.Context, path string, value any) error {
	col, id := SplitPath(path)
	if id == "" {
		return fmt.Errorf("mongo store: set requires a %q path", "collection/id")
	}
	doc, err := toOrderedDoc(value)
	if err != nil {
		return err
	}
	doc = append(bson.D{{Key: "_id", Value: id}}, doc...)
	opts := options.Replace().SetUpsert(true)
	_, err = m.db.Collection(col).ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	return err
}

func (m *Mongo) Update(ctx context.Context, path string, partial map[string]any) error {
	col, id := SplitPath(path)
	if id == "" {
		return fmt.Errorf("mongo store: update requires a %q path", "collection/id")
	}
	opts := options.Update().SetUpsert(true)
	_, err := m.db.Collection(col).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": partial}, opts)
	return err
}

func (m *Mongo) Delete(ctx context.Context, path string) error {
	col, id := SplitPath(path)
	if id == "" {
		return m.db.Collection(col).Drop(ctx)
	}
	_, err := m.db.Collection(col).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (m *Mongo) Push(ctx context.Context, collection string, value any) (string, error) {
	doc, err := toOrderedDoc(value)
	if err != nil {
		return "", err
	}
	id := primitive.NewObjectID().Hex()
	doc = append(bson.D{{Key: "_id", Value: id}}, doc...)
	if _, err := m.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (m *Mongo) QueryEqual(ctx context.Context, collection, field string, value any) ([]Entry, error) {
	cur, err := m.db.Collection(collection).Find(ctx, bson.M{field: value})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Entry{}
	for cur.Next(ctx) {
		id, val, err := fromRaw(cur.Current)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{ID: id, Value: val})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
