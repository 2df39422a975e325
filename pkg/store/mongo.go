package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/labelpress/labelpress/pkg/errors"
)

// Collection names within the labelpress database.
const (
	colTemplates    = "templates"
	colVersions     = "versions"
	colAssociations = "associations"
	colEntities     = "entities"
)

// MongoStore is a MongoDB-backed store. It implements both TemplateStore
// and EntityStore.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{db: client.Database(database)}, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

func (s *MongoStore) Template(ctx context.Context, id string) (Template, error) {
	var t Template
	err := s.db.Collection(colTemplates).FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return Template{}, errors.New(errors.ErrCodeNotFound, "template %q not found", id)
	}
	if err != nil {
		return Template{}, fmt.Errorf("find template: %w", err)
	}
	return t, nil
}

func (s *MongoStore) Version(ctx context.Context, templateID, versionID string) (Version, error) {
	var v Version
	err := s.db.Collection(colVersions).
		FindOne(ctx, bson.M{"_id": versionID, "template_id": templateID}).
		Decode(&v)
	if err == mongo.ErrNoDocuments {
		return Version{}, errors.New(errors.ErrCodeNotFound, "version %q of template %q not found", versionID, templateID)
	}
	if err != nil {
		return Version{}, fmt.Errorf("find version: %w", err)
	}
	return v, nil
}

func (s *MongoStore) CreateVersion(ctx context.Context, v Version) error {
	_, err := s.db.Collection(colVersions).InsertOne(ctx, v)
	if mongo.IsDuplicateKeyError(err) {
		return errors.New(errors.ErrCodeConflict, "version %q already exists for template %q", v.ID, v.TemplateID)
	}
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}
	return nil
}

func (s *MongoStore) ReplaceElements(ctx context.Context, templateID, versionID string, elements json.RawMessage) error {
	v, err := s.Version(ctx, templateID, versionID)
	if err != nil {
		return err
	}
	normalized, err := prepareElements(v, elements)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(colVersions).UpdateOne(ctx,
		bson.M{"_id": versionID, "template_id": templateID},
		bson.M{"$set": bson.M{"elements": normalized}})
	if err != nil {
		return fmt.Errorf("replace elements: %w", err)
	}
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeNotFound, "version %q of template %q not found", versionID, templateID)
	}
	return nil
}

func (s *MongoStore) Associations(ctx context.Context, entityType string) ([]Association, error) {
	cur, err := s.db.Collection(colAssociations).Find(ctx, bson.M{"entity_type": entityType})
	if err != nil {
		return nil, fmt.Errorf("find associations: %w", err)
	}
	defer cur.Close(ctx)

	var out []Association
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode associations: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Entity(ctx context.Context, entityType, entityID string) (Entity, error) {
	var e Entity
	err := s.db.Collection(colEntities).
		FindOne(ctx, bson.M{"entity_type": entityType, "entity_id": entityID}).
		Decode(&e)
	if err == mongo.ErrNoDocuments {
		return Entity{}, errors.New(errors.ErrCodeNotFound, "entity %s/%s not found", entityType, entityID)
	}
	if err != nil {
		return Entity{}, fmt.Errorf("find entity: %w", err)
	}
	return e, nil
}
