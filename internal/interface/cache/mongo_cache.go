package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type routeDocument struct {
	Key       string       `bson:"_id"`
	Route     entity.Route `bson:"route"`
	ExpiresAt time.Time    `bson:"expiresAt"`
}

// routeDocuments loads and upserts cache documents. find returns nil when the key is absent.
type routeDocuments interface {
	find(ctx context.Context, key string) (*routeDocument, error)
	replace(ctx context.Context, doc routeDocument) error
}

type routeCollection struct {
	collection *mongo.Collection
}

func (c *routeCollection) find(ctx context.Context, key string) (*routeDocument, error) {
	var doc routeDocument
	err := c.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *routeCollection) replace(ctx context.Context, doc routeDocument) error {
	opts := options.Replace().SetUpsert(true)
	_, err := c.collection.ReplaceOne(ctx, bson.M{"_id": doc.Key}, doc, opts)
	return err
}

// MongoRouteCache keeps routes in a collection swept by a TTL index on expiresAt
type MongoRouteCache struct {
	docs routeDocuments
	now  func() time.Time
}

// NewMongoRouteCache creates a Mongo-backed route cache
func NewMongoRouteCache(db *mongo.Database, now func() time.Time) repository.RouteCache {
	if now == nil {
		now = time.Now
	}
	collection := db.Collection("route_cache")

	// Mongo removes a document once expiresAt has passed
	ctx := context.Background()
	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"expiresAt": 1},
		Options: options.Index().SetExpireAfterSeconds(0),
	})

	return &MongoRouteCache{
		docs: &routeCollection{collection: collection},
		now:  now,
	}
}

// Get returns the route unless it is missing or expired. The TTL monitor runs about once a
// minute, so expiry is also checked here.
func (c *MongoRouteCache) Get(ctx context.Context, key string) (*entity.Route, error) {
	doc, err := c.docs.find(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached route: %w", err)
	}
	if doc == nil || !c.now().Before(doc.ExpiresAt) {
		return nil, nil
	}
	return &doc.Route, nil
}

// Put upserts the route under key
func (c *MongoRouteCache) Put(ctx context.Context, key string, route *entity.Route, ttl time.Duration) error {
	doc := routeDocument{
		Key:       key,
		Route:     *route,
		ExpiresAt: c.now().Add(ttl).UTC(),
	}
	if err := c.docs.replace(ctx, doc); err != nil {
		return fmt.Errorf("failed to cache route: %w", err)
	}
	return nil
}
