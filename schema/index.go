package schema

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongo error codes returned when an index exists with other options
const (
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

type MongoDBIndexer struct {
	ctx        context.Context
	Database   *mongo.Database
	reportTTL  time.Duration
	archiveTTL time.Duration
}

func NewMongoDBIndexer(client *mongo.Client, dbName string, reportTTL, archiveTTL time.Duration) *MongoDBIndexer {
	return &MongoDBIndexer{
		ctx:        context.Background(),
		Database:   client.Database(dbName),
		reportTTL:  reportTTL,
		archiveTTL: archiveTTL,
	}
}

func (m *MongoDBIndexer) createIndex(collection string, index mongo.IndexModel) error {
	c := m.Database.Collection(collection)
	_, err := c.Indexes().CreateOne(m.ctx, index)
	return err
}

// createTTLIndex creates a TTL index on field, or updates the expiry of an
// existing one through collMod when the configured TTL changed.
func (m *MongoDBIndexer) createTTLIndex(collection, field string, ttl time.Duration) error {
	seconds := int32(ttl / time.Second)
	err := m.createIndex(collection, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(seconds),
	})

	var cmdErr mongo.CommandError
	if !errors.As(err, &cmdErr) {
		return err
	}
	if cmdErr.Code != codeIndexOptionsConflict && cmdErr.Code != codeIndexKeySpecsConflict {
		return err
	}

	return m.Database.RunCommand(m.ctx, bson.D{
		{Key: "collMod", Value: collection},
		{Key: "index", Value: bson.D{
			{Key: "keyPattern", Value: bson.D{{Key: field, Value: 1}}},
			{Key: "expireAfterSeconds", Value: seconds},
		}},
	}).Err()
}

func (m *MongoDBIndexer) IndexAll() error {
	if err := m.IndexReportCollection(); err != nil {
		return err
	}
	return m.IndexArchiveCollection()
}

// IndexReportCollection creates the geospatial index used by proximity queries
// and the TTL index that lets mongo drop expired reports on its own.
func (m *MongoDBIndexer) IndexReportCollection() error {
	if err := m.createIndex(ReportCollection, mongo.IndexModel{
		Keys: bson.M{
			"location": "2dsphere",
		},
	}); err != nil {
		return err
	}

	return m.createTTLIndex(ReportCollection, "createdAt", m.reportTTL)
}

func (m *MongoDBIndexer) IndexArchiveCollection() error {
	if err := m.createIndex(ArchiveCollection, mongo.IndexModel{
		Keys: bson.M{
			"location": "2dsphere",
		},
	}); err != nil {
		return err
	}

	if err := m.createIndex(ArchiveCollection, mongo.IndexModel{
		Keys: bson.D{
			{Key: "type", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	}); err != nil {
		return err
	}

	return m.createTTLIndex(ArchiveCollection, "archivedAt", m.archiveTTL)
}
