package store

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/werego/werego-api/schema"
)

// ReportFinder - read side of the report store used by the traffic correlator
type ReportFinder interface {
	FindNear(ctx context.Context, point schema.Location, maxDistance float64, activeOnly bool) ([]schema.Report, error)
	FindWithin(ctx context.Context, bounds schema.Bounds, activeOnly bool) ([]schema.Report, error)
}

// ReportPurger - removes reports past their TTL
type ReportPurger interface {
	DeleteExpired(ctx context.Context, ttl time.Duration) (int64, error)
}

// ReportStore - operations on crowd-sourced traffic reports
type ReportStore interface {
	ReportFinder
	ReportPurger

	CreateReport(ctx context.Context, reportType schema.ReportType, location schema.Location) (*schema.Report, error)
	GetReport(ctx context.Context, id primitive.ObjectID, activeOnly bool) (*schema.Report, error)
	IncrementUpvote(ctx context.Context, id primitive.ObjectID) (*schema.Report, error)
	CountActive(ctx context.Context) (map[schema.ReportType]int64, error)
	ReportTTL() time.Duration
}

func (m *mongoDB) ReportTTL() time.Duration {
	return m.reportTTL
}

// CreateReport validates and inserts a new report with no upvotes
func (m *mongoDB) CreateReport(ctx context.Context, reportType schema.ReportType, location schema.Location) (*schema.Report, error) {
	report, err := schema.NewReport(reportType, location, m.now())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if _, err := m.collection(schema.ReportCollection).InsertOne(ctx, report); err != nil {
		log.WithFields(log.Fields{
			"prefix": mongoLogPrefix,
			"type":   reportType,
			"error":  err,
		}).Error("insert report")
		return nil, wrapError("insert report", err)
	}

	return report, nil
}

// FindNear returns the reports within maxDistance meters of point, nearest first
func (m *mongoDB) FindNear(ctx context.Context, point schema.Location, maxDistance float64, activeOnly bool) ([]schema.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var query bson.M
	if activeOnly {
		query = matchCreatedAfter(m.cutoff(m.reportTTL))
	}

	pipeline := []bson.M{
		aggStageGeoProximity(maxDistance, point, query),
	}

	cursor, err := m.collection(schema.ReportCollection).Aggregate(ctx, pipeline)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": mongoLogPrefix,
			"lat":    point.Latitude,
			"lng":    point.Longitude,
			"error":  err,
		}).Error("query nearby reports")
		return nil, wrapError("query nearby reports", err)
	}

	reports := make([]schema.Report, 0)
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, wrapError("decode nearby reports", err)
	}

	log.WithField("prefix", mongoLogPrefix).Debugf("nearby report query gets %d records near long:%v lat:%v",
		len(reports), point.Longitude, point.Latitude)

	return m.dropExpired(reports, activeOnly), nil
}

// FindWithin returns the reports inside bounds, oldest first
func (m *mongoDB) FindWithin(ctx context.Context, bounds schema.Bounds, activeOnly bool) ([]schema.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	query := matchWithinBox(bounds)
	if activeOnly {
		for k, v := range matchCreatedAfter(m.cutoff(m.reportTTL)) {
			query[k] = v
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := m.collection(schema.ReportCollection).Find(ctx, query, opts)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": mongoLogPrefix,
			"bounds": bounds,
			"error":  err,
		}).Error("query reports within bounds")
		return nil, wrapError("query reports within bounds", err)
	}

	reports := make([]schema.Report, 0)
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, wrapError("decode reports within bounds", err)
	}

	inside := reports[:0]
	for _, r := range reports {
		if bounds.Contains(r.Position()) {
			inside = append(inside, r)
		}
	}

	return m.dropExpired(inside, activeOnly), nil
}

// GetReport finds a report by id
func (m *mongoDB) GetReport(ctx context.Context, id primitive.ObjectID, activeOnly bool) (*schema.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	query := bson.M{"_id": id}
	if activeOnly {
		query["createdAt"] = bson.M{"$gt": m.cutoff(m.reportTTL)}
	}

	var report schema.Report
	if err := m.collection(schema.ReportCollection).FindOne(ctx, query).Decode(&report); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReportNotFound
		}
		return nil, wrapError("get report", err)
	}

	return &report, nil
}

// IncrementUpvote adds one upvote in a single atomic update. Expired reports
// are reported as not found even if mongo has not removed them yet.
func (m *mongoDB) IncrementUpvote(ctx context.Context, id primitive.ObjectID) (*schema.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	query := bson.M{
		"_id":       id,
		"createdAt": bson.M{"$gt": m.cutoff(m.reportTTL)},
	}
	update := bson.M{"$inc": bson.M{"upvotes": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(false)

	var report schema.Report
	if err := m.collection(schema.ReportCollection).FindOneAndUpdate(ctx, query, update, opts).Decode(&report); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReportNotFound
		}
		log.WithFields(log.Fields{
			"prefix":    mongoLogPrefix,
			"report_id": id.Hex(),
			"error":     err,
		}).Error("upvote report")
		return nil, wrapError("upvote report", err)
	}

	return &report, nil
}

// DeleteExpired removes the reports created at or before now-ttl
func (m *mongoDB) DeleteExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	result, err := m.collection(schema.ReportCollection).DeleteMany(ctx, matchCreatedAtOrBefore(m.cutoff(ttl)))
	if err != nil {
		return 0, wrapError("delete expired reports", err)
	}

	return result.DeletedCount, nil
}

// CountActive counts the active reports of each type. Every known type is
// present in the result, with zero when there is no report of that type.
func (m *mongoDB) CountActive(ctx context.Context) (map[schema.ReportType]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	pipeline := []bson.M{
		{"$match": matchCreatedAfter(m.cutoff(m.reportTTL))},
		aggStageCountBy("type"),
	}

	cursor, err := m.collection(schema.ReportCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapError("count active reports", err)
	}

	var results []struct {
		Type  schema.ReportType `bson:"_id"`
		Count int64             `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, wrapError("decode active report counts", err)
	}

	counts := make(map[schema.ReportType]int64, len(schema.ReportTypes))
	for _, t := range schema.ReportTypes {
		counts[t] = 0
	}
	for _, r := range results {
		counts[r.Type] = r.Count
	}

	return counts, nil
}

// dropExpired filters again in memory: the query cutoff was computed before
// the round trip, so a report may have expired while the query ran.
func (m *mongoDB) dropExpired(reports []schema.Report, activeOnly bool) []schema.Report {
	if !activeOnly {
		return reports
	}

	now := m.now()
	active := reports[:0]
	for _, r := range reports {
		if !r.ExpiredAt(now, m.reportTTL) {
			active = append(active, r)
		}
	}
	return active
}
