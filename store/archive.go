package store

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/werego/werego-api/schema"
)

const defaultArchiveLimit = 1000

// ReportArchive - long lived copies of reports for statistics
type ReportArchive interface {
	ArchiveReport(ctx context.Context, report schema.Report) error
	ListArchived(ctx context.Context, q schema.ArchiveQuery) ([]schema.ArchivedReport, error)
}

func (m *mongoDB) ArchiveReport(ctx context.Context, report schema.Report) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	archived := schema.NewArchivedReport(report, m.now())
	if _, err := m.collection(schema.ArchiveCollection).InsertOne(ctx, archived); err != nil {
		log.WithFields(log.Fields{
			"prefix":    mongoLogPrefix,
			"report_id": report.ID.Hex(),
			"error":     err,
		}).Error("archive report")
		return wrapError("archive report", err)
	}

	return nil
}

// ListArchived returns archived reports, newest first
func (m *mongoDB) ListArchived(ctx context.Context, q schema.ArchiveQuery) ([]schema.ArchivedReport, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	query := bson.M{}
	if q.Type != "" {
		query["type"] = q.Type
	}

	createdAt := bson.M{}
	if !q.Start.IsZero() {
		createdAt["$gte"] = q.Start
	}
	if !q.End.IsZero() {
		createdAt["$lte"] = q.End
	}
	if len(createdAt) > 0 {
		query["createdAt"] = createdAt
	}

	limit := q.Limit
	if limit <= 0 || limit > defaultArchiveLimit {
		limit = defaultArchiveLimit
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	cursor, err := m.collection(schema.ArchiveCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, wrapError("list archived reports", err)
	}

	result := make([]schema.ArchivedReport, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, wrapError("decode archived reports", err)
	}

	return result, nil
}
