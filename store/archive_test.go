package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/werego/werego-api/schema"
)

func TestReportArchive(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("archive report", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		report, err := schema.NewReport(schema.ReportTypeAccident, testLocation, testNow)
		assert.NoError(mt, err)
		assert.NoError(mt, s.ArchiveReport(context.Background(), *report))
	})

	mt.Run("list archived", func(mt *mtest.T) {
		s := newTestStore(mt)
		original := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDBName+"."+schema.ArchiveCollection, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "originalReportId", Value: original},
				{Key: "type", Value: "POLICE"},
				{Key: "location", Value: bson.D{
					{Key: "type", Value: "Point"},
					{Key: "coordinates", Value: bson.A{testLocation.Longitude, testLocation.Latitude}},
				}},
				{Key: "upvotes", Value: int32(1)},
				{Key: "createdAt", Value: primitive.NewDateTimeFromTime(testNow.Add(-time.Hour))},
				{Key: "archivedAt", Value: primitive.NewDateTimeFromTime(testNow.Add(-time.Hour))},
			},
		))

		archived, err := s.ListArchived(context.Background(), schema.ArchiveQuery{
			Type:  schema.ReportTypePolice,
			Start: testNow.Add(-24 * time.Hour),
			End:   testNow,
		})
		assert.NoError(mt, err)
		assert.Len(mt, archived, 1)
		assert.Equal(mt, original, archived[0].OriginalReportID)
		assert.Equal(mt, schema.ReportTypePolice, archived[0].Type)
	})
}
