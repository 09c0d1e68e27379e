package schema

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ArchiveCollection = "reports_archive"
)

// ArchivedReport - a copy of a report kept after the report itself expires
type ArchivedReport struct {
	ID               primitive.ObjectID `json:"id" bson:"_id"`
	OriginalReportID primitive.ObjectID `json:"originalReportId" bson:"originalReportId"`
	Type             ReportType         `json:"type" bson:"type"`
	Location         GeoJSON            `json:"location" bson:"location"`
	Upvotes          int                `json:"upvotes" bson:"upvotes"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	ArchivedAt       time.Time          `json:"archivedAt" bson:"archivedAt"`
}

// ArchiveQuery filters archived reports. Zero values are not applied.
type ArchiveQuery struct {
	Type  ReportType
	Start time.Time
	End   time.Time
	Limit int64
}

// NewArchivedReport copies a report for the archive
func NewArchivedReport(r Report, now time.Time) ArchivedReport {
	return ArchivedReport{
		ID:               primitive.NewObjectID(),
		OriginalReportID: r.ID,
		Type:             r.Type,
		Location:         r.Location,
		Upvotes:          r.Upvotes,
		CreatedAt:        r.CreatedAt,
		ArchivedAt:       now.UTC(),
	}
}
