package schema

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ReportCollection = "reports"

	// ReportTypesVersion identifies the closed set of report types accepted at ingestion
	ReportTypesVersion = "v1"
)

type ReportType string

const (
	ReportTypeAccident   ReportType = "ACCIDENT"
	ReportTypeTrafficJam ReportType = "TRAFFIC_JAM"
	ReportTypeRoadClosed ReportType = "ROAD_CLOSED"
	ReportTypePolice     ReportType = "POLICE"
	ReportTypeObstacle   ReportType = "OBSTACLE"
)

// ReportTypes lists every accepted report type in display order
var ReportTypes = []ReportType{
	ReportTypeAccident,
	ReportTypeTrafficJam,
	ReportTypeRoadClosed,
	ReportTypePolice,
	ReportTypeObstacle,
}

// ParseReportType matches the input exactly against the known report types
func ParseReportType(s string) (ReportType, error) {
	for _, t := range ReportTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown report type %q", ErrValidation, s)
}

// Valid reports whether the type belongs to ReportTypes
func (t ReportType) Valid() bool {
	_, err := ParseReportType(string(t))
	return err == nil
}

// Report - a crowd-sourced traffic incident
type Report struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Type      ReportType         `json:"type" bson:"type"`
	Location  GeoJSON            `json:"location" bson:"location"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	Upvotes   int                `json:"upvotes" bson:"upvotes"`
}

// Position returns the report coordinate
func (r Report) Position() Location {
	return r.Location.Location()
}

// ExpiredAt tells whether the report is older than ttl at the given time
func (r Report) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return !r.CreatedAt.After(now.Add(-ttl))
}

// NewReport validates the input and builds an unsaved report
func NewReport(reportType ReportType, loc Location, now time.Time) (*Report, error) {
	if !reportType.Valid() {
		return nil, fmt.Errorf("%w: unknown report type %q", ErrValidation, reportType)
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	return &Report{
		ID:        primitive.NewObjectID(),
		Type:      reportType,
		Location:  loc.GeoJSON(),
		CreatedAt: now.UTC().Truncate(time.Millisecond),
		Upvotes:   0,
	}, nil
}
