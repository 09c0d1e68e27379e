package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/werego/werego-api/consts"
	"github.com/werego/werego-api/metrics"
	"github.com/werego/werego-api/schema"
	"github.com/werego/werego-api/traffic"
)

const (
	dateLayout = "2006-01-02"
)

type reportBody struct {
	Type      string   `json:"type" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type nearbyQueryParams struct {
	Latitude    *float64 `form:"latitude" binding:"required"`
	Longitude   *float64 `form:"longitude" binding:"required"`
	MaxDistance float64  `form:"maxDistance"`
	Clustered   *bool    `form:"clustered"`
}

type clusterQueryParams struct {
	Bounds     string `form:"bounds" binding:"required"`
	MinReports int    `form:"minReports"`
}

type statsQueryParams struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Type      string `form:"type"`
	Limit     int64  `form:"limit"`
}

// reportCluster is the client facing form of a cluster
type reportCluster struct {
	Type           schema.ReportType `json:"type"`
	Count          int               `json:"count"`
	IsCluster      bool              `json:"isCluster"`
	Location       schema.GeoJSON    `json:"location"`
	Reports        []schema.Report   `json:"reports,omitempty"`
	LastReportTime time.Time         `json:"lastReportTime"`
}

func toReportClusters(clusters []traffic.Cluster) []reportCluster {
	result := make([]reportCluster, 0, len(clusters))
	for _, c := range traffic.StripInsignificant(clusters) {
		result = append(result, reportCluster{
			Type:           c.Type,
			Count:          c.Count,
			IsCluster:      c.IsSignificant,
			Location:       c.Center.GeoJSON(),
			Reports:        c.Reports,
			LastReportTime: c.LastReportTime,
		})
	}
	return result
}

func (s *Server) createReport(c *gin.Context) {
	var body reportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	reportType, err := schema.ParseReportType(body.Type)
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorUnknownReportType, err)
		return
	}

	loc := schema.Location{Latitude: *body.Latitude, Longitude: *body.Longitude}
	report, err := s.mongoStore.CreateReport(c.Request.Context(), reportType, loc)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	metrics.ReportsCreated.WithLabelValues(string(report.Type)).Inc()

	if s.archiver != nil {
		if err := s.archiver.Archive(c.Request.Context(), *report); err != nil {
			log.WithFields(logrus.Fields{
				"report_id": report.ID.Hex(),
				"error":     err,
			}).Warn("archive report")
		}
	}

	c.JSON(http.StatusCreated, report)
}

func (s *Server) getNearbyReports(c *gin.Context) {
	var params nearbyQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	settings := s.correlator.Settings()

	maxDistance := params.MaxDistance
	switch {
	case maxDistance == 0:
		maxDistance = settings.SearchRadius
	case maxDistance < 0:
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, fmt.Errorf("negative maxDistance"))
		return
	}

	loc := schema.Location{Latitude: *params.Latitude, Longitude: *params.Longitude}
	if err := loc.Validate(); err != nil {
		s.abortWithError(c, err)
		return
	}

	reports, err := s.mongoStore.FindNear(c.Request.Context(), loc, maxDistance, true)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	if params.Clustered != nil && !*params.Clustered {
		c.JSON(http.StatusOK, reports)
		return
	}

	c.JSON(http.StatusOK, toReportClusters(traffic.ClusterReports(reports, settings.ClusterOptions())))
}

func (s *Server) getReportClusters(c *gin.Context) {
	var params clusterQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	bounds, err := parseBounds(params.Bounds)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	minReports := params.MinReports
	switch {
	case minReports == 0:
		minReports = consts.DefaultBoundsMinReports
	case minReports < 0:
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, fmt.Errorf("negative minReports"))
		return
	}

	reports, err := s.mongoStore.FindWithin(c.Request.Context(), bounds, true)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	clusters := traffic.ClusterReports(reports, s.correlator.Settings().ClusterOptions())
	c.JSON(http.StatusOK, toReportClusters(traffic.FilterMinCount(clusters, minReports)))
}

func (s *Server) upvoteReport(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("reportID"))
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidReportID, err)
		return
	}

	report, err := s.mongoStore.IncrementUpvote(c.Request.Context(), id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	metrics.ReportsUpvoted.Inc()

	c.JSON(http.StatusOK, report)
}

func (s *Server) getReportStats(c *gin.Context) {
	var params statsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	var q schema.ArchiveQuery
	var err error

	if params.Type != "" {
		if q.Type, err = schema.ParseReportType(params.Type); err != nil {
			abortWithEncoding(c, http.StatusBadRequest, errorUnknownReportType, err)
			return
		}
	}
	if q.Start, err = parseDate(params.StartDate); err != nil {
		s.abortWithError(c, err)
		return
	}
	if q.End, err = parseDate(params.EndDate); err != nil {
		s.abortWithError(c, err)
		return
	}
	if !q.Start.IsZero() && !q.End.IsZero() && q.End.Before(q.Start) {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, fmt.Errorf("endDate before startDate"))
		return
	}
	q.Limit = params.Limit

	stats, err := s.mongoStore.ListArchived(c.Request.Context(), q)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// parseDate accepts RFC 3339 timestamps and plain dates. An empty string is the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", schema.ErrValidation, s)
	}
	return t, nil
}

type latLng struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type boundsParam struct {
	SouthWest latLng `json:"sw"`
	NorthEast latLng `json:"ne"`
}

// parseBounds reads {"sw":{"lat":..,"lng":..},"ne":{..}} or "swLat,swLng,neLat,neLng"
func parseBounds(s string) (schema.Bounds, error) {
	s = strings.TrimSpace(s)

	var bounds schema.Bounds
	if strings.HasPrefix(s, "{") {
		var p boundsParam
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			return bounds, fmt.Errorf("%w: malformed bounds: %s", schema.ErrValidation, err)
		}
		if p.SouthWest.Lat == nil || p.SouthWest.Lng == nil || p.NorthEast.Lat == nil || p.NorthEast.Lng == nil {
			return bounds, fmt.Errorf("%w: bounds needs sw and ne corners", schema.ErrValidation)
		}
		bounds = schema.Bounds{
			SouthWest: schema.Location{Latitude: *p.SouthWest.Lat, Longitude: *p.SouthWest.Lng},
			NorthEast: schema.Location{Latitude: *p.NorthEast.Lat, Longitude: *p.NorthEast.Lng},
		}
	} else {
		parts := strings.Split(s, ",")
		if len(parts) != 4 {
			return bounds, fmt.Errorf("%w: bounds needs four coordinates", schema.ErrValidation)
		}
		values := make([]float64, 4)
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return bounds, fmt.Errorf("%w: malformed bounds coordinate %q", schema.ErrValidation, part)
			}
			values[i] = v
		}
		bounds = schema.Bounds{
			SouthWest: schema.Location{Latitude: values[0], Longitude: values[1]},
			NorthEast: schema.Location{Latitude: values[2], Longitude: values[3]},
		}
	}

	if err := bounds.Validate(); err != nil {
		return schema.Bounds{}, err
	}
	return bounds, nil
}
