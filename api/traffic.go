package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/werego/werego-api/external/routing"
	"github.com/werego/werego-api/schema"
	"github.com/werego/werego-api/traffic"
)

type routeQueryParams struct {
	Origin      string `form:"origin" binding:"required"`
	Destination string `form:"destination" binding:"required"`
	Provider    string `form:"provider"`
}

type trafficStatus struct {
	ActiveReports int64                       `json:"activeReports"`
	ByType        map[schema.ReportType]int64 `json:"byType"`
	TTLSeconds    int64                       `json:"ttlSeconds"`
	GeneratedAt   time.Time                   `json:"generatedAt"`
}

// getRouteWithTraffic resolves both endpoints, asks a routing provider for the
// geometry and annotates it with the active reports along the way.
func (s *Server) getRouteWithTraffic(c *gin.Context) {
	var params routeQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	ctx, cancel := s.externalContext(c)
	defer cancel()

	origin, err := s.resolver.Resolve(ctx, params.Origin)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	destination, err := s.resolver.Resolve(ctx, params.Destination)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	var route *schema.RouteGeometry
	if s.router != nil {
		route, err = s.router.Route(ctx, params.Provider, origin, destination)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
	} else if params.Provider != "" {
		s.abortWithError(c, fmt.Errorf("%w: %q", routing.ErrUnknownProvider, params.Provider))
		return
	}

	summary, err := s.correlator.Correlate(ctx, traffic.RouteRequest{
		Origin:      origin,
		Destination: destination,
		Route:       route,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (s *Server) getTrafficStatus(c *gin.Context) {
	counts, err := s.mongoStore.CountActive(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	c.JSON(http.StatusOK, trafficStatus{
		ActiveReports: total,
		ByType:        counts,
		TTLSeconds:    int64(s.mongoStore.ReportTTL() / time.Second),
		GeneratedAt:   time.Now().UTC(),
	})
}
