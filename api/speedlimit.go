package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/werego/werego-api/schema"
)

type speedLimitQueryParams struct {
	Latitude  *float64 `form:"latitude" binding:"required"`
	Longitude *float64 `form:"longitude" binding:"required"`
}

func (s *Server) getSpeedLimit(c *gin.Context) {
	if s.speedLimits == nil {
		abortWithEncoding(c, http.StatusServiceUnavailable, errorSpeedLimitUnavailable)
		return
	}

	var params speedLimitQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	loc := schema.Location{Latitude: *params.Latitude, Longitude: *params.Longitude}
	if err := loc.Validate(); err != nil {
		s.abortWithError(c, err)
		return
	}

	ctx, cancel := s.externalContext(c)
	defer cancel()

	limit, err := s.speedLimits.SpeedLimit(ctx, loc)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, limit)
}
