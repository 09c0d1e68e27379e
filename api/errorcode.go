package api

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/werego/werego-api/external"
	"github.com/werego/werego-api/external/routing"
	"github.com/werego/werego-api/schema"
	"github.com/werego/werego-api/store"
)

var (
	errorMessageMap = map[int64]string{
		999: "internal server error",

		1010: "invalid parameters",

		1100: store.ErrReportNotFound.Error(),
		1101: "unknown report type",
		1102: "invalid report id",

		1200: "routing provider failure",
		1201: "routing provider timeout",
		1202: "no route found",

		1300: "speed limit lookup is not configured",
	}

	errorInternalServer = errorJSON(999)

	errorInvalidParameters = errorJSON(1010)

	errorReportNotFound    = errorJSON(1100)
	errorUnknownReportType = errorJSON(1101)
	errorInvalidReportID   = errorJSON(1102)

	errorUpstream       = errorJSON(1200)
	errorGatewayTimeout = errorJSON(1201)
	errorNoRoute        = errorJSON(1202)

	errorSpeedLimitUnavailable = errorJSON(1300)
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// withDetail replaces the message with the error text for client errors
func withDetail(obj ErrorResponse, err error) ErrorResponse {
	if err != nil {
		obj.Message = err.Error()
	}
	return obj
}

// abortWithError maps err to a status code and an error object. Server side
// failures are sent to sentry and their cause is only shown in development.
func (s *Server) abortWithError(c *gin.Context, err error) {
	code, obj := http.StatusInternalServerError, errorInternalServer

	switch {
	case errors.Is(err, external.ErrGatewayTimeout), errors.Is(err, store.ErrTimeout):
		code, obj = http.StatusGatewayTimeout, errorGatewayTimeout
	case errors.Is(err, external.ErrUpstream):
		code, obj = http.StatusBadGateway, errorUpstream
	case errors.Is(err, store.ErrReportNotFound):
		abortWithEncoding(c, http.StatusNotFound, errorReportNotFound, err)
		return
	case errors.Is(err, routing.ErrNoRoute):
		abortWithEncoding(c, http.StatusBadRequest, errorNoRoute, err)
		return
	case errors.Is(err, schema.ErrValidation):
		abortWithEncoding(c, http.StatusBadRequest, withDetail(errorInvalidParameters, err), err)
		return
	}

	if code == http.StatusInternalServerError {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
	}

	if s.development {
		obj = withDetail(obj, err)
	}
	abortWithEncoding(c, code, obj, err)
}
