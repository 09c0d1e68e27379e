package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/werego/werego-api/background"
	"github.com/werego/werego-api/consts"
	"github.com/werego/werego-api/external/overpass"
	"github.com/werego/werego-api/geo"
	"github.com/werego/werego-api/logmodule"
	"github.com/werego/werego-api/schema"
	"github.com/werego/werego-api/store"
	"github.com/werego/werego-api/traffic"
)

const (
	modeDevelopment = "development"

	defaultShutdownTimeout = 10 * time.Second
)

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")
}

// RouteProvider - interface to fetch a route geometry from a named or the default provider
type RouteProvider interface {
	Route(ctx context.Context, provider string, origin, destination schema.Location) (*schema.RouteGeometry, error)
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	// Stores
	mongoStore store.MongoStore

	// Traffic
	correlator *traffic.Correlator

	// External services
	router      RouteProvider
	resolver    geo.LocationResolver
	speedLimits overpass.SpeedLimitLookup

	// report archive
	archiver background.Archiver

	// deadline of a request to an external provider
	externalTimeout time.Duration

	development bool
}

// NewServer new instance of server
func NewServer(
	mongoStore store.MongoStore,
	correlator *traffic.Correlator,
	router RouteProvider,
	resolver geo.LocationResolver,
	speedLimits overpass.SpeedLimitLookup,
	archiver background.Archiver) *Server {
	if resolver == nil {
		resolver = geo.CoordinateLocationResolver{}
	}

	externalTimeout := viper.GetDuration("external.timeout")
	if externalTimeout <= 0 {
		externalTimeout = consts.DefaultExternalTimeout
	}

	return &Server{
		mongoStore:      mongoStore,
		correlator:      correlator,
		router:          router,
		resolver:        resolver,
		speedLimits:     speedLimits,
		archiver:        archiver,
		externalTimeout: externalTimeout,
		development:     viper.GetString("server.mode") == modeDevelopment,
	}
}

// Serve runs the server until ctx is cancelled, then shuts it down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", viper.GetInt("server.port")),
		Handler: s.setupRouter(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()

		log.Info("shutting down http server")
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return nil
	}
}

func (s *Server) String() string {
	return "http-server"
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))

	apiRoute := r.Group("/api")
	apiRoute.Use(logmodule.Ginrus("API"))
	apiRoute.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", logmodule.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logmodule.RequestIDHeader},
		AllowCredentials: false,
		AllowAllOrigins:  true,
		MaxAge:           12 * time.Hour,
	}))

	reportRoute := apiRoute.Group("/reports")
	{
		reportRoute.POST("", s.createReport)
		reportRoute.GET("", s.getNearbyReports)
		reportRoute.GET("/clusters", s.getReportClusters)
		reportRoute.GET("/stats", s.getReportStats)
		reportRoute.POST("/:reportID/upvote", s.upvoteReport)
	}

	trafficRoute := apiRoute.Group("/traffic")
	{
		trafficRoute.GET("/route", s.getRouteWithTraffic)
		trafficRoute.GET("/status", s.getTrafficStatus)
	}

	apiRoute.GET("/speed-limit", s.getSpeedLimit)

	metricRoute := r.Group("/metrics")
	metricRoute.Use(logmodule.Ginrus("Metric"))
	{
		metricRoute.GET("", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/healthz", s.healthz)

	return r
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// shouldInterupt sends error message and determine if it should interupt the current flow
func shouldInterupt(err error, c *gin.Context) bool {
	if err == nil {
		return false
	}

	log.Error(err)
	abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
	return true
}

func (s *Server) healthz(c *gin.Context) {
	// Ping db
	err := s.mongoStore.Ping()
	if shouldInterupt(err, c) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"version": viper.GetString("server.version"),
	})
}

// externalContext bounds a call to a third party provider
func (s *Server) externalContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := s.externalTimeout
	if timeout <= 0 {
		timeout = consts.DefaultExternalTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}
