package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/RichardKnop/machinery/v1"
	machineryconf "github.com/RichardKnop/machinery/v1/config"
	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"googlemaps.github.io/maps"

	"github.com/werego/werego-api/api"
	"github.com/werego/werego-api/background"
	"github.com/werego/werego-api/consts"
	"github.com/werego/werego-api/external/geoinfo"
	"github.com/werego/werego-api/external/overpass"
	"github.com/werego/werego-api/external/routing"
	"github.com/werego/werego-api/geo"
	"github.com/werego/werego-api/schema"
	"github.com/werego/werego-api/store"
	"github.com/werego/werego-api/traffic"
)

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "production")
	viper.SetDefault("mongo.database", "werego")
	viper.SetDefault("mongo.pool", 100)

	viper.SetDefault("report.ttl", consts.DefaultReportTTL)
	viper.SetDefault("report.search_radius", consts.DefaultReportSearchRadius)
	viper.SetDefault("archive.ttl", consts.DefaultArchiveTTL)
	viper.SetDefault("cluster.radius", consts.DefaultClusterMergeRadius)
	viper.SetDefault("cluster.min_size", consts.DefaultClusterMinSize)
	viper.SetDefault("segment.radius", consts.DefaultSegmentRadius)
	viper.SetDefault("segment.min_reports", consts.DefaultSegmentMinReports)
	viper.SetDefault("segment.steps", consts.DefaultSegmentSteps)
	viper.SetDefault("route.average_speed_kmh", consts.DefaultAverageSpeedKMH)
	viper.SetDefault("route.search_mode", consts.SearchModeRoute)
	viper.SetDefault("sweep.interval", consts.DefaultSweepInterval)
	viper.SetDefault("external.timeout", consts.DefaultExternalTimeout)
	viper.SetDefault("store.timeout", consts.DefaultStoreTimeout)

	viper.SetDefault("osrm.enabled", true)
	viper.SetDefault("overpass.rps", 1)
}

func loadConfig(file string) {
	setDefaults()

	// Config from file
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix("werego")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func trafficSettings() traffic.Settings {
	return traffic.Settings{
		ReportTTL:          viper.GetDuration("report.ttl"),
		SearchRadius:       viper.GetFloat64("report.search_radius"),
		SearchMode:         viper.GetString("route.search_mode"),
		ClusterMergeRadius: viper.GetFloat64("cluster.radius"),
		ClusterMinSize:     viper.GetInt("cluster.min_size"),
		SegmentRadius:      viper.GetFloat64("segment.radius"),
		SegmentMinReports:  viper.GetInt("segment.min_reports"),
		SegmentSteps:       viper.GetInt("segment.steps"),
		AverageSpeedKMH:    viper.GetFloat64("route.average_speed_kmh"),
	}
}

// routeProviders lists the configured routing providers in preference order,
// each one behind its own circuit breaker
func routeProviders(httpClient *http.Client) []routing.Provider {
	breaker := routing.DefaultBreakerSettings()
	providers := make([]routing.Provider, 0, 2)

	if apiKey := viper.GetString("google.api_key"); apiKey != "" {
		google, err := routing.NewGoogleDirections(apiKey, maps.WithHTTPClient(httpClient))
		if err != nil {
			log.Panic(err)
		}
		providers = append(providers, routing.NewBreakerProvider(google, breaker))
	}

	if viper.GetBool("osrm.enabled") {
		providers = append(providers, routing.NewBreakerProvider(routing.NewOSRM(viper.GetString("osrm.url"), httpClient), breaker))
	}

	return providers
}

func locationResolver() geo.LocationResolver {
	apiKey := viper.GetString("google.api_key")
	if apiKey == "" {
		return geo.CoordinateLocationResolver{}
	}

	geoClient, err := geoinfo.New(apiKey)
	if err != nil {
		log.Panic(err)
	}
	return geo.NewMultipleLocationResolver(
		geo.CoordinateLocationResolver{},
		geo.NewGeocodingLocationResolver(geoClient),
	)
}

func main() {
	var configFile string

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Server is preparing to shutdown")
		cancel()
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	externalTimeout := viper.GetDuration("external.timeout")
	httpClient := &http.Client{
		Timeout: externalTimeout,
	}

	// Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}
	defer sentry.Flush(2 * time.Second)
	log.WithField("prefix", "init").Info("Initialized sentry")

	settings := trafficSettings()
	if err := settings.Validate(); err != nil {
		log.Panic(err)
	}

	// initialise mongodb connections
	opts := options.Client().ApplyURI(viper.GetString("mongo.conn"))
	opts.SetMaxPoolSize(viper.GetUint64("mongo.pool"))
	mongoClient, err := mongo.NewClient(opts)
	if nil != err {
		log.Panicf("create mongo client with error: %s", err)
	}

	err = mongoClient.Connect(ctx)
	if nil != err {
		log.Panicf("connect mongo database with error: %s", err)
	}

	dbName := viper.GetString("mongo.database")
	indexer := schema.NewMongoDBIndexer(mongoClient, dbName, settings.ReportTTL, viper.GetDuration("archive.ttl"))
	if err := indexer.IndexAll(); err != nil {
		log.Panicf("create mongo indexes with error: %s", err)
	}
	log.WithField("prefix", "init").Info("Initialized mongo indexes")

	mongoStore := store.NewMongoStore(mongoClient, dbName,
		store.WithReportTTL(settings.ReportTTL),
		store.WithTimeout(viper.GetDuration("store.timeout")),
	)

	sweeper := background.NewSweeper(mongoStore, settings.ReportTTL, viper.GetDuration("sweep.interval"), viper.GetDuration("store.timeout"))

	// Reports are archived and purged through redis when a broker is configured
	var archiver background.Archiver
	inlineArchiver := background.NewInlineArchiver(mongoStore, externalTimeout)
	if redisConn := viper.GetString("redis.conn"); redisConn != "" {
		var conf = &machineryconf.Config{
			Broker:        redisConn,
			DefaultQueue:  "werego_background",
			ResultBackend: redisConn,
		}
		machineryServer, err := machinery.NewServer(conf)
		if err != nil {
			log.Panic(err)
		}
		archiver = background.NewTaskArchiver(machineryServer)
		sweeper.WithTaskSender(machineryServer)
		log.WithField("prefix", "init").Info("Initialized background task queue")
	} else {
		archiver = inlineArchiver
	}

	providers := routeProviders(httpClient)
	server := api.NewServer(
		mongoStore,
		traffic.NewCorrelator(mongoStore, settings),
		routing.NewSelector(providers...),
		locationResolver(),
		overpass.New(viper.GetString("osrm.url"), viper.GetString("overpass.url"), viper.GetFloat64("overpass.rps"), httpClient),
		archiver,
	)
	log.WithField("prefix", "init").Infof("Initialized http server with %d routing providers", len(providers))

	supervisor := background.NewSupervisor("werego", 30*time.Second)
	supervisor.Add(server)
	supervisor.Add(sweeper)

	if err := supervisor.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(err)
	}

	inlineArchiver.Wait()

	log.Info("Shutting down mongo store")
	mongoStore.Close()
}
