package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/werego/werego-api/consts"
)

const (
	mongoLogPrefix = "mongo"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrTimeout        = errors.New("database operation timed out")
)

// MongoStore - interface for mongodb operations
type MongoStore interface {
	ReportStore
	ReportArchive
	Closer
	Pinger
}

// Closer - close db connection
type Closer interface {
	Close()
}

// Pinger - ping database
type Pinger interface {
	Ping() error
}

type mongoDB struct {
	client    *mongo.Client
	database  string
	reportTTL time.Duration
	timeout   time.Duration
	now       func() time.Time
}

// Option customises a mongo store
type Option func(*mongoDB)

// WithReportTTL sets the age after which reports are hidden and purged
func WithReportTTL(ttl time.Duration) Option {
	return func(m *mongoDB) {
		if ttl > 0 {
			m.reportTTL = ttl
		}
	}
}

// WithTimeout bounds every database call
func WithTimeout(timeout time.Duration) Option {
	return func(m *mongoDB) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(m *mongoDB) {
		m.now = now
	}
}

// Ping - ping mongo db
func (m *mongoDB) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	return m.client.Ping(ctx, nil)
}

// Close - close mongo db connections
func (m *mongoDB) Close() {
	log.WithField("prefix", mongoLogPrefix).Info("closing mongo db connections")
	_ = m.client.Disconnect(context.Background())
}

func (m *mongoDB) collection(name string) *mongo.Collection {
	return m.client.Database(m.database).Collection(name)
}

// cutoff is the creation time at or before which a report is expired
func (m *mongoDB) cutoff(ttl time.Duration) time.Time {
	return m.now().UTC().Add(-ttl)
}

// wrapError tags timeouts with ErrTimeout so callers can tell them apart
func wrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %s", ErrTimeout, operation, err)
	}
	return fmt.Errorf("%s: %w", operation, err)
}

// NewMongoStore - return mongo db operations
func NewMongoStore(client *mongo.Client, database string, opts ...Option) MongoStore {
	m := &mongoDB{
		client:    client,
		database:  database,
		reportTTL: consts.DefaultReportTTL,
		timeout:   consts.DefaultStoreTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
