package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"googlemaps.github.io/maps"

	"github.com/werego/werego-api/external"
	"github.com/werego/werego-api/external/mocks"
	"github.com/werego/werego-api/schema"
)

type ResolverTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	geoClientMock *mocks.MockGeoInfo
	resolver      LocationResolver
}

func (s *ResolverTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.geoClientMock = mocks.NewMockGeoInfo(s.ctrl)
	s.resolver = NewMultipleLocationResolver(
		CoordinateLocationResolver{},
		NewGeocodingLocationResolver(s.geoClientMock),
	)
}

func (s *ResolverTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ResolverTestSuite) TestParseLatLng() {
	loc, err := ParseLatLng("48.8566, 2.3522")
	s.NoError(err)
	s.Equal(schema.Location{Latitude: 48.8566, Longitude: 2.3522}, loc)

	_, err = ParseLatLng("48.8566")
	s.ErrorIs(err, ErrNotCoordinates)

	_, err = ParseLatLng("abc,2.3")
	s.ErrorIs(err, ErrNotCoordinates)

	_, err = ParseLatLng("91,2.3")
	s.ErrorIs(err, schema.ErrValidation)
}

// TestResolveCoordinatesSkipsGeocoding makes sure a coordinate string never reaches google
func (s *ResolverTestSuite) TestResolveCoordinatesSkipsGeocoding() {
	loc, err := s.resolver.Resolve(context.Background(), "48.8606,2.3376")
	s.NoError(err)
	s.Equal(schema.Location{Latitude: 48.8606, Longitude: 2.3376}, loc)
}

func (s *ResolverTestSuite) TestResolveOutOfRangeCoordinates() {
	_, err := s.resolver.Resolve(context.Background(), "123,2.3376")
	s.ErrorIs(err, schema.ErrValidation)
}

func (s *ResolverTestSuite) TestResolveAddress() {
	s.geoClientMock.EXPECT().
		Geocode(gomock.Any(), "Musée du Louvre, Paris").
		Return([]maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 48.8606, Lng: 2.3376}}},
		}, nil)

	loc, err := s.resolver.Resolve(context.Background(), "Musée du Louvre, Paris")
	s.NoError(err)
	s.Equal(schema.Location{Latitude: 48.8606, Longitude: 2.3376}, loc)
}

func (s *ResolverTestSuite) TestResolveUnknownAddress() {
	s.geoClientMock.EXPECT().
		Geocode(gomock.Any(), "nowhere").
		Return([]maps.GeocodingResult{}, nil)

	_, err := s.resolver.Resolve(context.Background(), "nowhere")
	s.ErrorIs(err, ErrNoGeoInfoFound)
	s.ErrorIs(err, schema.ErrValidation)
}

func (s *ResolverTestSuite) TestResolveGeocodingFailure() {
	s.geoClientMock.EXPECT().
		Geocode(gomock.Any(), "Paris").
		Return(nil, external.Classify("google geocoding", errors.New("OVER_QUERY_LIMIT")))

	_, err := s.resolver.Resolve(context.Background(), "Paris")
	s.ErrorIs(err, external.ErrUpstream)
}

func TestResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}
