package geoinfo

import (
	"context"

	log "github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"

	"github.com/werego/werego-api/external"
)

const (
	logPrefix = "geoinfo"
)

// GeoInfo - interface to operate google maps geocoding
type GeoInfo interface {
	Geocode(ctx context.Context, address string) ([]maps.GeocodingResult, error)
}

type geoInfo struct {
	client *maps.Client
}

// Geocode resolves a free text address into candidate coordinates
func (g geoInfo) Geocode(ctx context.Context, address string) ([]maps.GeocodingResult, error) {
	log.WithFields(log.Fields{
		"prefix":  logPrefix,
		"address": address,
	}).Debug("query geo info")

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: address,
	})
	if err != nil {
		return nil, external.Classify("google geocoding", err)
	}
	return results, nil
}

// New - new GeoInfo interface
func New(apiKey string) (GeoInfo, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"error":  err,
		}).Error("new map client")

		return nil, err
	}

	return &geoInfo{
		client: client,
	}, nil
}
