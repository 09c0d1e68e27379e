package store

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/werego/werego-api/schema"
)

func matchCreatedAfter(cutoff time.Time) bson.M {
	return bson.M{
		"createdAt": bson.M{
			"$gt": cutoff,
		},
	}
}

func matchCreatedAtOrBefore(cutoff time.Time) bson.M {
	return bson.M{
		"createdAt": bson.M{
			"$lte": cutoff,
		},
	}
}

// aggStageGeoProximity sorts documents by distance from location, keeping the
// ones within maxDistance meters and matching query.
func aggStageGeoProximity(maxDistance float64, location schema.Location, query bson.M) bson.M {
	stage := bson.M{
		"near": bson.M{
			"type":        "Point",
			"coordinates": bson.A{location.Longitude, location.Latitude},
		},
		"distanceField": "dist",
		"maxDistance":   maxDistance,
		"spherical":     true,
	}
	if len(query) > 0 {
		stage["query"] = query
	}
	return bson.M{"$geoNear": stage}
}

// matchWithinBox selects points inside the lat/lng box using planar $box
// geometry, so the edges follow constant latitude and longitude. A box crossing
// the antimeridian is split into its eastern and western halves.
/*
{
	location: {
		$geoWithin: {
			$box: [[swLng, swLat], [neLng, neLat]]
		}
	}
}
*/
func matchWithinBox(bounds schema.Bounds) bson.M {
	sw, ne := bounds.SouthWest, bounds.NorthEast
	if sw.Longitude <= ne.Longitude {
		return matchBox(sw.Longitude, sw.Latitude, ne.Longitude, ne.Latitude)
	}

	return bson.M{
		"$or": bson.A{
			matchBox(sw.Longitude, sw.Latitude, 180, ne.Latitude),
			matchBox(-180, sw.Latitude, ne.Longitude, ne.Latitude),
		},
	}
}

func matchBox(minLng, minLat, maxLng, maxLat float64) bson.M {
	return bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$box": bson.A{
					bson.A{minLng, minLat},
					bson.A{maxLng, maxLat},
				},
			},
		},
	}
}

// aggStageCountBy counts documents per value of field
func aggStageCountBy(field string) bson.M {
	return bson.M{
		"$group": bson.M{
			"_id": specifyField(field),
			"count": bson.M{
				"$sum": 1,
			},
		},
	}
}

func specifyField(fieldName string) string {
	return fmt.Sprintf("$%s", fieldName)
}
