package services

import (
	"github.com/paulmach/orb/geojson"

	"ecommerce-dashboard/internal/models"
)

// MapGeoJSON converts map points into a FeatureCollection with one point
// feature per city.
func MapGeoJSON(points []models.MapPoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewFeature(p.Geometry())
		f.Properties["customer_city"] = p.City
		f.Properties["order_count"] = p.OrderCount
		f.Properties["revenue"] = p.Revenue
		fc.Append(f)
	}
	return fc
}
