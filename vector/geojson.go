package vector

import (
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// geojson loaders
//*******************************************

// LoadRoadsGeoJSON reads road features from a GeoJSON
// FeatureCollection. Only LineString geometries are kept, everything
// else is skipped.
func LoadRoadsGeoJSON(file string) (List[RoadFeature], error) {
	collection, err := read_collection(file)
	if err != nil {
		return nil, err
	}
	roads := NewList[RoadFeature](len(collection.Features))
	for _, feature := range collection.Features {
		line, ok := feature.Geometry.(orb.LineString)
		if !ok {
			continue
		}
		roads.Add(RoadFeature{
			Geometry:   line,
			Category:   prop_string(feature, "highway"),
			Tracktype:  prop_string(feature, "tracktype"),
			Smoothness: prop_string(feature, "smoothness"),
			Surface:    prop_string(feature, "surface"),
		})
	}
	return roads, nil
}

// LoadFacilitiesGeoJSON reads facility points from a GeoJSON
// FeatureCollection. Each Point feature needs a numeric "id"
// property; features without one get a sequential id starting after
// the highest explicit one.
func LoadFacilitiesGeoJSON(file string) (List[FacilityPoint], error) {
	collection, err := read_collection(file)
	if err != nil {
		return nil, err
	}
	facilities := NewList[FacilityPoint](len(collection.Features))
	max_id := int32(0)
	unset := NewList[int](4)
	for _, feature := range collection.Features {
		point, ok := feature.Geometry.(orb.Point)
		if !ok {
			continue
		}
		id := prop_id(feature)
		if id > max_id {
			max_id = id
		}
		if id == 0 {
			unset.Add(facilities.Length())
		}
		facilities.Add(FacilityPoint{Point: point, ID: id})
	}
	for _, index := range unset {
		max_id += 1
		facility := facilities.Get(index)
		facility.ID = max_id
		facilities.Set(index, facility)
	}
	return facilities, nil
}

func read_collection(file string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "can't read geojson file")
	}
	collection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse geojson file")
	}
	return collection, nil
}

func prop_string(feature *geojson.Feature, key string) string {
	if value, ok := feature.Properties[key].(string); ok {
		return value
	}
	return ""
}

func prop_id(feature *geojson.Feature) int32 {
	switch value := feature.Properties["id"].(type) {
	case float64:
		return int32(value)
	case int:
		return int32(value)
	}
	return 0
}
