package vector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roads_geojson = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "LineString", "coordinates": [[0, 0], [10, 10]]},
			"properties": {"highway": "primary", "surface": "asphalt"}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [5, 5]},
			"properties": {"highway": "primary"}
		},
		{
			"type": "Feature",
			"geometry": {"type": "LineString", "coordinates": [[0, 10], [10, 0]]},
			"properties": {"highway": "track", "tracktype": "grade3"}
		}
	]
}`

const facilities_geojson = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [2, 3]},
			"properties": {"id": 7}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [4, 5]},
			"properties": {}
		}
	]
}`

func write_temp(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func TestLoadRoadsGeoJSON(t *testing.T) {
	file := write_temp(t, "roads.geojson", roads_geojson)
	roads, err := LoadRoadsGeoJSON(file)
	require.NoError(t, err)

	// point feature is skipped, only LineStrings survive
	require.Equal(t, 2, roads.Length())
	assert.Equal(t, "primary", roads.Get(0).Category)
	assert.Equal(t, "asphalt", roads.Get(0).Surface)
	assert.Equal(t, "", roads.Get(0).Tracktype)
	assert.Equal(t, orb.Point{0, 0}, roads.Get(0).Geometry[0])
	assert.Equal(t, "grade3", roads.Get(1).Tracktype)
}

func TestLoadFacilitiesGeoJSON(t *testing.T) {
	file := write_temp(t, "facilities.geojson", facilities_geojson)
	facilities, err := LoadFacilitiesGeoJSON(file)
	require.NoError(t, err)

	require.Equal(t, 2, facilities.Length())
	assert.Equal(t, int32(7), facilities.Get(0).ID)
	// missing id gets assigned after the highest explicit one
	assert.Equal(t, int32(8), facilities.Get(1).ID)
	assert.Equal(t, orb.Point{4, 5}, facilities.Get(1).Point)
}
