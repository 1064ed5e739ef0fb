package speed

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/ttpr0/go-accessibility/raster"
	"github.com/ttpr0/go-accessibility/vector"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// road rasterization
//*******************************************

// RasterizeRoads burns road segments onto the grid with all-touched
// semantics: every cell crossed by a segment receives the segment's
// integer-truncated speed. Features are drawn in caller order, later
// features overwrite earlier ones at shared cells. Untouched cells
// stay nodata. Geometries must already be in the grid's CRS.
func RasterizeRoads(roads List[vector.RoadFeature], speeds *RoadSpeeds, grid raster.Grid) *raster.Band[float64] {
	band := raster.NewBand(grid, NoData)
	for _, road := range roads {
		resolved := speeds.SegmentSpeed(road.Category, road.Tracktype, road.Smoothness, road.Surface)
		if !resolved.HasValue() {
			continue
		}
		value := float64(int(resolved.Value))
		for i := 0; i < len(road.Geometry)-1; i++ {
			burn_segment(band, road.Geometry[i], road.Geometry[i+1], value)
		}
	}
	return band
}

// burn_segment walks the cells crossed by a line segment
// (Amanatides-Woo grid traversal) and writes value into each.
func burn_segment(band *raster.Band[float64], a, b orb.Point, value float64) {
	grid := band.Grid()
	// continuous cell coordinates, v grows southwards like the row index
	u0 := (a[0] - grid.OriginX) / grid.XRes
	v0 := (grid.OriginY - a[1]) / grid.YRes
	u1 := (b[0] - grid.OriginX) / grid.XRes
	v1 := (grid.OriginY - b[1]) / grid.YRes

	x := int32(math.Floor(u0))
	y := int32(math.Floor(v0))
	x1 := int32(math.Floor(u1))
	y1 := int32(math.Floor(v1))

	du := u1 - u0
	dv := v1 - v0
	step_x := int32(0)
	t_max_x := math.Inf(1)
	t_delta_x := math.Inf(1)
	if du > 0 {
		step_x = 1
		t_max_x = (math.Floor(u0) + 1 - u0) / du
		t_delta_x = 1 / du
	} else if du < 0 {
		step_x = -1
		t_max_x = (u0 - math.Floor(u0)) / -du
		t_delta_x = 1 / -du
	}
	step_y := int32(0)
	t_max_y := math.Inf(1)
	t_delta_y := math.Inf(1)
	if dv > 0 {
		step_y = 1
		t_max_y = (math.Floor(v0) + 1 - v0) / dv
		t_delta_y = 1 / dv
	} else if dv < 0 {
		step_y = -1
		t_max_y = (v0 - math.Floor(v0)) / -dv
		t_delta_y = 1 / -dv
	}

	steps := abs32(x1-x) + abs32(y1-y)
	if grid.InBounds(x, y) {
		band.Set(x, y, value)
	}
	for i := int32(0); i < steps; i++ {
		if t_max_x < t_max_y {
			t_max_x += t_delta_x
			x += step_x
		} else {
			t_max_y += t_delta_y
			y += step_y
		}
		if grid.InBounds(x, y) {
			band.Set(x, y, value)
		}
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
