package costdist

import (
	"github.com/pkg/errors"
	"github.com/ttpr0/go-accessibility/raster"
	"github.com/ttpr0/go-accessibility/vector"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// source points
//*******************************************

// SourcePoint is a seed cell for the cost-distance engine. Identifier
// 0 means "no source" and is dropped during validation.
type SourcePoint struct {
	X  int32
	Y  int32
	ID int32
}

// SourcesFromBand collects source points from a target raster: every
// cell with a value > 0 becomes a source carrying that value as its
// identifier. Zero and nodata cells are no sources.
func SourcesFromBand(band *raster.Band[int32]) List[SourcePoint] {
	grid := band.Grid()
	sources := NewList[SourcePoint](16)
	for y := int32(0); y < grid.Height; y++ {
		for x := int32(0); x < grid.Width; x++ {
			value := band.Get(x, y)
			if value <= 0 || value == band.NoData() {
				continue
			}
			sources.Add(SourcePoint{X: x, Y: y, ID: value})
		}
	}
	return sources
}

// SourcesFromFacilities maps facility points onto the grid. A
// facility outside the grid is a precondition failure, not a silent
// drop.
func SourcesFromFacilities(facilities List[vector.FacilityPoint], grid raster.Grid) (List[SourcePoint], error) {
	sources := NewList[SourcePoint](facilities.Length())
	for _, facility := range facilities {
		x, y, ok := grid.PointToCell(facility.Point[0], facility.Point[1])
		if !ok {
			return nil, errors.Errorf("facility %d lies outside the grid", facility.ID)
		}
		sources.Add(SourcePoint{X: x, Y: y, ID: facility.ID})
	}
	return sources, nil
}

//*******************************************
// backlink directions
//*******************************************

// Backlink codes: 0 marks a source cell, 1-8 point toward the
// predecessor cell counter-clockwise from east, -1 is unreached.
const (
	BacklinkUnreached int8 = -1
	BacklinkSource    int8 = 0
)

// neighbor offsets in backlink-code order (code = index + 1)
var neighbor_offsets = [8][2]int32{
	{1, 0},   // 1 east
	{1, -1},  // 2 north-east
	{0, -1},  // 3 north
	{-1, -1}, // 4 north-west
	{-1, 0},  // 5 west
	{-1, 1},  // 6 south-west
	{0, 1},   // 7 south
	{1, 1},   // 8 south-east
}

// BacklinkOffset returns the (dx, dy) step toward the predecessor for
// a direction code in [1, 8].
func BacklinkOffset(code int8) (int32, int32) {
	offset := neighbor_offsets[code-1]
	return offset[0], offset[1]
}
