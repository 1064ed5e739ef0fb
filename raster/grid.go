package raster

import (
	"math"

	"github.com/pkg/errors"
)

const grid_tolerance = 1e-9

//*******************************************
// grid
//*******************************************

// Grid is the shared cell layout of all rasters in a pipeline run:
// extent, affine transform (north-up, no rotation) and CRS.
// (OriginX, OriginY) is the outer corner of the upper-left cell, rows
// step southwards by YRes.
type Grid struct {
	Width   int32
	Height  int32
	OriginX float64
	OriginY float64
	XRes    float64
	YRes    float64
	EPSG    int32
}

func NewGrid(width, height int32, origin_x, origin_y, xres, yres float64, epsg int32) Grid {
	return Grid{
		Width:   width,
		Height:  height,
		OriginX: origin_x,
		OriginY: origin_y,
		XRes:    xres,
		YRes:    yres,
		EPSG:    epsg,
	}
}

func (self Grid) CellCount() int {
	return int(self.Width) * int(self.Height)
}

func (self Grid) InBounds(x, y int32) bool {
	return x >= 0 && x < self.Width && y >= 0 && y < self.Height
}

// Same reports whether two grids share shape, transform and CRS.
func (self Grid) Same(other Grid) bool {
	if self.Width != other.Width || self.Height != other.Height || self.EPSG != other.EPSG {
		return false
	}
	return math.Abs(self.OriginX-other.OriginX) < grid_tolerance &&
		math.Abs(self.OriginY-other.OriginY) < grid_tolerance &&
		math.Abs(self.XRes-other.XRes) < grid_tolerance &&
		math.Abs(self.YRes-other.YRes) < grid_tolerance
}

// PointToCell maps a point in grid coordinates to its containing cell.
func (self Grid) PointToCell(px, py float64) (int32, int32, bool) {
	x := int32(math.Floor((px - self.OriginX) / self.XRes))
	y := int32(math.Floor((self.OriginY - py) / self.YRes))
	return x, y, self.InBounds(x, y)
}

// CellToPoint returns the center of cell (x, y) in grid coordinates.
func (self Grid) CellToPoint(x, y int32) (float64, float64) {
	px := self.OriginX + (float64(x)+0.5)*self.XRes
	py := self.OriginY - (float64(y)+0.5)*self.YRes
	return px, py
}

// DiagonalDistance is the cell diagonal in the grid's linear units.
func (self Grid) DiagonalDistance() float64 {
	return math.Sqrt(self.XRes*self.XRes + self.YRes*self.YRes)
}

// CheckAligned verifies that all grids match the first one. Mismatched
// inputs are a precondition failure caught before any per-cell work.
func CheckAligned(grids ...Grid) error {
	if len(grids) < 2 {
		return nil
	}
	first := grids[0]
	for i, grid := range grids[1:] {
		if !first.Same(grid) {
			return errors.Errorf("raster %d is not aligned with raster 0", i+1)
		}
	}
	return nil
}
