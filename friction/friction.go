package friction

import (
	"math"

	"github.com/ttpr0/go-accessibility/raster"
	. "github.com/ttpr0/go-accessibility/util"
)

// DefaultMaxTime is the "effectively impassable, but finite" ceiling
// in seconds. It bounds path costs so no infinity or NaN ever reaches
// the cost-distance engine.
const DefaultMaxTime float64 = 3600

// NoData is the sentinel of friction rasters.
const NoData float64 = -1

const block_size int32 = 256

//*******************************************
// friction conversion
//*******************************************

// FromSpeed converts a speed raster (km/h) into a friction raster:
// the time in seconds to cross the cell diagonal. Degenerate values
// are clamped to max_time in this order: zero speed, infinite
// friction, friction above the ceiling. Negative speeds clamp too,
// except the input's nodata sentinel, which propagates as NoData so
// that masked regions stay masked. Windowed on a fixed worker pool
// for bounded memory use.
func FromSpeed(speed raster.WindowSource[float64], max_time float64, result raster.WindowSink[float64], workers int) error {
	grid := speed.Grid()
	if err := raster.CheckAligned(grid, result.Grid()); err != nil {
		return err
	}
	diagonal := grid.DiagonalDistance()
	windows := raster.BlockWindows(grid, block_size, block_size)
	return raster.RunWindows(windows, workers, func(window raster.Window) error {
		values, err := speed.ReadWindow(window)
		if err != nil {
			return err
		}
		times := NewArray[float64](values.Length())
		for cell, value := range values {
			if value == speed.NoData() {
				times[cell] = NoData
				continue
			}
			if value <= 0 {
				times[cell] = max_time
				continue
			}
			// km/h to m/s
			time := diagonal / (value / 3.6)
			if math.IsInf(time, 0) || time > max_time {
				time = max_time
			}
			times[cell] = time
		}
		return result.WriteWindow(window, times)
	})
}
