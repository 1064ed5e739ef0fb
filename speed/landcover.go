package speed

import (
	"github.com/pkg/errors"
	"github.com/ttpr0/go-accessibility/raster"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// land cover compositing
//*******************************************

const block_size int32 = 256

// LandcoverLayer is one fractional-coverage band: cell values are the
// percentage [0, 100] of the cell covered by the class.
type LandcoverLayer struct {
	Class string
	Cover raster.WindowSource[float64]
}

// CompositeLandcover blends fractional land-cover layers into a
// continuous speed raster: speed = sum(cover/100 * class speed).
// Cells covered by surface water for 2 or more months of the year are
// impassable (speed 0) regardless of the blend. Landcover nodata
// propagates as NoData. Windows are processed on a fixed worker pool,
// so memory stays bounded by the block size, not the grid extent.
func CompositeLandcover(layers List[LandcoverLayer], water raster.WindowSource[int32], table LandcoverSpeeds, result raster.WindowSink[float64], workers int) error {
	if layers.Length() == 0 {
		return errors.New("no landcover layers given")
	}
	grid := layers.Get(0).Cover.Grid()
	grids := NewList[raster.Grid](layers.Length() + 2)
	for _, layer := range layers {
		grids.Add(layer.Cover.Grid())
	}
	if water != nil {
		grids.Add(water.Grid())
	}
	grids.Add(result.Grid())
	if err := raster.CheckAligned(grids...); err != nil {
		return err
	}
	class_speeds := NewArray[float64](layers.Length())
	for i, layer := range layers {
		value, ok := table[layer.Class]
		if !ok {
			return errors.Errorf("landcover class %s missing from speed table", layer.Class)
		}
		class_speeds[i] = value
	}

	windows := raster.BlockWindows(grid, block_size, block_size)
	return raster.RunWindows(windows, workers, func(window raster.Window) error {
		covers := NewArray[Array[float64]](layers.Length())
		for i, layer := range layers {
			values, err := layer.Cover.ReadWindow(window)
			if err != nil {
				return err
			}
			covers[i] = values
		}
		var months Array[int32]
		if water != nil {
			values, err := water.ReadWindow(window)
			if err != nil {
				return err
			}
			months = values
		}
		values := NewArray[float64](int(window.Width) * int(window.Height))
		for cell := range values {
			value := 0.0
			nodata := false
			for i, layer := range layers {
				cover := covers[i][cell]
				if cover == layer.Cover.NoData() {
					nodata = true
					break
				}
				value += (cover / 100) * class_speeds[i]
			}
			if nodata {
				values[cell] = NoData
				continue
			}
			if months != nil && months[cell] != water.NoData() && months[cell] >= 2 {
				value = 0
			}
			values[cell] = value
		}
		return result.WriteWindow(window, values)
	})
}
