package speed

import (
	"github.com/pkg/errors"
	"github.com/ttpr0/go-accessibility/raster"
)

//*******************************************
// speed combination
//*******************************************

// CombineSpeeds merges two speed rasters by taking the per-cell
// maximum (the fastest available mode of travel wins). Cells where
// the maximum is negative or both inputs are nodata receive the first
// input's nodata sentinel. Commutative and idempotent.
func CombineSpeeds(a, b *raster.Band[float64]) (*raster.Band[float64], error) {
	if err := raster.CheckAligned(a.Grid(), b.Grid()); err != nil {
		return nil, err
	}
	grid := a.Grid()
	result := raster.NewBand(grid, a.NoData())
	for y := int32(0); y < grid.Height; y++ {
		for x := int32(0); x < grid.Width; x++ {
			va := a.Get(x, y)
			if va == a.NoData() {
				va = -1
			}
			vb := b.Get(x, y)
			if vb == b.NoData() {
				vb = -1
			}
			value := va
			if vb > value {
				value = vb
			}
			if value < 0 {
				continue
			}
			result.Set(x, y, value)
		}
	}
	return result, nil
}

// CombineAll folds CombineSpeeds over any number of rasters; the
// operation is associative, so the fold order does not matter.
func CombineAll(bands ...*raster.Band[float64]) (*raster.Band[float64], error) {
	if len(bands) == 0 {
		return nil, errors.New("no speed rasters given")
	}
	result := bands[0]
	for _, band := range bands[1:] {
		combined, err := CombineSpeeds(result, band)
		if err != nil {
			return nil, err
		}
		result = combined
	}
	return result, nil
}
