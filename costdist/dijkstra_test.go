package costdist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-accessibility/raster"
	. "github.com/ttpr0/go-accessibility/util"
)

func uniform_friction(width, height int32, value float64) *raster.Band[float64] {
	grid := raster.NewGrid(width, height, 0, float64(height)*10, 10.0, 10.0, 32633)
	band := raster.NewBand(grid, -1.0)
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < width; x++ {
			band.Set(x, y, value)
		}
	}
	return band
}

func compute(t *testing.T, friction *raster.Band[float64], sources List[SourcePoint]) *Result {
	t.Helper()
	engine, err := New("dijkstra", true)
	require.NoError(t, err)
	result, err := engine.Compute(friction, sources)
	require.NoError(t, err)
	return result
}

func TestSingleSourceUniformGrid(t *testing.T) {
	friction := uniform_friction(3, 3, 10)
	result := compute(t, friction, List[SourcePoint]{{X: 1, Y: 1, ID: 1}})

	assert.Equal(t, 0.0, result.Cost.Get(1, 1))
	// orthogonal neighbors cost one average cell crossing
	assert.InDelta(t, 10.0, result.Cost.Get(0, 1), 1e-9)
	assert.InDelta(t, 10.0, result.Cost.Get(2, 1), 1e-9)
	assert.InDelta(t, 10.0, result.Cost.Get(1, 0), 1e-9)
	assert.InDelta(t, 10.0, result.Cost.Get(1, 2), 1e-9)
	// diagonal neighbors pay the longer geometric traversal
	diag := 10 * math.Sqrt2
	assert.InDelta(t, diag, result.Cost.Get(0, 0), 1e-9)
	assert.InDelta(t, diag, result.Cost.Get(2, 0), 1e-9)
	assert.InDelta(t, diag, result.Cost.Get(0, 2), 1e-9)
	assert.InDelta(t, diag, result.Cost.Get(2, 2), 1e-9)

	for y := int32(0); y < 3; y++ {
		for x := int32(0); x < 3; x++ {
			assert.Equal(t, int32(1), result.Nearest.Get(x, y))
		}
	}
	assert.Equal(t, BacklinkSource, result.Backlink.Get(1, 1))
	// east neighbor was relaxed from the center: backlink points west
	assert.Equal(t, int8(5), result.Backlink.Get(2, 1))
	// north-west corner points south-east, back toward the center
	assert.Equal(t, int8(8), result.Backlink.Get(0, 0))
}

func TestTieBreakLowestID(t *testing.T) {
	friction := uniform_friction(3, 3, 10)
	sources := List[SourcePoint]{
		{X: 2, Y: 2, ID: 2},
		{X: 0, Y: 0, ID: 1},
	}
	result := compute(t, friction, sources)

	// the center is exactly equidistant from both corners
	assert.InDelta(t, 10*math.Sqrt2, result.Cost.Get(1, 1), 1e-9)
	assert.Equal(t, int32(1), result.Nearest.Get(1, 1))
	// the anti-diagonal corners tie as well, lowest id wins there too
	assert.Equal(t, int32(1), result.Nearest.Get(2, 0))
	assert.Equal(t, int32(1), result.Nearest.Get(0, 2))
	// cells strictly closer to source 2 keep it
	assert.Equal(t, int32(2), result.Nearest.Get(2, 1))
	assert.Equal(t, int32(2), result.Nearest.Get(1, 2))
}

func TestBacklinkPathMonotone(t *testing.T) {
	friction := uniform_friction(12, 9, 5)
	// make an expensive band through the middle so paths bend
	for x := int32(0); x < 12; x++ {
		friction.Set(x, 4, 500)
	}
	friction.Set(2, 4, 5) // narrow pass
	sources := List[SourcePoint]{{X: 1, Y: 1, ID: 3}}
	result := compute(t, friction, sources)

	// walk the backlinks from the far corner; cost must decrease
	// monotonically and the walk must end at the source cell
	x, y := int32(11), int32(8)
	cost := result.Cost.Get(x, y)
	require.Greater(t, cost, 0.0)
	steps := 0
	for {
		code := result.Backlink.Get(x, y)
		if code == BacklinkSource {
			break
		}
		require.NotEqual(t, BacklinkUnreached, code)
		dx, dy := BacklinkOffset(code)
		x += dx
		y += dy
		next := result.Cost.Get(x, y)
		require.Less(t, next, cost)
		cost = next
		steps++
		require.Less(t, steps, 12*9, "backlink walk does not terminate")
	}
	assert.Equal(t, int32(1), x)
	assert.Equal(t, int32(1), y)
}

func TestNoDataRegionUnreached(t *testing.T) {
	friction := uniform_friction(5, 1, 10)
	friction.Set(2, 0, friction.NoData()) // wall splits the row
	result := compute(t, friction, List[SourcePoint]{{X: 0, Y: 0, ID: 1}})

	assert.InDelta(t, 10.0, result.Cost.Get(1, 0), 1e-9)
	// nodata cell and everything behind it stay unreached
	for x := int32(2); x < 5; x++ {
		assert.Equal(t, CostNoData, result.Cost.Get(x, 0))
		assert.Equal(t, NearestNoData, result.Nearest.Get(x, 0))
		assert.Equal(t, BacklinkUnreached, result.Backlink.Get(x, 0))
	}
}

func TestZeroIDSourcesExcluded(t *testing.T) {
	friction := uniform_friction(3, 1, 10)
	sources := List[SourcePoint]{
		{X: 0, Y: 0, ID: 0},
		{X: 2, Y: 0, ID: 4},
	}
	result := compute(t, friction, sources)

	// the zero-id point is no source, its cell is reached from afar
	assert.InDelta(t, 20.0, result.Cost.Get(0, 0), 1e-9)
	assert.Equal(t, int32(4), result.Nearest.Get(0, 0))
}

func TestPreconditionFailures(t *testing.T) {
	friction := uniform_friction(3, 3, 10)
	engine, err := New("dijkstra", true)
	require.NoError(t, err)

	_, err = engine.Compute(friction, List[SourcePoint]{})
	assert.ErrorContains(t, err, "empty source point set")

	_, err = engine.Compute(friction, List[SourcePoint]{{X: 1, Y: 1, ID: 0}})
	assert.ErrorContains(t, err, "empty source point set")

	_, err = engine.Compute(friction, List[SourcePoint]{{X: 5, Y: 1, ID: 7}})
	assert.ErrorContains(t, err, "source 7 lies outside")

	_, err = engine.Compute(friction, List[SourcePoint]{{X: 1, Y: 1, ID: -2}})
	assert.ErrorContains(t, err, "negative identifier")

	_, err = engine.Compute(friction, List[SourcePoint]{
		{X: 0, Y: 0, ID: 3},
		{X: 2, Y: 2, ID: 3},
	})
	assert.ErrorContains(t, err, "not unique")

	masked := uniform_friction(3, 3, 10)
	masked.Set(1, 1, masked.NoData())
	_, err = engine.Compute(masked, List[SourcePoint]{{X: 1, Y: 1, ID: 2}})
	assert.ErrorContains(t, err, "source 2 lies on nodata")

	broken := uniform_friction(3, 3, 10)
	broken.Set(0, 2, 0)
	_, err = engine.Compute(broken, List[SourcePoint]{{X: 1, Y: 1, ID: 1}})
	assert.ErrorContains(t, err, "non-positive")
}

func TestUnknownMethod(t *testing.T) {
	_, err := New("r.walk", false)
	assert.ErrorContains(t, err, "not a valid cost-distance method")
}

func TestBacklinkDisabled(t *testing.T) {
	friction := uniform_friction(2, 2, 10)
	engine, err := New("dijkstra", false)
	require.NoError(t, err)
	result, err := engine.Compute(friction, List[SourcePoint]{{X: 0, Y: 0, ID: 1}})
	require.NoError(t, err)
	assert.Nil(t, result.Backlink)
	assert.InDelta(t, 10.0, result.Cost.Get(1, 0), 1e-9)
}

func TestCostNonNegativeAndMonotone(t *testing.T) {
	friction := uniform_friction(8, 8, 1)
	// uneven surface
	for y := int32(0); y < 8; y++ {
		for x := int32(0); x < 8; x++ {
			friction.Set(x, y, 1+float64((x*7+y*13)%11))
		}
	}
	result := compute(t, friction, List[SourcePoint]{{X: 3, Y: 4, ID: 9}})

	for y := int32(0); y < 8; y++ {
		for x := int32(0); x < 8; x++ {
			cost := result.Cost.Get(x, y)
			require.GreaterOrEqual(t, cost, 0.0)
			code := result.Backlink.Get(x, y)
			if code == BacklinkSource {
				continue
			}
			dx, dy := BacklinkOffset(code)
			// the predecessor on the optimal path is always cheaper
			require.Less(t, result.Cost.Get(x+dx, y+dy), cost)
		}
	}
}

func TestSourcesFromBand(t *testing.T) {
	grid := raster.NewGrid(3, 2, 0, 20, 10, 10, 32633)
	band := raster.NewBand[int32](grid, -1)
	band.Set(0, 0, 5)
	band.Set(2, 1, 9)
	band.Set(1, 0, 0) // zero means no source

	sources := SourcesFromBand(band)
	require.Equal(t, 2, sources.Length())
	assert.Equal(t, SourcePoint{X: 0, Y: 0, ID: 5}, sources.Get(0))
	assert.Equal(t, SourcePoint{X: 2, Y: 1, ID: 9}, sources.Get(1))
}
