package costdist

import (
	"github.com/pkg/errors"
	"github.com/ttpr0/go-accessibility/raster"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// cost-distance capability
//*******************************************

// CostNoData marks cells unreached by any source in the cost raster.
// It is distinct from every finite accumulated cost, including sums
// of the friction ceiling.
const CostNoData float64 = -1

// NearestNoData is the nearest raster's sentinel; it matches the "0
// means no source" convention of the target rasters.
const NearestNoData int32 = 0

// Result holds the three output rasters of a cost-distance run. They
// are created by the engine and not visible to other stages before
// the run completes. Backlink is nil when the engine was built
// without backlink output.
type Result struct {
	Cost     *raster.Band[float64]
	Nearest  *raster.Band[int32]
	Backlink *raster.Band[int8]
}

// ICostDistance computes accumulated travel time, nearest source and
// optionally backlink directions from a friction surface and a set of
// source points. Backends are interchangeable; all must match the
// sequential Dijkstra reference, including its lowest-id tie-break.
type ICostDistance interface {
	Compute(friction *raster.Band[float64], sources List[SourcePoint]) (*Result, error)
}

// New selects a cost-distance backend by name. Unknown names fail
// immediately, before any work is attempted.
func New(method string, backlink bool) (ICostDistance, error) {
	switch method {
	case "dijkstra":
		return &DijkstraEngine{backlink: backlink}, nil
	default:
		return nil, errors.Errorf("%s is not a valid cost-distance method", method)
	}
}
