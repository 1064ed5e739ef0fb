package costdist

import (
	"math"

	"github.com/pkg/errors"
	"github.com/ttpr0/go-accessibility/raster"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// dijkstra engine
//*******************************************

// DijkstraEngine is the reference cost-distance backend: a
// multi-source Dijkstra over the 8-connected grid graph. Edge weights
// average the friction of both cells, diagonal steps are scaled by
// sqrt(2). When two sources reach a cell at exactly equal cost, the
// lower source identifier wins; with strictly positive edge weights
// every equal-cost path is relaxed before its cell is finalized, so
// the rule is independent of queue iteration order.
type DijkstraEngine struct {
	backlink bool
}

type pq_node struct {
	index  int32
	dist   float64
	source int32
}

// engine run state, Seeded -> Relaxing -> Finalized
type engine_state struct {
	friction *raster.Band[float64]
	grid     raster.Grid
	dist     Array[float64]
	nearest  Array[int32]
	backlink Array[int8]
	visited  Array[bool]
	heap     PriorityQueue[pq_node, float64]
}

func (self *DijkstraEngine) Compute(friction *raster.Band[float64], sources List[SourcePoint]) (*Result, error) {
	seeds, err := validate(friction, sources)
	if err != nil {
		return nil, err
	}
	state := new_state(friction)
	state.seed(seeds)
	state.relax()
	return state.finalize(self.backlink), nil
}

// validate checks every engine precondition before relaxation starts.
// Sources with identifier 0 are dropped (no source); everything else
// that is off is fatal and names the offending source.
func validate(friction *raster.Band[float64], sources List[SourcePoint]) (List[SourcePoint], error) {
	grid := friction.Grid()
	seeds := NewList[SourcePoint](sources.Length())
	seen := NewDict[int32, bool](sources.Length())
	for _, source := range sources {
		if source.ID == 0 {
			continue
		}
		if source.ID < 0 {
			return nil, errors.Errorf("source %d has a negative identifier", source.ID)
		}
		if seen.ContainsKey(source.ID) {
			return nil, errors.Errorf("source identifier %d is not unique", source.ID)
		}
		seen.Set(source.ID, true)
		if !grid.InBounds(source.X, source.Y) {
			return nil, errors.Errorf("source %d lies outside the friction raster", source.ID)
		}
		if friction.IsNoData(source.X, source.Y) {
			return nil, errors.Errorf("source %d lies on nodata friction", source.ID)
		}
		seeds.Add(source)
	}
	if seeds.Length() == 0 {
		return nil, errors.New("empty source point set")
	}
	// positive weights are the correctness precondition of the search
	// (and of the tie-break rule); the friction converter guarantees
	// this by clamping, anything else is a broken input
	nodata := friction.NoData()
	for _, value := range friction.Data() {
		if value != nodata && value <= 0 {
			return nil, errors.New("friction raster contains non-positive values")
		}
	}
	return seeds, nil
}

func new_state(friction *raster.Band[float64]) *engine_state {
	grid := friction.Grid()
	count := grid.CellCount()
	dist := NewArray[float64](count)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	backlink := NewArray[int8](count)
	for i := range backlink {
		backlink[i] = BacklinkUnreached
	}
	return &engine_state{
		friction: friction,
		grid:     grid,
		dist:     dist,
		nearest:  NewArray[int32](count),
		backlink: backlink,
		visited:  NewArray[bool](count),
		heap:     NewPriorityQueue[pq_node, float64](1024),
	}
}

// seed inserts all sources into the frontier at cost 0. Sources
// sharing a cell collapse to the lowest identifier.
func (self *engine_state) seed(seeds List[SourcePoint]) {
	for _, source := range seeds {
		index := source.Y*self.grid.Width + source.X
		if self.dist[index] == 0 && self.nearest[index] <= source.ID {
			continue
		}
		self.dist[index] = 0
		self.nearest[index] = source.ID
		self.backlink[index] = BacklinkSource
		self.heap.Enqueue(pq_node{index, 0, source.ID}, 0)
	}
}

// relax runs the main loop: finalize the globally cheapest frontier
// cell, then relax its up-to-8 neighbors. Stale heap entries are
// skipped lazily.
func (self *engine_state) relax() {
	width := self.grid.Width
	for {
		item, ok := self.heap.Dequeue()
		if !ok {
			break
		}
		index := item.index
		if self.visited[index] {
			continue
		}
		if item.dist > self.dist[index] {
			continue
		}
		if item.dist == self.dist[index] && item.source != self.nearest[index] {
			continue
		}
		self.visited[index] = true
		x := index % width
		y := index / width
		value := self.friction.Get(x, y)
		for dir := 0; dir < 8; dir++ {
			offset := neighbor_offsets[dir]
			nx := x + offset[0]
			ny := y + offset[1]
			if !self.grid.InBounds(nx, ny) {
				continue
			}
			neighbor := ny*width + nx
			if self.visited[neighbor] {
				continue
			}
			neighbor_value := self.friction.Get(nx, ny)
			if neighbor_value == self.friction.NoData() {
				continue
			}
			weight := (value + neighbor_value) / 2
			if dir%2 == 1 {
				weight *= math.Sqrt2
			}
			new_dist := self.dist[index] + weight
			if new_dist > self.dist[neighbor] {
				continue
			}
			if new_dist == self.dist[neighbor] && item.source >= self.nearest[neighbor] {
				continue
			}
			self.dist[neighbor] = new_dist
			self.nearest[neighbor] = item.source
			// the neighbor's backlink points back at the cell it was
			// relaxed from
			self.backlink[neighbor] = int8((dir+4)%8 + 1)
			self.heap.Enqueue(pq_node{neighbor, new_dist, item.source}, new_dist)
		}
	}
}

// finalize copies the run state into fresh output rasters.
func (self *engine_state) finalize(with_backlink bool) *Result {
	cost := raster.NewBand(self.grid, CostNoData)
	nearest := raster.NewBand(self.grid, NearestNoData)
	var backlink *raster.Band[int8]
	if with_backlink {
		backlink = raster.NewBand(self.grid, BacklinkUnreached)
	}
	width := self.grid.Width
	for y := int32(0); y < self.grid.Height; y++ {
		for x := int32(0); x < width; x++ {
			index := y*width + x
			if !self.visited[index] {
				continue
			}
			cost.Set(x, y, self.dist[index])
			nearest.Set(x, y, self.nearest[index])
			if with_backlink {
				backlink.Set(x, y, self.backlink[index])
			}
		}
	}
	return &Result{
		Cost:     cost,
		Nearest:  nearest,
		Backlink: backlink,
	}
}
