package vector

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// osm pbf loaders
//*******************************************

// Loaders for pre-filtered OSM extracts. Tags are taken verbatim from
// the ways; whoever produced the extract decides which features it
// contains.

type osm_way struct {
	nodes []int64
	tags  Dict[string, string]
}

// LoadRoadsPBF reads every way of a pre-filtered OSM PBF file as a
// road feature (two passes: ways, then referenced nodes). Ways with
// unresolved node references are skipped.
func LoadRoadsPBF(filename string) (List[RoadFeature], error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "can't open pbf file")
	}
	defer file.Close()

	ways := NewList[osm_way](1000)
	node_points := NewDict[int64, Optional[orb.Point]](10000)

	scanner := osmpbf.New(context.Background(), file, runtime.GOMAXPROCS(-1))
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		switch object := scanner.Object().(type) {
		case *osm.Way:
			nodes := object.Nodes.NodeIDs()
			if len(nodes) < 2 {
				continue
			}
			refs := make([]int64, len(nodes))
			for i := range nodes {
				ref := nodes[i].FeatureID().Ref()
				refs[i] = ref
				if !node_points.ContainsKey(ref) {
					node_points[ref] = None[orb.Point]()
				}
			}
			ways.Add(osm_way{nodes: refs, tags: Dict[string, string](object.TagMap())})
		default:
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, errors.Wrap(err, "can't scan pbf ways")
	}
	scanner.Close()

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "can't rewind pbf file")
	}
	scanner = osmpbf.New(context.Background(), file, runtime.GOMAXPROCS(-1))
	scanner.SkipWays = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		switch object := scanner.Object().(type) {
		case *osm.Node:
			ref := object.FeatureID().Ref()
			if !node_points.ContainsKey(ref) {
				continue
			}
			node_points[ref] = Some(orb.Point{object.Lon, object.Lat})
		default:
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, errors.Wrap(err, "can't scan pbf nodes")
	}
	scanner.Close()

	roads := NewList[RoadFeature](ways.Length())
	for _, way := range ways {
		line := make(orb.LineString, 0, len(way.nodes))
		resolved := true
		for _, ref := range way.nodes {
			point := node_points.Get(ref)
			if !point.HasValue() {
				resolved = false
				break
			}
			line = append(line, point.Value)
		}
		if !resolved {
			continue
		}
		roads.Add(RoadFeature{
			Geometry:   line,
			Category:   way.tags.Get("highway"),
			Tracktype:  way.tags.Get("tracktype"),
			Smoothness: way.tags.Get("smoothness"),
			Surface:    way.tags.Get("surface"),
		})
	}
	return roads, nil
}

// LoadFacilitiesPBF reads every node of a pre-filtered OSM PBF file
// as a facility. Identifiers are assigned sequentially in scan order,
// starting at 1.
func LoadFacilitiesPBF(filename string) (List[FacilityPoint], error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "can't open pbf file")
	}
	defer file.Close()

	facilities := NewList[FacilityPoint](1000)
	scanner := osmpbf.New(context.Background(), file, runtime.GOMAXPROCS(-1))
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true
	next_id := int32(1)
	for scanner.Scan() {
		switch object := scanner.Object().(type) {
		case *osm.Node:
			facilities.Add(FacilityPoint{
				Point: orb.Point{object.Lon, object.Lat},
				ID:    next_id,
			})
			next_id += 1
		default:
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "can't scan pbf nodes")
	}
	return facilities, nil
}
