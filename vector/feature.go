package vector

import (
	"github.com/paulmach/orb"
)

//*******************************************
// vector features
//*******************************************

// RoadFeature is a line geometry with its resolved road tags. Feature
// extraction and tag-based filtering happen upstream; loaders in this
// package only adapt collaborator formats.
type RoadFeature struct {
	Geometry   orb.LineString
	Category   string
	Tracktype  string
	Smoothness string
	Surface    string
}

// FacilityPoint is a destination (e.g. a health facility) with a
// unique positive identifier.
type FacilityPoint struct {
	Point orb.Point
	ID    int32
}
