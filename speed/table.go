package speed

import (
	. "github.com/ttpr0/go-accessibility/util"
)

// NoData is the sentinel used by all speed rasters (km/h are never
// negative).
const NoData float64 = -1

//*******************************************
// road speed table
//*******************************************

// RoadSpeeds maps road categories to base speeds (km/h) and quality
// tags to multipliers in (0, 1].
type RoadSpeeds struct {
	Highway    Dict[string, float64] `yaml:"highway"`
	Tracktype  Dict[string, float64] `yaml:"tracktype"`
	Smoothness Dict[string, float64] `yaml:"smoothness"`
	Surface    Dict[string, float64] `yaml:"surface"`
}

// SegmentSpeed resolves the speed of a road segment. Unknown
// categories yield None (the segment is excluded, not an error).
// Absent or unknown quality tags count as multiplier 1; the final
// speed uses the worst single quality factor, not their product.
func (self *RoadSpeeds) SegmentSpeed(category, tracktype, smoothness, surface string) Optional[float64] {
	base, ok := self.Highway[category]
	if !ok {
		return None[float64]()
	}
	factor := multiplier(self.Tracktype, tracktype)
	if m := multiplier(self.Smoothness, smoothness); m < factor {
		factor = m
	}
	if m := multiplier(self.Surface, surface); m < factor {
		factor = m
	}
	return Some(base * factor)
}

// Merge overrides entries of this table with those of another,
// key by key.
func (self *RoadSpeeds) Merge(other *RoadSpeeds) {
	merge_dict(self.Highway, other.Highway)
	merge_dict(self.Tracktype, other.Tracktype)
	merge_dict(self.Smoothness, other.Smoothness)
	merge_dict(self.Surface, other.Surface)
}

func multiplier(table Dict[string, float64], tag string) float64 {
	if value, ok := table[tag]; ok {
		return value
	}
	return 1
}

func merge_dict(into, from Dict[string, float64]) {
	for key, value := range from {
		into[key] = value
	}
}

func DefaultRoadSpeeds() *RoadSpeeds {
	return &RoadSpeeds{
		Highway: Dict[string, float64]{
			"motorway": 100, "motorway_link": 60,
			"trunk": 80, "trunk_link": 50,
			"primary": 80, "primary_link": 50,
			"secondary": 70, "secondary_link": 50,
			"tertiary": 60, "tertiary_link": 40,
			"unclassified": 50, "road": 50,
			"residential": 30, "living_street": 10,
			"service": 30, "track": 30, "path": 10,
		},
		Tracktype: Dict[string, float64]{
			"grade1": 1.0, "grade2": 0.8, "grade3": 0.6, "grade4": 0.4, "grade5": 0.2,
		},
		Smoothness: Dict[string, float64]{
			"excellent": 1.0, "good": 0.9, "intermediate": 0.7, "bad": 0.5,
			"very_bad": 0.3, "horrible": 0.2, "very_horrible": 0.1, "impassable": 0.1,
		},
		Surface: Dict[string, float64]{
			"asphalt": 1.0, "paved": 1.0, "concrete": 1.0, "paving_stones": 0.8,
			"sett": 0.7, "cobblestone": 0.6, "compacted": 0.8, "fine_gravel": 0.8,
			"gravel": 0.7, "pebblestone": 0.6, "unpaved": 0.6, "ground": 0.5,
			"dirt": 0.5, "earth": 0.5, "grass": 0.4, "mud": 0.2, "sand": 0.3,
		},
	}
}

//*******************************************
// land cover speed table
//*******************************************

// LandcoverSpeeds maps land-cover class names to off-road walking
// speeds in km/h.
type LandcoverSpeeds = Dict[string, float64]

func DefaultLandcoverSpeeds() LandcoverSpeeds {
	return LandcoverSpeeds{
		"bare":    4.0,
		"crops":   3.0,
		"grass":   4.0,
		"moss":    4.0,
		"shrub":   3.0,
		"tree":    2.0,
		"urban":   5.0,
		"snow":    1.0,
		"wetland": 1.0,
	}
}
