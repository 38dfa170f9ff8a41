package domain

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Candidate property keys for extracting the state code and display name
// from a GeoJSON feature, in priority order. Published state boundary files
// disagree on naming (Census TIGER uses STUSPS, Natural Earth uses postal),
// so extraction walks the list and the first non-empty string wins. New
// sources are supported by extending these lists.
var (
	codeKeys = []string{"STUSPS", "postal", "STATE_ABBR", "state_code", "abbr", "iso_3166_2"}
	nameKeys = []string{"NAME", "name", "STATE_NAME", "state_name"}
)

// StateFeature is the read-only view of one GeoJSON feature after property
// extraction. Code is normalized to uppercase; either field may be empty
// when no candidate key matched.
type StateFeature struct {
	Code     string
	Name     string
	Geometry orb.Geometry
}

// NewStateFeature extracts the state code and display name from a feature's
// properties bag. The feature itself is never mutated.
func NewStateFeature(f *geojson.Feature) StateFeature {
	return StateFeature{
		Code:     NormalizeCode(firstString(f.Properties, codeKeys)),
		Name:     firstString(f.Properties, nameKeys),
		Geometry: f.Geometry,
	}
}

// StateFeatures converts a decoded feature collection, preserving document order.
func StateFeatures(fc *geojson.FeatureCollection) []StateFeature {
	features := make([]StateFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		features = append(features, NewStateFeature(f))
	}
	return features
}

func firstString(props geojson.Properties, keys []string) string {
	for _, k := range keys {
		v, ok := props[k]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
