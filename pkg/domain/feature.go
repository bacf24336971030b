package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FeatureType is the geometry family of a highlightable feature.
type FeatureType string

const (
	FeatureTypePoint FeatureType = "point"
	FeatureTypePath  FeatureType = "path"
	FeatureTypeArea  FeatureType = "area"
)

// IsValid reports whether t is one of the known feature types.
func (t FeatureType) IsValid() bool {
	switch t {
	case FeatureTypePoint, FeatureTypePath, FeatureTypeArea:
		return true
	}
	return false
}

// FeatureID identifies a feature within a namespace.
type FeatureID struct {
	Type      FeatureType `json:"type"`
	Namespace string      `json:"namespace"`
	Value     uint64      `json:"value,string"`
}

// Key returns the highlight key for the feature.
func (f FeatureID) Key() HighlightKey {
	return NewHighlightKey(f.Type, f.Namespace, f.Value)
}

func (f FeatureID) String() string {
	return string(f.Key())
}

// HighlightKey is the string identity "/{type}/{namespace}/{id}" of a feature.
type HighlightKey string

// NewHighlightKey builds a key from its three parts.
func NewHighlightKey(t FeatureType, namespace string, id uint64) HighlightKey {
	return HighlightKey(fmt.Sprintf("/%s/%s/%d", t, namespace, id))
}

// ParseHighlightKey splits a key back into a FeatureID. Namespaces may contain
// slashes (e.g. "openstreetmap.org/way"), so the type is the first segment and the
// id the last.
func ParseHighlightKey(s string) (FeatureID, error) {
	if !strings.HasPrefix(s, "/") {
		return FeatureID{}, fmt.Errorf("invalid highlight key %q: missing leading slash", s)
	}
	rest := s[1:]
	first := strings.Index(rest, "/")
	last := strings.LastIndex(rest, "/")
	if first < 0 || first == last {
		return FeatureID{}, fmt.Errorf("invalid highlight key %q: want /type/namespace/id", s)
	}
	t := FeatureType(rest[:first])
	if !t.IsValid() {
		return FeatureID{}, fmt.Errorf("invalid highlight key %q: unknown type %q", s, t)
	}
	id, err := strconv.ParseUint(rest[last+1:], 10, 64)
	if err != nil {
		return FeatureID{}, fmt.Errorf("invalid highlight key %q: %w", s, err)
	}
	return FeatureID{Type: t, Namespace: rest[first+1 : last], Value: id}, nil
}

// ID is a feature id value. The server encodes 64 bit ids as JSON strings, but plain
// numbers are accepted too.
type ID uint64

func (i *ID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*i = ID(v)
	return nil
}

func (i ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(i), 10))
}

// IDs is the list of ids highlighted within one namespace.
type IDs struct {
	IDs []ID `json:"ids,omitempty"`
}

// FeatureIDs is the highlighted set of a response. Namespaces[i] has the form
// "/{type}/{namespace}" and IDs[i] holds the ids under it.
type FeatureIDs struct {
	Namespaces []string `json:"namespaces,omitempty"`
	IDs        []*IDs   `json:"ids,omitempty"`
}

// Keys expands the set into highlight keys. Namespaces without a matching id list are
// skipped.
func (f *FeatureIDs) Keys() []HighlightKey {
	if f == nil {
		return nil
	}
	var keys []HighlightKey
	for i, ns := range f.Namespaces {
		if i >= len(f.IDs) || f.IDs[i] == nil {
			continue
		}
		for _, id := range f.IDs[i].IDs {
			keys = append(keys, HighlightKey(ns+"/"+strconv.FormatUint(uint64(id), 10)))
		}
	}
	return keys
}

// Add appends a feature to the set, grouping by namespace.
func (f *FeatureIDs) Add(id FeatureID) {
	ns := fmt.Sprintf("/%s/%s", id.Type, id.Namespace)
	for i, n := range f.Namespaces {
		if n == ns {
			f.IDs[i].IDs = append(f.IDs[i].IDs, ID(id.Value))
			return
		}
	}
	f.Namespaces = append(f.Namespaces, ns)
	f.IDs = append(f.IDs, &IDs{IDs: []ID{ID(id.Value)}})
}

// LatLng is a coordinate in degrees * 1e7.
type LatLng struct {
	LatE7 int64 `json:"latE7,omitempty" yaml:"lat_e7" mapstructure:"lat_e7"`
	LngE7 int64 `json:"lngE7,omitempty" yaml:"lng_e7" mapstructure:"lng_e7"`
}

// IsZero reports whether either component is missing.
func (l *LatLng) IsZero() bool {
	return l == nil || l.LatE7 == 0 || l.LngE7 == 0
}

// Degrees returns latitude and longitude in degrees.
func (l LatLng) Degrees() (lat, lng float64) {
	return float64(l.LatE7) / 1e7, float64(l.LngE7) / 1e7
}

// LatLngFromDegrees converts degrees to the E7 representation.
func LatLngFromDegrees(lat, lng float64) LatLng {
	return LatLng{LatE7: int64(math.Round(lat * 1e7)), LngE7: int64(math.Round(lng * 1e7))}
}
