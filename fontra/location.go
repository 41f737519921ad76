// seehuhn.de/go/glyphs - convert between Glyphs and Fontra font sources
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package fontra

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
)

// Location maps axis names to axis values.
type Location map[string]float64

// Clone returns a copy of loc.
func (loc Location) Clone() Location {
	if loc == nil {
		return nil
	}
	return maps.Clone(loc)
}

// Merge returns a new location with the entries of loc, overridden by the
// entries of the other locations.
func Merge(loc Location, other ...Location) Location {
	res := make(Location, len(loc))
	maps.Copy(res, loc)
	for _, o := range other {
		maps.Copy(res, o)
	}
	return res
}

// LocationKey returns a string which identifies the location.  Two
// locations have the same key if and only if they have the same axes and
// the same values.
func LocationKey(loc Location) string {
	names := maps.Keys(loc)
	slices.Sort(names)
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(0)
		}
		b.WriteString(name)
		b.WriteByte(0)
		b.WriteString(strconv.FormatFloat(loc[name], 'g', -1, 64))
	}
	return b.String()
}

// MakeSparse returns a copy of loc without the entries which equal the
// corresponding value in defaultLoc.
func MakeSparse(loc, defaultLoc Location) Location {
	res := make(Location)
	for name, value := range loc {
		if d, ok := defaultLoc[name]; ok && d == value {
			continue
		}
		res[name] = value
	}
	return res
}

// MakeDense returns a location with exactly the axes of defaultLoc.  Values
// are taken from loc, where present.
func MakeDense(loc, defaultLoc Location) Location {
	res := make(Location, len(defaultLoc))
	for name, value := range defaultLoc {
		if v, ok := loc[name]; ok {
			value = v
		}
		res[name] = value
	}
	return res
}

// SplitLocation partitions loc into the entries for font axes and the
// entries for the given glyph axes.
func SplitLocation(loc Location, glyphAxes []*GlyphAxis) (fontLoc, glyphLoc Location) {
	isGlyphAxis := make(map[string]bool, len(glyphAxes))
	for _, axis := range glyphAxes {
		isGlyphAxis[axis.Name] = true
	}
	fontLoc = make(Location)
	glyphLoc = make(Location)
	for name, value := range loc {
		if isGlyphAxis[name] {
			glyphLoc[name] = value
		} else {
			fontLoc[name] = value
		}
	}
	return fontLoc, glyphLoc
}

// DefaultGlyphLocation returns the default location of the given glyph axes.
func DefaultGlyphLocation(axes []*GlyphAxis) Location {
	res := make(Location, len(axes))
	for _, axis := range axes {
		res[axis.Name] = axis.DefaultValue
	}
	return res
}

// DefaultFontLocation returns the default location of the given font axes.
// The axes must be in source space, see MapAxesFromUserSpaceToSourceSpace.
func DefaultFontLocation(axes []*FontAxis) Location {
	res := make(Location, len(axes))
	for _, axis := range axes {
		res[axis.Name] = axis.DefaultValue
	}
	return res
}

// FindNearestLocationIndex returns the index of the location in locations
// which is closest to target, using the Manhattan distance.  Missing axes
// count as zero.  If several locations have the same distance, the first
// one is used.  The function returns -1 if locations is empty.
func FindNearestLocationIndex(target Location, locations []Location) int {
	best := -1
	bestDist := math.Inf(1)
	for i, loc := range locations {
		var dist float64
		for name, value := range target {
			dist += math.Abs(value - loc[name])
		}
		for name, value := range loc {
			if _, seen := target[name]; !seen {
				dist += math.Abs(value)
			}
		}
		if dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}

// PiecewiseLinearMap maps v using the piecewise linear function defined by
// the given (input, output) pairs.  Outside the range of the input values,
// the map is extended by translation.
func PiecewiseLinearMap(v float64, mapping [][2]float64) float64 {
	if len(mapping) == 0 {
		return v
	}
	pairs := slices.Clone(mapping)
	slices.SortFunc(pairs, func(a, b [2]float64) int {
		switch {
		case a[0] < b[0]:
			return -1
		case a[0] > b[0]:
			return 1
		}
		return 0
	})

	for _, p := range pairs {
		if p[0] == v {
			return p[1]
		}
	}
	lo := pairs[0]
	if v < lo[0] {
		return v + lo[1] - lo[0]
	}
	hi := pairs[len(pairs)-1]
	if v > hi[0] {
		return v + hi[1] - hi[0]
	}
	for i := 1; i < len(pairs); i++ {
		a, b := pairs[i-1], pairs[i]
		if v < b[0] {
			return a[1] + (b[1]-a[1])*(v-a[0])/(b[0]-a[0])
		}
	}
	return v // not reached
}

// InvertMapping swaps input and output values of an axis mapping.
func InvertMapping(mapping [][2]float64) [][2]float64 {
	res := make([][2]float64, len(mapping))
	for i, p := range mapping {
		res[i] = [2]float64{p[1], p[0]}
	}
	return res
}

// MapAxesFromUserSpaceToSourceSpace returns copies of the axes with
// minimum, default and maximum converted to source space.  The returned
// axes have no mapping.
func MapAxesFromUserSpaceToSourceSpace(axes []*FontAxis) []*FontAxis {
	res := make([]*FontAxis, len(axes))
	for i, axis := range axes {
		a := *axis
		if len(axis.Mapping) > 0 {
			a.MinValue = PiecewiseLinearMap(axis.MinValue, axis.Mapping)
			a.DefaultValue = PiecewiseLinearMap(axis.DefaultValue, axis.Mapping)
			a.MaxValue = PiecewiseLinearMap(axis.MaxValue, axis.Mapping)
			a.Mapping = nil
		}
		res[i] = &a
	}
	return res
}
