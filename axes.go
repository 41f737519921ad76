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

package glyphs

import (
	"slices"
	"strconv"

	"seehuhn.de/go/glyphs/fontra"
	"seehuhn.de/go/glyphs/gsfont"
	"seehuhn.de/go/glyphs/plist"
)

// designSpace describes the font axes of a Glyphs font, and the locations
// of its masters.
//
// Master locations are given in source space, and only use the axes in
// axes.  Axes where all masters have the same coordinate are ignored.
type designSpace struct {
	// axes are the font axes, in user space.
	axes []*fontra.FontAxis

	// axisIndex gives the position of each axis in the list of native
	// axes.
	axisIndex []int

	nativeAxes []*gsfont.Axis
	axisNames  map[string]bool

	// defaultLocation is the default location in source space.
	defaultLocation fontra.Location

	masterIDs        []string
	masterNames      map[string]string
	masterLocation   map[string]fontra.Location
	masterByLocation map[string]string
	defaultMasterID  string

	// firstMasterCoords are the native coordinates of the first master.
	firstMasterCoords []float64
}

// buildAxes determines the font axes and the master locations.
func buildAxes(f *gsfont.Font) *designSpace {
	ds := &designSpace{
		nativeAxes:        f.Axes,
		axisNames:         make(map[string]bool),
		masterNames:       make(map[string]string, len(f.Masters)),
		masterLocation:    make(map[string]fontra.Location, len(f.Masters)),
		masterByLocation:  make(map[string]string, len(f.Masters)),
		firstMasterCoords: f.Masters[0].Coordinates,
	}
	defaultMaster := f.DefaultMaster()
	ds.defaultMasterID = defaultMaster.ID

	for i, native := range f.Axes {
		axis := buildAxis(f, i, native, defaultMaster)
		if axis.MinValue == axis.MaxValue {
			continue
		}
		ds.axes = append(ds.axes, axis)
		ds.axisIndex = append(ds.axisIndex, i)
		ds.axisNames[axis.Name] = true
	}

	for _, m := range f.Masters {
		loc := make(fontra.Location, len(ds.axes))
		for k, axis := range ds.axes {
			loc[axis.Name] = m.Coordinates[ds.axisIndex[k]]
		}
		ds.masterIDs = append(ds.masterIDs, m.ID)
		ds.masterNames[m.ID] = m.Name
		ds.masterLocation[m.ID] = loc
		key := fontra.LocationKey(loc)
		if _, seen := ds.masterByLocation[key]; !seen {
			ds.masterByLocation[key] = m.ID
		}
	}

	sourceAxes := fontra.MapAxesFromUserSpaceToSourceSpace(ds.axes)
	ds.defaultLocation = fontra.DefaultFontLocation(sourceAxes)

	return ds
}

// buildAxis converts the native axis with index idx into a font axis.  The
// user space range is taken from the "Axis Mappings" font parameter, from
// the "Axis Location" master parameters, or from the master coordinates,
// in this order of preference.
func buildAxis(f *gsfont.Font, idx int, native *gsfont.Axis, defaultMaster *gsfont.Master) *fontra.FontAxis {
	axis := &fontra.FontAxis{
		Name:   native.Name,
		Label:  native.Name,
		Tag:    native.Tag,
		Hidden: native.Hidden,
	}
	defaultDesign := defaultMaster.Coordinates[idx]

	mapping := axisMappingParameter(f, native)
	if mapping == nil {
		mapping = axisLocationParameters(f, idx, native)
	}
	if mapping == nil {
		axis.MinValue = defaultDesign
		axis.MaxValue = defaultDesign
		for _, m := range f.Masters {
			axis.MinValue = min(axis.MinValue, m.Coordinates[idx])
			axis.MaxValue = max(axis.MaxValue, m.Coordinates[idx])
		}
		axis.DefaultValue = defaultDesign
		return axis
	}

	axis.MinValue = mapping[0][0]
	axis.MaxValue = mapping[len(mapping)-1][0]
	userDefault := fontra.PiecewiseLinearMap(defaultDesign, fontra.InvertMapping(mapping))
	axis.DefaultValue = max(axis.MinValue, min(axis.MaxValue, userDefault))
	if !isIdentityMapping(mapping) {
		axis.Mapping = mapping
	}
	return axis
}

// axisMappingParameter reads the user to design space mapping of an axis
// from the "Axis Mappings" font parameter.  The parameter is a dictionary,
// keyed by axis tag, of dictionaries which map user coordinates (as
// strings) to design coordinates.
func axisMappingParameter(f *gsfont.Font, native *gsfont.Axis) [][2]float64 {
	param, _ := f.CustomParameter("Axis Mappings").(*plist.Dict)
	md := param.GetDict(native.Tag)
	if md.Len() == 0 {
		return nil
	}
	var res [][2]float64
	for _, key := range md.Keys() {
		user, err := strconv.ParseFloat(key, 64)
		if err != nil {
			continue
		}
		design, ok := md.GetFloat(key)
		if !ok {
			continue
		}
		res = append(res, [2]float64{user, design})
	}
	return normalizeMapping(res)
}

// axisLocationParameters builds the user to design space mapping of an
// axis from the "Axis Location" parameters of the masters.  The result is
// nil, unless every master has a location for the axis.
func axisLocationParameters(f *gsfont.Font, idx int, native *gsfont.Axis) [][2]float64 {
	var res [][2]float64
	for _, m := range f.Masters {
		found := false
		for _, obj := range plist.AsArray(m.CustomParameter("Axis Location")) {
			d, ok := obj.(*plist.Dict)
			if !ok {
				continue
			}
			if name, _ := d.GetString("Axis"); name != native.Name {
				continue
			}
			user, ok := d.GetFloat("Location")
			if !ok {
				continue
			}
			res = append(res, [2]float64{user, m.Coordinates[idx]})
			found = true
			break
		}
		if !found {
			return nil
		}
	}
	return normalizeMapping(res)
}

// normalizeMapping sorts the pairs of a mapping by input value and
// removes pairs with duplicate input values.
func normalizeMapping(pairs [][2]float64) [][2]float64 {
	if len(pairs) == 0 {
		return nil
	}
	slices.SortStableFunc(pairs, func(a, b [2]float64) int {
		switch {
		case a[0] < b[0]:
			return -1
		case a[0] > b[0]:
			return 1
		}
		return 0
	})
	return slices.CompactFunc(pairs, func(a, b [2]float64) bool {
		return a[0] == b[0]
	})
}

func isIdentityMapping(mapping [][2]float64) bool {
	for _, p := range mapping {
		if p[0] != p[1] {
			return false
		}
	}
	return true
}

// sparseMasterLocation returns the location of a master, without the axes
// which are at their default value.
func (ds *designSpace) sparseMasterLocation(masterID string) fontra.Location {
	return fontra.MakeSparse(ds.masterLocation[masterID], ds.defaultLocation)
}

// masterAt returns the id of the master at the given dense font location.
func (ds *designSpace) masterAt(loc fontra.Location) (string, bool) {
	id, ok := ds.masterByLocation[fontra.LocationKey(loc)]
	return id, ok
}

// nearestMaster returns the id of the master closest to loc.
func (ds *designSpace) nearestMaster(loc fontra.Location) string {
	locations := make([]fontra.Location, len(ds.masterIDs))
	for i, id := range ds.masterIDs {
		locations[i] = ds.masterLocation[id]
	}
	idx := fontra.FindNearestLocationIndex(loc, locations)
	if idx < 0 {
		return ds.defaultMasterID
	}
	return ds.masterIDs[idx]
}

// braceLocation converts the native coordinates of a brace layer into a
// location.  Coordinates for ignored axes are dropped.
func (ds *designSpace) braceLocation(coords []float64) fontra.Location {
	loc := make(fontra.Location)
	for k, axis := range ds.axes {
		if i := ds.axisIndex[k]; i < len(coords) {
			loc[axis.Name] = coords[i]
		}
	}
	return loc
}

// braceCoordinates converts a dense font location into native
// coordinates.  Ignored axes use the coordinate of the first master.
func (ds *designSpace) braceCoordinates(loc fontra.Location) []float64 {
	coords := slices.Clone(ds.firstMasterCoords)
	for k, axis := range ds.axes {
		coords[ds.axisIndex[k]] = loc[axis.Name]
	}
	return coords
}

// braceName returns the format 2 name of a brace layer at the given
// native coordinates.  Trailing coordinates of ignored axes are left out.
func (ds *designSpace) braceName(coords []float64) string {
	n := 0
	for _, i := range ds.axisIndex {
		n = max(n, i+1)
	}
	return gsfont.FormatBraceName(coords[:n])
}

// braceNameMatches reports whether a format 2 layer name describes the
// given dense font location.
func (ds *designSpace) braceNameMatches(name string, loc fontra.Location) bool {
	coords := gsfont.ParseBraceName(name)
	if coords == nil {
		return false
	}
	for k, axis := range ds.axes {
		i := ds.axisIndex[k]
		if i >= len(coords) || coords[i] != loc[axis.Name] {
			return false
		}
	}
	return true
}

// localAxisName returns the name used for a glyph axis in the Fontra
// model.  Names which clash with font axes get a " (local)" suffix.
func (ds *designSpace) localAxisName(name string) string {
	if ds.axisNames[name] {
		return name + localSuffix
	}
	return name
}

const localSuffix = " (local)"
