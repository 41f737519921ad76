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
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"

	"seehuhn.de/go/glyphs/fontra"
	"seehuhn.de/go/glyphs/gsfont"
)

// glyphAxes returns the glyph axes of a smart component.  The default of
// each axis is the pole used by the first layer.
func (ds *designSpace) glyphAxes(g *gsfont.Glyph) []*fontra.GlyphAxis {
	res := make([]*fontra.GlyphAxis, 0, len(g.SmartAxes))
	for _, axis := range g.SmartAxes {
		def := axis.Bottom
		if len(g.Layers) > 0 && g.Layers[0].PoleMapping[axis.Name] == gsfont.PoleMax {
			def = axis.Top
		}
		res = append(res, &fontra.GlyphAxis{
			Name:         ds.localAxisName(axis.Name),
			MinValue:     axis.Bottom,
			DefaultValue: def,
			MaxValue:     axis.Top,
		})
	}
	return res
}

// readGlyph converts a Glyphs glyph into a variable glyph.
//
// Every layer at a location not seen before becomes a source.  Layers at
// a location which is already taken by an earlier layer are kept as
// secondary layers of that source, so that their outlines are not lost.
func (ds *designSpace) readGlyph(g *gsfont.Glyph, format int, log logrus.FieldLogger) *fontra.VariableGlyph {
	res := &fontra.VariableGlyph{
		Name:    g.Name,
		Axes:    ds.glyphAxes(g),
		Sources: []*fontra.GlyphSource{},
		Layers:  make(map[string]*fontra.Layer),
	}
	if g.Color != nil {
		res.CustomData = map[string]any{keyGlyphColor: gsfont.ToAny(g.Color)}
	}

	// group the layers by master, keeping the file order within each group
	masterRank := make(map[string]int)
	for _, l := range g.Layers {
		if _, seen := masterRank[l.AssociatedMasterID]; !seen {
			masterRank[l.AssociatedMasterID] = len(masterRank)
		}
	}
	layers := slices.Clone(g.Layers)
	slices.SortStableFunc(layers, func(a, b *gsfont.Layer) int {
		return masterRank[a.AssociatedMasterID] - masterRank[b.AssociatedMasterID]
	})

	// sourceLayer maps dense location keys to the layer name of the source
	// there
	sourceLayer := make(map[string]string)
	defaultLoc := fontra.Merge(ds.defaultLocation, fontra.DefaultGlyphLocation(res.Axes))
	for _, l := range layers {
		masterName, ok := ds.masterNames[l.AssociatedMasterID]
		if !ok {
			log.WithFields(logrus.Fields{
				"glyph": g.Name,
				"layer": l.LayerID,
			}).Warn("skipping layer of unknown master")
			continue
		}

		var braceLoc fontra.Location
		if l.IsBraceLayer() && !l.IsMasterLayer() {
			braceLoc = ds.braceLocation(l.BraceCoordinates)
		}
		smartLoc := ds.smartLocation(g, l, res.Axes)

		nativeName := l.Name
		if l.IsMasterLayer() || nativeName == "" {
			nativeName = masterName
		}

		var sourceName string
		if name := l.UserString(userDataSourceName); name != "" {
			sourceName = name
		} else if len(braceLoc) > 0 || len(smartLoc) > 0 {
			sourceName = masterName + " / " + nativeName
		} else {
			sourceName = nativeName
		}

		layerName := l.UserString(userDataLayerName)
		if layerName == "" {
			layerName = l.LayerID
		}

		location := fontra.Merge(ds.sparseMasterLocation(l.AssociatedMasterID), braceLoc, smartLoc)
		key := fontra.LocationKey(fontra.MakeDense(location, defaultLoc))

		storeLayerID := true
		bgSep := "^"
		if primary, seen := sourceLayer[key]; seen {
			layerName = primary + "^" + nativeName
			bgSep = "/"
		} else {
			sourceLayer[key] = layerName
			storeLayerID = layerName != l.LayerID
			source := &fontra.GlyphSource{
				Name:      sourceName,
				Location:  location,
				LayerName: layerName,
			}
			if len(braceLoc) > 0 {
				fontLoc := fontra.MakeDense(braceLoc, ds.defaultLocation)
				if ds.nearestMaster(fontLoc) != l.AssociatedMasterID {
					source.CustomData = map[string]any{keyAssociatedMaster: l.AssociatedMasterID}
				}
			}
			res.Sources = append(res.Sources, source)
		}

		layer := &fontra.Layer{
			Glyph: ds.staticGlyph(l, l.Width, format),
		}
		if storeLayerID {
			layer.CustomData = map[string]any{keyLayerID: l.LayerID}
		}
		res.Layers[layerName] = layer

		if l.Background != nil {
			res.Layers[layerName+bgSep+"background"] = &fontra.Layer{
				Glyph: ds.staticGlyph(l.Background, l.Width, format),
			}
		}
	}

	fixSourceLocations(res.Sources, res.Axes)

	return res
}

// smartLocation returns the glyph axis values of a smart component layer.
// Axes at their default value are omitted.
func (ds *designSpace) smartLocation(g *gsfont.Glyph, l *gsfont.Layer, axes []*fontra.GlyphAxis) fontra.Location {
	loc := make(fontra.Location)
	for i, native := range g.SmartAxes {
		axis := axes[i]
		var value float64
		switch l.PoleMapping[native.Name] {
		case gsfont.PoleMin:
			value = axis.MinValue
		case gsfont.PoleMax:
			value = axis.MaxValue
		default:
			continue
		}
		if value != axis.DefaultValue {
			loc[axis.Name] = value
		}
	}
	return loc
}

// fixSourceLocations removes font axis entries from source locations,
// where a glyph axis entry selects exactly the same set of sources.  In
// Glyphs, such sources are controlled by the glyph axis alone.
func fixSourceLocations(sources []*fontra.GlyphSource, glyphAxes []*fontra.GlyphAxis) {
	if len(glyphAxes) == 0 {
		return
	}
	isGlyphAxis := make(map[string]bool, len(glyphAxes))
	for _, axis := range glyphAxes {
		isGlyphAxis[axis.Name] = true
	}

	type item struct {
		axis  string
		value float64
	}
	members := make(map[item][]int)
	var items []item
	for i, source := range sources {
		names := fontraLocationNames(source.Location)
		for _, name := range names {
			it := item{name, source.Location[name]}
			if members[it] == nil {
				items = append(items, it)
			}
			members[it] = append(members[it], i)
		}
	}

	groups := make(map[string][]item)
	var groupKeys []string
	for _, it := range items {
		key := indexKey(members[it])
		if groups[key] == nil {
			groupKeys = append(groupKeys, key)
		}
		groups[key] = append(groups[key], it)
	}

	var remove []item
	for _, key := range groupKeys {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		hasGlyphAxis := slices.ContainsFunc(group, func(it item) bool {
			return isGlyphAxis[it.axis]
		})
		if !hasGlyphAxis {
			continue
		}
		for _, it := range group {
			if !isGlyphAxis[it.axis] {
				remove = append(remove, it)
			}
		}
	}

	for _, it := range remove {
		for _, source := range sources {
			if v, ok := source.Location[it.axis]; ok && v == it.value {
				delete(source.Location, it.axis)
			}
		}
	}
}

func fontraLocationNames(loc fontra.Location) []string {
	names := maps.Keys(loc)
	slices.Sort(names)
	return names
}

func indexKey(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}
