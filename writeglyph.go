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
	"crypto/sha1"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"

	"seehuhn.de/go/glyphs/fontra"
	"seehuhn.de/go/glyphs/gsfont"
)

// LayerRole describes how a layer of a variable glyph is stored in a
// Glyphs file.  The possible values are RolePrimary, RoleBackground and
// RoleSecondary.
type LayerRole interface {
	isLayerRole()
}

// RolePrimary is the role of a layer which holds the outlines of a glyph
// source.
type RolePrimary struct{}

// RoleBackground is the role of a layer which holds the background of
// another layer.  Source is the name of the primary layer, Of is the name
// of the layer this is the background of.
type RoleBackground struct {
	Source string
	Of     string
}

// RoleSecondary is the role of an additional layer attached to a glyph
// source.  Source is the name of the primary layer, Tag is the name of
// the Glyphs layer.
type RoleSecondary struct {
	Source string
	Tag    string
}

func (RolePrimary) isLayerRole()    {}
func (RoleBackground) isLayerRole() {}
func (RoleSecondary) isLayerRole()  {}

const backgroundSuffix = "background"

// LayerRoles determines the role of every layer of a variable glyph.
//
// A layer is primary, if it is the layer of a glyph source.  Other layers
// must be named "<primary>^<tag>", where <primary> is the name of a
// primary layer.  The tag "background", or a tag ending in "/background",
// denotes a background layer.  All other tags denote secondary layers.
func LayerRoles(vg *fontra.VariableGlyph) (map[string]LayerRole, error) {
	primary := make(map[string]bool, len(vg.Sources))
	for _, src := range vg.Sources {
		if _, ok := vg.Layers[src.LayerName]; !ok {
			return nil, newError(MissingSourceLayer,
				"glyph %q: source %q uses missing layer %q", vg.Name, src.Name, src.LayerName)
		}
		primary[src.LayerName] = true
	}

	res := make(map[string]LayerRole, len(vg.Layers))
	for name := range vg.Layers {
		if primary[name] {
			res[name] = RolePrimary{}
			continue
		}

		// use the longest matching primary layer name
		src := ""
		found := false
		for p := range primary {
			if strings.HasPrefix(name, p+"^") && (!found || len(p) > len(src)) {
				src = p
				found = true
			}
		}
		if !found {
			return nil, newError(LayerWithoutSource,
				"glyph %q: layer %q does not belong to a source", vg.Name, name)
		}

		tag := name[len(src)+1:]
		if tag == backgroundSuffix || strings.HasSuffix(tag, "/"+backgroundSuffix) {
			of := name[:len(name)-len(backgroundSuffix)-1]
			if _, ok := vg.Layers[of]; !ok {
				return nil, newError(MissingSourceLayer,
					"glyph %q: background layer %q without foreground", vg.Name, name)
			}
			res[name] = RoleBackground{Source: src, Of: of}
		} else {
			res[name] = RoleSecondary{Source: src, Tag: tag}
		}
	}
	return res, nil
}

// sourceInfo describes where a glyph source is located in the design
// space, and which master it belongs to.
type sourceInfo struct {
	fontLoc  fontra.Location
	glyphLoc fontra.Location

	// masterID is the master at fontLoc, or "" for brace layers.
	masterID string
	isBrace  bool
	isSmart  bool

	assocID   string
	assocName string
}

func (ds *designSpace) sourceInfo(vg *fontra.VariableGlyph, src *fontra.GlyphSource, defaultGlyphLoc fontra.Location) (*sourceInfo, error) {
	var base fontra.Location
	if src.LocationBase != "" {
		var ok bool
		base, ok = ds.masterLocation[src.LocationBase]
		if !ok {
			return nil, newError(UnknownLocationBase,
				"glyph %q: source %q: unknown location base %q", vg.Name, src.Name, src.LocationBase)
		}
	}
	loc := fontra.Merge(base, src.Location)

	fontLoc, glyphLoc := fontra.SplitLocation(loc, vg.Axes)
	si := &sourceInfo{
		fontLoc:  fontra.MakeDense(fontLoc, ds.defaultLocation),
		glyphLoc: fontra.MakeDense(glyphLoc, defaultGlyphLoc),
	}
	si.masterID, _ = ds.masterAt(si.fontLoc)
	si.isBrace = si.masterID == ""
	si.isSmart = fontra.LocationKey(si.glyphLoc) != fontra.LocationKey(defaultGlyphLoc)

	if si.isBrace && len(vg.Axes) > 0 {
		return nil, newError(BraceInSmartGlyph,
			"glyph %q: source %q: intermediate font locations are not supported in smart glyphs",
			vg.Name, src.Name)
	}

	switch assoc, _ := src.CustomData[keyAssociatedMaster].(string); {
	case si.masterID != "":
		si.assocID = si.masterID
	case ds.masterNames[assoc] != "":
		si.assocID = assoc
	default:
		si.assocID = ds.nearestMaster(si.fontLoc)
	}
	si.assocName = ds.masterNames[si.assocID]
	return si, nil
}

// layerInfo describes how a layer is stored in the Glyphs file.
type layerInfo struct {
	id           string
	name         string
	isMain       bool
	isBackground bool

	storeSourceName bool
	storeLayerName  bool
}

// layerID determines the Glyphs layer id for a layer.  In order of
// preference, this is the id stored in the layer's custom data, the
// suggested id, the layer name if it has the form of a Glyphs layer id,
// or an id derived from the glyph name and the layer name.
func layerID(glyphName, layerName string, layer *fontra.Layer, suggested string) string {
	if id, _ := layer.CustomData[keyLayerID].(string); id != "" {
		return id
	}
	if suggested != "" {
		return suggested
	}
	if isGlyphsUUID(layerName) {
		return layerName
	}
	h := sha1.Sum([]byte(glyphName + "/" + layerName))
	u, err := uuid.FromBytes(h[:16])
	if err != nil {
		u = uuid.New()
	}
	return strings.ToUpper(u.String())
}

// isGlyphsUUID reports whether s is a UUID in the upper case notation
// used by Glyphs.
func isGlyphsUUID(s string) bool {
	u, err := uuid.Parse(s)
	return err == nil && s == strings.ToUpper(u.String())
}

// writeGlyph rebuilds the layers of a Glyphs glyph from a variable glyph.
// Layers and backgrounds of g which are not used by any source are
// removed.  On error, g
// may be partially modified.
func (ds *designSpace) writeGlyph(vg *fontra.VariableGlyph, g *gsfont.Glyph, format int) error {
	roles, err := LayerRoles(vg)
	if err != nil {
		return err
	}

	smartAxes := make([]*gsfont.SmartAxis, 0, len(vg.Axes))
	for _, axis := range vg.Axes {
		if axis.DefaultValue != axis.MinValue && axis.DefaultValue != axis.MaxValue {
			return newError(AxisDefaultNotAtBound,
				"glyph %q: default of glyph axis %q must be at the minimum or maximum",
				vg.Name, axis.Name)
		}
		smartAxes = append(smartAxes, &gsfont.SmartAxis{
			Name:   strings.TrimSuffix(axis.Name, localSuffix),
			Bottom: axis.MinValue,
			Top:    axis.MaxValue,
		})
	}
	g.SmartAxes = smartAxes
	defaultGlyphLoc := fontra.DefaultGlyphLocation(vg.Axes)

	attached := make(map[string][]string)
	for name, role := range roles {
		switch role := role.(type) {
		case RoleBackground:
			attached[role.Source] = append(attached[role.Source], name)
		case RoleSecondary:
			attached[role.Source] = append(attached[role.Source], name)
		}
	}

	infos := make([]*sourceInfo, len(vg.Sources))
	seen := make(map[string]string)
	for i, src := range vg.Sources {
		si, err := ds.sourceInfo(vg, src, defaultGlyphLoc)
		if err != nil {
			return err
		}
		key := fontra.LocationKey(fontra.Merge(si.fontLoc, si.glyphLoc))
		if other, dup := seen[key]; dup {
			return newError(DuplicateSourceLocation,
				"glyph %q: sources %q and %q have the same location",
				vg.Name, other, src.Name)
		}
		seen[key] = src.Name
		infos[i] = si
	}

	inUse := make(map[string]bool)
	hasBackground := make(map[string]bool)
	ids := make(map[string]string)
	for i, src := range vg.Sources {
		si := infos[i]

		layerNames := slices.Clone(attached[src.LayerName])
		slices.Sort(layerNames)
		layerNames = append([]string{src.LayerName}, layerNames...)
		for _, layerName := range layerNames {
			li, err := ds.layerInfo(vg, src, si, layerName, roles[layerName], ids, g, format)
			if err != nil {
				return err
			}
			ids[layerName] = li.id
			inUse[li.id] = true

			gl := g.Layer(li.id)
			if gl == nil {
				gl = gsfont.NewLayer(li.id, si.assocID)
				g.Layers = append(g.Layers, gl)
			}

			target := gl
			if li.isBackground {
				if gl.Background == nil {
					gl.Background = gsfont.NewLayer("", "")
				}
				target = gl.Background
				hasBackground[li.id] = true
			} else {
				err = ds.updateLayer(vg, layerName, src, si, li, gl)
				if err != nil {
					return err
				}
			}

			err = setOutline(target, vg.Layers[layerName].Glyph, format)
			if err != nil {
				return err
			}
		}
	}

	g.DeleteLayers(func(l *gsfont.Layer) bool {
		return inUse[l.LayerID]
	})
	for _, l := range g.Layers {
		if !hasBackground[l.LayerID] {
			l.Background = nil
		}
	}

	g.Color = nil
	if color, ok := vg.CustomData[keyGlyphColor]; ok {
		g.Color = gsfont.FromAny(color)
	}
	return nil
}

func (ds *designSpace) layerInfo(vg *fontra.VariableGlyph, src *fontra.GlyphSource, si *sourceInfo, layerName string, role LayerRole, ids map[string]string, g *gsfont.Glyph, format int) (*layerInfo, error) {
	layer := vg.Layers[layerName]
	li := &layerInfo{
		storeSourceName: src.Name != si.assocName,
		storeLayerName:  true,
	}

	switch role := role.(type) {
	case RolePrimary:
		li.isMain = true
		var braceName string
		if si.isBrace {
			braceName = ds.braceName(ds.braceCoordinates(si.fontLoc))
		}
		switch {
		case si.isSmart:
			li.name = src.Name
			li.id = layerID(vg.Name, layerName, layer, "")
		case si.isBrace:
			li.name = braceName
			li.id = layerID(vg.Name, layerName, layer, "")
		default:
			li.name = ds.masterNames[si.masterID]
			li.id = layerID(vg.Name, layerName, layer, si.masterID)
		}
		if master, name, ok := strings.Cut(src.Name, " / "); ok && master == si.assocName {
			li.name = name
			li.storeSourceName = false
		}
		if si.isBrace && format == gsfont.Format2 && !ds.braceNameMatches(li.name, si.fontLoc) {
			// format 2 files store the brace coordinates in the layer name
			li.name = braceName
			li.storeSourceName = src.Name != si.assocName
		}

	case RoleBackground:
		li.isBackground = true
		if id, ok := ids[role.Of]; ok {
			li.id = id
		} else {
			li.id = layerID(vg.Name, role.Of, vg.Layers[role.Of], "")
		}

	case RoleSecondary:
		li.name = role.Tag
		li.id = layerID(vg.Name, layerName, layer, "")
		li.storeLayerName = false
		if si.isBrace && g.Layer(li.id) == nil {
			return nil, newError(BraceSecondaryLayer,
				"glyph %q: layer %q: brace layers can only have a background layer",
				vg.Name, layerName)
		}
	}
	return li, nil
}

// updateLayer sets the name, master and pole mapping of a Glyphs layer,
// and records the names which cannot be derived from the layer data in
// the user data.
func (ds *designSpace) updateLayer(vg *fontra.VariableGlyph, layerName string, src *fontra.GlyphSource, si *sourceInfo, li *layerInfo, gl *gsfont.Layer) error {
	gl.Name = li.name
	gl.AssociatedMasterID = si.assocID

	if li.isMain && len(vg.Axes) > 0 {
		poles := make(map[string]gsfont.Pole, len(vg.Axes))
		for _, axis := range vg.Axes {
			value := si.glyphLoc[axis.Name]
			var pole gsfont.Pole
			switch value {
			case axis.MinValue:
				pole = gsfont.PoleMin
			case axis.MaxValue:
				pole = gsfont.PoleMax
			default:
				return newError(IntermediateInSmartGlyph,
					"glyph %q: source %q: %s=%g is neither minimum nor maximum of the glyph axis",
					vg.Name, src.Name, axis.Name, value)
			}
			poles[strings.TrimSuffix(axis.Name, localSuffix)] = pole
		}
		gl.PoleMapping = poles
	} else if li.isMain {
		gl.PoleMapping = nil
	}

	if li.isMain {
		if si.isBrace {
			gl.BraceCoordinates = ds.braceCoordinates(si.fontLoc)
		} else {
			gl.BraceCoordinates = nil
		}
	}

	gl.SetUserString(userDataLayerName, layerName, layerName != li.id && li.storeLayerName)
	gl.SetUserString(userDataSourceName, src.Name, src.Name != "" && li.storeSourceName)
	return nil
}

// sortedKeys returns the keys of m in sorted order.
func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
