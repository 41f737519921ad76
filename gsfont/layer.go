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

package gsfont

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/glyphs/plist"
)

const defaultWidth = 600

// Pole selects one end of a smart component axis.
type Pole int

// These are the values used in the part selection of smart component
// layers.
const (
	PoleMin Pole = 1
	PoleMax Pole = 2
)

// Layer is a layer of a glyph.
//
// Master layers have LayerID equal to AssociatedMasterID.  Brace layers
// carry explicit axis coordinates in BraceCoordinates, one value per font
// axis.  Layers of smart glyphs select the poles of the smart component
// axes in PoleMapping.
type Layer struct {
	LayerID            string
	AssociatedMasterID string
	Name               string
	Width              float64

	BraceCoordinates []float64
	PoleMapping      map[string]Pole
	UserData         *plist.Dict

	Paths      []*Path
	Components []*Component
	Anchors    []*Anchor
	Guides     []*Guide

	// Background is the background layer, or nil.
	Background *Layer

	raw *plist.Dict
}

// IsMasterLayer reports whether l is the main layer of a master.
func (l *Layer) IsMasterLayer() bool {
	return l.LayerID == l.AssociatedMasterID
}

// IsBraceLayer reports whether l is an intermediate layer.
func (l *Layer) IsBraceLayer() bool {
	return l.BraceCoordinates != nil
}

// UserString returns the string stored under key in the layer's user data.
func (l *Layer) UserString(key string) string {
	s, _ := l.UserData.GetString(key)
	return s
}

// SetUserString stores or, if keep is false, removes a string in the
// layer's user data.
func (l *Layer) SetUserString(key, value string, keep bool) {
	if !keep {
		if l.UserData != nil {
			l.UserData.Delete(key)
		}
		return
	}
	if l.UserData == nil {
		l.UserData = plist.NewDict()
	}
	l.UserData.SetSorted(key, plist.String(value))
}

func parseLayer(d *plist.Dict, format int, isBackground bool) (*Layer, error) {
	l := &Layer{
		raw:      d,
		UserData: d.GetDict("userData"),
	}
	if !isBackground {
		l.LayerID = getString(d, "layerId")
		if l.LayerID == "" {
			return nil, fmt.Errorf("layer without layerId")
		}
		l.AssociatedMasterID = getString(d, "associatedMasterId")
		if l.AssociatedMasterID == "" {
			l.AssociatedMasterID = l.LayerID
		}
		l.Name = getString(d, "name")
		l.Width = getFloat(d, "width", defaultWidth)

		if format == Format3 {
			if coords := d.GetDict("attr").GetArray("coordinates"); coords != nil {
				l.BraceCoordinates = make([]float64, len(coords))
				for i, obj := range coords {
					l.BraceCoordinates[i], _ = plist.AsFloat(obj)
				}
			}
		} else if !l.IsMasterLayer() {
			l.BraceCoordinates = ParseBraceName(l.Name)
		}

		if parts := d.GetDict("partSelection"); parts != nil {
			l.PoleMapping = make(map[string]Pole, parts.Len())
			for _, key := range parts.Keys() {
				pole, _ := parts.GetInt(key)
				l.PoleMapping[key] = Pole(pole)
			}
		}
	}

	var err error
	if format == Format3 {
		for _, sd := range dictList(d, "shapes") {
			if sd.Has("ref") {
				var c *Component
				c, err = parseComponent(sd, format)
				if err != nil {
					return nil, err
				}
				l.Components = append(l.Components, c)
			} else {
				var p *Path
				p, err = parsePath(sd, format)
				if err != nil {
					return nil, err
				}
				l.Paths = append(l.Paths, p)
			}
		}
	} else {
		for _, pd := range dictList(d, "paths") {
			p, err := parsePath(pd, format)
			if err != nil {
				return nil, err
			}
			l.Paths = append(l.Paths, p)
		}
		for _, cd := range dictList(d, "components") {
			c, err := parseComponent(cd, format)
			if err != nil {
				return nil, err
			}
			l.Components = append(l.Components, c)
		}
	}

	for _, ad := range dictList(d, "anchors") {
		a, err := parseAnchor(ad, format)
		if err != nil {
			return nil, err
		}
		l.Anchors = append(l.Anchors, a)
	}
	for _, gd := range dictList(d, guidesKey(format)) {
		l.Guides = append(l.Guides, parseGuide(gd, format))
	}

	if bg := d.GetDict("background"); bg != nil && !isBackground {
		l.Background, err = parseLayer(bg, format, true)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
	}
	return l, nil
}

func guidesKey(format int) string {
	if format == Format3 {
		return "guides"
	}
	return "guideLines"
}

// ParseBraceName extracts the coordinates from a format 2 brace layer
// name like "{166, 100}".  If the name does not describe a brace layer,
// nil is returned.
func ParseBraceName(name string) []float64 {
	start := strings.IndexByte(name, '{')
	end := strings.LastIndexByte(name, '}')
	if start < 0 || end < start {
		return nil
	}
	var res []float64
	for _, part := range strings.Split(name[start+1:end], ",") {
		x, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil
		}
		res = append(res, x)
	}
	return res
}

// FormatBraceName returns the conventional name of a brace layer at the
// given coordinates, for example "{166}".
func FormatBraceName(coords []float64) string {
	parts := make([]string, len(coords))
	for i, x := range coords {
		parts[i] = formatNumber(x)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// NewLayer allocates an empty layer.
func NewLayer(layerID, masterID string) *Layer {
	return &Layer{
		LayerID:            layerID,
		AssociatedMasterID: masterID,
	}
}

// ClearShapes removes all outline data from the layer.
func (l *Layer) ClearShapes() {
	l.Paths = nil
	l.Components = nil
	l.Anchors = nil
	l.Guides = nil
}

// Dict converts the layer back into a property list dictionary.  Keys of
// the original record which are not interpreted by this package are kept.
func (l *Layer) Dict(format int) *plist.Dict {
	return l.dict(format, false)
}

func (l *Layer) dict(format int, isBackground bool) *plist.Dict {
	d := cloneDict(l.raw)

	if !isBackground {
		var assoc plist.Object
		if l.AssociatedMasterID != "" && !l.IsMasterLayer() {
			assoc = plist.String(l.AssociatedMasterID)
		}
		setOrDelete(d, "associatedMasterId", assoc)
		d.SetSorted("layerId", plist.String(l.LayerID))

		var name plist.Object
		if l.Name != "" && !l.IsMasterLayer() {
			name = plist.String(l.Name)
		}
		setOrDelete(d, "name", name)

		if format == Format3 {
			attr := cloneDict(d.GetDict("attr"))
			if l.BraceCoordinates != nil {
				coords := make(plist.Array, len(l.BraceCoordinates))
				for i, x := range l.BraceCoordinates {
					coords[i] = number(x)
				}
				attr.SetSorted("coordinates", coords)
			} else {
				attr.Delete("coordinates")
			}
			if attr.Len() > 0 {
				d.SetSorted("attr", attr)
			} else {
				d.Delete("attr")
			}
		}

		var parts plist.Object
		if len(l.PoleMapping) > 0 {
			pd := plist.NewDict()
			names := maps.Keys(l.PoleMapping)
			slices.Sort(names)
			for _, name := range names {
				pd.Set(name, plist.Integer(l.PoleMapping[name]))
			}
			parts = pd
		}
		setOrDelete(d, "partSelection", parts)

		if d.Has("width") || l.Width != defaultWidth {
			d.SetSorted("width", number(l.Width))
		}

		if l.Background != nil {
			d.SetSorted("background", l.Background.dict(format, true))
		} else {
			d.Delete("background")
		}
	}

	if l.UserData.Len() > 0 {
		d.SetSorted("userData", l.UserData)
	} else {
		d.Delete("userData")
	}

	var anchors plist.Array
	for _, a := range l.Anchors {
		anchors = append(anchors, a.dict(format))
	}
	setOrDelete(d, "anchors", nonEmpty(anchors))

	var guides plist.Array
	for _, g := range l.Guides {
		guides = append(guides, g.dict(format))
	}
	setOrDelete(d, guidesKey(format), nonEmpty(guides))

	var paths, components plist.Array
	for _, p := range l.Paths {
		paths = append(paths, p.dict(format))
	}
	for _, c := range l.Components {
		components = append(components, c.dict(format))
	}
	if format == Format3 {
		setOrDelete(d, "shapes", nonEmpty(append(paths, components...)))
	} else {
		setOrDelete(d, "paths", nonEmpty(paths))
		setOrDelete(d, "components", nonEmpty(components))
	}

	return d
}

func nonEmpty(a plist.Array) plist.Object {
	if len(a) == 0 {
		return nil
	}
	return a
}
