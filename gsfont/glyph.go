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
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"seehuhn.de/go/glyphs/plist"
)

// SmartAxis is a glyph-local axis of a smart component.
type SmartAxis struct {
	Name   string
	Bottom float64
	Top    float64
}

// Glyph is a glyph record.
type Glyph struct {
	Name       string
	Codepoints []int
	Color      plist.Object
	SmartAxes  []*SmartAxis
	Layers     []*Layer

	raw *plist.Dict
}

// NewGlyph allocates a new, empty glyph.
func NewGlyph(name string) *Glyph {
	return &Glyph{Name: name}
}

// ParseGlyph interprets a glyph record.  Sub-records of d are shared with
// the returned glyph, callers which modify the glyph should pass a copy.
func ParseGlyph(d *plist.Dict, format int) (*Glyph, error) {
	g := &Glyph{
		Name:  getString(d, "glyphname"),
		Color: d.Get("color"),
		raw:   d,
	}
	if g.Name == "" {
		return nil, errors.New("glyph without name")
	}

	var err error
	g.Codepoints, err = parseCodepoints(d.Get("unicode"), format)
	if err != nil {
		return nil, fmt.Errorf("glyph %q: %w", g.Name, err)
	}

	for _, ad := range dictList(d, "partsSettings") {
		g.SmartAxes = append(g.SmartAxes, &SmartAxis{
			Name:   getString(ad, "name"),
			Bottom: getFloat(ad, "bottomValue", 0),
			Top:    getFloat(ad, "topValue", 0),
		})
	}

	for _, ld := range dictList(d, "layers") {
		l, err := parseLayer(ld, format, false)
		if err != nil {
			return nil, fmt.Errorf("glyph %q: %w", g.Name, err)
		}
		g.Layers = append(g.Layers, l)
	}
	return g, nil
}

// ParseCodepoints reads the "unicode" entry of a glyph record.  Format 2
// files store hexadecimal strings, format 3 files store integers.
func ParseCodepoints(obj plist.Object, format int) ([]int, error) {
	return parseCodepoints(obj, format)
}

func parseCodepoints(obj plist.Object, format int) ([]int, error) {
	if obj == nil {
		return nil, nil
	}

	if format == Format2 {
		s, ok := plist.AsString(obj)
		if !ok {
			return nil, fmt.Errorf("invalid unicode value %v", obj)
		}
		var res []int
		for _, part := range strings.Split(s, ",") {
			cp, err := strconv.ParseInt(strings.TrimSpace(part), 16, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid unicode value %q", part)
			}
			res = append(res, int(cp))
		}
		return res, nil
	}

	var items []plist.Object
	if list := plist.AsArray(obj); list != nil {
		items = list
	} else {
		items = []plist.Object{obj}
	}
	res := make([]int, 0, len(items))
	for _, item := range items {
		x, ok := plist.AsFloat(item)
		if !ok {
			return nil, fmt.Errorf("invalid unicode value %v", item)
		}
		res = append(res, int(x))
	}
	return res, nil
}

func codepointsObject(codepoints []int, format int) plist.Object {
	if len(codepoints) == 0 {
		return nil
	}
	if format == Format2 {
		parts := make([]string, len(codepoints))
		for i, cp := range codepoints {
			parts[i] = fmt.Sprintf("%04X", cp)
		}
		if len(parts) == 1 {
			return plist.Token(parts[0])
		}
		return plist.String(strings.Join(parts, ","))
	}
	if len(codepoints) == 1 {
		return plist.Integer(codepoints[0])
	}
	res := make(plist.Array, len(codepoints))
	for i, cp := range codepoints {
		res[i] = plist.Integer(cp)
	}
	return res
}

// Layer returns the layer with the given id, or nil.
func (g *Glyph) Layer(layerID string) *Layer {
	for _, l := range g.Layers {
		if l.LayerID == layerID {
			return l
		}
	}
	return nil
}

// DeleteLayers removes all layers for which keep returns false.
func (g *Glyph) DeleteLayers(keep func(*Layer) bool) {
	g.Layers = slices.DeleteFunc(g.Layers, func(l *Layer) bool {
		return !keep(l)
	})
}

// ComponentNames returns the sorted names of all glyphs used as
// components, in foreground and background layers.
func (g *Glyph) ComponentNames() []string {
	seen := make(map[string]bool)
	var res []string
	add := func(l *Layer) {
		for _, c := range l.Components {
			if !seen[c.Name] {
				seen[c.Name] = true
				res = append(res, c.Name)
			}
		}
	}
	for _, l := range g.Layers {
		add(l)
		if l.Background != nil {
			add(l.Background)
		}
	}
	slices.Sort(res)
	return res
}

// Dict converts the glyph back into a property list dictionary.  Keys of
// the original record which are not interpreted by this package are kept.
func (g *Glyph) Dict(format int) *plist.Dict {
	d := cloneDict(g.raw)
	d.SetSorted("glyphname", plist.String(g.Name))
	setOrDelete(d, "color", g.Color)
	setOrDelete(d, "unicode", codepointsObject(g.Codepoints, format))

	var axes plist.Array
	for _, axis := range g.SmartAxes {
		ad := plist.NewDict()
		ad.Set("bottomValue", number(axis.Bottom))
		ad.Set("name", plist.String(axis.Name))
		ad.Set("topValue", number(axis.Top))
		axes = append(axes, ad)
	}
	setOrDelete(d, "partsSettings", nonEmpty(axes))

	layers := make(plist.Array, len(g.Layers))
	for i, l := range g.Layers {
		layers[i] = l.Dict(format)
	}
	d.SetSorted("layers", layers)
	return d
}
