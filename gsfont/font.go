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
	"strings"

	"seehuhn.de/go/glyphs/plist"
)

// Font gives access to the font-level records of a Glyphs file.  The glyph
// records are not part of Font, see Glyph.
type Font struct {
	FormatVersion int
	Axes          []*Axis
	Masters       []*Master

	raw *plist.Dict
}

// Axis is a native design axis.
type Axis struct {
	Name   string
	Tag    string
	Hidden bool
}

// Zone is an alignment zone.
type Zone struct {
	Position float64
	Size     float64
}

// Master is a font master.  Coordinates has one entry per font axis.
type Master struct {
	ID          string
	Name        string
	Coordinates []float64

	Ascender    float64
	CapHeight   float64
	XHeight     float64
	Descender   float64
	ItalicAngle float64
	Zones       []Zone

	Guides []*Guide

	raw *plist.Dict
}

var errNoMasters = errors.New("font has no masters")

// format 2 master coordinates, in axis order
var format2AxisKeys = []struct {
	key string
	def float64
}{
	{"weightValue", 100},
	{"widthValue", 100},
	{"customValue", 0},
	{"customValue1", 0},
	{"customValue2", 0},
	{"customValue3", 0},
}

// ParseFont interprets the font-level dictionary of a Glyphs file.  The
// dictionary is used by reference, changes made through Raw are visible to
// the Font.
func ParseFont(d *plist.Dict) (*Font, error) {
	f := &Font{
		FormatVersion: Format2,
		raw:           d,
	}
	if v, ok := d.GetInt(".formatVersion"); ok {
		f.FormatVersion = v
	}
	if f.FormatVersion != Format2 && f.FormatVersion != Format3 {
		return nil, fmt.Errorf("unsupported Glyphs format version %d", f.FormatVersion)
	}

	axes, err := f.parseAxes()
	if err != nil {
		return nil, err
	}
	f.Axes = axes

	for _, md := range dictList(d, "fontMaster") {
		m, err := f.parseMaster(md)
		if err != nil {
			return nil, err
		}
		f.Masters = append(f.Masters, m)
	}
	if len(f.Masters) == 0 {
		return nil, errNoMasters
	}
	return f, nil
}

func (f *Font) parseAxes() ([]*Axis, error) {
	var res []*Axis
	if f.FormatVersion == Format3 {
		for _, ad := range dictList(f.raw, "axes") {
			res = append(res, &Axis{
				Name:   getString(ad, "name"),
				Tag:    getString(ad, "tag"),
				Hidden: getBool(ad, "hidden"),
			})
		}
		return res, nil
	}

	param := CustomParameter(f.raw, "Axes")
	for _, obj := range plist.AsArray(param) {
		ad, ok := obj.(*plist.Dict)
		if !ok {
			continue
		}
		res = append(res, &Axis{
			Name:   getString(ad, "Name"),
			Tag:    getString(ad, "Tag"),
			Hidden: getBool(ad, "Hidden"),
		})
	}
	if param == nil {
		res = []*Axis{
			{Name: "Weight", Tag: "wght"},
			{Name: "Width", Tag: "wdth"},
			{Name: "Custom", Tag: "XXXX"},
		}
	}
	if len(res) > len(format2AxisKeys) {
		return nil, fmt.Errorf("%d axes, format 2 supports at most %d",
			len(res), len(format2AxisKeys))
	}
	return res, nil
}

func (f *Font) parseMaster(d *plist.Dict) (*Master, error) {
	m := &Master{
		ID:  getString(d, "id"),
		raw: d,
	}
	if m.ID == "" {
		return nil, errors.New("font master without id")
	}

	m.Coordinates = make([]float64, len(f.Axes))
	if f.FormatVersion == Format3 {
		values := d.GetArray("axesValues")
		for i := range m.Coordinates {
			if i < len(values) {
				m.Coordinates[i], _ = plist.AsFloat(values[i])
			}
		}
		m.Name = getString(d, "name")
		if m.Name == "" {
			m.Name = "Regular"
		}
		f.parseMetrics3(m, d)
		for _, gd := range dictList(d, "guides") {
			m.Guides = append(m.Guides, parseGuide(gd, Format3))
		}
	} else {
		if len(m.Coordinates) > len(format2AxisKeys) {
			return nil, fmt.Errorf("master %q: too many axes for format 2", m.ID)
		}
		for i := range m.Coordinates {
			m.Coordinates[i] = getFloat(d, format2AxisKeys[i].key, format2AxisKeys[i].def)
		}
		m.Name = masterName2(d)
		m.Ascender = getFloat(d, "ascender", 800)
		m.CapHeight = getFloat(d, "capHeight", 700)
		m.XHeight = getFloat(d, "xHeight", 500)
		m.Descender = getFloat(d, "descender", -200)
		m.ItalicAngle = getFloat(d, "italicAngle", 0)
		for _, obj := range d.GetArray("alignmentZones") {
			vals, err := parseNumberList(obj, 2)
			if err != nil {
				continue
			}
			m.Zones = append(m.Zones, Zone{Position: vals[0], Size: vals[1]})
		}
		for _, gd := range dictList(d, "guideLines") {
			m.Guides = append(m.Guides, parseGuide(gd, Format2))
		}
	}
	return m, nil
}

// masterName2 computes the name of a format 2 master.
func masterName2(d *plist.Dict) string {
	if name, ok := plist.AsString(CustomParameter(d, "Master Name")); ok {
		return name
	}
	var parts []string
	for _, key := range []string{"weight", "width", "custom"} {
		s := getString(d, key)
		if s != "" && s != "Regular" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "Regular"
	}
	return strings.Join(parts, " ")
}

// metric types used in format 3 files
const (
	metricAscender    = "ascender"
	metricCapHeight   = "cap height"
	metricXHeight     = "x-height"
	metricBaseline    = "baseline"
	metricDescender   = "descender"
	metricItalicAngle = "italic angle"
)

func (f *Font) parseMetrics3(m *Master, d *plist.Dict) {
	m.Ascender = 800
	m.CapHeight = 700
	m.XHeight = 500
	m.Descender = -200

	metrics := dictList(f.raw, "metrics")
	values := d.GetArray("metricValues")
	for i, md := range metrics {
		if i >= len(values) {
			break
		}
		if md.Has("filter") || md.Has("name") {
			// glyph-specific or custom metrics
			continue
		}
		vd, _ := values[i].(*plist.Dict)
		pos := getFloat(vd, "pos", 0)
		over := getFloat(vd, "over", 0)
		switch getString(md, "type") {
		case metricAscender:
			m.Ascender = pos
		case metricCapHeight:
			m.CapHeight = pos
		case metricXHeight:
			m.XHeight = pos
		case metricBaseline:
		case metricDescender:
			m.Descender = pos
		case metricItalicAngle:
			m.ItalicAngle = pos
			continue
		default:
			continue
		}
		if over != 0 {
			m.Zones = append(m.Zones, Zone{Position: pos, Size: over})
		}
	}
}

// Raw returns the font-level dictionary.
func (f *Font) Raw() *plist.Dict {
	return f.raw
}

// Master returns the master with the given id, or nil.
func (f *Font) Master(id string) *Master {
	for _, m := range f.Masters {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// DefaultMaster returns the master at the origin of the design space.
// This is the master named by the "Variable Font Origin" parameter.  If
// the parameter is missing, the master whose name consists of the words
// common to all master names is used, or else the first master.
func (f *Font) DefaultMaster() *Master {
	param := "Variable Font Origin"
	if f.FormatVersion == Format2 {
		param = "Variation Font Origin"
	}
	if ref, ok := plist.AsString(CustomParameter(f.raw, param)); ok {
		for _, m := range f.Masters {
			if m.ID == ref {
				return m
			}
		}
		for _, m := range f.Masters {
			if m.Name == ref {
				return m
			}
		}
	}

	base := f.baseStyle()
	if base == "" {
		base = "Regular"
	}
	for _, m := range f.Masters {
		if m.Name == base {
			return m
		}
	}
	return f.Masters[0]
}

// baseStyle returns the words which occur in the names of all masters.
func (f *Font) baseStyle() string {
	common := strings.Fields(f.Masters[0].Name)
	for _, m := range f.Masters[1:] {
		words := strings.Fields(m.Name)
		common = slices.DeleteFunc(common, func(w string) bool {
			return !slices.Contains(words, w)
		})
	}
	return strings.Join(common, " ")
}

// CustomParameter returns the value of a font custom parameter, or nil.
func (f *Font) CustomParameter(name string) plist.Object {
	return CustomParameter(f.raw, name)
}

// CustomParameter returns the value of a master custom parameter, or nil.
func (m *Master) CustomParameter(name string) plist.Object {
	return CustomParameter(m.raw, name)
}

// UnitsPerEm returns the size of the em square.
func (f *Font) UnitsPerEm() int {
	if upm, ok := f.raw.GetInt("unitsPerEm"); ok {
		return upm
	}
	return 1000
}

// GlyphKeys returns the names of the keys used for components and their
// base glyph names in layer records.
func (f *Font) GlyphKeys() (components, baseGlyph string) {
	if f.FormatVersion == Format2 {
		return "components", "name"
	}
	return "shapes", "ref"
}
