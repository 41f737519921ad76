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

// FontAxis is a continuous axis of the font design space.  Minimum, default
// and maximum are given in user space.  Mapping, if present, is a
// piecewise linear map from user space to source space.
type FontAxis struct {
	Name         string       `json:"name"`
	Label        string       `json:"label"`
	Tag          string       `json:"tag"`
	MinValue     float64      `json:"minValue"`
	DefaultValue float64      `json:"defaultValue"`
	MaxValue     float64      `json:"maxValue"`
	Mapping      [][2]float64 `json:"mapping,omitempty"`
	Hidden       bool         `json:"hidden,omitempty"`
}

// Axes holds the font axes.
type Axes struct {
	Axes       []*FontAxis    `json:"axes"`
	CustomData map[string]any `json:"customData,omitempty"`
}

// GlyphAxis is a glyph-local axis.
type GlyphAxis struct {
	Name         string  `json:"name"`
	MinValue     float64 `json:"minValue"`
	DefaultValue float64 `json:"defaultValue"`
	MaxValue     float64 `json:"maxValue"`
}

// GlyphSource places a layer of a variable glyph in the design space.
//
// If LocationBase is set, it names a font source whose location is used
// for all axes not present in Location.
type GlyphSource struct {
	Name         string         `json:"name"`
	LocationBase string         `json:"locationBase,omitempty"`
	Location     Location       `json:"location"`
	LayerName    string         `json:"layerName"`
	Inactive     bool           `json:"inactive,omitempty"`
	CustomData   map[string]any `json:"customData,omitempty"`
}

// Layer holds the outline data of one layer of a variable glyph.
type Layer struct {
	Glyph      *StaticGlyph   `json:"glyph"`
	CustomData map[string]any `json:"customData,omitempty"`
}

// StaticGlyph is the outline data of a single glyph instance.
type StaticGlyph struct {
	XAdvance   float64      `json:"xAdvance"`
	Path       *PackedPath  `json:"path"`
	Components []*Component `json:"components"`
	Anchors    []*Anchor    `json:"anchors"`
	Guidelines []*Guideline `json:"guidelines"`
}

// Component references another glyph, placed by a transformation.
// Location selects an instance of the referenced glyph, both font axes
// and glyph axes of the base glyph can be used.
type Component struct {
	Name           string              `json:"name"`
	Transformation DecomposedTransform `json:"transformation"`
	Location       Location            `json:"location"`
	CustomData     map[string]any      `json:"customData,omitempty"`
}

// Anchor is a named point of a glyph.
type Anchor struct {
	Name       string         `json:"name"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	CustomData map[string]any `json:"customData,omitempty"`
}

// Guideline is a glyph or font guideline.  Angle is given in degrees.
type Guideline struct {
	Name       string         `json:"name,omitempty"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Angle      float64        `json:"angle"`
	Locked     bool           `json:"locked,omitempty"`
	CustomData map[string]any `json:"customData,omitempty"`
}

// VariableGlyph is a glyph with all its sources and layers.
type VariableGlyph struct {
	Name       string            `json:"name"`
	Axes       []*GlyphAxis      `json:"axes"`
	Sources    []*GlyphSource    `json:"sources"`
	Layers     map[string]*Layer `json:"layers"`
	CustomData map[string]any    `json:"customData,omitempty"`
}

// LineMetric is a vertical metric of a font source, together with the
// size of its overshoot zone.
type LineMetric struct {
	Value      float64        `json:"value"`
	Zone       float64        `json:"zone,omitempty"`
	CustomData map[string]any `json:"customData,omitempty"`
}

// FontSource is a master of the font.
type FontSource struct {
	Name                        string                 `json:"name"`
	IsSparse                    bool                   `json:"isSparse,omitempty"`
	Location                    Location               `json:"location"`
	ItalicAngle                 float64                `json:"italicAngle"`
	LineMetricsHorizontalLayout map[string]*LineMetric `json:"lineMetricsHorizontalLayout"`
	LineMetricsVerticalLayout   map[string]*LineMetric `json:"lineMetricsVerticalLayout,omitempty"`
	Guidelines                  []*Guideline           `json:"guidelines"`
	CustomData                  map[string]any         `json:"customData,omitempty"`
}

// FontInfo holds the font-wide naming information.
type FontInfo struct {
	FamilyName         string         `json:"familyName,omitempty"`
	VersionMajor       *int           `json:"versionMajor,omitempty"`
	VersionMinor       *int           `json:"versionMinor,omitempty"`
	Copyright          string         `json:"copyright,omitempty"`
	Trademark          string         `json:"trademark,omitempty"`
	Description        string         `json:"description,omitempty"`
	SampleText         string         `json:"sampleText,omitempty"`
	Designer           string         `json:"designer,omitempty"`
	DesignerURL        string         `json:"designerURL,omitempty"`
	Manufacturer       string         `json:"manufacturer,omitempty"`
	ManufacturerURL    string         `json:"manufacturerURL,omitempty"`
	LicenseDescription string         `json:"licenseDescription,omitempty"`
	LicenseInfoURL     string         `json:"licenseInfoURL,omitempty"`
	VendorID           string         `json:"vendorID,omitempty"`
	CustomData         map[string]any `json:"customData,omitempty"`
}

// Kerning is a sparse kerning table.
//
// Group names used in Values carry a "@" prefix, the keys of GroupsSide1
// and GroupsSide2 do not.  Each value list has one entry per element of
// SourceIdentifiers, nil entries mark missing values.
type Kerning struct {
	GroupsSide1       map[string][]string              `json:"groupsSide1"`
	GroupsSide2       map[string][]string              `json:"groupsSide2"`
	SourceIdentifiers []string                         `json:"sourceIdentifiers"`
	Values            map[string]map[string][]*float64 `json:"values"`
}

// IsEmpty reports whether k contains neither groups nor kerning pairs.
func (k *Kerning) IsEmpty() bool {
	return k == nil || len(k.Values) == 0 && len(k.GroupsSide1) == 0 && len(k.GroupsSide2) == 0
}

// OpenTypeFeatures holds the feature code of a font.
type OpenTypeFeatures struct {
	Language   string         `json:"language"`
	Text       string         `json:"text"`
	CustomData map[string]any `json:"customData,omitempty"`
}

// ImageData is the content of a background image.
type ImageData struct {
	Type string `json:"type"`
	Data []byte `json:"data"`
}

// Kerning types.
const (
	KerningHorizontal = "kern"
	KerningVertical   = "vkrn"
)

// FeatureLanguageFea is the language of feature code in Adobe's feature file
// syntax.
const FeatureLanguageFea = "fea"
