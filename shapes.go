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
	"fmt"
	"strings"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/glyphs/fontra"
	"seehuhn.de/go/glyphs/gsfont"
)

// Keys used in custom data dictionaries.
const (
	keyGlyphColor       = "com.glyphsapp.glyph-color"
	keyLayerID          = "com.glyphsapp.layer.layerId"
	keyAssociatedMaster = "com.glyphsapp.layer.associatedMasterId"
	keyAlignment        = "com.glyphsapp.component.alignment"

	userDataLayerName  = "xyz.fontra.layer-name"
	userDataSourceName = "xyz.fontra.source-name"
)

// drawPaths sends the paths of a Glyphs layer to a point pen.
func drawPaths(paths []*gsfont.Path, pen fontra.PointPen) {
	for _, p := range paths {
		nodes := p.Nodes
		if p.Closed && len(nodes) > 0 {
			// Glyphs stores the start point of closed contours last
			n := len(nodes)
			nodes = append([]gsfont.Node{nodes[n-1]}, nodes[:n-1]...)
		}

		pen.BeginPath()
		for i, node := range nodes {
			var segmentType string
			switch {
			case node.Type == gsfont.NodeOffCurve:
				segmentType = ""
			case !p.Closed && i == 0:
				segmentType = fontra.SegmentMove
			case node.Type == gsfont.NodeCurve:
				segmentType = fontra.SegmentCurve
			case node.Type == gsfont.NodeQCurve:
				segmentType = fontra.SegmentQCurve
			default:
				segmentType = fontra.SegmentLine
			}
			pen.AddPoint(node.X, node.Y, segmentType, node.Smooth)
		}
		pen.EndPath()
	}
}

// layerPen is a point pen which collects Glyphs paths.
type layerPen struct {
	paths   []*gsfont.Path
	current []gsfont.Node
	closed  bool
}

func (pen *layerPen) BeginPath() {
	pen.current = nil
	pen.closed = true
}

func (pen *layerPen) AddPoint(x, y float64, segmentType string, smooth bool) {
	if len(pen.current) == 0 && segmentType == fontra.SegmentMove {
		pen.closed = false
	}
	node := gsfont.Node{X: x, Y: y, Smooth: smooth}
	switch segmentType {
	case "":
		node.Type = gsfont.NodeOffCurve
	case fontra.SegmentCurve:
		node.Type = gsfont.NodeCurve
	case fontra.SegmentQCurve:
		node.Type = gsfont.NodeQCurve
	default:
		node.Type = gsfont.NodeLine
	}
	pen.current = append(pen.current, node)
}

func (pen *layerPen) EndPath() {
	nodes := pen.current
	pen.current = nil
	if len(nodes) == 0 {
		return
	}
	if pen.closed {
		nodes = append(nodes[1:], nodes[0])
	}
	pen.paths = append(pen.paths, &gsfont.Path{
		Closed: pen.closed,
		Nodes:  nodes,
	})
}

func (pen *layerPen) AddComponent(string, fontra.DecomposedTransform) {}

// staticGlyph converts the outline data of a Glyphs layer.  Background
// layers have no width of their own, and use the width of their parent.
func (ds *designSpace) staticGlyph(l *gsfont.Layer, width float64, format int) *fontra.StaticGlyph {
	pen := fontra.NewPackedPathPointPen()
	drawPaths(l.Paths, pen)

	res := &fontra.StaticGlyph{
		XAdvance:   width,
		Path:       pen.Path(),
		Components: make([]*fontra.Component, 0, len(l.Components)),
		Anchors:    make([]*fontra.Anchor, 0, len(l.Anchors)),
		Guidelines: make([]*fontra.Guideline, 0, len(l.Guides)),
	}
	for _, c := range l.Components {
		res.Components = append(res.Components, ds.component(c, format))
	}
	for _, a := range l.Anchors {
		anchor := &fontra.Anchor{Name: a.Name, X: a.X, Y: a.Y}
		if a.UserData.Len() > 0 {
			anchor.CustomData = gsfont.DictToMap(a.UserData)
		}
		res.Anchors = append(res.Anchors, anchor)
	}
	for _, g := range l.Guides {
		res.Guidelines = append(res.Guidelines, guideline(g))
	}
	return res
}

func (ds *designSpace) component(c *gsfont.Component, format int) *fontra.Component {
	res := &fontra.Component{
		Name:     c.Name,
		Location: make(fontra.Location, len(c.Piece)),
	}
	if format == gsfont.Format3 {
		res.Transformation = fontra.DecomposedTransform{
			TranslateX: c.Position[0],
			TranslateY: c.Position[1],
			Rotation:   c.Angle,
			ScaleX:     c.Scale[0],
			ScaleY:     c.Scale[1],
		}
	} else {
		res.Transformation = fontra.DecomposeMatrix(c.Matrix)
	}
	for name, value := range c.Piece {
		res.Location[ds.localAxisName(name)] = value
	}
	if c.Alignment != 0 {
		res.CustomData = map[string]any{keyAlignment: c.Alignment}
	}
	return res
}

func guideline(g *gsfont.Guide) *fontra.Guideline {
	return &fontra.Guideline{
		Name:   g.Name,
		X:      g.X,
		Y:      g.Y,
		Angle:  g.Angle,
		Locked: g.Locked,
	}
}

// setOutline replaces the outline data of a Glyphs layer.
func setOutline(l *gsfont.Layer, glyph *fontra.StaticGlyph, format int) error {
	pen := &layerPen{}
	glyph.Path.DrawPoints(pen)

	components := make([]*gsfont.Component, 0, len(glyph.Components))
	for _, c := range glyph.Components {
		gc, err := nativeComponent(c, format)
		if err != nil {
			return err
		}
		components = append(components, gc)
	}

	l.ClearShapes()
	l.Width = glyph.XAdvance
	l.Paths = pen.paths
	l.Components = components
	for _, a := range glyph.Anchors {
		anchor := &gsfont.Anchor{Name: a.Name, X: a.X, Y: a.Y}
		if len(a.CustomData) > 0 {
			anchor.UserData = gsfont.MapToDict(a.CustomData)
		}
		l.Anchors = append(l.Anchors, anchor)
	}
	for _, g := range glyph.Guidelines {
		l.Guides = append(l.Guides, &gsfont.Guide{
			Name:   g.Name,
			X:      g.X,
			Y:      g.Y,
			Angle:  g.Angle,
			Locked: g.Locked,
		})
	}
	return nil
}

func nativeComponent(c *fontra.Component, format int) (*gsfont.Component, error) {
	t := c.Transformation
	if t.HasSkew() {
		return nil, newError(SkewUnsupported,
			"component %q: skewed components are not supported", c.Name)
	}

	res := gsfont.NewComponent(c.Name)
	if format == gsfont.Format3 {
		if t.TCenterX != 0 || t.TCenterY != 0 {
			t = fontra.DecomposeMatrix(t.Matrix())
		}
		res.Position = [2]float64{t.TranslateX, t.TranslateY}
		res.Angle = t.Rotation
		res.Scale = [2]float64{t.ScaleX, t.ScaleY}
		res.Matrix = matrix.Scale(t.ScaleX, t.ScaleY).
			Mul(matrix.RotateDeg(t.Rotation)).
			Mul(matrix.Translate(t.TranslateX, t.TranslateY))
	} else {
		res.Matrix = t.Matrix()
	}

	if len(c.Location) > 0 {
		res.Piece = make(map[string]float64, len(c.Location))
		for name, value := range c.Location {
			res.Piece[strings.TrimSuffix(name, localSuffix)] = value
		}
	}

	switch align := c.CustomData[keyAlignment].(type) {
	case nil:
	case int:
		res.Alignment = align
	case float64:
		res.Alignment = int(align)
	default:
		return nil, fmt.Errorf("component %q: invalid alignment %v", c.Name, align)
	}
	return res, nil
}
