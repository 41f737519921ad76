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
	"strconv"
	"strings"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/glyphs/plist"
)

// NodeType is the type of a path node.
type NodeType int

// These are the node types of Glyphs paths.
const (
	NodeLine NodeType = iota
	NodeCurve
	NodeQCurve
	NodeOffCurve
)

var nodeTypeNames = []struct {
	short, long string
}{
	NodeLine:     {"l", "LINE"},
	NodeCurve:    {"c", "CURVE"},
	NodeQCurve:   {"q", "QCURVE"},
	NodeOffCurve: {"o", "OFFCURVE"},
}

func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
	return nodeTypeNames[t].long
}

// Node is a point of a path.
type Node struct {
	X, Y   float64
	Type   NodeType
	Smooth bool
}

// Path is a contour of a glyph layer.  In closed paths, the start point
// of the contour is stored as the last node.
type Path struct {
	Closed bool
	Nodes  []Node
}

func parsePath(d *plist.Dict, format int) (*Path, error) {
	p := &Path{Closed: getBool(d, "closed")}
	for _, obj := range d.GetArray("nodes") {
		var node Node
		var err error
		if format == Format3 {
			node, err = parseNode3(obj)
		} else {
			node, err = parseNode2(obj)
		}
		if err != nil {
			return nil, err
		}
		p.Nodes = append(p.Nodes, node)
	}
	return p, nil
}

func parseNode3(obj plist.Object) (Node, error) {
	items := plist.AsArray(obj)
	if len(items) < 3 {
		return Node{}, fmt.Errorf("malformed node %v", obj)
	}
	x, ok1 := plist.AsFloat(items[0])
	y, ok2 := plist.AsFloat(items[1])
	code, ok3 := plist.AsString(items[2])
	if !ok1 || !ok2 || !ok3 {
		return Node{}, fmt.Errorf("malformed node %v", obj)
	}
	node := Node{X: x, Y: y}
	if strings.HasSuffix(code, "s") {
		node.Smooth = true
		code = code[:len(code)-1]
	}
	for t, names := range nodeTypeNames {
		if names.short == code {
			node.Type = NodeType(t)
			return node, nil
		}
	}
	return Node{}, fmt.Errorf("unknown node type %q", code)
}

func parseNode2(obj plist.Object) (Node, error) {
	s, ok := plist.AsString(obj)
	if !ok {
		return Node{}, fmt.Errorf("malformed node %v", obj)
	}
	if i := strings.IndexByte(s, '{'); i >= 0 {
		s = s[:i] // node user data
	}
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return Node{}, fmt.Errorf("malformed node %q", s)
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Node{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Node{}, err
	}
	node := Node{X: x, Y: y, Type: -1}
	for t, names := range nodeTypeNames {
		if names.long == fields[2] {
			node.Type = NodeType(t)
		}
	}
	if node.Type < 0 {
		return Node{}, fmt.Errorf("unknown node type %q", fields[2])
	}
	node.Smooth = len(fields) > 3 && fields[3] == "SMOOTH"
	return node, nil
}

func (p *Path) dict(format int) *plist.Dict {
	d := plist.NewDict()
	d.SetSorted("closed", plist.Integer(boolInt(p.Closed)))
	nodes := make(plist.Array, len(p.Nodes))
	for i, node := range p.Nodes {
		if format == Format3 {
			code := nodeTypeNames[node.Type].short
			if node.Smooth {
				code += "s"
			}
			nodes[i] = plist.Array{number(node.X), number(node.Y), plist.String(code)}
		} else {
			s := formatNumber(node.X) + " " + formatNumber(node.Y) + " " + nodeTypeNames[node.Type].long
			if node.Smooth {
				s += " SMOOTH"
			}
			nodes[i] = plist.String(s)
		}
	}
	d.SetSorted("nodes", nodes)
	return d
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Component places another glyph into a layer.
//
// The placement is described by Position, Angle (in degrees) and Scale,
// applied in the order scale, rotate, translate.  Format 2 files store the
// full transformation matrix instead, this is kept in Matrix.
type Component struct {
	Name      string
	Position  [2]float64
	Angle     float64
	Scale     [2]float64
	Matrix    matrix.Matrix
	Alignment int

	// Piece holds the smart component axis values.
	Piece map[string]float64
}

// NewComponent returns a component without any transformation.
func NewComponent(name string) *Component {
	return &Component{
		Name:   name,
		Scale:  [2]float64{1, 1},
		Matrix: matrix.Identity,
	}
}

func parseComponent(d *plist.Dict, format int) (*Component, error) {
	c := NewComponent("")
	c.Alignment, _ = d.GetInt("alignment")
	if piece := d.GetDict("piece"); piece != nil {
		c.Piece = make(map[string]float64, piece.Len())
		for _, key := range piece.Keys() {
			c.Piece[key], _ = piece.GetFloat(key)
		}
	}

	if format == Format3 {
		c.Name = getString(d, "ref")
		c.Position[0], c.Position[1] = getPos(d, "pos")
		c.Angle = getFloat(d, "angle", 0)
		if scale := d.GetArray("scale"); len(scale) >= 2 {
			c.Scale[0], _ = plist.AsFloat(scale[0])
			c.Scale[1], _ = plist.AsFloat(scale[1])
		}
		c.Matrix = matrix.Scale(c.Scale[0], c.Scale[1]).
			Mul(matrix.RotateDeg(c.Angle)).
			Mul(matrix.Translate(c.Position[0], c.Position[1]))
	} else {
		c.Name = getString(d, "name")
		if d.Has("transform") {
			vals, err := parseNumberList(d.Get("transform"), 6)
			if err != nil {
				return nil, fmt.Errorf("component %q: %w", c.Name, err)
			}
			copy(c.Matrix[:], vals)
		}
	}
	if c.Name == "" {
		return nil, fmt.Errorf("component without base glyph")
	}
	return c, nil
}

func (c *Component) dict(format int) *plist.Dict {
	d := plist.NewDict()
	if c.Alignment != 0 {
		d.SetSorted("alignment", plist.Integer(c.Alignment))
	}
	if format == Format3 {
		setOrDelete(d, "angle", nonZero(c.Angle))
	}
	if len(c.Piece) > 0 {
		piece := make(map[string]any, len(c.Piece))
		for key, val := range c.Piece {
			piece[key] = val
		}
		d.SetSorted("piece", MapToDict(piece))
	}
	if format == Format3 {
		setOrDelete(d, "pos", posObject(c.Position[0], c.Position[1]))
		d.SetSorted("ref", plist.String(c.Name))
		if roundNumber(c.Scale[0]) != 1 || roundNumber(c.Scale[1]) != 1 {
			d.SetSorted("scale", plist.Array{number(c.Scale[0]), number(c.Scale[1])})
		}
	} else {
		d.SetSorted("name", plist.String(c.Name))
		isIdentity := true
		for i, x := range c.Matrix {
			if roundNumber(x) != matrix.Identity[i] {
				isIdentity = false
			}
		}
		if !isIdentity {
			parts := make([]string, 6)
			for i, x := range c.Matrix {
				parts[i] = formatNumber(x)
			}
			d.SetSorted("transform", plist.String("{"+strings.Join(parts, ", ")+"}"))
		}
	}
	return d
}

// Anchor is a named point of a layer.
type Anchor struct {
	Name     string
	X, Y     float64
	UserData *plist.Dict
}

func parseAnchor(d *plist.Dict, format int) (*Anchor, error) {
	a := &Anchor{
		Name:     getString(d, "name"),
		UserData: d.GetDict("userData"),
	}
	if format == Format3 {
		a.X, a.Y = getPos(d, "pos")
	} else if d.Has("position") {
		var err error
		a.X, a.Y, err = parsePoint(d.Get("position"))
		if err != nil {
			return nil, fmt.Errorf("anchor %q: %w", a.Name, err)
		}
	}
	return a, nil
}

func (a *Anchor) dict(format int) *plist.Dict {
	d := plist.NewDict()
	d.SetSorted("name", plist.String(a.Name))
	if format == Format3 {
		setOrDelete(d, "pos", posObject(a.X, a.Y))
	} else {
		d.SetSorted("position", formatPoint(a.X, a.Y))
	}
	if a.UserData.Len() > 0 {
		d.SetSorted("userData", a.UserData)
	}
	return d
}

// Guide is a guideline of a layer or master.  Angle is in degrees.
type Guide struct {
	Name   string
	X, Y   float64
	Angle  float64
	Locked bool
}

func parseGuide(d *plist.Dict, format int) *Guide {
	g := &Guide{
		Name:   getString(d, "name"),
		Angle:  getFloat(d, "angle", 0),
		Locked: getBool(d, "locked"),
	}
	if format == Format3 {
		g.X, g.Y = getPos(d, "pos")
	} else if d.Has("position") {
		g.X, g.Y, _ = parsePoint(d.Get("position"))
	}
	return g
}

func (g *Guide) dict(format int) *plist.Dict {
	d := plist.NewDict()
	setOrDelete(d, "angle", nonZero(g.Angle))
	setOrDelete(d, "locked", boolObject(g.Locked))
	if g.Name != "" {
		d.SetSorted("name", plist.String(g.Name))
	}
	if format == Format3 {
		setOrDelete(d, "pos", posObject(g.X, g.Y))
	} else {
		d.SetSorted("position", formatPoint(g.X, g.Y))
	}
	return d
}
