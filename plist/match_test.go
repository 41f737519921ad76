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

package plist

import "testing"

func TestConvertMatchesToTuples(t *testing.T) {
	anchor := NewDict()
	anchor.Set("name", String("top"))
	anchor.Set("pos", Array{Integer(10), Integer(20)})
	shape := NewDict()
	shape.Set("nodes", Array{Array{Integer(0), Integer(0), String("l")}})
	layer := NewDict()
	layer.Set("anchors", Array{anchor})
	layer.Set("shapes", Array{shape})
	layer.Set("width", Integer(500))
	glyph := NewDict()
	glyph.Set("layers", Array{layer})

	out := ConvertMatchesToTuples(glyph, MatchTreeGlyph).(*Dict)
	outLayer := out.GetArray("layers")[0].(*Dict)

	if _, ok := outLayer.GetArray("anchors")[0].(*Dict).Get("pos").(Tuple); !ok {
		t.Error("anchor position not converted")
	}
	nodes := outLayer.GetArray("shapes")[0].(*Dict).Get("nodes")
	if _, ok := nodes.(Array); !ok {
		t.Errorf("node list converted: %T", nodes)
	}
	if _, ok := AsArray(nodes)[0].(Tuple); !ok {
		t.Error("node not converted")
	}
	if _, ok := out.Get("layers").(Array); !ok {
		t.Error("layer list converted")
	}

	// the input is unchanged
	if _, ok := anchor.Get("pos").(Array); !ok {
		t.Error("input modified")
	}
}

func TestConvertKeepsKeyText(t *testing.T) {
	in := []byte("{\n\"glyphs\" = (\n{\nlayers = (\n{\nanchors = (\n{\npos = (1,2);\n}\n);\n}\n);\n}\n);\n\"name\" = A;\n}\n")
	d, err := ParseDict(in)
	if err != nil {
		t.Fatal(err)
	}
	out := Format(ConvertMatchesToTuples(d, MatchTreeFont))
	if string(out) != string(in) {
		t.Errorf("wrong output:\n%s", out)
	}
}

func TestMatchTreeSub(t *testing.T) {
	tree := NewMatchTree("a/*/b", "a/x/c")
	if tree.Sub("a").Sub("x").Sub("c") == nil {
		t.Error("explicit key not found")
	}
	if tree.Sub("a").Sub("x").Sub("b") != nil {
		t.Error("explicit key does not shadow wildcard")
	}
	if tree.Sub("a").Sub("y").Sub("b") == nil {
		t.Error("wildcard not matched")
	}
	var empty *MatchTree
	if empty.Sub("a") != nil {
		t.Error("nil tree matched")
	}
}
