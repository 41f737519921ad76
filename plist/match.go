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

import (
	"maps"
	"strings"
)

// Any matches every dictionary key and every array element in a match
// pattern.
const Any = "*"

// MatchTree describes which arrays of a property list are written as
// single-line tuples.  A nil *MatchTree matches nothing.
type MatchTree struct {
	children map[string]*MatchTree
	leaf     bool
}

// NewMatchTree builds a match tree from a list of patterns.  Each pattern
// is a slash-separated path, where Any stands for an arbitrary dictionary
// key or array index.  The array found at the end of a pattern is turned
// into a tuple.
func NewMatchTree(patterns ...string) *MatchTree {
	root := &MatchTree{}
	for _, pattern := range patterns {
		node := root
		for _, item := range strings.Split(pattern, "/") {
			if node.children == nil {
				node.children = make(map[string]*MatchTree)
			}
			child := node.children[item]
			if child == nil {
				child = &MatchTree{}
				node.children[item] = child
			}
			node = child
		}
		node.leaf = true
	}
	return root
}

// Sub returns the subtree for the given key.  Explicit keys take precedence
// over Any.
func (t *MatchTree) Sub(key string) *MatchTree {
	if t == nil {
		return nil
	}
	if child, ok := t.children[key]; ok {
		return child
	}
	return t.children[Any]
}

// ConvertMatchesToTuples returns a copy of obj where all arrays selected by
// the match tree are replaced by tuples.  Objects which are not modified
// are shared between obj and the result.
func ConvertMatchesToTuples(obj Object, tree *MatchTree) Object {
	if tree == nil {
		return obj
	}
	switch x := obj.(type) {
	case *Dict:
		if len(tree.children) == 0 {
			return x
		}
		res := &Dict{
			keys:    append([]string(nil), x.keys...),
			vals:    make(map[string]Object, len(x.vals)),
			keyText: maps.Clone(x.keyText),
		}
		for _, key := range x.keys {
			res.vals[key] = ConvertMatchesToTuples(x.vals[key], tree.Sub(key))
		}
		return res
	case Array:
		return convertSeq(x, tree)
	case Tuple:
		return convertSeq(Array(x), tree)
	default:
		return obj
	}
}

func convertSeq(x Array, tree *MatchTree) Object {
	elem := tree.children[Any]
	var seq []Object
	if elem != nil {
		seq = make([]Object, len(x))
		for i, item := range x {
			seq[i] = ConvertMatchesToTuples(item, elem)
		}
	} else {
		seq = x
	}
	if tree.leaf {
		return Tuple(seq)
	}
	return Array(seq)
}

// MatchTreeFont selects the tuples of a Glyphs 3 font file.
var MatchTreeFont = NewMatchTree(
	"fontMaster/*/guides/*/pos",
	"glyphs/*/color",
	"glyphs/*/layers/*/anchors/*/pos",
	"glyphs/*/layers/*/annotations/*/pos",
	"glyphs/*/layers/*/guides/*/pos",
	"glyphs/*/layers/*/hints/*/origin",
	"glyphs/*/layers/*/hints/*/target",
	"glyphs/*/layers/*/shapes/*/nodes/*",
	"glyphs/*/layers/*/shapes/*/pos",
	"glyphs/*/layers/*/shapes/*/scale",
	"glyphs/*/layers/*/background/anchors/*/pos",
	"glyphs/*/layers/*/background/guides/*/pos",
	"glyphs/*/layers/*/background/shapes/*/nodes/*",
	"glyphs/*/layers/*/background/shapes/*/pos",
	"glyphs/*/layers/*/background/shapes/*/scale",
)

// MatchTreeGlyph selects the tuples of a single glyph, as stored in the
// glyph files of a .glyphspackage.
var MatchTreeGlyph = MatchTreeFont.Sub("glyphs").Sub(Any)
