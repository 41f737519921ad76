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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLocationKey(t *testing.T) {
	a := Location{"Weight": 400, "Width": 100}
	b := Location{"Width": 100, "Weight": 400}
	if LocationKey(a) != LocationKey(b) {
		t.Error("key depends on map order")
	}
	c := Location{"Weight": 400}
	if LocationKey(a) == LocationKey(c) {
		t.Error("different locations have the same key")
	}
	if LocationKey(Location{"a": 1, "b": 0}) == LocationKey(Location{"a": 1}) {
		t.Error("zero entries are ignored")
	}
}

func TestSparseDense(t *testing.T) {
	defaultLoc := Location{"Weight": 90, "Width": 100}
	loc := Location{"Weight": 90, "Width": 50}

	sparse := MakeSparse(loc, defaultLoc)
	if d := cmp.Diff(Location{"Width": 50}, sparse); d != "" {
		t.Error(d)
	}

	dense := MakeDense(Location{"Width": 50, "Other": 3}, defaultLoc)
	if d := cmp.Diff(Location{"Weight": 90, "Width": 50}, dense); d != "" {
		t.Error(d)
	}
}

func TestSplitLocation(t *testing.T) {
	axes := []*GlyphAxis{{Name: "Height", MinValue: 0, DefaultValue: 0, MaxValue: 100}}
	fontLoc, glyphLoc := SplitLocation(Location{"Weight": 17, "Height": 100}, axes)
	if d := cmp.Diff(Location{"Weight": 17}, fontLoc); d != "" {
		t.Error(d)
	}
	if d := cmp.Diff(Location{"Height": 100}, glyphLoc); d != "" {
		t.Error(d)
	}
}

func TestFindNearestLocationIndex(t *testing.T) {
	locations := []Location{
		{"Weight": 17},
		{"Weight": 90},
		{"Weight": 220},
	}
	cases := []struct {
		target Location
		index  int
	}{
		{Location{"Weight": 166}, 2},
		{Location{"Weight": 100}, 1},
		{Location{"Weight": 0}, 0},
		{Location{"Weight": 155}, 1}, // tie: first wins
	}
	for _, test := range cases {
		got := FindNearestLocationIndex(test.target, locations)
		if got != test.index {
			t.Errorf("%v: got %d, want %d", test.target, got, test.index)
		}
	}
	if FindNearestLocationIndex(Location{}, nil) != -1 {
		t.Error("empty list")
	}
}

func TestPiecewiseLinearMap(t *testing.T) {
	mapping := [][2]float64{{100, 17}, {400, 90}, {900, 220}}
	cases := []struct{ in, out float64 }{
		{100, 17},
		{400, 90},
		{250, 53.5},
		{900, 220},
		{1000, 320},
		{0, -83},
	}
	for _, test := range cases {
		got := PiecewiseLinearMap(test.in, mapping)
		if got != test.out {
			t.Errorf("%g: got %g, want %g", test.in, got, test.out)
		}
	}
	if PiecewiseLinearMap(7, nil) != 7 {
		t.Error("empty mapping is not the identity")
	}
}

func TestMapAxes(t *testing.T) {
	axes := []*FontAxis{
		{
			Name:         "Weight",
			MinValue:     100,
			DefaultValue: 400,
			MaxValue:     900,
			Mapping:      [][2]float64{{100, 17}, {400, 90}, {900, 220}},
		},
	}
	mapped := MapAxesFromUserSpaceToSourceSpace(axes)
	want := &FontAxis{Name: "Weight", MinValue: 17, DefaultValue: 90, MaxValue: 220}
	if d := cmp.Diff(want, mapped[0]); d != "" {
		t.Error(d)
	}
	if axes[0].MinValue != 100 {
		t.Error("input axis modified")
	}
}
