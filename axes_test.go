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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tdewolff/test"

	"seehuhn.de/go/glyphs/fontra"
	"seehuhn.de/go/glyphs/gsfont"
	"seehuhn.de/go/glyphs/plist"
)

func parseTestFont(t *testing.T, s string) *gsfont.Font {
	t.Helper()
	d, err := plist.ParseDict([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	f, err := gsfont.ParseFont(d)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

const axisLocationFont = `{
.formatVersion = 3;
axes = (
{
name = Weight;
tag = wght;
},
{
name = Width;
tag = wdth;
}
);
fontMaster = (
{
axesValues = (
30,
100
);
customParameters = (
{
name = "Axis Location";
value = (
{
Axis = Weight;
Location = 300;
}
);
}
);
id = light;
name = Light;
},
{
axesValues = (
80,
100
);
customParameters = (
{
name = "Axis Location";
value = (
{
Axis = Weight;
Location = 400;
}
);
}
);
id = regular;
name = Regular;
},
{
axesValues = (
150,
100
);
customParameters = (
{
name = "Axis Location";
value = (
{
Axis = Weight;
Location = 700;
}
);
}
);
id = bold;
name = Bold;
}
);
}`

func TestBuildAxesAxisLocation(t *testing.T) {
	ds := buildAxes(parseTestFont(t, axisLocationFont))

	want := []*fontra.FontAxis{
		{
			Name:         "Weight",
			Label:        "Weight",
			Tag:          "wght",
			MinValue:     300,
			DefaultValue: 400,
			MaxValue:     700,
			Mapping:      [][2]float64{{300, 30}, {400, 80}, {700, 150}},
		},
	}
	if d := cmp.Diff(want, ds.axes); d != "" {
		t.Errorf("axes (-want +got):\n%s", d)
	}
	if d := cmp.Diff(fontra.Location{"Weight": 80}, ds.defaultLocation); d != "" {
		t.Errorf("default location (-want +got):\n%s", d)
	}
	test.T(t, ds.defaultMasterID, "regular")

	id, ok := ds.masterAt(fontra.Location{"Weight": 150})
	test.That(t, ok, "master not found")
	test.T(t, id, "bold")
	_, ok = ds.masterAt(fontra.Location{"Weight": 100})
	test.That(t, !ok, "brace location matched a master")

	test.T(t, ds.nearestMaster(fontra.Location{"Weight": 100}), "regular")
	test.T(t, ds.nearestMaster(fontra.Location{"Weight": 130}), "bold")

	if d := cmp.Diff(fontra.Location{"Weight": 30}, ds.sparseMasterLocation("light")); d != "" {
		t.Error(d)
	}
	test.T(t, len(ds.sparseMasterLocation("regular")), 0)
}

func TestBraceCoordinates(t *testing.T) {
	ds := buildAxes(parseTestFont(t, axisLocationFont))

	// the Width axis is ignored, but still needs a coordinate
	coords := ds.braceCoordinates(fontra.Location{"Weight": 100})
	if d := cmp.Diff([]float64{100, 100}, coords); d != "" {
		t.Error(d)
	}
	if d := cmp.Diff(fontra.Location{"Weight": 100}, ds.braceLocation(coords)); d != "" {
		t.Error(d)
	}
	test.String(t, ds.braceName(coords), "{100}")
	test.That(t, ds.braceNameMatches("{100}", fontra.Location{"Weight": 100}), "{100}")
	test.That(t, ds.braceNameMatches("Light {100, 100}", fontra.Location{"Weight": 100}), "{100, 100}")
	test.That(t, !ds.braceNameMatches("{101}", fontra.Location{"Weight": 100}), "{101}")
	test.That(t, !ds.braceNameMatches("Alternate", fontra.Location{"Weight": 100}), "no braces")
}

func TestBuildAxesIdentity(t *testing.T) {
	f := parseTestFont(t, `{
fontMaster = (
{
id = a;
weightValue = 400;
widthValue = 75;
},
{
id = b;
weight = Bold;
weightValue = 700;
widthValue = 100;
}
);
}`)
	ds := buildAxes(f)

	test.T(t, len(ds.axes), 2)
	test.T(t, ds.axes[0].Name, "Weight")
	test.T(t, ds.axes[0].DefaultValue, 400.0)
	test.That(t, ds.axes[0].Mapping == nil, "identity mapping stored")
	test.T(t, ds.axes[1].Name, "Width")
	test.T(t, ds.axes[1].MinValue, 75.0)
	if d := cmp.Diff([]int{0, 1}, ds.axisIndex); d != "" {
		t.Error(d)
	}

	// the trailing Custom axis is left out of brace names
	coords := ds.braceCoordinates(fontra.Location{"Weight": 500, "Width": 90})
	if d := cmp.Diff([]float64{500, 90, 0}, coords); d != "" {
		t.Error(d)
	}
	test.String(t, ds.braceName(coords), "{500,90}")
}

func TestLocalAxisName(t *testing.T) {
	ds := buildAxes(parseTestFont(t, axisLocationFont))
	test.String(t, ds.localAxisName("Height"), "Height")
	test.String(t, ds.localAxisName("Weight"), "Weight (local)")
}

func TestNormalizeMapping(t *testing.T) {
	got := normalizeMapping([][2]float64{{400, 90}, {100, 17}, {400, 91}, {900, 220}})
	want := [][2]float64{{100, 17}, {400, 90}, {900, 220}}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
	test.That(t, normalizeMapping(nil) == nil, "empty mapping")
	test.That(t, isIdentityMapping([][2]float64{{1, 1}, {2, 2}}), "identity")
	test.That(t, !isIdentityMapping([][2]float64{{1, 1}, {2, 3}}), "not identity")
}
