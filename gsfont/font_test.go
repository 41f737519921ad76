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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tdewolff/test"

	"seehuhn.de/go/glyphs/plist"
)

func parseFontString(t *testing.T, s string) *Font {
	t.Helper()
	d, err := plist.ParseDict([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	f, err := ParseFont(d)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestParseFont3(t *testing.T) {
	f := parseFontString(t, `{
.formatVersion = 3;
axes = (
{
name = Weight;
tag = wght;
}
);
customParameters = (
{
name = "Variable Font Origin";
value = m02;
}
);
fontMaster = (
{
axesValues = (
17
);
id = m01;
metricValues = (
{
over = 16;
pos = 750;
},
{
pos = 700;
},
{
over = -16;
},
{
pos = -250;
},
{
pos = 12;
}
);
name = Light;
},
{
axesValues = (
90
);
guides = (
{
pos = (0,300);
}
);
id = m02;
}
);
metrics = (
{
type = ascender;
},
{
type = "cap height";
},
{
type = baseline;
},
{
type = descender;
},
{
type = "italic angle";
}
);
unitsPerEm = 2048;
}`)

	test.T(t, f.FormatVersion, Format3)
	test.T(t, len(f.Axes), 1)
	test.T(t, *f.Axes[0], Axis{Name: "Weight", Tag: "wght"})
	test.T(t, len(f.Masters), 2)
	test.T(t, f.UnitsPerEm(), 2048)

	light := f.Masters[0]
	test.T(t, light.Name, "Light")
	if d := cmp.Diff(light.Coordinates, []float64{17}); d != "" {
		t.Error(d)
	}
	test.T(t, light.Ascender, 750.0)
	test.T(t, light.CapHeight, 700.0)
	test.T(t, light.XHeight, 500.0)
	test.T(t, light.Descender, -250.0)
	test.T(t, light.ItalicAngle, 12.0)
	if d := cmp.Diff(light.Zones, []Zone{{750, 16}, {0, -16}}); d != "" {
		t.Error(d)
	}

	regular := f.Masters[1]
	test.T(t, regular.Name, "Regular")
	test.T(t, len(regular.Guides), 1)
	test.T(t, regular.Guides[0].Y, 300.0)
	test.T(t, f.DefaultMaster(), regular)
	test.T(t, f.Master("m01"), light)
	test.T(t, f.Master("m03"), (*Master)(nil))

	comps, base := f.GlyphKeys()
	test.T(t, comps, "shapes")
	test.T(t, base, "ref")
}

func TestParseFont2(t *testing.T) {
	f := parseFontString(t, `{
customParameters = (
{
name = "Variation Font Origin";
value = "Extra Bold";
}
);
fontMaster = (
{
alignmentZones = (
"{800, 16}",
"{0, -16}"
);
id = m01;
weight = Light;
weightValue = 17;
},
{
customParameters = (
{
name = "Master Name";
value = "Extra Bold";
}
);
id = m02;
weight = Bold;
weightValue = 220;
widthValue = 80;
}
);
}`)

	test.T(t, f.FormatVersion, Format2)
	test.T(t, len(f.Axes), 3)
	test.T(t, f.Axes[1].Tag, "wdth")
	test.T(t, f.UnitsPerEm(), 1000)

	light := f.Masters[0]
	test.T(t, light.Name, "Light")
	if d := cmp.Diff(light.Coordinates, []float64{17, 100, 0}); d != "" {
		t.Error(d)
	}
	test.T(t, len(light.Zones), 2)
	test.T(t, light.Ascender, 800.0)

	bold := f.Masters[1]
	test.T(t, bold.Name, "Extra Bold")
	if d := cmp.Diff(bold.Coordinates, []float64{220, 80, 0}); d != "" {
		t.Error(d)
	}

	// format 2 files may refer to the origin by name
	test.T(t, f.DefaultMaster(), bold)

	comps, base := f.GlyphKeys()
	test.T(t, comps, "components")
	test.T(t, base, "name")
}

func TestParseFontErrors(t *testing.T) {
	for _, s := range []string{
		`{.formatVersion = 4; fontMaster = ({id = m01;});}`,
		`{.formatVersion = 3;}`,
		`{fontMaster = ({name = x;});}`,
		`{customParameters = ({name = Axes; value = ({Name = a;},{Name = b;},{Name = c;},{Name = d;},{Name = e;},{Name = f;},{Name = g;});}); fontMaster = ({id = m01;});}`,
	} {
		d, err := plist.ParseDict([]byte(s))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ParseFont(d); err == nil {
			t.Errorf("%s: missing error", s)
		}
	}
}

func TestCustomParameter(t *testing.T) {
	d, err := plist.ParseDict([]byte(`{
customParameters = (
{
disabled = 1;
name = vendorID;
value = OLD;
},
{
name = vendorID;
value = NEW;
}
);
}`))
	if err != nil {
		t.Fatal(err)
	}
	test.T(t, CustomParameter(d, "vendorID"), plist.Object(plist.String("NEW")))
	test.That(t, CustomParameter(d, "license") == nil)
}
