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
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tdewolff/test"

	"seehuhn.de/go/glyphs/fontra"
)

func fp(x float64) *float64 {
	return &x
}

func TestGetKerning(t *testing.T) {
	ctx := context.Background()

	b := openTest(t, copyTestFile(t, "Test3.glyphs"))
	kerning, err := b.GetKerning(ctx)
	test.Error(t, err)
	want := map[string]*fontra.Kerning{
		fontra.KerningHorizontal: {
			GroupsSide1:       map[string][]string{"A": {"A"}},
			GroupsSide2:       map[string][]string{"V": {"V"}},
			SourceIdentifiers: []string{"m01", "m02"},
			Values: map[string]map[string][]*float64{
				"@A": {
					"@V": {fp(-50), fp(-40)},
					"T":  {nil, fp(-20)},
				},
			},
		},
	}
	if d := cmp.Diff(want, kerning); d != "" {
		t.Errorf("format 3 (-want +got):\n%s", d)
	}

	b2 := openTest(t, copyTestFile(t, "Test2.glyphs"))
	kerning, err = b2.GetKerning(ctx)
	test.Error(t, err)
	want = map[string]*fontra.Kerning{
		fontra.KerningHorizontal: {
			GroupsSide1:       map[string][]string{"A": {"A"}},
			GroupsSide2:       map[string][]string{"V": {"V"}},
			SourceIdentifiers: []string{"m02"},
			Values: map[string]map[string][]*float64{
				"@A": {"@V": {fp(-30)}},
			},
		},
	}
	if d := cmp.Diff(want, kerning); d != "" {
		t.Errorf("format 2 (-want +got):\n%s", d)
	}
}

func TestKerningRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"Test2.glyphs", "Test3.glyphs"} {
		t.Run(name, func(t *testing.T) {
			path := copyTestFile(t, name)
			before, err := os.ReadFile(path)
			test.Error(t, err)

			b := openTest(t, path)
			kerning, err := b.GetKerning(ctx)
			test.Error(t, err)
			err = b.PutKerning(ctx, kerning)
			test.Error(t, err)

			again, err := openTest(t, path).GetKerning(ctx)
			test.Error(t, err)
			if d := cmp.Diff(kerning, again); d != "" {
				t.Errorf("(-before +after):\n%s", d)
			}

			// The kerning dictionaries keep their order, so a font
			// without changes is written back unchanged, apart from the
			// formatting of the file.
			after, err := os.ReadFile(path)
			test.Error(t, err)
			test.That(t, strings.Contains(string(after), `"@MMK_L_A" = {`), "group keys")
			test.That(t, len(after) > len(before)/2, "file truncated")
		})
	}
}

func TestPutKerningGroups(t *testing.T) {
	ctx := context.Background()
	dir := makePackage(t, "Test3.glyphs")
	b := openTest(t, dir)

	kerning, err := b.GetKerning(ctx)
	test.Error(t, err)
	kern := kerning[fontra.KerningHorizontal]
	kern.GroupsSide1["A"] = []string{"A", "Aacute"}
	kern.GroupsSide2 = map[string][]string{}
	kern.Values["@A"]["V"] = kern.Values["@A"]["@V"]
	delete(kern.Values["@A"], "@V")
	kern.Values["T"] = map[string][]*float64{"@A": {fp(-5), nil}}

	err = b.PutKerning(ctx, kerning)
	test.Error(t, err)

	for _, backend := range []*Backend{b, openTest(t, dir)} {
		got, err := backend.GetKerning(ctx)
		test.Error(t, err)
		k := got[fontra.KerningHorizontal]
		if d := cmp.Diff(map[string][]string{"A": {"A", "Aacute"}}, k.GroupsSide1); d != "" {
			t.Errorf("groups (-want +got):\n%s", d)
		}
		test.T(t, len(k.GroupsSide2), 0)
		if d := cmp.Diff(kern.Values, k.Values); d != "" {
			t.Errorf("values (-want +got):\n%s", d)
		}
	}

	// group changes are written to the glyph files
	data, err := os.ReadFile(dir + "/glyphs/A_acute.glyph")
	test.Error(t, err)
	test.That(t, strings.Contains(string(data), "kernRight = A;"), "group not stored")
	data, err = os.ReadFile(dir + "/glyphs/V_.glyph")
	test.Error(t, err)
	test.That(t, !strings.Contains(string(data), "kernLeft"), "group not removed")
}

func TestPutKerningRemove(t *testing.T) {
	ctx := context.Background()
	path := copyTestFile(t, "Test3.glyphs")
	b := openTest(t, path)

	err := b.PutKerning(ctx, map[string]*fontra.Kerning{})
	test.Error(t, err)

	kerning, err := openTest(t, path).GetKerning(ctx)
	test.Error(t, err)
	test.T(t, len(kerning), 0)

	data, err := os.ReadFile(path)
	test.Error(t, err)
	test.That(t, !strings.Contains(string(data), "kerningLTR"), "kerning not removed")
	test.That(t, !strings.Contains(string(data), "kernRight"), "groups not removed")
}

func TestPutVerticalKerning(t *testing.T) {
	ctx := context.Background()
	path := copyTestFile(t, "Test3.glyphs")
	b := openTest(t, path)

	kerning, err := b.GetKerning(ctx)
	test.Error(t, err)
	kerning[fontra.KerningVertical] = &fontra.Kerning{
		GroupsSide1:       map[string][]string{"top": {"T"}},
		GroupsSide2:       map[string][]string{},
		SourceIdentifiers: []string{"m02"},
		Values: map[string]map[string][]*float64{
			"@top": {"A": {fp(12)}},
		},
	}
	err = b.PutKerning(ctx, kerning)
	test.Error(t, err)

	got, err := openTest(t, path).GetKerning(ctx)
	test.Error(t, err)
	if d := cmp.Diff(kerning, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestPutKerningErrors(t *testing.T) {
	ctx := context.Background()
	b3 := openTest(t, copyTestFile(t, "Test3.glyphs"))
	b2 := openTest(t, copyTestFile(t, "Test2.glyphs"))

	empty := func(sources ...string) *fontra.Kerning {
		return &fontra.Kerning{
			GroupsSide1:       map[string][]string{},
			GroupsSide2:       map[string][]string{},
			SourceIdentifiers: sources,
			Values:            map[string]map[string][]*float64{},
		}
	}
	cases := []struct {
		name    string
		b       *Backend
		kerning map[string]*fontra.Kerning
		reason  Reason
	}{
		{"unknown type", b3, map[string]*fontra.Kerning{"kern": empty(), "xyz": empty()}, UnsupportedKerningType},
		{"vertical in format 2", b2, map[string]*fontra.Kerning{"vkrn": empty()}, VerticalKerningFormat2},
		{"unknown source", b3, map[string]*fontra.Kerning{"kern": empty("m01", "m99")}, UnknownKerningSource},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.b.PutKerning(ctx, c.kerning)
			if !IsReason(err, c.reason) {
				t.Errorf("got %v, want reason %q", err, c.reason)
			}
		})
	}
}

func TestKeyOrder(t *testing.T) {
	got := keyOrder([]string{"c", "x", "a"}, []string{"a", "b", "c", "d"})
	if d := cmp.Diff([]string{"c", "a", "b", "d"}, got); d != "" {
		t.Error(d)
	}
	test.T(t, len(keyOrder(nil, nil)), 0)
}

func TestGroupRef(t *testing.T) {
	test.String(t, groupRef("@MMK_L_A", kernLeft.prefix), "@A")
	test.String(t, groupRef("T", kernLeft.prefix), "T")
	test.String(t, groupRef("@MMK_R_A", kernLeft.prefix), "@MMK_R_A")
	test.String(t, nativeGroupRef("@A", kernRight.prefix), "@MMK_R_A")
	test.String(t, nativeGroupRef("A", kernRight.prefix), "A")
}
