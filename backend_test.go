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
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/tdewolff/test"
	"golang.org/x/text/language"

	"seehuhn.de/go/glyphs/fontra"
	"seehuhn.de/go/glyphs/internal/filenames"
	"seehuhn.de/go/glyphs/plist"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// copyTestFile copies a file from testdata into a temporary directory.
func copyTestFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), name)
	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

// makePackage converts a .glyphs file from testdata into a
// .glyphspackage directory.
func makePackage(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	font, err := plist.ParseDict(data)
	if err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "Test.glyphspackage")
	err = os.MkdirAll(filepath.Join(dir, "glyphs"), 0o755)
	if err != nil {
		t.Fatal(err)
	}
	var order plist.Array
	for _, obj := range font.GetArray("glyphs") {
		gd := obj.(*plist.Dict)
		name, _ := gd.GetString("glyphname")
		order = append(order, gd.Get("glyphname"))
		fname := filenames.UserNameToFileName(name, ".glyph")
		out := plist.ConvertMatchesToTuples(gd, plist.MatchTreeGlyph)
		err = os.WriteFile(filepath.Join(dir, "glyphs", fname), plist.Format(out), 0o644)
		if err != nil {
			t.Fatal(err)
		}
	}
	font.Delete("glyphs")
	info := plist.ConvertMatchesToTuples(font, plist.MatchTreeFont)
	err = os.WriteFile(filepath.Join(dir, "fontinfo.plist"), plist.Format(info), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(dir, "order.plist"), plist.Format(order), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

// readFiles returns the contents of the file at path, or of all files
// below the directory at path, keyed by the path relative to path.
func readFiles(t *testing.T, path string) map[string][]byte {
	t.Helper()
	res := make(map[string][]byte)
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		res[rel] = data
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func openTest(t *testing.T, path string) *Backend {
	t.Helper()
	b, err := Open(path, &Options{Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func getGlyph(t *testing.T, b *Backend, name string) *fontra.VariableGlyph {
	t.Helper()
	vg, err := b.GetGlyph(context.Background(), name)
	if err != nil {
		t.Fatal(err)
	}
	if vg == nil {
		t.Fatalf("glyph %q not found", name)
	}
	return vg
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.glyphs"), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.glyphs")
	err = os.WriteFile(path, []byte("{\n.formatVersion = 7;\n}\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Open(path, nil)
	test.That(t, err != nil, "unsupported format version accepted")
}

func TestGetAxes(t *testing.T) {
	ctx := context.Background()

	b := openTest(t, copyTestFile(t, "Test3.glyphs"))
	axes, err := b.GetAxes(ctx)
	test.Error(t, err)
	want := []*fontra.FontAxis{
		{
			Name:         "Weight",
			Label:        "Weight",
			Tag:          "wght",
			MinValue:     100,
			DefaultValue: 400,
			MaxValue:     900,
			Mapping: [][2]float64{
				{100, 17}, {200, 30}, {300, 55}, {357, 75},
				{400, 90}, {500, 133}, {700, 179}, {900, 220},
			},
		},
	}
	if d := cmp.Diff(want, axes.Axes); d != "" {
		t.Errorf("format 3 axes (-want +got):\n%s", d)
	}

	// the result is a copy
	axes.Axes[0].Mapping[0][1] = 0
	again, _ := b.GetAxes(ctx)
	test.T(t, again.Axes[0].Mapping[0][1], 17.0)

	// Width and Custom are ignored, since all masters agree on them
	b2 := openTest(t, copyTestFile(t, "Test2.glyphs"))
	axes, err = b2.GetAxes(ctx)
	test.Error(t, err)
	want = []*fontra.FontAxis{
		{
			Name:         "Weight",
			Label:        "Weight",
			Tag:          "wght",
			MinValue:     17,
			DefaultValue: 90,
			MaxValue:     220,
		},
	}
	if d := cmp.Diff(want, axes.Axes); d != "" {
		t.Errorf("format 2 axes (-want +got):\n%s", d)
	}
}

func TestGetSources(t *testing.T) {
	b := openTest(t, copyTestFile(t, "Test3.glyphs"))
	sources, err := b.GetSources(context.Background())
	test.Error(t, err)
	test.T(t, len(sources), 3)

	light := sources["m01"]
	test.T(t, light.Name, "Light")
	if d := cmp.Diff(fontra.Location{"Weight": 17}, light.Location); d != "" {
		t.Error(d)
	}
	wantMetrics := map[string]*fontra.LineMetric{
		"ascender":  {Value: 750, Zone: 12},
		"capHeight": {Value: 700},
		"xHeight":   {Value: 500, Zone: 10},
		"baseline":  {Value: 0, Zone: -12},
		"descender": {Value: -250},
	}
	if d := cmp.Diff(wantMetrics, light.LineMetricsHorizontalLayout); d != "" {
		t.Errorf("line metrics (-want +got):\n%s", d)
	}
	test.T(t, len(light.Guidelines), 1)
	test.T(t, light.Guidelines[0].Y, 300.0)

	test.T(t, sources["m02"].Name, "Regular")
	test.T(t, sources["m03"].Location["Weight"], 220.0)
}

func TestGetFontInfo(t *testing.T) {
	ctx := context.Background()
	path := copyTestFile(t, "Test3.glyphs")

	b := openTest(t, path)
	info, err := b.GetFontInfo(ctx)
	test.Error(t, err)
	test.T(t, info.FamilyName, "Test Sans")
	test.T(t, info.Designer, "A. Designer")
	test.T(t, info.VendorID, "TEST")
	test.That(t, info.VersionMajor != nil && *info.VersionMajor == 1, "versionMajor")
	test.That(t, info.VersionMinor != nil && *info.VersionMinor == 2, "versionMinor")

	bDE, err := Open(path, &Options{Logger: quietLogger(), Language: language.German})
	test.Error(t, err)
	info, err = bDE.GetFontInfo(ctx)
	test.Error(t, err)
	test.T(t, info.Designer, "Ein Designer")

	b2 := openTest(t, copyTestFile(t, "Test2.glyphs"))
	info, err = b2.GetFontInfo(ctx)
	test.Error(t, err)
	test.T(t, info.FamilyName, "Test Two")
	test.T(t, info.Copyright, "Copyright 2025 Nobody")
	test.T(t, info.Designer, "A. Designer")
	test.T(t, info.LicenseDescription, "Free for testing")
}

func TestGlyphMap(t *testing.T) {
	b := openTest(t, copyTestFile(t, "Test2.glyphs"))
	glyphMap, err := b.GetGlyphMap(context.Background())
	test.Error(t, err)
	want := map[string][]int{
		"A":     {0x41},
		"V":     {0x56},
		"Aring": {0xC5},
	}
	if d := cmp.Diff(want, glyphMap); d != "" {
		t.Errorf("glyph map (-want +got):\n%s", d)
	}
	test.T(t, b.FormatVersion(), 2)
}

func TestNotImplemented(t *testing.T) {
	ctx := context.Background()
	b := openTest(t, copyTestFile(t, "Test3.glyphs"))

	errs := []error{
		b.PutFontInfo(ctx, &fontra.FontInfo{}),
		b.PutAxes(ctx, &fontra.Axes{}),
		b.PutSources(ctx, nil),
		b.PutUnitsPerEm(ctx, 2048),
		b.PutCustomData(ctx, nil),
		b.PutBackgroundImage(ctx, "x", nil),
	}
	for i, err := range errs {
		if !errors.Is(err, ErrNotImplemented) {
			t.Errorf("%d: got %v", i, err)
		}
		test.That(t, IsReason(err, NotImplemented), "reason")
	}
	test.Error(t, b.PutGlyphMap(ctx, nil))

	upm, err := b.GetUnitsPerEm(ctx)
	test.Error(t, err)
	test.T(t, upm, 1000)

	custom, err := b.GetCustomData(ctx)
	test.Error(t, err)
	test.T(t, len(custom), 0)

	img, err := b.GetBackgroundImage(ctx, "x")
	test.Error(t, err)
	test.That(t, img == nil, "background image")
}

func TestMissingGlyph(t *testing.T) {
	ctx := context.Background()
	b := openTest(t, copyTestFile(t, "Test3.glyphs"))

	vg, err := b.GetGlyph(ctx, "nonexistent")
	test.Error(t, err)
	test.That(t, vg == nil, "missing glyph returned")

	err = b.DeleteGlyph(ctx, "nonexistent")
	if !errors.Is(err, ErrUnknownGlyph) {
		t.Errorf("got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	b := openTest(t, copyTestFile(t, "Test3.glyphs"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	vg := getGlyph(t, b, "T")
	err := b.PutGlyph(ctx, "T", vg, []int{'T'})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("PutGlyph: got %v", err)
	}
	err = b.DeleteGlyph(ctx, "T")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("DeleteGlyph: got %v", err)
	}
}

func TestFindGlyphsThatUseGlyph(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"Test2.glyphs", "Test3.glyphs"} {
		t.Run(name, func(t *testing.T) {
			b := openTest(t, copyTestFile(t, name))
			users, err := b.FindGlyphsThatUseGlyph(ctx, "A")
			test.Error(t, err)
			var want []string
			if name == "Test2.glyphs" {
				want = []string{"Aring"}
			} else {
				want = []string{"Aacute"}
			}
			if d := cmp.Diff(want, users); d != "" {
				t.Error(d)
			}

			users, err = b.FindGlyphsThatUseGlyph(ctx, "V")
			test.Error(t, err)
			test.T(t, len(users), 0)
		})
	}
}

func TestDeleteGlyph(t *testing.T) {
	ctx := context.Background()
	path := copyTestFile(t, "Test3.glyphs")
	b := openTest(t, path)

	err := b.DeleteGlyph(ctx, "T")
	test.Error(t, err)

	vg, err := b.GetGlyph(ctx, "T")
	test.Error(t, err)
	test.That(t, vg == nil, "deleted glyph still present")
	glyphMap, _ := b.GetGlyphMap(ctx)
	_, found := glyphMap["T"]
	test.That(t, !found, "deleted glyph in glyph map")

	// glyphs after the deleted one are still found
	getGlyph(t, b, "_part.stem")

	b2 := openTest(t, path)
	vg, err = b2.GetGlyph(ctx, "T")
	test.Error(t, err)
	test.That(t, vg == nil, "deleted glyph still present after reopening")
	test.T(t, len(b2.GlyphNames()), 5)
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	b := openTest(t, copyTestFile(t, "Test3.glyphs"))

	orig := getGlyph(t, b, "A")
	glyphMap, _ := b.GetGlyphMap(ctx)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 10; k++ {
				for _, name := range []string{"A", "Aacute", "_part.stem"} {
					vg, err := b.GetGlyph(ctx, name)
					if err != nil {
						errs <- err
						return
					}
					if vg == nil || len(vg.Sources) == 0 {
						errs <- errors.New("glyph " + name + " has no sources")
						return
					}
				}
				_, err := b.GetKerning(ctx)
				if err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 5; k++ {
				err := b.PutGlyph(ctx, "A", orig, glyphMap["A"])
				if err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	if d := cmp.Diff(orig, getGlyph(t, b, "A")); d != "" {
		t.Errorf("glyph changed (-want +got):\n%s", d)
	}
}
