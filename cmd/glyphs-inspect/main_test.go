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

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/tdewolff/test"
)

func TestCopyTree(t *testing.T) {
	src := filepath.Join(t.TempDir(), "Font.glyphspackage")
	test.Error(t, os.MkdirAll(filepath.Join(src, "glyphs"), 0o755))
	test.Error(t, os.WriteFile(filepath.Join(src, "fontinfo.plist"), []byte("{}\n"), 0o644))
	test.Error(t, os.WriteFile(filepath.Join(src, "glyphs", "A_.glyph"), []byte("{glyphname = A;}\n"), 0o644))

	dst := filepath.Join(t.TempDir(), "copy.glyphspackage")
	test.Error(t, copyTree(src, dst))

	h1, err := hashTree(src)
	test.Error(t, err)
	h2, err := hashTree(dst)
	test.Error(t, err)
	test.T(t, len(h2), 2)
	for path, sum := range h1 {
		rel, err := filepath.Rel(src, path)
		test.Error(t, err)
		test.T(t, h2[filepath.Join(dst, rel)], sum, rel)
	}
}

func TestCheckRoundTrip(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.WarnLevel)

	for _, name := range []string{"Test2.glyphs", "Test3.glyphs"} {
		fname := filepath.Join("..", "..", "testdata", name)
		orig, err := os.ReadFile(fname)
		test.Error(t, err)

		err = checkRoundTrip(context.Background(), fname, log)
		test.Error(t, err, name)
		for _, e := range hook.AllEntries() {
			test.That(t, e.Message != "changed by round trip", name, e.Data["file"])
		}
		hook.Reset()

		after, err := os.ReadFile(fname)
		test.Error(t, err)
		test.Bytes(t, after, orig, name)
	}
}
