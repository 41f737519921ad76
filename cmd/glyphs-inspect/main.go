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
	"crypto/sha256"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"seehuhn.de/go/glyphs"
	"seehuhn.de/go/glyphs/internal/buildinfo"
	"seehuhn.de/go/glyphs/internal/profile"
)

var (
	glyphArg    = flag.String("glyph", "", "show the glyph with the given `name`")
	kerningArg  = flag.Bool("kerning", false, "show the kerning tables")
	axesArg     = flag.Bool("axes", false, "show the font axes and sources")
	featuresArg = flag.Bool("features", false, "show the OpenType feature code")
	roundtrip   = flag.Bool("roundtrip", false, "write every glyph back into a temporary copy and compare")
	verbose     = flag.Bool("v", false, "print debug messages")
	versionArg  = flag.Bool("version", false, "print version information and exit")
	cpuprofile  = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile  = flag.String("memprofile", "", "write memory profile to `file`")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "glyphs-inspect \u2014 show a Glyphs font source in the Fontra model\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("glyphs-inspect"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  glyphs-inspect [options] <font.glyphs|font.glyphspackage>\n\n")
		fmt.Fprintf(os.Stderr, "Without options, the font info and the glyph map are shown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  glyphs-inspect -glyph A MyFont.glyphs\n")
		fmt.Fprintf(os.Stderr, "  glyphs-inspect -kerning -axes MyFont.glyphspackage\n")
	}
	flag.Parse()

	if *versionArg {
		fmt.Println(buildinfo.Short("glyphs-inspect"))
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	if err := run(flag.Arg(0), log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(fname string, log *logrus.Logger) error {
	stop, err := profile.Start(*cpuprofile, *memprofile, log)
	if err != nil {
		return err
	}
	defer stop()

	b, err := glyphs.Open(fname, &glyphs.Options{Logger: log})
	if err != nil {
		return err
	}
	defer b.Close()

	ctx := context.Background()
	out := newPrinter(os.Stdout)

	showDefault := true
	if *glyphArg != "" {
		showDefault = false
		g, err := b.GetGlyph(ctx, *glyphArg)
		if err != nil {
			return err
		}
		if g == nil {
			return fmt.Errorf("%w: %q", glyphs.ErrUnknownGlyph, *glyphArg)
		}
		if err := out.print("glyph", g); err != nil {
			return err
		}
	}
	if *axesArg {
		showDefault = false
		axes, err := b.GetAxes(ctx)
		if err != nil {
			return err
		}
		sources, err := b.GetSources(ctx)
		if err != nil {
			return err
		}
		if err := out.print("axes", axes); err != nil {
			return err
		}
		if err := out.print("sources", sources); err != nil {
			return err
		}
	}
	if *kerningArg {
		showDefault = false
		kerning, err := b.GetKerning(ctx)
		if err != nil {
			return err
		}
		if err := out.print("kerning", kerning); err != nil {
			return err
		}
	}
	if *featuresArg {
		showDefault = false
		features, err := b.GetFeatures(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out.w, features.Text)
	}
	if *roundtrip {
		showDefault = false
		if err := checkRoundTrip(ctx, fname, log); err != nil {
			return err
		}
	}

	if showDefault {
		info, err := b.GetFontInfo(ctx)
		if err != nil {
			return err
		}
		upem, err := b.GetUnitsPerEm(ctx)
		if err != nil {
			return err
		}
		glyphMap, err := b.GetGlyphMap(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out.w, "format version %d, %d units per em, %d glyphs\n",
			b.FormatVersion(), upem, len(glyphMap))
		if err := out.print("fontInfo", info); err != nil {
			return err
		}
		for _, name := range b.GlyphNames() {
			fmt.Fprintf(out.w, "%s\t", name)
			for i, cp := range glyphMap[name] {
				if i > 0 {
					fmt.Fprint(out.w, " ")
				}
				fmt.Fprintf(out.w, "U+%04X", cp)
			}
			fmt.Fprintln(out.w)
		}
	}
	return nil
}

// checkRoundTrip writes every glyph of a temporary copy of the font back
// unchanged and compares the copy with the original.
func checkRoundTrip(ctx context.Context, fname string, log *logrus.Logger) error {
	tmpDir, err := os.MkdirTemp("", "glyphs-inspect-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	fname = filepath.Clean(fname)
	work := filepath.Join(tmpDir, filepath.Base(fname))
	if err := copyTree(fname, work); err != nil {
		return err
	}
	before, err := hashTree(work)
	if err != nil {
		return err
	}

	b, err := glyphs.Open(work, &glyphs.Options{Logger: log})
	if err != nil {
		return err
	}
	defer b.Close()

	glyphMap, err := b.GetGlyphMap(ctx)
	if err != nil {
		return err
	}
	for _, name := range b.GlyphNames() {
		g, err := b.GetGlyph(ctx, name)
		if err != nil {
			return fmt.Errorf("glyph %q: %w", name, err)
		}
		err = b.PutGlyph(ctx, name, g, glyphMap[name])
		if err != nil {
			return fmt.Errorf("glyph %q: %w", name, err)
		}
	}

	after, err := hashTree(work)
	if err != nil {
		return err
	}

	var changed []string
	for path, sum := range after {
		if before[path] != sum {
			changed = append(changed, path)
		}
	}
	for path := range before {
		if _, ok := after[path]; !ok {
			changed = append(changed, path)
		}
	}
	slices.Sort(changed)
	for _, path := range changed {
		rel, _ := filepath.Rel(tmpDir, path)
		log.WithField("file", rel).Warn("changed by round trip")
	}
	if len(changed) > 0 {
		return fmt.Errorf("round trip changed %d file(s)", len(changed))
	}
	fmt.Printf("round trip ok, %d glyphs\n", len(glyphMap))
	return nil
}

// copyTree copies a file, or a directory with all regular files below it.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}

// hashTree returns the SHA-256 sums of all regular files below root.
func hashTree(root string) (map[string][sha256.Size]byte, error) {
	res := make(map[string][sha256.Size]byte)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		res[path] = sha256.Sum256(data)
		return nil
	})
	return res, err
}

type printer struct {
	w      io.Writer
	indent bool
}

func newPrinter(f *os.File) *printer {
	return &printer{
		w:      f,
		indent: term.IsTerminal(int(f.Fd())),
	}
}

func (p *printer) print(label string, v any) error {
	var data []byte
	var err error
	if p.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.w, "%s: %s\n", label, data)
	return err
}
