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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"seehuhn.de/go/glyphs/internal/filenames"
	"seehuhn.de/go/glyphs/plist"
)

// storage reads and writes the files of a font.
//
// Glyph records are kept separate from the font-level dictionary, so that
// glyphs can be parsed on demand.
type storage interface {
	load() (font *plist.Dict, glyphs []*plist.Dict, err error)

	// writeFont writes the font-level data.  The glyphs named in changed
	// have been modified as well.
	writeFont(font *plist.Dict, glyphs []*plist.Dict, changed []string) error

	// writeGlyph writes a single glyph.
	writeGlyph(font *plist.Dict, glyphs []*plist.Dict, idx int, isNew bool) error

	// deleteGlyph records that a glyph has been removed.  The glyph is
	// no longer present in glyphs.
	deleteGlyph(font *plist.Dict, glyphs []*plist.Dict, name string) error
}

func newStorage(path string) (storage, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return &packageStorage{dir: path}, nil
	}
	return &fileStorage{path: path}, nil
}

// fileStorage keeps a whole font in a single .glyphs file.
type fileStorage struct {
	path string
}

func (s *fileStorage) load() (*plist.Dict, []*plist.Dict, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil, err
	}
	font, err := plist.ParseDict(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", s.path, err)
	}

	glyphs, err := glyphList(font.GetArray("glyphs"))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", s.path, err)
	}
	if font.Has("glyphs") {
		// keep the position of the key for writing
		font.Set("glyphs", plist.Array{})
	}
	return font, glyphs, nil
}

func glyphList(list []plist.Object) ([]*plist.Dict, error) {
	res := make([]*plist.Dict, 0, len(list))
	for i, obj := range list {
		d, ok := obj.(*plist.Dict)
		if !ok {
			return nil, fmt.Errorf("glyph %d: expected a dictionary", i)
		}
		res = append(res, d)
	}
	return res, nil
}

func (s *fileStorage) writeFont(font *plist.Dict, glyphs []*plist.Dict, _ []string) error {
	list := make(plist.Array, len(glyphs))
	for i, g := range glyphs {
		list[i] = plist.ConvertMatchesToTuples(g, plist.MatchTreeGlyph)
	}

	// The conversion returns a new top-level dictionary, font itself is
	// not modified.
	out := plist.ConvertMatchesToTuples(font, plist.MatchTreeFont).(*plist.Dict)
	if out.Has("glyphs") || len(list) > 0 {
		out.SetSorted("glyphs", list)
	}

	return writeFileAtomic(s.path, plist.Format(out))
}

func (s *fileStorage) writeGlyph(font *plist.Dict, glyphs []*plist.Dict, _ int, _ bool) error {
	return s.writeFont(font, glyphs, nil)
}

func (s *fileStorage) deleteGlyph(font *plist.Dict, glyphs []*plist.Dict, _ string) error {
	return s.writeFont(font, glyphs, nil)
}

// packageStorage keeps a font in a .glyphspackage directory.  The
// directory contains "fontinfo.plist" with the font-level data,
// "order.plist" with the glyph order, and one file per glyph in the
// "glyphs" subdirectory.
type packageStorage struct {
	dir string

	// fileNames maps glyph names to the names of the files they were read
	// from.
	fileNames map[string]string
}

const (
	fontInfoFile = "fontinfo.plist"
	orderFile    = "order.plist"
	glyphsDir    = "glyphs"
	glyphSuffix  = ".glyph"
)

func (s *packageStorage) load() (*plist.Dict, []*plist.Dict, error) {
	fontPath := filepath.Join(s.dir, fontInfoFile)
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, nil, err
	}
	font, err := plist.ParseDict(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", fontPath, err)
	}
	font.Delete("glyphs")

	order := make(map[string]int)
	data, err = os.ReadFile(filepath.Join(s.dir, orderFile))
	if err == nil {
		obj, err := plist.Parse(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", orderFile, err)
		}
		for i, item := range plist.AsArray(obj) {
			if name, ok := plist.AsString(item); ok {
				if _, seen := order[name]; !seen {
					order[name] = i
				}
			}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, nil, err
	}

	files, err := filepath.Glob(filepath.Join(s.dir, glyphsDir, "*"+glyphSuffix))
	if err != nil {
		return nil, nil, err
	}
	slices.Sort(files)

	s.fileNames = make(map[string]string, len(files))
	glyphs := make([]*plist.Dict, 0, len(files))
	for _, fname := range files {
		data, err := os.ReadFile(fname)
		if err != nil {
			return nil, nil, err
		}
		g, err := plist.ParseDict(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", fname, err)
		}
		name, _ := g.GetString("glyphname")
		if name == "" {
			return nil, nil, fmt.Errorf("%s: glyph without name", fname)
		}
		s.fileNames[name] = filepath.Base(fname)
		glyphs = append(glyphs, g)
	}

	slices.SortStableFunc(glyphs, func(a, b *plist.Dict) int {
		nameA, _ := a.GetString("glyphname")
		nameB, _ := b.GetString("glyphname")
		idxA, okA := order[nameA]
		idxB, okB := order[nameB]
		switch {
		case okA && okB:
			return idxA - idxB
		case okA:
			return -1
		case okB:
			return 1
		}
		return strings.Compare(nameA, nameB)
	})

	return font, glyphs, nil
}

func (s *packageStorage) writeFont(font *plist.Dict, glyphs []*plist.Dict, changed []string) error {
	out := plist.ConvertMatchesToTuples(font, plist.MatchTreeFont)
	err := writeFileAtomic(filepath.Join(s.dir, fontInfoFile), plist.Format(out))
	if err != nil {
		return err
	}

	if len(changed) == 0 {
		return nil
	}
	idx := make(map[string]int, len(glyphs))
	for i, g := range glyphs {
		name, _ := g.GetString("glyphname")
		idx[name] = i
	}
	for _, name := range changed {
		i, ok := idx[name]
		if !ok {
			continue
		}
		if err := s.writeGlyph(font, glyphs, i, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *packageStorage) writeGlyph(_ *plist.Dict, glyphs []*plist.Dict, idx int, isNew bool) error {
	g := glyphs[idx]
	name, _ := g.GetString("glyphname")

	out := plist.ConvertMatchesToTuples(g, plist.MatchTreeGlyph)
	err := writeFileAtomic(s.glyphPath(name), plist.Format(out))
	if err != nil {
		return err
	}

	if isNew {
		return s.writeOrder(glyphs)
	}
	return nil
}

func (s *packageStorage) deleteGlyph(_ *plist.Dict, glyphs []*plist.Dict, name string) error {
	err := os.Remove(s.glyphPath(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	delete(s.fileNames, name)
	return s.writeOrder(glyphs)
}

func (s *packageStorage) glyphPath(name string) string {
	fileName, ok := s.fileNames[name]
	if !ok {
		fileName = filenames.UserNameToFileName(name, glyphSuffix)
		if s.fileNames == nil {
			s.fileNames = make(map[string]string)
		}
		s.fileNames[name] = fileName
	}
	return filepath.Join(s.dir, glyphsDir, fileName)
}

func (s *packageStorage) writeOrder(glyphs []*plist.Dict) error {
	order := make(plist.Array, len(glyphs))
	for i, g := range glyphs {
		order[i] = g.Get("glyphname")
	}
	return writeFileAtomic(filepath.Join(s.dir, orderFile), plist.Format(order))
}

// writeFileAtomic replaces the contents of a file.  The data is written to
// a temporary file first, which is then renamed, so that readers never
// observe a partially written file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Chmod(mode)
	}
	if err2 := tmp.Close(); err == nil {
		err = err2
	}
	if err == nil {
		err = os.Rename(tmpName, path)
	}
	if err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
