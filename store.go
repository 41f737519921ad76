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
	"slices"

	"github.com/sirupsen/logrus"

	"seehuhn.de/go/glyphs/gsfont"
	"seehuhn.de/go/glyphs/plist"
)

// The raw store keeps the property list records of all glyphs.  Records
// are parsed into gsfont.Glyph values only when a glyph is requested.
//
// Published records are never modified.  A write builds new records and
// a new glyph list, and replaces the old ones once the data is on disk.
// This allows readers to use records and parsed glyphs after releasing
// Backend.mu.

// glyphName returns the name stored in a raw glyph record.
func glyphName(d *plist.Dict) string {
	name, _ := d.GetString("glyphname")
	return name
}

// rebuildIndex recomputes the map from glyph names to positions in the
// glyph list.  The caller must hold b.mu.
func (b *Backend) rebuildIndex() {
	b.nameToIndex = make(map[string]int, len(b.rawGlyphs))
	for i, d := range b.rawGlyphs {
		b.nameToIndex[glyphName(d)] = i
	}
}

// readGlyphMap extracts the code points of all glyphs.
func (b *Backend) readGlyphMap() map[string][]int {
	res := make(map[string][]int, len(b.rawGlyphs))
	for _, d := range b.rawGlyphs {
		name := glyphName(d)
		codePoints, err := gsfont.ParseCodepoints(d.Get("unicode"), b.format)
		if err != nil {
			b.log.WithError(err).WithField("glyph", name).Warn("ignoring invalid code points")
		}
		if codePoints == nil {
			codePoints = []int{}
		}
		res[name] = codePoints
	}
	return res
}

// ensureExpanded returns the parsed glyph with the given name, or nil if
// the glyph does not exist.  The glyphs used as components are parsed as
// well.  The caller must hold b.mu.
func (b *Backend) ensureExpanded(name string) (*gsfont.Glyph, error) {
	if g, ok := b.expanded[name]; ok {
		return g, nil
	}
	idx, ok := b.nameToIndex[name]
	if !ok {
		return nil, nil
	}

	g, err := gsfont.ParseGlyph(b.rawGlyphs[idx], b.format)
	if err != nil {
		return nil, err
	}
	b.expanded[name] = g
	b.log.WithField("glyph", name).Debug("expanded glyph")

	for _, dep := range g.ComponentNames() {
		if _, ok := b.nameToIndex[dep]; !ok {
			continue
		}
		_, err := b.ensureExpanded(dep)
		if err != nil {
			b.log.WithError(err).WithFields(logrus.Fields{
				"glyph":     name,
				"component": dep,
			}).Warn("cannot expand component glyph")
		}
	}
	return g, nil
}

// invalidate removes glyphs from the expansion cache.  The caller must
// hold b.mu.
func (b *Backend) invalidate(names ...string) {
	for _, name := range names {
		delete(b.expanded, name)
	}
}

// replaceGlyphs installs a new glyph list.  The caller must hold b.mu.
func (b *Backend) replaceGlyphs(glyphs []*plist.Dict, changed ...string) {
	b.rawGlyphs = glyphs
	b.rebuildIndex()
	b.invalidate(changed...)
}

// withGlyph returns a copy of the glyph list, with the glyph at position
// idx replaced by d.  If idx equals the length of the list, d is
// appended.
func withGlyph(glyphs []*plist.Dict, idx int, d *plist.Dict) []*plist.Dict {
	res := slices.Clone(glyphs)
	if idx == len(res) {
		return append(res, d)
	}
	res[idx] = d
	return res
}

// componentUsers returns the sorted names of all glyphs which use base as
// a component.  The raw records are scanned, so that no glyphs need to be
// parsed.
func componentUsers(glyphs []*plist.Dict, componentsKey, baseGlyphKey, base string) []string {
	var res []string
	for _, gd := range glyphs {
		uses := false
	layers:
		for _, obj := range gd.GetArray("layers") {
			ld, _ := obj.(*plist.Dict)
			for _, cobj := range ld.GetArray(componentsKey) {
				cd, _ := cobj.(*plist.Dict)
				if ref, _ := cd.GetString(baseGlyphKey); ref == base {
					uses = true
					break layers
				}
			}
		}
		if uses {
			res = append(res, glyphName(gd))
		}
	}
	slices.Sort(res)
	return slices.Compact(res)
}
