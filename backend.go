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
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"seehuhn.de/go/glyphs/fontra"
	"seehuhn.de/go/glyphs/gsfont"
	"seehuhn.de/go/glyphs/plist"
)

// Backend gives access to a Glyphs font in the Fontra font model.
//
// The methods of Backend can be called concurrently.  Write operations are
// carried out one at a time.
type Backend struct {
	// writeMu serializes write operations.
	writeMu sync.Mutex

	// mu protects the fields below.  Writers hold both writeMu and mu
	// while they install new data.
	mu          sync.Mutex
	storage     storage
	format      int
	font        *gsfont.Font
	rawGlyphs   []*plist.Dict
	nameToIndex map[string]int
	expanded    map[string]*gsfont.Glyph
	glyphMap    map[string][]int
	ds          *designSpace

	opt *Options
	log *logrus.Logger
}

var (
	_ fontra.WritableFontBackend = (*Backend)(nil)
	_ fontra.GlyphUser           = (*Backend)(nil)
)

// Open opens a Glyphs font.  The path can either be a ".glyphs" file, or a
// ".glyphspackage" directory.
func Open(path string, opt *Options) (*Backend, error) {
	opt = MergeOptions(opt, defaultOptions)

	st, err := newStorage(path)
	if err != nil {
		return nil, err
	}
	rawFont, rawGlyphs, err := st.load()
	if err != nil {
		return nil, err
	}
	font, err := gsfont.ParseFont(rawFont)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	b := &Backend{
		storage:   st,
		format:    font.FormatVersion,
		font:      font,
		rawGlyphs: rawGlyphs,
		expanded:  make(map[string]*gsfont.Glyph),
		ds:        buildAxes(font),
		opt:       opt,
		log:       opt.Logger,
	}
	if b.log == nil {
		b.log = logrus.StandardLogger()
	}
	b.rebuildIndex()
	b.glyphMap = b.readGlyphMap()

	b.log.WithFields(logrus.Fields{
		"path":    path,
		"format":  b.format,
		"glyphs":  len(rawGlyphs),
		"masters": len(font.Masters),
	}).Debug("opened font")
	return b, nil
}

// Close releases the resources held by the backend.  All changes are
// written to disk immediately, so there is nothing to flush.
func (b *Backend) Close() error {
	return nil
}

// FormatVersion returns the Glyphs file format version of the font.
func (b *Backend) FormatVersion() int {
	return b.format
}

// GetGlyphMap returns the code points of all glyphs.
func (b *Backend) GetGlyphMap(ctx context.Context) (map[string][]int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	res := make(map[string][]int, len(b.glyphMap))
	for name, codePoints := range b.glyphMap {
		res[name] = slices.Clone(codePoints)
	}
	return res, nil
}

// PutGlyphMap does nothing.  Changes to the glyph map are made using
// PutGlyph and DeleteGlyph.
func (b *Backend) PutGlyphMap(ctx context.Context, glyphMap map[string][]int) error {
	return nil
}

// GetGlyph returns a glyph.  If the glyph does not exist, nil is returned
// without an error.
func (b *Backend) GetGlyph(ctx context.Context, glyphName string) (*fontra.VariableGlyph, error) {
	b.mu.Lock()
	g, err := b.ensureExpanded(glyphName)
	ds, format := b.ds, b.format
	b.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("glyph %q: %w", glyphName, err)
	}
	if g == nil {
		return nil, nil
	}
	return ds.readGlyph(g, format, b.log), nil
}

// PutGlyph stores a glyph, replacing all existing layers of the glyph.
// New glyphs are added at the end of the glyph list.
func (b *Backend) PutGlyph(ctx context.Context, glyphName string, glyph *fontra.VariableGlyph, codePoints []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	// Only writers modify the fields, so they can be read without b.mu.
	idx, exists := b.nameToIndex[glyphName]

	var g *gsfont.Glyph
	if exists {
		var err error
		g, err = gsfont.ParseGlyph(b.rawGlyphs[idx].Clone(), b.format)
		if err != nil {
			return fmt.Errorf("glyph %q: %w", glyphName, err)
		}
	} else {
		g = gsfont.NewGlyph(glyphName)
		idx = len(b.rawGlyphs)
	}

	err := b.ds.writeGlyph(glyph, g, b.format)
	if err != nil {
		return err
	}
	g.Name = glyphName
	g.Codepoints = slices.Clone(codePoints)

	glyphs := withGlyph(b.rawGlyphs, idx, g.Dict(b.format))

	b.mu.Lock()
	defer b.mu.Unlock()
	err = b.storage.writeGlyph(b.font.Raw(), glyphs, idx, !exists)
	if err != nil {
		return fmt.Errorf("glyph %q: %w", glyphName, err)
	}
	b.replaceGlyphs(glyphs, glyphName)
	if codePoints == nil {
		codePoints = []int{}
	}
	b.glyphMap[glyphName] = slices.Clone(codePoints)

	b.log.WithFields(logrus.Fields{
		"glyph":  glyphName,
		"new":    !exists,
		"layers": len(g.Layers),
	}).Info("stored glyph")
	return nil
}

// DeleteGlyph removes a glyph from the font.
func (b *Backend) DeleteGlyph(ctx context.Context, glyphName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	idx, exists := b.nameToIndex[glyphName]
	if !exists {
		return fmt.Errorf("%w: %q", ErrUnknownGlyph, glyphName)
	}
	glyphs := slices.Delete(slices.Clone(b.rawGlyphs), idx, idx+1)

	b.mu.Lock()
	defer b.mu.Unlock()
	err := b.storage.deleteGlyph(b.font.Raw(), glyphs, glyphName)
	if err != nil {
		return fmt.Errorf("glyph %q: %w", glyphName, err)
	}
	b.replaceGlyphs(glyphs, glyphName)
	delete(b.glyphMap, glyphName)

	b.log.WithField("glyph", glyphName).Info("deleted glyph")
	return nil
}

// GetFontInfo returns the naming information of the font.
func (b *Backend) GetFontInfo(ctx context.Context) (*fontra.FontInfo, error) {
	b.mu.Lock()
	font := b.font
	b.mu.Unlock()

	return readFontInfo(font, b.opt.Language), nil
}

// PutFontInfo is not supported.
func (b *Backend) PutFontInfo(ctx context.Context, info *fontra.FontInfo) error {
	return notImplemented("font info")
}

// GetAxes returns the font axes.
func (b *Backend) GetAxes(ctx context.Context) (*fontra.Axes, error) {
	b.mu.Lock()
	ds := b.ds
	b.mu.Unlock()

	res := &fontra.Axes{
		Axes: make([]*fontra.FontAxis, len(ds.axes)),
	}
	for i, axis := range ds.axes {
		a := *axis
		a.Mapping = slices.Clone(axis.Mapping)
		res.Axes[i] = &a
	}
	return res, nil
}

// PutAxes is not supported.
func (b *Backend) PutAxes(ctx context.Context, axes *fontra.Axes) error {
	return notImplemented("axes")
}

// GetSources returns the font sources, keyed by master id.
func (b *Backend) GetSources(ctx context.Context) (map[string]*fontra.FontSource, error) {
	b.mu.Lock()
	font, ds := b.font, b.ds
	b.mu.Unlock()

	return ds.readSources(font), nil
}

// PutSources is not supported.
func (b *Backend) PutSources(ctx context.Context, sources map[string]*fontra.FontSource) error {
	return notImplemented("font sources")
}

// GetUnitsPerEm returns the size of the em square.
func (b *Backend) GetUnitsPerEm(ctx context.Context) (int, error) {
	b.mu.Lock()
	font := b.font
	b.mu.Unlock()

	return font.UnitsPerEm(), nil
}

// PutUnitsPerEm is not supported.
func (b *Backend) PutUnitsPerEm(ctx context.Context, unitsPerEm int) error {
	return notImplemented("units per em")
}

// GetKerning returns the kerning tables of the font, keyed by kerning
// type.
func (b *Backend) GetKerning(ctx context.Context) (map[string]*fontra.Kerning, error) {
	b.mu.Lock()
	font, glyphs, ds := b.font, b.rawGlyphs, b.ds
	b.mu.Unlock()

	return readKerning(font, glyphs, ds.defaultMasterID), nil
}

// PutKerning replaces the kerning tables of the font.  Kerning types which
// are missing from the map are removed from the font, together with the
// corresponding kerning groups.
func (b *Backend) PutKerning(ctx context.Context, kerning map[string]*fontra.Kerning) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	if err := checkKerning(b.font, kerning); err != nil {
		return err
	}
	fontDict, glyphs, changed := writeKerning(b.font, b.rawGlyphs, kerning)

	err := b.commitFont(fontDict, glyphs, changed)
	if err != nil {
		return err
	}
	b.log.WithField("glyphs", len(changed)).Info("stored kerning")
	return nil
}

// GetFeatures returns the feature code of the font.
func (b *Backend) GetFeatures(ctx context.Context) (*fontra.OpenTypeFeatures, error) {
	b.mu.Lock()
	font := b.font
	b.mu.Unlock()

	return readFeatures(font), nil
}

// PutFeatures replaces the feature code of the font.
func (b *Backend) PutFeatures(ctx context.Context, features *fontra.OpenTypeFeatures) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	fontDict, err := writeFeatures(b.font, features)
	if err != nil {
		return err
	}
	err = b.commitFont(fontDict, b.rawGlyphs, nil)
	if err != nil {
		return err
	}
	b.log.Info("stored features")
	return nil
}

// commitFont writes new font-level data to disk and installs it.  The
// caller must hold b.writeMu.
func (b *Backend) commitFont(fontDict *plist.Dict, glyphs []*plist.Dict, changed []string) error {
	font, err := gsfont.ParseFont(fontDict)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	err = b.storage.writeFont(fontDict, glyphs, changed)
	if err != nil {
		return err
	}
	b.font = font
	b.replaceGlyphs(glyphs, changed...)
	return nil
}

// GetCustomData returns an empty map.  Glyphs fonts have no font-level
// custom data in the Fontra sense.
func (b *Backend) GetCustomData(ctx context.Context) (map[string]any, error) {
	return map[string]any{}, nil
}

// PutCustomData is not supported.
func (b *Backend) PutCustomData(ctx context.Context, customData map[string]any) error {
	return notImplemented("custom data")
}

// GetBackgroundImage returns nil.  Background images are not supported.
func (b *Backend) GetBackgroundImage(ctx context.Context, imageIdentifier string) (*fontra.ImageData, error) {
	return nil, nil
}

// PutBackgroundImage is not supported.
func (b *Backend) PutBackgroundImage(ctx context.Context, imageIdentifier string, data *fontra.ImageData) error {
	return notImplemented("background images")
}

// FindGlyphsThatUseGlyph returns the sorted names of all glyphs which use
// the given glyph as a component.
func (b *Backend) FindGlyphsThatUseGlyph(ctx context.Context, glyphName string) ([]string, error) {
	b.mu.Lock()
	font, glyphs := b.font, b.rawGlyphs
	b.mu.Unlock()

	componentsKey, baseGlyphKey := font.GlyphKeys()
	return componentUsers(glyphs, componentsKey, baseGlyphKey, glyphName), nil
}

// GlyphNames returns the names of all glyphs, in file order.
func (b *Backend) GlyphNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	res := make([]string, len(b.rawGlyphs))
	for i, d := range b.rawGlyphs {
		res[i] = glyphName(d)
	}
	return res
}

// MasterNames returns the names of the masters, keyed by master id.
func (b *Backend) MasterNames() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.ds.masterNames)
}
