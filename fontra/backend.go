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

import "context"

// ReadableFontBackend gives read access to a font source.
//
// GetGlyph returns nil without an error, if the glyph does not exist.
type ReadableFontBackend interface {
	GetGlyphMap(ctx context.Context) (map[string][]int, error)
	GetFontInfo(ctx context.Context) (*FontInfo, error)
	GetAxes(ctx context.Context) (*Axes, error)
	GetSources(ctx context.Context) (map[string]*FontSource, error)
	GetUnitsPerEm(ctx context.Context) (int, error)
	GetKerning(ctx context.Context) (map[string]*Kerning, error)
	GetFeatures(ctx context.Context) (*OpenTypeFeatures, error)
	GetGlyph(ctx context.Context, glyphName string) (*VariableGlyph, error)
	GetCustomData(ctx context.Context) (map[string]any, error)
	GetBackgroundImage(ctx context.Context, imageIdentifier string) (*ImageData, error)
	Close() error
}

// WritableFontBackend is a font source which can be modified.
type WritableFontBackend interface {
	ReadableFontBackend

	PutGlyphMap(ctx context.Context, glyphMap map[string][]int) error
	DeleteGlyph(ctx context.Context, glyphName string) error
	PutFontInfo(ctx context.Context, info *FontInfo) error
	PutAxes(ctx context.Context, axes *Axes) error
	PutSources(ctx context.Context, sources map[string]*FontSource) error
	PutUnitsPerEm(ctx context.Context, unitsPerEm int) error
	PutKerning(ctx context.Context, kerning map[string]*Kerning) error
	PutFeatures(ctx context.Context, features *OpenTypeFeatures) error
	PutGlyph(ctx context.Context, glyphName string, glyph *VariableGlyph, codePoints []int) error
	PutCustomData(ctx context.Context, customData map[string]any) error
	PutBackgroundImage(ctx context.Context, imageIdentifier string, data *ImageData) error
}

// GlyphUser is implemented by backends which can find the glyphs using a
// given glyph as a component.
type GlyphUser interface {
	FindGlyphsThatUseGlyph(ctx context.Context, glyphName string) ([]string, error)
}
