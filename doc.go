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

// Package glyphs reads and writes Glyphs font sources in the Fontra font
// model.
//
// Both file formats used by the Glyphs font editor are supported: a single
// ".glyphs" file, and a ".glyphspackage" directory with one file per
// glyph.  Files in format version 2 and 3 can be read and written.
//
// A Backend is opened with [Open].  Glyphs are converted on demand, when
// they are first requested by [Backend.GetGlyph].  Changes made with
// [Backend.PutGlyph], [Backend.PutKerning], [Backend.PutFeatures] and
// [Backend.DeleteGlyph] are written to disk immediately.  Records of the
// file which are not touched by a change are written back unchanged, so
// that reading a glyph and writing it back gives a byte-identical file.
//
// In the Fontra model, every source of a glyph has a location in the
// design space, spanned by the font axes and the glyph-local axes of smart
// components.  Glyphs instead identifies layers by their master, and marks
// intermediate locations by brace coordinates and smart component poles.
// This package converts between the two descriptions.
package glyphs
