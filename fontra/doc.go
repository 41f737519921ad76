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

// Package fontra implements the normalized font source model used by the
// Fontra font editor.
//
// The model describes a variable font as a set of axes, font sources and
// variable glyphs.  A variable glyph consists of named layers holding the
// outline data, and of glyph sources which place these layers at locations
// in the design space.  The design space is spanned by the font axes
// together with the glyph-local axes of each glyph.
//
// Locations of font sources and glyph sources are given in source space.
// Font axes are defined in user space, the optional axis mapping converts
// user space coordinates to source space.
package fontra
