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

// Package filenames converts glyph names into file names which are safe to
// use on case-insensitive file systems.
package filenames

import (
	"strings"
	"unicode"
)

const maxFileNameLength = 255

var reservedFileNames = map[string]bool{
	"con": true, "prn": true, "aux": true, "clock$": true, "nul": true,
	"a:-z:": true, "com1": true, "lpt1": true, "lpt2": true, "lpt3": true,
	"com2": true, "com3": true, "com4": true,
}

func isIllegal(r rune) bool {
	if r < 0x20 || r == 0x7F {
		return true
	}
	return strings.ContainsRune(`"*+/:<>?[\]|`, r)
}

// UserNameToFileName converts a glyph name into a file name.
//
// Upper case letters are followed by an underscore, so that names which
// differ only in case map to different files.  Characters which are not
// allowed in file names are replaced by underscores, and so is a leading
// period.  Parts of the name which are reserved device names on Windows
// get an underscore prefix.
func UserNameToFileName(userName, suffix string) string {
	if strings.HasPrefix(userName, ".") {
		userName = "_" + userName[1:]
	}

	var b strings.Builder
	for _, r := range userName {
		switch {
		case isIllegal(r):
			b.WriteByte('_')
		case unicode.ToLower(r) != r:
			b.WriteRune(r)
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}

	filtered := []rune(b.String())
	sliceLength := maxFileNameLength - len([]rune(suffix))
	if len(filtered) > sliceLength {
		filtered = filtered[:sliceLength]
	}

	parts := strings.Split(string(filtered), ".")
	for i, part := range parts {
		if reservedFileNames[strings.ToLower(part)] {
			parts[i] = "_" + part
		}
	}
	return strings.Join(parts, ".") + suffix
}
