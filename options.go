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
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Options allows to customize the behaviour of a Backend.
type Options struct {
	// Logger receives diagnostic messages.
	Logger *logrus.Logger

	// Language selects the localized variant of font info entries.
	// If no entry for the language exists, the default entry is used.
	Language language.Tag
}

var defaultOptions = &Options{
	Language: language.English,
}

// MergeOptions takes an options struct and a default values struct and returns a new
// options struct with all fields set to the values from the options struct,
// except for the fields which are set to the zero value in the options struct.
// `opt` can be nil in which case the default values are returned.
// `defaultValues` must not be nil.
func MergeOptions(opt, defaultValues *Options) *Options {
	if opt == nil {
		return defaultValues
	}

	res := &Options{}
	if opt.Logger != nil {
		res.Logger = opt.Logger
	} else {
		res.Logger = defaultValues.Logger
	}
	var zeroLang language.Tag
	if opt.Language != zeroLang {
		res.Language = opt.Language
	} else {
		res.Language = defaultValues.Language
	}
	return res
}
