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
)

// Reason classifies the errors reported by the backend.
type Reason int

// These are the possible values of BackendError.Reason.
const (
	// SkewUnsupported indicates a skewed component.  Glyphs cannot
	// represent shear in component transformations.
	SkewUnsupported Reason = iota + 1

	// BraceInSmartGlyph indicates a source at an intermediate font
	// location in a glyph with glyph axes.
	BraceInSmartGlyph

	// IntermediateInSmartGlyph indicates a glyph axis value which is
	// neither the minimum nor the maximum of the axis.
	IntermediateInSmartGlyph

	// AxisDefaultNotAtBound indicates a glyph axis whose default value
	// is not at one end of the axis range.
	AxisDefaultNotAtBound

	// LayerWithoutSource indicates a layer which neither belongs to a
	// source, nor is attached to a source layer.
	LayerWithoutSource

	// MissingSourceLayer indicates a source whose layer does not exist.
	MissingSourceLayer

	// BraceSecondaryLayer indicates a new secondary layer of a brace
	// layer, other than the background.
	BraceSecondaryLayer

	// UnknownLocationBase indicates a source whose location base is not
	// a master of the font.
	UnknownLocationBase

	// DuplicateSourceLocation indicates two sources of a glyph at the
	// same location.
	DuplicateSourceLocation

	// UnknownKerningSource indicates kerning values for a source which
	// is not a master of the font.
	UnknownKerningSource

	// UnsupportedKerningType indicates a kerning type other than "kern"
	// and "vkrn".
	UnsupportedKerningType

	// VerticalKerningFormat2 indicates vertical kerning for a file in
	// format version 2.
	VerticalKerningFormat2

	// UnsupportedFeatureLanguage indicates feature code in a language
	// other than "fea".
	UnsupportedFeatureLanguage

	// FeatureSyntax indicates feature code which could not be split into
	// prefixes, classes and features.
	FeatureSyntax

	// NotImplemented indicates an operation which is not supported for
	// Glyphs files.
	NotImplemented
)

func (r Reason) String() string {
	switch r {
	case SkewUnsupported:
		return "skew unsupported"
	case BraceInSmartGlyph:
		return "brace layer in smart glyph"
	case IntermediateInSmartGlyph:
		return "intermediate layer in smart glyph"
	case AxisDefaultNotAtBound:
		return "axis default not at bound"
	case LayerWithoutSource:
		return "layer without source"
	case MissingSourceLayer:
		return "missing source layer"
	case BraceSecondaryLayer:
		return "secondary layer of brace layer"
	case UnknownLocationBase:
		return "unknown location base"
	case DuplicateSourceLocation:
		return "duplicate source location"
	case UnknownKerningSource:
		return "unknown kerning source"
	case UnsupportedKerningType:
		return "unsupported kerning type"
	case VerticalKerningFormat2:
		return "vertical kerning in format 2"
	case UnsupportedFeatureLanguage:
		return "unsupported feature language"
	case FeatureSyntax:
		return "feature syntax"
	case NotImplemented:
		return "not implemented"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// BackendError is returned when a request cannot be carried out, because
// the Glyphs format cannot represent the data, or because the data is
// inconsistent.  Errors of this type are detected before any change is
// made.
type BackendError struct {
	Reason Reason
	Msg    string
}

func (err *BackendError) Error() string {
	return "glyphs: " + err.Msg
}

// Is makes errors.Is(err, ErrNotImplemented) work for errors with reason
// NotImplemented.
func (err *BackendError) Is(target error) bool {
	if t, ok := target.(*BackendError); ok {
		return t.Reason == err.Reason && (t.Msg == "" || t.Msg == err.Msg)
	}
	return false
}

func newError(reason Reason, format string, args ...any) *BackendError {
	return &BackendError{
		Reason: reason,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// ErrNotImplemented is matched by all errors for operations which are not
// supported for Glyphs files.
var ErrNotImplemented = &BackendError{Reason: NotImplemented}

// ErrUnknownGlyph is returned when a glyph to be deleted does not exist.
var ErrUnknownGlyph = errors.New("unknown glyph")

// IsReason reports whether err is a BackendError with the given reason.
func IsReason(err error, reason Reason) bool {
	var e *BackendError
	return errors.As(err, &e) && e.Reason == reason
}

func notImplemented(what string) error {
	return newError(NotImplemented, "editing %s is not supported", what)
}
