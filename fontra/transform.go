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

import (
	"math"

	"seehuhn.de/go/geom/matrix"
)

// DecomposedTransform describes an affine transformation by its
// geometric parameters.  Angles are given in degrees.  The transformation
// first moves the center (TCenterX, TCenterY) to the origin, then applies
// skew, scale and rotation, and finally moves the origin to the translated
// center.
type DecomposedTransform struct {
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	Rotation   float64 `json:"rotation"`
	ScaleX     float64 `json:"scaleX"`
	ScaleY     float64 `json:"scaleY"`
	SkewX      float64 `json:"skewX"`
	SkewY      float64 `json:"skewY"`
	TCenterX   float64 `json:"tCenterX"`
	TCenterY   float64 `json:"tCenterY"`
}

// IdentityTransform is the decomposed identity transformation.
var IdentityTransform = DecomposedTransform{ScaleX: 1, ScaleY: 1}

// Matrix returns the transformation as a matrix.
func (t DecomposedTransform) Matrix() matrix.Matrix {
	skew := matrix.Matrix{
		1, math.Tan(t.SkewY * math.Pi / 180),
		math.Tan(t.SkewX * math.Pi / 180), 1,
		0, 0,
	}
	return matrix.Translate(-t.TCenterX, -t.TCenterY).
		Mul(skew).
		Mul(matrix.Scale(t.ScaleX, t.ScaleY)).
		Mul(matrix.RotateDeg(t.Rotation)).
		Mul(matrix.Translate(t.TranslateX+t.TCenterX, t.TranslateY+t.TCenterY))
}

// DecomposeMatrix computes the parameters of a transformation matrix.
// The center of the returned transformation is the origin.
func DecomposeMatrix(m matrix.Matrix) DecomposedTransform {
	a, b, c, d, x, y := m[0], m[1], m[2], m[3], m[4], m[5]

	sx := math.Copysign(1, a)
	if sx < 0 {
		a *= sx
		b *= sx
	}
	delta := a*d - b*c

	var rotation, scaleX, scaleY, skewX, skewY float64
	switch {
	case a != 0 || b != 0:
		r := math.Hypot(a, b)
		rotation = math.Acos(a / r)
		if b < 0 {
			rotation = -rotation
		}
		scaleX, scaleY = r, delta/r
		skewX = math.Atan((a*c + b*d) / (r * r))
	case c != 0 || d != 0:
		s := math.Hypot(c, d)
		if d >= 0 {
			rotation = math.Pi/2 - math.Acos(-c/s)
		} else {
			rotation = math.Pi/2 + math.Acos(c/s)
		}
		scaleX, scaleY = delta/s, s
		skewY = math.Atan((a*c + b*d) / (s * s))
	}

	return DecomposedTransform{
		TranslateX: x,
		TranslateY: y,
		Rotation:   rotation * 180 / math.Pi,
		ScaleX:     scaleX * sx,
		ScaleY:     scaleY,
		SkewX:      skewX * 180 / math.Pi * sx,
		SkewY:      skewY * 180 / math.Pi,
	}
}

// HasSkew reports whether t contains a non-negligible skew.
func (t DecomposedTransform) HasSkew() bool {
	const eps = 1e-9
	return math.Abs(t.SkewX) > eps || math.Abs(t.SkewY) > eps
}
