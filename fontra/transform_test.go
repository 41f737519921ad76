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
	"testing"

	"seehuhn.de/go/geom/matrix"
)

func matrixClose(a, b matrix.Matrix) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestDecomposeMatrix(t *testing.T) {
	cases := []matrix.Matrix{
		matrix.Identity,
		{1, 0, 0, 1, 100, -20},
		{-1, 0, 0, 1, 500, 0},
		{1, 0, 0, -1, 0, 700},
		{2, 0, 0, 3, 0, 0},
		{0, 1, -1, 0, 10, 10},
		{0.70711, 0.70711, -0.70711, 0.70711, 0, 0},
		{1, 0, 0.5, 1, 0, 0},
		{0, 2, -3, 0, 0, 0},
	}
	for _, m := range cases {
		d := DecomposeMatrix(m)
		if back := d.Matrix(); !matrixClose(m, back) {
			t.Errorf("%v: got %v back", m, back)
		}
	}
}

func TestDecomposedTransformMatrix(t *testing.T) {
	tr := DecomposedTransform{TranslateX: 10, TranslateY: 20, Rotation: 90, ScaleX: 1, ScaleY: 1}
	want := matrix.Matrix{0, 1, -1, 0, 10, 20}
	if got := tr.Matrix(); !matrixClose(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if IdentityTransform.Matrix() != matrix.Identity {
		t.Error("identity transform is not the identity matrix")
	}
}

func TestHasSkew(t *testing.T) {
	if DecomposeMatrix(matrix.Matrix{1, 0, 0.5, 1, 0, 0}).HasSkew() == false {
		t.Error("skew not detected")
	}
	if DecomposeMatrix(matrix.Matrix{0, 1, -1, 0, 0, 0}).HasSkew() {
		t.Error("rotation reported as skew")
	}
}
