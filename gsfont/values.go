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

package gsfont

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/glyphs/plist"
)

// File format versions.
const (
	Format2 = 2
	Format3 = 3
)

// setOrDelete stores val under key, or removes key if val is nil.
func setOrDelete(d *plist.Dict, key string, val plist.Object) {
	if val == nil {
		d.Delete(key)
		return
	}
	d.SetSorted(key, val)
}

func cloneDict(d *plist.Dict) *plist.Dict {
	if d == nil {
		return plist.NewDict()
	}
	return d.Clone()
}

// formatNumber formats x the way Glyphs writes numbers inside strings.
// At most five decimal places are kept.
func formatNumber(x float64) string {
	x = roundNumber(x)
	if x == 0 {
		return "0" // avoid "-0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func roundNumber(x float64) float64 {
	return math.Round(x*1e5) / 1e5
}

// number converts x to a property list number, rounding to at most five
// decimal places.
func number(x float64) plist.Object {
	x = roundNumber(x)
	if x == 0 {
		return plist.Integer(0)
	}
	return plist.Number(x)
}

// parsePoint parses a point in Glyphs 2 notation, for example "{250, 700}".
func parsePoint(obj plist.Object) (x, y float64, err error) {
	vals, err := parseNumberList(obj, 2)
	if err != nil {
		return 0, 0, err
	}
	return vals[0], vals[1], nil
}

func formatPoint(x, y float64) plist.Object {
	return plist.String("{" + formatNumber(x) + ", " + formatNumber(y) + "}")
}

// parseNumberList parses a brace-delimited, comma-separated list of n
// numbers.
func parseNumberList(obj plist.Object, n int) ([]float64, error) {
	s, ok := plist.AsString(obj)
	if !ok {
		return nil, fmt.Errorf("expected a string, got %T", obj)
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d numbers in %q", n, s)
	}
	res := make([]float64, n)
	for i, part := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		res[i] = x
	}
	return res, nil
}

// getFloat returns the number stored under key, or def if the key is
// missing.
func getFloat(d *plist.Dict, key string, def float64) float64 {
	if x, ok := d.GetFloat(key); ok {
		return x
	}
	return def
}

func getString(d *plist.Dict, key string) string {
	s, _ := d.GetString(key)
	return s
}

func getBool(d *plist.Dict, key string) bool {
	x, _ := d.GetFloat(key)
	return x != 0
}

// getPos reads a Glyphs 3 position tuple.  Missing positions are at the
// origin.
func getPos(d *plist.Dict, key string) (x, y float64) {
	pos := d.GetArray(key)
	if len(pos) >= 2 {
		x, _ = plist.AsFloat(pos[0])
		y, _ = plist.AsFloat(pos[1])
	}
	return x, y
}

func posObject(x, y float64) plist.Object {
	if roundNumber(x) == 0 && roundNumber(y) == 0 {
		return nil
	}
	return plist.Array{number(x), number(y)}
}

func boolObject(b bool) plist.Object {
	if !b {
		return nil
	}
	return plist.Integer(1)
}

func nonZero(x float64) plist.Object {
	if roundNumber(x) == 0 {
		return nil
	}
	return number(x)
}

func dictList(d *plist.Dict, key string) []*plist.Dict {
	var res []*plist.Dict
	for _, obj := range d.GetArray(key) {
		if sub, ok := obj.(*plist.Dict); ok {
			res = append(res, sub)
		}
	}
	return res
}

// CustomParameter returns the value of the custom parameter with the given
// name from a list of custom parameters, or nil.  Disabled parameters are
// ignored.
func CustomParameter(d *plist.Dict, name string) plist.Object {
	for _, p := range dictList(d, "customParameters") {
		if getString(p, "name") != name || getBool(p, "disabled") {
			continue
		}
		return p.Get("value")
	}
	return nil
}
