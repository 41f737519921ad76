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
	"slices"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/glyphs/plist"
)

// ToAny converts a property list object to plain Go values: strings,
// int, float64, []byte, []any and map[string]any.
func ToAny(obj plist.Object) any {
	switch obj := obj.(type) {
	case plist.String:
		return string(obj)
	case plist.Verbatim:
		return obj.Value
	case plist.Token:
		return string(obj)
	case plist.Integer:
		return int(obj)
	case plist.Real:
		return float64(obj)
	case plist.Data:
		return []byte(obj)
	case plist.Array:
		return listToAny(obj)
	case plist.Tuple:
		return listToAny(obj)
	case *plist.Dict:
		return DictToMap(obj)
	}
	return nil
}

func listToAny(list []plist.Object) []any {
	res := make([]any, len(list))
	for i, item := range list {
		res[i] = ToAny(item)
	}
	return res
}

// DictToMap converts a property list dictionary to a map.
func DictToMap(d *plist.Dict) map[string]any {
	res := make(map[string]any, d.Len())
	for _, key := range d.Keys() {
		res[key] = ToAny(d.Get(key))
	}
	return res
}

// FromAny converts plain Go values back to property list objects.
// Map keys are written in sorted order.  Values of unsupported types are
// dropped.
func FromAny(v any) plist.Object {
	switch v := v.(type) {
	case plist.Object:
		return v
	case string:
		return plist.String(v)
	case int:
		return plist.Integer(v)
	case int64:
		return plist.Integer(v)
	case float64:
		return plist.Number(v)
	case bool:
		if v {
			return plist.Integer(1)
		}
		return plist.Integer(0)
	case []byte:
		return plist.Data(v)
	case []any:
		res := make(plist.Array, 0, len(v))
		for _, item := range v {
			if obj := FromAny(item); obj != nil {
				res = append(res, obj)
			}
		}
		return res
	case []float64:
		res := make(plist.Array, len(v))
		for i, x := range v {
			res[i] = plist.Number(x)
		}
		return res
	case []int:
		res := make(plist.Array, len(v))
		for i, x := range v {
			res[i] = plist.Integer(x)
		}
		return res
	case map[string]any:
		return MapToDict(v)
	}
	return nil
}

// MapToDict converts a map to a property list dictionary with sorted keys.
func MapToDict(m map[string]any) *plist.Dict {
	d := plist.NewDict()
	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, key := range keys {
		if obj := FromAny(m[key]); obj != nil {
			d.Set(key, obj)
		}
	}
	return d
}
