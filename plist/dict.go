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

package plist

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Dict is a dictionary which remembers the order of its keys.
type Dict struct {
	keys []string
	vals map[string]Object

	// keyText holds the input text of keys which were not written in the
	// form quoteKey would use.
	keyText map[string]string
}

// NewDict allocates an empty dictionary.
func NewDict() *Dict {
	return &Dict{vals: make(map[string]Object)}
}

// Len returns the number of entries in d.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the keys of d, in order.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.keys)
}

// Has reports whether key is present in d.
func (d *Dict) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.vals[key]
	return ok
}

// Get returns the value stored under key, or nil if the key is not present.
func (d *Dict) Get(key string) Object {
	if d == nil {
		return nil
	}
	return d.vals[key]
}

// Set stores val under key.  Existing keys keep their position, new keys
// are appended.  If a String replaces a Verbatim with the same value, the
// Verbatim is kept.
func (d *Dict) Set(key string, val Object) {
	if d.vals == nil {
		d.vals = make(map[string]Object)
	}
	old, ok := d.vals[key]
	if !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = keepForm(old, val)
}

// keepForm returns old instead of val, if old is the same string as val
// in a different textual form.
func keepForm(old, val Object) Object {
	if s, ok := val.(String); ok {
		if v, ok := old.(Verbatim); ok && v.Value == string(s) {
			return v
		}
	}
	return val
}

// setKeyText records the input text of key.
func (d *Dict) setKeyText(key, text string) {
	if text == quoteKey(key) {
		return
	}
	if d.keyText == nil {
		d.keyText = make(map[string]string)
	}
	d.keyText[key] = text
}

// SetSorted stores val under key.  Existing keys keep their position, new
// keys are inserted before the first key which sorts after them.  When
// applied to a dictionary with sorted keys, the keys remain sorted.
func (d *Dict) SetSorted(key string, val Object) {
	if d.vals == nil {
		d.vals = make(map[string]Object)
	}
	old, ok := d.vals[key]
	if !ok {
		i := 0
		for i < len(d.keys) && d.keys[i] < key {
			i++
		}
		d.keys = slices.Insert(d.keys, i, key)
	}
	d.vals[key] = keepForm(old, val)
}

// Delete removes key from d.  Deleting a missing key is a no-op.
func (d *Dict) Delete(key string) {
	if d == nil {
		return
	}
	if _, ok := d.vals[key]; !ok {
		return
	}
	delete(d.vals, key)
	delete(d.keyText, key)
	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == key })
}

// SortKeys reorders the keys of d by byte-wise comparison.
func (d *Dict) SortKeys() {
	slices.Sort(d.keys)
}

// Clone returns a deep copy of d.
func (d *Dict) Clone() *Dict {
	if d == nil {
		return nil
	}
	res := &Dict{
		keys:    slices.Clone(d.keys),
		vals:    make(map[string]Object, len(d.vals)),
		keyText: maps.Clone(d.keyText),
	}
	for k, v := range d.vals {
		res.vals[k] = Clone(v)
	}
	return res
}

// GetDict returns the dictionary stored under key, or nil.
func (d *Dict) GetDict(key string) *Dict {
	sub, _ := d.Get(key).(*Dict)
	return sub
}

// GetArray returns the list stored under key.  Both Array and Tuple values
// are accepted.
func (d *Dict) GetArray(key string) []Object {
	return AsArray(d.Get(key))
}

// GetString returns the string stored under key.
func (d *Dict) GetString(key string) (string, bool) {
	return AsString(d.Get(key))
}

// GetFloat returns the number stored under key.
func (d *Dict) GetFloat(key string) (float64, bool) {
	return AsFloat(d.Get(key))
}

// GetInt returns the integer stored under key.
func (d *Dict) GetInt(key string) (int, bool) {
	x, ok := AsFloat(d.Get(key))
	return int(x), ok
}

// Clone returns a deep copy of obj.
func Clone(obj Object) Object {
	switch obj := obj.(type) {
	case *Dict:
		return obj.Clone()
	case Array:
		res := make(Array, len(obj))
		for i, x := range obj {
			res[i] = Clone(x)
		}
		return res
	case Tuple:
		res := make(Tuple, len(obj))
		for i, x := range obj {
			res[i] = Clone(x)
		}
		return res
	case Data:
		return slices.Clone(obj)
	default:
		return obj
	}
}

// AsArray returns the elements of an Array or Tuple.
func AsArray(obj Object) []Object {
	switch obj := obj.(type) {
	case Array:
		return obj
	case Tuple:
		return obj
	}
	return nil
}

// AsString converts a String, Verbatim, Token or number to a string.
func AsString(obj Object) (string, bool) {
	switch obj := obj.(type) {
	case String:
		return string(obj), true
	case Verbatim:
		return obj.Value, true
	case Token:
		return string(obj), true
	case Integer:
		return strconv.FormatInt(int64(obj), 10), true
	case Real:
		return formatReal(float64(obj)), true
	}
	return "", false
}

// AsFloat converts a number, or a String or Token holding a number, to
// float64.
func AsFloat(obj Object) (float64, bool) {
	switch obj := obj.(type) {
	case Integer:
		return float64(obj), true
	case Real:
		return float64(obj), true
	case Token:
		x, err := strconv.ParseFloat(string(obj), 64)
		return x, err == nil
	case String:
		x, err := strconv.ParseFloat(strings.TrimSpace(string(obj)), 64)
		return x, err == nil
	case Verbatim:
		x, err := strconv.ParseFloat(strings.TrimSpace(obj.Value), 64)
		return x, err == nil
	}
	return 0, false
}
