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
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Object represents a node in an OpenStep property list.  The concrete types
// are String, Verbatim, Token, Integer, Real, Data, Array, Tuple and *Dict.
type Object interface {
	// Plist writes the textual representation of the object to w.
	Plist(w io.Writer) error
}

// String represents a string value.  When written, the string is quoted
// only if it cannot be represented as a bare word.
type String string

// Plist implements the Object interface.
func (x String) Plist(w io.Writer) error {
	_, err := io.WriteString(w, quote(string(x)))
	return err
}

// Verbatim is a string value which was written in the input in a form
// different from the one String would use, for example a quoted word which
// does not need quotes.  Text holds the exact input text, including any
// quotes, and is written back unchanged.
type Verbatim struct {
	Value string
	Text  string
}

// Plist implements the Object interface.
func (x Verbatim) Plist(w io.Writer) error {
	_, err := io.WriteString(w, x.Text)
	return err
}

// Token is a bare word which looked like a number in the input, but whose
// text cannot be reproduced by formatting the number.  An example is the
// hexadecimal code point "0041" in Glyphs 2 files.  Tokens are written back
// verbatim.
type Token string

// Plist implements the Object interface.
func (x Token) Plist(w io.Writer) error {
	_, err := io.WriteString(w, string(x))
	return err
}

// Integer represents an integer number.
type Integer int64

// Plist implements the Object interface.
func (x Integer) Plist(w io.Writer) error {
	_, err := io.WriteString(w, strconv.FormatInt(int64(x), 10))
	return err
}

// Real represents a floating point number.
type Real float64

// Plist implements the Object interface.
func (x Real) Plist(w io.Writer) error {
	_, err := io.WriteString(w, formatReal(float64(x)))
	return err
}

func formatReal(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// Data represents binary data, written as <hex>.
type Data []byte

// Plist implements the Object interface.
func (x Data) Plist(w io.Writer) error {
	_, err := fmt.Fprintf(w, "<%x>", []byte(x))
	return err
}

// Array represents a list of objects.  Arrays are written with one element
// per line.
type Array []Object

// Plist implements the Object interface.
func (x Array) Plist(w io.Writer) error {
	if _, err := io.WriteString(w, "(\n"); err != nil {
		return err
	}
	for i, obj := range x {
		if i > 0 {
			if _, err := io.WriteString(w, ",\n"); err != nil {
				return err
			}
		}
		if err := writeObject(w, obj); err != nil {
			return err
		}
	}
	if len(x) > 0 {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ")")
	return err
}

// Tuple represents a short list of objects which is written on a single
// line, for example a coordinate pair "(100,200)".
type Tuple []Object

// Plist implements the Object interface.
func (x Tuple) Plist(w io.Writer) error {
	if _, err := io.WriteString(w, "("); err != nil {
		return err
	}
	for i, obj := range x {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := writeObject(w, obj); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ")")
	return err
}

// Plist implements the Object interface.
func (d *Dict) Plist(w io.Writer) error {
	if _, err := io.WriteString(w, "{\n"); err != nil {
		return err
	}
	for _, key := range d.keys {
		text, ok := d.keyText[key]
		if !ok {
			text = quoteKey(key)
		}
		if _, err := io.WriteString(w, text+" = "); err != nil {
			return err
		}
		if err := writeObject(w, d.vals[key]); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ";\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}")
	return err
}

func writeObject(w io.Writer, obj Object) error {
	if obj == nil {
		_, err := io.WriteString(w, `""`)
		return err
	}
	return obj.Plist(w)
}

// Write writes obj to w, followed by a newline.
func Write(w io.Writer, obj Object) error {
	err := writeObject(w, obj)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// Format returns the textual representation of obj, followed by a newline.
func Format(obj Object) []byte {
	buf := &bytes.Buffer{}
	_ = Write(buf, obj) // bytes.Buffer does not fail
	return buf.Bytes()
}

// Number returns an Integer if x has an integral value, and a Real
// otherwise.
func Number(x float64) Object {
	if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
		return Integer(x)
	}
	return Real(x)
}

// quote returns the representation of s as a bare word if possible,
// and as a quoted string otherwise.
func quote(s string) string {
	if isBare(s) {
		return s
	}
	return quoteAlways(s)
}

// quoteKey returns the representation of a dictionary key.  Keys are read
// back as strings, so number-like keys such as "100" can stay bare.
func quoteKey(s string) string {
	if s == "" || !hasBareChars(s) {
		return quoteAlways(s)
	}
	return s
}

func quoteAlways(s string) string {
	buf := &bytes.Buffer{}
	buf.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r < 0x20:
			fmt.Fprintf(buf, `\%03o`, r)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}

// isBare reports whether s can be written without quotes.  Words which
// could be mistaken for numbers are always quoted.
func isBare(s string) bool {
	if s == "" || looksNumeric(s) {
		return false
	}
	return hasBareChars(s)
}

func hasBareChars(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isBareChar[s[i]] {
			return false
		}
	}
	return true
}

// looksNumeric reports whether a bare word is read as a number or Token,
// rather than as a String.
func looksNumeric(s string) bool {
	c := s[0]
	if c >= '0' && c <= '9' || c == '-' || c == '+' {
		return true
	}
	return c == '.' && (len(s) == 1 || s[1] >= '0' && s[1] <= '9')
}

var isBareChar [256]bool

func init() {
	for c := 'a'; c <= 'z'; c++ {
		isBareChar[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		isBareChar[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		isBareChar[c] = true
	}
	for _, c := range "._$/" {
		isBareChar[c] = true
	}
}
