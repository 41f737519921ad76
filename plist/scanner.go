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
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	tstrconv "github.com/tdewolff/parse/v2/strconv"
)

const scannerBufSize = 1024

type scanner struct {
	r         io.Reader
	buf       []byte
	used, pos int

	total int64
}

func newScanner(r io.Reader) *scanner {
	return &scanner{
		r:   r,
		buf: make([]byte, scannerBufSize),
	}
}

// Parse reads a complete property list from data.
func Parse(data []byte) (Object, error) {
	return Read(bytes.NewReader(data))
}

// Read reads a complete property list from r.
func Read(r io.Reader) (Object, error) {
	s := newScanner(r)
	err := s.SkipWhiteSpace()
	if err != nil {
		return nil, err
	}
	obj, err := s.ReadObject()
	if err != nil {
		return nil, err
	}
	err = s.SkipWhiteSpace()
	if err != nil && err != io.EOF {
		return nil, err
	}
	buf, _ := s.Peek(1)
	if len(buf) > 0 {
		return nil, &MalformedFileError{
			Pos: s.filePos(),
			Err: fmt.Errorf("unexpected %q after end of data", buf),
		}
	}
	return obj, nil
}

// ParseDict reads a property list which must consist of a dictionary.
func ParseDict(data []byte) (*Dict, error) {
	obj, err := Parse(data)
	if err != nil {
		return nil, err
	}
	d, ok := obj.(*Dict)
	if !ok {
		return nil, &MalformedFileError{Err: errors.New("top-level object is not a dictionary")}
	}
	return d, nil
}

func (s *scanner) filePos() int64 {
	return s.total + int64(s.pos)
}

// ReadObject reads the next object.  Leading white space must already have
// been skipped.
func (s *scanner) ReadObject() (Object, error) {
	buf, err := s.Peek(1)
	if len(buf) == 0 {
		if err == nil {
			err = &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
		}
		return nil, err
	}

	switch buf[0] {
	case '{':
		s.pos++
		return s.ReadDict()
	case '(':
		s.pos++
		return s.ReadArray()
	case '"', '\'':
		s.pos++
		return s.ReadQuotedString(buf[0])
	case '<':
		s.pos++
		return s.ReadData()
	}
	return s.ReadWord()
}

// ReadWord reads an unquoted word.  Words which look like numbers are
// converted to Integer or Real, if the conversion can be reversed without
// changing the text.  Other number-like words are returned as Token.
func (s *scanner) ReadWord() (Object, error) {
	var res []byte
	err := s.ScanBytes(func(c byte) bool {
		if isSpace[c] || isDelimiter[c] {
			return false
		}
		res = append(res, c)
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		buf, _ := s.Peek(1)
		return nil, &MalformedFileError{
			Pos: s.filePos(),
			Err: fmt.Errorf("unexpected %q", buf),
		}
	}

	word := string(res)
	if !looksNumeric(word) {
		if !isBare(word) {
			return Verbatim{Value: word, Text: word}, nil
		}
		return String(word), nil
	}
	if x, ok := parseNumber(res); ok {
		return x, nil
	}
	return Token(word), nil
}

// parseNumber converts a word to a number, if the canonical formatting of
// the number gives back the word.
func parseNumber(word []byte) (Object, bool) {
	if bytes.IndexByte(word, '.') < 0 {
		x, n := tstrconv.ParseInt(word)
		if n == 0 || n != len(word) || strconv.FormatInt(x, 10) != string(word) {
			return nil, false
		}
		return Integer(x), true
	}

	// The decimal parser only validates the syntax, the value is computed
	// by strconv to get correct rounding.
	_, n := tstrconv.ParseDecimal(word)
	if n == 0 || n != len(word) {
		return nil, false
	}
	x, err := strconv.ParseFloat(string(word), 64)
	if err != nil || formatReal(x) != string(word) {
		return nil, false
	}
	return Real(x), true
}

// ReadQuotedString reads a quoted string, starting after the opening quote.
// The result is a String if writing the String reproduces the input text,
// and a Verbatim otherwise.
func (s *scanner) ReadQuotedString(delim byte) (Object, error) {
	var res []byte
	raw := []byte{delim}
	escape := false
	octal := 0
	var octalVal rune
	hex := 0
	var hexVal rune
	step := func(c byte) bool {
		if octal > 0 {
			if c >= '0' && c <= '7' {
				octalVal = octalVal*8 + rune(c-'0')
				octal--
				if octal > 0 {
					return true
				}
				res = utf8.AppendRune(res, octalVal)
				return true
			}
			octal = 0
			res = utf8.AppendRune(res, octalVal)
		}
		if hex > 0 {
			var d rune
			switch {
			case c >= '0' && c <= '9':
				d = rune(c - '0')
			case c >= 'a' && c <= 'f':
				d = rune(c-'a') + 10
			case c >= 'A' && c <= 'F':
				d = rune(c-'A') + 10
			default:
				hex = 0
				res = utf8.AppendRune(res, hexVal)
				goto plain
			}
			hexVal = hexVal*16 + d
			hex--
			if hex == 0 {
				res = utf8.AppendRune(res, hexVal)
			}
			return true
		}
	plain:
		if escape {
			escape = false
			switch c {
			case 'n':
				c = '\n'
			case 'r':
				c = '\r'
			case 't':
				c = '\t'
			case 'a':
				c = '\a'
			case 'b':
				c = '\b'
			case 'f':
				c = '\f'
			case 'v':
				c = '\v'
			case 'U':
				hex = 4
				hexVal = 0
				return true
			}
			if c >= '0' && c <= '7' {
				octal = 2
				octalVal = rune(c - '0')
				return true
			}
		} else if c == '\\' {
			escape = true
			return true
		} else if c == delim {
			return false
		}
		res = append(res, c)
		return true
	}
	err := s.ScanBytes(func(c byte) bool {
		if !step(c) {
			return false
		}
		raw = append(raw, c)
		return true
	})
	if err != nil {
		return nil, err
	}
	if octal > 0 {
		res = utf8.AppendRune(res, octalVal)
	}

	err = s.SkipString(string(delim))
	if err != nil {
		return nil, err
	}
	raw = append(raw, delim)

	str := String(res)
	if quote(string(str)) != string(raw) {
		return Verbatim{Value: string(str), Text: string(raw)}, nil
	}
	return str, nil
}

// ReadData reads a <>-delimited hex string, starting after the opening
// angled bracket.
func (s *scanner) ReadData() (Data, error) {
	res := Data{}
	var hexVal byte
	first := true
	err := s.ScanBytes(func(c byte) bool {
		var d byte
		if c >= '0' && c <= '9' {
			d = c - '0'
		} else if c >= 'A' && c <= 'F' {
			d = c - 'A' + 10
		} else if c >= 'a' && c <= 'f' {
			d = c - 'a' + 10
		} else if c == '>' {
			return false
		} else {
			return true
		}
		if first {
			hexVal = d
		} else {
			res = append(res, 16*hexVal+d)
		}
		first = !first
		return true
	})
	if err != nil {
		return nil, err
	}
	if !first {
		res = append(res, 16*hexVal)
	}

	err = s.SkipString(">")
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ReadArray reads an array, starting after the opening "(".
func (s *scanner) ReadArray() (Array, error) {
	array := Array{}
	for {
		err := s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}

		buf, err := s.Peek(1)
		if len(buf) == 0 {
			return nil, s.unexpectedEOF(err)
		}
		if buf[0] == ')' {
			break
		}

		obj, err := s.ReadObject()
		if err != nil {
			return nil, err
		}
		array = append(array, obj)

		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}
		buf, err = s.Peek(1)
		if len(buf) == 0 {
			return nil, s.unexpectedEOF(err)
		}
		if buf[0] == ',' {
			s.pos++
		} else if buf[0] != ')' {
			return nil, &MalformedFileError{
				Pos: s.filePos(),
				Err: fmt.Errorf("expected ',' or ')' but found %q", buf),
			}
		}
	}
	s.pos++ // we have already seen the closing ")"

	return array, nil
}

// ReadDict reads a dictionary, starting after the opening "{".
func (s *scanner) ReadDict() (*Dict, error) {
	dict := NewDict()
	for {
		err := s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}

		buf, err := s.Peek(1)
		if len(buf) == 0 {
			return nil, s.unexpectedEOF(err)
		}
		if buf[0] == '}' {
			break
		}

		keyObj, err := s.ReadObject()
		if err != nil {
			return nil, err
		}
		var key, keyText string
		switch k := keyObj.(type) {
		case String:
			key = string(k)
			keyText = quote(key)
		case Verbatim:
			key = k.Value
			keyText = k.Text
		case Token, Integer, Real:
			key, _ = AsString(k)
			keyText = key
		default:
			return nil, &MalformedFileError{
				Pos: s.filePos(),
				Err: errors.New("invalid dictionary key"),
			}
		}

		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}
		err = s.SkipString("=")
		if err != nil {
			return nil, err
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}

		val, err := s.ReadObject()
		if err != nil {
			return nil, err
		}

		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}
		err = s.SkipString(";")
		if err != nil {
			return nil, err
		}

		dict.Set(key, val)
		dict.setKeyText(key, keyText)
	}
	s.pos++ // we have already seen the closing "}"

	return dict, nil
}

func (s *scanner) unexpectedEOF(err error) error {
	if err != nil && err != io.EOF {
		return err
	}
	return &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
}

// Refill discards the read part of the buffer and reads as much new data as
// possible.  Once the end of file is reached, s.used will be smaller than the
// buffer size, but no error will be returned.
func (s *scanner) refill() error {
	s.total += int64(s.pos)
	copy(s.buf, s.buf[s.pos:s.used])
	s.used -= s.pos
	s.pos = 0

	n, err := io.ReadFull(s.r, s.buf[s.used:])
	s.used += n

	if s.used > 0 || err == io.ErrUnexpectedEOF || err == io.EOF {
		err = nil
	}

	return err
}

// Peek returns a view of the next n bytes of input.  The function panics, if n
// is larger than scannerBufSize.  On EOF, short buffers without an error code
// will be returned.
func (s *scanner) Peek(n int) ([]byte, error) {
	if n > scannerBufSize {
		panic("peek window too large")
	}

	var err error
	if s.pos+n > s.used {
		err = s.refill()
	}

	if s.pos+n > s.used {
		return s.buf[s.pos:s.used], err
	}

	return s.buf[s.pos : s.pos+n], nil
}

// ScanBytes feeds input bytes to accept, until accept returns false.  The
// rejected byte is not consumed.  Reaching the end of input is not an
// error.
func (s *scanner) ScanBytes(accept func(c byte) bool) error {
	for {
		for s.pos < s.used {
			if !accept(s.buf[s.pos]) {
				return nil
			}
			s.pos++
		}
		err := s.refill()
		if err != nil {
			return err
		}
		if s.used == 0 {
			return nil
		}
	}
}

// SkipWhiteSpace skips white space as well as "//" and "/* */" comments.
func (s *scanner) SkipWhiteSpace() error {
	for {
		err := s.ScanBytes(func(c byte) bool {
			return isSpace[c]
		})
		if err != nil {
			return err
		}

		buf, err := s.Peek(2)
		if err != nil {
			return err
		}
		switch {
		case bytes.Equal(buf, []byte("//")):
			err = s.ScanBytes(func(c byte) bool {
				return c != '\n'
			})
		case bytes.Equal(buf, []byte("/*")):
			s.pos += 2
			err = s.skipAfter("*/")
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *scanner) SkipString(pat string) error {
	patBytes := []byte(pat)
	n := len(patBytes)
	buf, err := s.Peek(n)
	if err != nil {
		return err
	}
	if !bytes.Equal(buf, patBytes) {
		return &MalformedFileError{
			Pos: s.filePos(),
			Err: fmt.Errorf("expected %q but found %q", pat, string(buf)),
		}
	}
	s.pos += n
	return nil
}

func (s *scanner) skipAfter(pat string) error {
	patBytes := []byte(pat)
	n := len(patBytes)

	for {
		idx := bytes.Index(s.buf[s.pos:s.used], patBytes)
		if idx >= 0 {
			s.pos += idx + n
			return nil
		}
		if s.used-s.pos >= n {
			s.pos = s.used - n + 1
		}
		before := s.used - s.pos
		err := s.refill()
		if err != nil {
			return err
		}
		if s.used == before {
			return &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
		}
	}
}

var (
	isSpace = [256]bool{
		'\t': true,
		'\n': true,
		'\v': true,
		'\f': true,
		'\r': true,
		' ':  true,
	}
	isDelimiter = [256]bool{
		'(': true,
		')': true,
		'{': true,
		'}': true,
		'<': true,
		'>': true,
		',': true,
		';': true,
		'=': true,
		'"': true,
		'\'': true,
	}
)
