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
	"regexp"
	"strings"

	"seehuhn.de/go/glyphs/fontra"
	"seehuhn.de/go/glyphs/gsfont"
	"seehuhn.de/go/glyphs/plist"
)

// Glyphs stores feature code in three lists: classes, prefixes and
// features.  For the Fontra model, these are combined into a single
// feature file.

const (
	automaticMarker   = "# automatic"
	disabledMarker    = "# disabled"
	prefixMarker      = "# Prefix: "
	anonymousPrefix   = "<anonymous>"
	featureBlockSep   = "\n\n"
	featuresKey       = "features"
	classesKey        = "classes"
	featurePrefixKey  = "featurePrefixes"
	featureCodeKey    = "code"
	featureAutoKey    = "automatic"
	featureDisableKey = "disabled"
)

var (
	featureStart = regexp.MustCompile(`^feature\s+(\S+)\s*\{\s*$`)
	classStart   = regexp.MustCompile(`^@(\S+) = \[ ?(.*)$`)
)

// featureBlock is a class, prefix or feature.
type featureBlock struct {
	kind      string // one of classesKey, featurePrefixKey, featuresKey
	name      string
	code      string
	automatic bool
	disabled  bool
}

func featureNameKey(format int) string {
	if format == gsfont.Format2 {
		return "name"
	}
	return "tag"
}

// readFeatures combines the feature code of a font into a feature file.
func readFeatures(f *gsfont.Font) *fontra.OpenTypeFeatures {
	d := f.Raw()
	var parts []string

	var classes []string
	for _, obj := range d.GetArray(classesKey) {
		cd, ok := obj.(*plist.Dict)
		if !ok {
			continue
		}
		name, _ := cd.GetString("name")
		if !strings.HasPrefix(name, "@") {
			name = "@" + name
		}
		code, _ := cd.GetString(featureCodeKey)
		classes = append(classes, automaticString(cd)+name+" = [ "+code+"\n];")
	}
	parts = appendNonEmpty(parts, strings.Join(classes, featureBlockSep))

	var prefixes []string
	for _, obj := range d.GetArray(featurePrefixKey) {
		pd, ok := obj.(*plist.Dict)
		if !ok {
			continue
		}
		var b strings.Builder
		if name, _ := pd.GetString("name"); name != "" && name != anonymousPrefix {
			b.WriteString(prefixMarker + name + "\n")
		}
		b.WriteString(automaticString(pd))
		code, _ := pd.GetString(featureCodeKey)
		b.WriteString(code)
		prefixes = append(prefixes, b.String())
	}
	parts = appendNonEmpty(parts, strings.Join(prefixes, featureBlockSep))

	var features []string
	for _, obj := range d.GetArray(featuresKey) {
		fd, ok := obj.(*plist.Dict)
		if !ok {
			continue
		}
		tag, _ := fd.GetString(featureNameKey(f.FormatVersion))
		code, _ := fd.GetString(featureCodeKey)
		lines := []string{"feature " + tag + " {"}
		if getFlag(fd, featureAutoKey) {
			lines = append(lines, automaticMarker)
		}
		if getFlag(fd, featureDisableKey) {
			lines = append(lines, disabledMarker)
			for _, line := range splitLines(code) {
				lines = append(lines, "#"+line)
			}
		} else {
			lines = append(lines, code)
		}
		lines = append(lines, "} "+tag+";")
		features = append(features, strings.Join(lines, "\n"))
	}
	parts = appendNonEmpty(parts, strings.Join(features, featureBlockSep))

	text := strings.Join(parts, featureBlockSep) + "\n"
	if strings.TrimSpace(text) == "" {
		text = ""
	}
	return &fontra.OpenTypeFeatures{
		Language: fontra.FeatureLanguageFea,
		Text:     text,
	}
}

func appendNonEmpty(parts []string, s string) []string {
	if s == "" {
		return parts
	}
	return append(parts, s)
}

func automaticString(d *plist.Dict) string {
	if getFlag(d, featureAutoKey) {
		return automaticMarker + "\n"
	}
	return ""
}

func getFlag(d *plist.Dict, key string) bool {
	x, _ := d.GetFloat(key)
	return x != 0
}

// splitLines splits text into lines.  A final newline does not start a
// new line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// parseFeatures splits a feature file into classes, prefixes and
// features.  Text outside of feature blocks is kept in prefixes.
// Classes are only recognized before the first prefix.
func parseFeatures(text string) ([]*featureBlock, error) {
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	n := len(lines)

	// isBlockStart reports whether a new prefix or feature starts at line i.
	isBlockStart := func(i int) bool {
		return strings.HasPrefix(lines[i], prefixMarker) || featureStart.MatchString(lines[i])
	}
	// skipSeparator skips the empty line between blocks
	skipSeparator := func(i int) int {
		if i < n && lines[i] == "" {
			return i + 1
		}
		return i
	}

	var blocks []*featureBlock
	seenPrefix := false
	i := 0
	for i < n {
		line := lines[i]

		automatic := false
		if !seenPrefix && line == automaticMarker && i+1 < n && classStart.MatchString(lines[i+1]) {
			automatic = true
			i++
			line = lines[i]
		}

		if m := classStart.FindStringSubmatch(line); m != nil && !seenPrefix {
			end := i
			for end < n && lines[end] != "];" {
				end++
			}
			if end == n {
				return nil, newError(FeatureSyntax, "line %d: unterminated class @%s", i+1, m[1])
			}
			code := append([]string{m[2]}, lines[i+1:end]...)
			blocks = append(blocks, &featureBlock{
				kind:      classesKey,
				name:      m[1],
				code:      strings.Join(code, "\n"),
				automatic: automatic,
			})
			i = skipSeparator(end + 1)
			continue
		}

		if m := featureStart.FindStringSubmatch(line); m != nil {
			tag := m[1]
			endLine := "} " + tag + ";"
			end := i + 1
			for end < n && lines[end] != endLine {
				end++
			}
			if end == n {
				return nil, newError(FeatureSyntax, "line %d: feature %s is not closed", i+1, tag)
			}
			fb := &featureBlock{kind: featuresKey, name: tag}
			body := lines[i+1 : end]
			if len(body) > 0 && body[0] == automaticMarker {
				fb.automatic = true
				body = body[1:]
			}
			if len(body) > 0 && body[0] == disabledMarker {
				fb.disabled = true
				body = body[1:]
				for k, line := range body {
					body[k] = strings.TrimPrefix(line, "#")
				}
			}
			fb.code = strings.Join(body, "\n")
			blocks = append(blocks, fb)
			i = skipSeparator(end + 1)
			continue
		}

		// everything else belongs to a prefix
		fb := &featureBlock{kind: featurePrefixKey, name: anonymousPrefix}
		if name, ok := strings.CutPrefix(line, prefixMarker); ok {
			fb.name = name
			i++
		}
		if i < n && lines[i] == automaticMarker {
			fb.automatic = true
			i++
		}
		end := i
		for end < n && !isBlockStart(end) {
			end++
		}
		body := lines[i:end]
		if len(body) > 0 && body[len(body)-1] == "" {
			// block separator, or the final newline
			body = body[:len(body)-1]
		}
		fb.code = strings.Join(body, "\n")
		seenPrefix = true
		i = end
		if fb.name == anonymousPrefix && strings.TrimSpace(fb.code) == "" {
			continue
		}
		blocks = append(blocks, fb)
	}
	return blocks, nil
}

// writeFeatures stores feature code in a copy of the font dictionary.
// Existing entries are reused where possible, so that keys not
// interpreted here are preserved.
func writeFeatures(f *gsfont.Font, features *fontra.OpenTypeFeatures) (*plist.Dict, error) {
	if features.Language != fontra.FeatureLanguageFea && features.Language != "" {
		return nil, newError(UnsupportedFeatureLanguage,
			"feature language %q not supported", features.Language)
	}
	blocks, err := parseFeatures(features.Text)
	if err != nil {
		return nil, err
	}

	format := f.FormatVersion
	font := f.Raw().Clone()

	old := map[string][]*plist.Dict{
		classesKey:       dictEntries(font, classesKey),
		featurePrefixKey: dictEntries(font, featurePrefixKey),
		featuresKey:      dictEntries(font, featuresKey),
	}
	lists := make(map[string]plist.Array)
	for _, fb := range blocks {
		nameKey := "name"
		if fb.kind == featuresKey {
			nameKey = featureNameKey(format)
		}

		var d *plist.Dict
		candidates := old[fb.kind]
		for k, cand := range candidates {
			name, _ := cand.GetString(nameKey)
			if name == fb.name || fb.kind == featurePrefixKey && fb.name == anonymousPrefix && name == "" {
				d = cand
				old[fb.kind] = append(candidates[:k:k], candidates[k+1:]...)
				break
			}
		}
		if d == nil {
			d = plist.NewDict()
			d.SetSorted(nameKey, plist.String(fb.name))
		}

		setFlag(d, featureAutoKey, fb.automatic)
		d.SetSorted(featureCodeKey, plist.String(fb.code))
		if fb.kind == featuresKey {
			setFlag(d, featureDisableKey, fb.disabled)
		}
		lists[fb.kind] = append(lists[fb.kind], d)
	}

	for _, key := range []string{classesKey, featurePrefixKey, featuresKey} {
		if len(lists[key]) > 0 {
			font.SetSorted(key, lists[key])
		} else {
			font.Delete(key)
		}
	}
	return font, nil
}

func dictEntries(d *plist.Dict, key string) []*plist.Dict {
	var res []*plist.Dict
	for _, obj := range d.GetArray(key) {
		if sub, ok := obj.(*plist.Dict); ok {
			res = append(res, sub)
		}
	}
	return res
}

func setFlag(d *plist.Dict, key string, value bool) {
	if value {
		d.SetSorted(key, plist.Integer(1))
	} else {
		d.Delete(key)
	}
}
