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
	"strings"

	"golang.org/x/text/language"

	"seehuhn.de/go/glyphs/fontra"
	"seehuhn.de/go/glyphs/gsfont"
	"seehuhn.de/go/glyphs/plist"
)

// infoProperties lists the format 3 font properties used for the font
// info, together with the corresponding FontInfo field.
var infoProperties = []struct {
	key string
	set func(info *fontra.FontInfo, value string)
}{
	{"copyrights", func(info *fontra.FontInfo, v string) { info.Copyright = v }},
	{"designers", func(info *fontra.FontInfo, v string) { info.Designer = v }},
	{"designerURL", func(info *fontra.FontInfo, v string) { info.DesignerURL = v }},
	{"licenses", func(info *fontra.FontInfo, v string) { info.LicenseDescription = v }},
	{"licenseURL", func(info *fontra.FontInfo, v string) { info.LicenseInfoURL = v }},
	{"manufacturers", func(info *fontra.FontInfo, v string) { info.Manufacturer = v }},
	{"manufacturerURL", func(info *fontra.FontInfo, v string) { info.ManufacturerURL = v }},
	{"trademarks", func(info *fontra.FontInfo, v string) { info.Trademark = v }},
	{"vendorID", func(info *fontra.FontInfo, v string) { info.VendorID = v }},
	{"descriptions", func(info *fontra.FontInfo, v string) { info.Description = v }},
	{"sampleTexts", func(info *fontra.FontInfo, v string) { info.SampleText = v }},
}

// Format 2 files store some of the font info as top-level keys, and some
// as custom parameters.
var (
	infoKeys2 = []struct {
		key string
		set func(info *fontra.FontInfo, value string)
	}{
		{"copyright", func(info *fontra.FontInfo, v string) { info.Copyright = v }},
		{"designer", func(info *fontra.FontInfo, v string) { info.Designer = v }},
		{"designerURL", func(info *fontra.FontInfo, v string) { info.DesignerURL = v }},
		{"manufacturer", func(info *fontra.FontInfo, v string) { info.Manufacturer = v }},
		{"manufacturerURL", func(info *fontra.FontInfo, v string) { info.ManufacturerURL = v }},
	}
	infoParams2 = []struct {
		name string
		set  func(info *fontra.FontInfo, value string)
	}{
		{"license", func(info *fontra.FontInfo, v string) { info.LicenseDescription = v }},
		{"licenseURL", func(info *fontra.FontInfo, v string) { info.LicenseInfoURL = v }},
		{"trademark", func(info *fontra.FontInfo, v string) { info.Trademark = v }},
		{"vendorID", func(info *fontra.FontInfo, v string) { info.VendorID = v }},
		{"description", func(info *fontra.FontInfo, v string) { info.Description = v }},
		{"sampleText", func(info *fontra.FontInfo, v string) { info.SampleText = v }},
	}
)

// readFontInfo extracts the naming information of a font.  Localized
// values are chosen for the given language, if available.
func readFontInfo(f *gsfont.Font, lang language.Tag) *fontra.FontInfo {
	d := f.Raw()
	info := &fontra.FontInfo{}

	info.FamilyName, _ = d.GetString("familyName")
	if v, ok := d.GetInt("versionMajor"); ok {
		info.VersionMajor = &v
	}
	if v, ok := d.GetInt("versionMinor"); ok {
		info.VersionMinor = &v
	}

	if f.FormatVersion == gsfont.Format2 {
		for _, entry := range infoKeys2 {
			if v, ok := d.GetString(entry.key); ok {
				entry.set(info, v)
			}
		}
		for _, entry := range infoParams2 {
			if v, ok := plist.AsString(f.CustomParameter(entry.name)); ok {
				entry.set(info, v)
			}
		}
		return info
	}

	properties := make(map[string]*plist.Dict)
	for _, obj := range d.GetArray("properties") {
		pd, ok := obj.(*plist.Dict)
		if !ok {
			continue
		}
		if key, _ := pd.GetString("key"); key != "" {
			properties[key] = pd
		}
	}
	langCode := glyphsLanguageCode(lang)
	for _, entry := range infoProperties {
		pd := properties[entry.key]
		if pd == nil {
			continue
		}
		if v, ok := propertyValue(pd, langCode); ok {
			entry.set(info, v)
		}
	}
	return info
}

// glyphsLanguageCode returns the upper case three-letter code which
// Glyphs uses for the given language.
func glyphsLanguageCode(lang language.Tag) string {
	base, _ := lang.Base()
	return strings.ToUpper(base.ISO3())
}

// propertyValue returns the value of a font property.  For localized
// properties, the value for langCode is used if present, then the
// default value, then the first value.
func propertyValue(pd *plist.Dict, langCode string) (string, bool) {
	if v, ok := pd.GetString("value"); ok {
		return v, true
	}

	var values []*plist.Dict
	for _, obj := range pd.GetArray("values") {
		if vd, ok := obj.(*plist.Dict); ok {
			values = append(values, vd)
		}
	}
	if len(values) == 0 {
		return "", false
	}
	for _, want := range []string{langCode, "dflt"} {
		for _, vd := range values {
			if l, _ := vd.GetString("language"); l == want {
				return vd.GetString("value")
			}
		}
	}
	return values[0].GetString("value")
}

// readSources converts the masters of a font into font sources.
func (ds *designSpace) readSources(f *gsfont.Font) map[string]*fontra.FontSource {
	res := make(map[string]*fontra.FontSource, len(f.Masters))
	for _, m := range f.Masters {
		src := &fontra.FontSource{
			Name:        m.Name,
			Location:    ds.masterLocation[m.ID].Clone(),
			ItalicAngle: m.ItalicAngle,
			LineMetricsHorizontalLayout: map[string]*fontra.LineMetric{
				"ascender":  lineMetric(m, m.Ascender),
				"capHeight": lineMetric(m, m.CapHeight),
				"xHeight":   lineMetric(m, m.XHeight),
				"baseline":  lineMetric(m, 0),
				"descender": lineMetric(m, m.Descender),
			},
			Guidelines: make([]*fontra.Guideline, 0, len(m.Guides)),
		}
		for _, g := range m.Guides {
			src.Guidelines = append(src.Guidelines, guideline(g))
		}
		res[m.ID] = src
	}
	return res
}

// lineMetric returns a line metric, together with the size of the
// alignment zone at the same position.
func lineMetric(m *gsfont.Master, value float64) *fontra.LineMetric {
	res := &fontra.LineMetric{Value: value}
	for _, z := range m.Zones {
		if z.Position == value {
			res.Zone = z.Size
			break
		}
	}
	return res
}
