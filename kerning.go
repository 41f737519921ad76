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
	"slices"
	"strings"

	"seehuhn.de/go/glyphs/fontra"
	"seehuhn.de/go/glyphs/gsfont"
	"seehuhn.de/go/glyphs/plist"
)

// kernSide describes one side of a kerning pair.
type kernSide struct {
	// prefix marks group names in the kerning dictionaries
	prefix string

	// attr2 and attr3 are the glyph keys which hold the group name, in
	// format 2 and format 3 files.
	attr2 string
	attr3 string
}

// The group of the left side of a kerning pair is determined by the right
// side of the glyph, and vice versa.
var (
	kernLeft   = &kernSide{"@MMK_L_", "rightKerningGroup", "kernRight"}
	kernRight  = &kernSide{"@MMK_R_", "leftKerningGroup", "kernLeft"}
	kernTop    = &kernSide{"@MMK_T_", "bottomKerningGroup", "kernBottom"}
	kernBottom = &kernSide{"@MMK_B_", "topKerningGroup", "kernTop"}

	allKernSides = []*kernSide{kernLeft, kernRight, kernTop, kernBottom}
)

func (s *kernSide) attr(format int) string {
	if format == gsfont.Format2 {
		return s.attr2
	}
	return s.attr3
}

// kerningType describes one of the kerning tables of a font.
type kerningType struct {
	name         string
	key2, key3   string
	side1, side2 *kernSide
}

var kerningTypes = []*kerningType{
	{fontra.KerningHorizontal, "kerning", "kerningLTR", kernLeft, kernRight},
	{fontra.KerningVertical, "vertKerning", "kerningVertical", kernTop, kernBottom},
}

func (kt *kerningType) key(format int) string {
	if format == gsfont.Format2 {
		return kt.key2
	}
	return kt.key3
}

// kerningGroups collects the kerning groups from the glyph records.
// Group members are listed in glyph order.
func kerningGroups(glyphs []*plist.Dict, format int) map[*kernSide]map[string][]string {
	res := make(map[*kernSide]map[string][]string, len(allKernSides))
	for _, side := range allKernSides {
		res[side] = make(map[string][]string)
	}
	for _, gd := range glyphs {
		name := glyphName(gd)
		for _, side := range allKernSides {
			group, _ := gd.GetString(side.attr(format))
			if group != "" {
				res[side][group] = append(res[side][group], name)
			}
		}
	}
	return res
}

// readKerning converts the kerning tables of a font.  Empty tables are
// omitted.
func readKerning(f *gsfont.Font, glyphs []*plist.Dict, defaultMasterID string) map[string]*fontra.Kerning {
	format := f.FormatVersion
	groups := kerningGroups(glyphs, format)

	res := make(map[string]*fontra.Kerning)
	for _, kt := range kerningTypes {
		k := &fontra.Kerning{
			GroupsSide1:       cloneGroups(groups[kt.side1]),
			GroupsSide2:       cloneGroups(groups[kt.side2]),
			SourceIdentifiers: []string{},
			Values:            make(map[string]map[string][]*float64),
		}

		table := f.Raw().GetDict(kt.key(format))
		perMaster := make(map[string]map[string]map[string]float64)
		for _, m := range f.Masters {
			md := table.GetDict(m.ID)
			if md.Len() == 0 && m.ID != defaultMasterID {
				continue
			}
			k.SourceIdentifiers = append(k.SourceIdentifiers, m.ID)

			for _, left := range md.Keys() {
				rd := md.GetDict(left)
				name1 := groupRef(left, kt.side1.prefix)
				for _, right := range rd.Keys() {
					value, ok := rd.GetFloat(right)
					if !ok {
						continue
					}
					name2 := groupRef(right, kt.side2.prefix)
					if perMaster[name1] == nil {
						perMaster[name1] = make(map[string]map[string]float64)
					}
					if perMaster[name1][name2] == nil {
						perMaster[name1][name2] = make(map[string]float64)
					}
					perMaster[name1][name2][m.ID] = value
				}
			}
		}

		for name1, row := range perMaster {
			k.Values[name1] = make(map[string][]*float64, len(row))
			for name2, byMaster := range row {
				values := make([]*float64, len(k.SourceIdentifiers))
				for i, id := range k.SourceIdentifiers {
					if v, ok := byMaster[id]; ok {
						values[i] = &v
					}
				}
				k.Values[name1][name2] = values
			}
		}

		if !k.IsEmpty() {
			res[kt.name] = k
		}
	}
	return res
}

func cloneGroups(groups map[string][]string) map[string][]string {
	res := make(map[string][]string, len(groups))
	for name, members := range groups {
		res[name] = slices.Clone(members)
	}
	return res
}

// groupRef converts a Glyphs group reference like "@MMK_L_A" into the
// notation "@A".  Glyph names are returned unchanged.
func groupRef(name, prefix string) string {
	if rest, ok := strings.CutPrefix(name, prefix); ok {
		return "@" + rest
	}
	return name
}

// nativeGroupRef converts a group reference like "@A" into the Glyphs
// notation.
func nativeGroupRef(name, prefix string) string {
	if rest, ok := strings.CutPrefix(name, "@"); ok {
		return prefix + rest
	}
	return name
}

// checkKerning verifies that the kerning tables can be stored in the
// font.
func checkKerning(f *gsfont.Font, kerning map[string]*fontra.Kerning) error {
	var unknown []string
	for name := range kerning {
		if name != fontra.KerningHorizontal && name != fontra.KerningVertical {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return newError(UnsupportedKerningType,
			"kerning type(s) %s not supported", strings.Join(unknown, ", "))
	}

	for _, kt := range kerningTypes {
		k := kerning[kt.name]
		if k == nil {
			continue
		}
		if kt.name == fontra.KerningVertical && f.FormatVersion == gsfont.Format2 {
			return newError(VerticalKerningFormat2,
				"vertical kerning cannot be stored in format 2 files")
		}
		unknown = unknown[:0]
		for _, id := range k.SourceIdentifiers {
			if f.Master(id) == nil && !slices.Contains(unknown, id) {
				unknown = append(unknown, id)
			}
		}
		if len(unknown) > 0 {
			slices.Sort(unknown)
			return newError(UnknownKerningSource,
				"unknown kerning source(s) %s", strings.Join(unknown, ", "))
		}
	}
	return nil
}

// writeKerning stores the kerning tables in a copy of the font dictionary
// and the glyph records.  The returned glyph list contains new records
// for all glyphs whose kerning groups have changed, the names of these
// glyphs are returned in changed.  The kerning must have been validated
// using checkKerning.
func writeKerning(f *gsfont.Font, glyphs []*plist.Dict, kerning map[string]*fontra.Kerning) (font *plist.Dict, newGlyphs []*plist.Dict, changed []string) {
	format := f.FormatVersion
	font = f.Raw().Clone()

	groups := make(map[*kernSide]map[string][]string, len(allKernSides))
	for _, kt := range kerningTypes {
		key := kt.key(format)
		k := kerning[kt.name]
		if k == nil {
			font.Delete(key)
			continue
		}
		groups[kt.side1] = k.GroupsSide1
		groups[kt.side2] = k.GroupsSide2

		table := kerningTable(f, font.GetDict(key), k, kt)
		if table.Len() > 0 {
			font.SetSorted(key, table)
		} else {
			font.Delete(key)
		}
	}

	// For glyphs in several groups, the first group in sorted order is
	// used.
	groupOf := make(map[*kernSide]map[string]string, len(allKernSides))
	for _, side := range allKernSides {
		groupOf[side] = make(map[string]string)
		for _, group := range sortedKeys(groups[side]) {
			for _, member := range groups[side][group] {
				if _, seen := groupOf[side][member]; !seen {
					groupOf[side][member] = group
				}
			}
		}
	}

	newGlyphs = slices.Clone(glyphs)
	for i, gd := range newGlyphs {
		name := glyphName(gd)
		var updated *plist.Dict
		for _, side := range allKernSides {
			attr := side.attr(format)
			current, _ := gd.GetString(attr)
			group := groupOf[side][name]
			if current == group {
				continue
			}
			if updated == nil {
				updated = gd.Clone()
			}
			if group == "" {
				updated.Delete(attr)
			} else {
				updated.SetSorted(attr, plist.String(group))
			}
		}
		if updated != nil {
			newGlyphs[i] = updated
			changed = append(changed, name)
		}
	}
	return font, newGlyphs, changed
}

// kerningTable builds the per-master kerning dictionary for one kerning
// type.  Keys which are already present in old keep their order, new keys
// are appended in sorted order.
func kerningTable(f *gsfont.Font, old *plist.Dict, k *fontra.Kerning, kt *kerningType) *plist.Dict {
	perMaster := make(map[string]map[string]map[string]float64)
	for left, row := range k.Values {
		name1 := nativeGroupRef(left, kt.side1.prefix)
		for right, values := range row {
			name2 := nativeGroupRef(right, kt.side2.prefix)
			for i, v := range values {
				if v == nil || i >= len(k.SourceIdentifiers) {
					continue
				}
				id := k.SourceIdentifiers[i]
				if perMaster[id] == nil {
					perMaster[id] = make(map[string]map[string]float64)
				}
				if perMaster[id][name1] == nil {
					perMaster[id][name1] = make(map[string]float64)
				}
				perMaster[id][name1][name2] = *v
			}
		}
	}

	var masterIDs []string
	for _, m := range f.Masters {
		masterIDs = append(masterIDs, m.ID)
	}

	table := plist.NewDict()
	for _, id := range keyOrder(old.Keys(), masterIDs) {
		rows := perMaster[id]
		if len(rows) == 0 {
			continue
		}
		oldRows := old.GetDict(id)
		md := plist.NewDict()
		for _, name1 := range keyOrder(oldRows.Keys(), sortedKeys(rows)) {
			row := rows[name1]
			oldRow := oldRows.GetDict(name1)
			rd := plist.NewDict()
			for _, name2 := range keyOrder(oldRow.Keys(), sortedKeys(row)) {
				rd.Set(name2, plist.Number(row[name2]))
			}
			md.Set(name1, rd)
		}
		table.Set(id, md)
	}
	return table
}

// keyOrder returns the elements of want, with the elements which occur in
// old first, in the order of old.
func keyOrder(old, want []string) []string {
	wanted := make(map[string]bool, len(want))
	for _, key := range want {
		wanted[key] = true
	}
	res := make([]string, 0, len(want))
	for _, key := range old {
		if wanted[key] {
			res = append(res, key)
			delete(wanted, key)
		}
	}
	for _, key := range want {
		if wanted[key] {
			res = append(res, key)
		}
	}
	return res
}
