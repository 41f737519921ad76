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
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tdewolff/test"

	"seehuhn.de/go/glyphs/fontra"
	"seehuhn.de/go/glyphs/plist"
)

const testFeatures = `# automatic
@Uppercase = [ A V
];

# Prefix: Languagesystems
languagesystem DFLT dflt;

feature liga {
sub A by V;
} liga;

feature kern {
# disabled
#pos A V -10;
} kern;
`

func TestGetFeatures(t *testing.T) {
	ctx := context.Background()

	b := openTest(t, copyTestFile(t, "Test3.glyphs"))
	features, err := b.GetFeatures(ctx)
	test.Error(t, err)
	test.String(t, features.Language, fontra.FeatureLanguageFea)
	test.String(t, features.Text, testFeatures)

	b2 := openTest(t, copyTestFile(t, "Test2.glyphs"))
	features, err = b2.GetFeatures(ctx)
	test.Error(t, err)
	test.String(t, features.Text, "feature liga {\nsub A by V;\n} liga;\n")
}

func TestFeaturesRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"Test2.glyphs", "Test3.glyphs"} {
		t.Run(name, func(t *testing.T) {
			path := copyTestFile(t, name)
			b := openTest(t, path)
			features, err := b.GetFeatures(ctx)
			test.Error(t, err)

			err = b.PutFeatures(ctx, features)
			test.Error(t, err)

			again, err := openTest(t, path).GetFeatures(ctx)
			test.Error(t, err)
			if d := cmp.Diff(features, again); d != "" {
				t.Errorf("(-before +after):\n%s", d)
			}
		})
	}
}

func TestPutFeatures(t *testing.T) {
	ctx := context.Background()
	path := copyTestFile(t, "Test3.glyphs")
	b := openTest(t, path)

	text := `# Prefix: Languagesystems
languagesystem DFLT dflt;
languagesystem latn dflt;

feature kern {
pos A V -10;
} kern;

feature calt {
# automatic
sub a' b by c;
} calt;
`
	err := b.PutFeatures(ctx, &fontra.OpenTypeFeatures{Language: "fea", Text: text})
	test.Error(t, err)

	font := openTest(t, path).font.Raw()
	test.T(t, len(font.GetArray("classes")), 0)
	test.T(t, len(font.GetArray("featurePrefixes")), 1)
	features := font.GetArray("features")
	test.T(t, len(features), 2)

	kern := features[0].(*plist.Dict)
	tag, _ := kern.GetString("tag")
	test.String(t, tag, "kern")
	code, _ := kern.GetString("code")
	test.String(t, code, "pos A V -10;")
	test.That(t, !kern.Has("disabled"), "kern still disabled")

	calt := features[1].(*plist.Dict)
	auto, _ := calt.GetInt("automatic")
	test.T(t, auto, 1)

	got, err := b.GetFeatures(ctx)
	test.Error(t, err)
	test.String(t, got.Text, text)
}

func TestPutFeaturesErrors(t *testing.T) {
	ctx := context.Background()
	b := openTest(t, copyTestFile(t, "Test3.glyphs"))

	err := b.PutFeatures(ctx, &fontra.OpenTypeFeatures{Language: "afdko", Text: ""})
	test.That(t, IsReason(err, UnsupportedFeatureLanguage), "language")

	err = b.PutFeatures(ctx, &fontra.OpenTypeFeatures{Text: "feature liga {\nsub a by b;\n"})
	test.That(t, IsReason(err, FeatureSyntax), "unterminated feature")

	err = b.PutFeatures(ctx, &fontra.OpenTypeFeatures{Text: "@x = [ a b\n"})
	test.That(t, IsReason(err, FeatureSyntax), "unterminated class")
}

func TestParseFeatures(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []*featureBlock
	}{
		{"empty", "", nil},
		{
			name: "anonymous prefix",
			text: "languagesystem DFLT dflt;\n",
			want: []*featureBlock{
				{kind: featurePrefixKey, name: anonymousPrefix, code: "languagesystem DFLT dflt;"},
			},
		},
		{
			name: "class after prefix",
			text: "# Prefix: p\ninclude(x.fea);\n@c = [ a\n];\n",
			want: []*featureBlock{
				{kind: featurePrefixKey, name: "p", code: "include(x.fea);\n@c = [ a\n];"},
			},
		},
		{
			name: "nested lookup",
			text: "feature ss01 {\n  lookup x {\n  } x;\n} ss01;\n",
			want: []*featureBlock{
				{kind: featuresKey, name: "ss01", code: "  lookup x {\n  } x;"},
			},
		},
		{
			name: "blank lines only",
			text: "\n\n\n",
			want: nil,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := parseFeatures(c.text)
			test.Error(t, err)
			if d := cmp.Diff(c.want, got, cmp.AllowUnexported(featureBlock{})); d != "" {
				t.Errorf("(-want +got):\n%s", d)
			}
		})
	}
}
