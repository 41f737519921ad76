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

package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/tdewolff/test"
)

func TestStartStop(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.prof")
	mem := filepath.Join(dir, "mem.prof")

	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	stop, err := Start(cpu, mem, log)
	test.Error(t, err)
	stop()

	for _, fname := range []string{cpu, mem} {
		fi, err := os.Stat(fname)
		test.Error(t, err)
		test.That(t, fi.Size() > 0, fname)
	}
	for _, e := range hook.AllEntries() {
		test.That(t, e.Level != logrus.WarnLevel, e.Message)
	}
}

func TestMemProfileError(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	bad := filepath.Join(t.TempDir(), "missing", "mem.prof")
	stop, err := Start("", bad, log)
	test.Error(t, err)
	stop()
	test.That(t, hook.LastEntry() != nil && hook.LastEntry().Level == logrus.WarnLevel)
}

func TestNoProfiles(t *testing.T) {
	stop, err := Start("", "", nil)
	test.Error(t, err)
	stop()
}
