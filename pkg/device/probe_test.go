// This file is part of loopctl
// Copyright (c) 2024 loopctl authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package device

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type fakeSysfsDevice struct {
	name    string
	sectors string
	ro      string
	loop    map[string]string // nil means unbound
}

func setupFakeSysfs(t *testing.T, devices []fakeSysfsDevice) {
	t.Helper()

	tempDir := t.TempDir()
	blockDir := filepath.Join(tempDir, "block")
	classDir := filepath.Join(tempDir, "class")

	writeAttr := func(dir, name, value string) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	for _, dev := range devices {
		writeAttr(filepath.Join(classDir, dev.name), "size", dev.sectors)
		writeAttr(filepath.Join(classDir, dev.name), "ro", dev.ro)
		if err := os.MkdirAll(filepath.Join(blockDir, dev.name), 0o755); err != nil {
			t.Fatal(err)
		}
		for name, value := range dev.loop {
			writeAttr(filepath.Join(blockDir, dev.name, "loop"), name, value)
		}
	}

	savedBlockDir, savedClassDir := sysBlockDir, sysClassBlockDir
	sysBlockDir, sysClassBlockDir = blockDir, classDir
	t.Cleanup(func() {
		sysBlockDir, sysClassBlockDir = savedBlockDir, savedClassDir
	})
}

func TestProbe(t *testing.T) {
	setupFakeSysfs(t, []fakeSysfsDevice{
		{name: "loop1", sectors: "0", ro: "0"},
		{name: "sda", sectors: "500118192", ro: "0"},
		{
			name:    "loop0",
			sectors: "2048",
			ro:      "1",
			loop: map[string]string{
				"backing_file": "/tmp/disk.img",
				"offset":       "4096",
				"sizelimit":    "0",
				"autoclear":    "1",
				"partscan":     "0",
				"dio":          "0",
			},
		},
	})

	devices, err := Probe()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []LoopDevice{
		{
			Name:        "loop0",
			Number:      0,
			Size:        2048 * 512,
			ReadOnly:    true,
			BackingFile: "/tmp/disk.img",
			Offset:      4096,
			Autoclear:   true,
		},
		{Name: "loop1", Number: 1},
	}
	if !reflect.DeepEqual(devices, expected) {
		t.Fatalf("expected %+v; got %+v", expected, devices)
	}

	if !devices[0].Bound() || devices[1].Bound() {
		t.Fatalf("unexpected bound states")
	}
	if devices[0].Path() != "/dev/loop0" {
		t.Fatalf("expected /dev/loop0; got %v", devices[0].Path())
	}
}

func TestFindByBackingFile(t *testing.T) {
	setupFakeSysfs(t, []fakeSysfsDevice{
		{
			name:    "loop0",
			sectors: "2048",
			ro:      "0",
			loop: map[string]string{
				"backing_file": "/tmp/disk.img",
				"offset":       "0",
				"sizelimit":    "0",
				"autoclear":    "0",
				"partscan":     "0",
				"dio":          "0",
			},
		},
		{name: "loop1", sectors: "0", ro: "0"},
	})

	matched, err := FindByBackingFile("/tmp/disk.img")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matched) != 1 || matched[0].Name != "loop0" {
		t.Fatalf("expected loop0; got %+v", matched)
	}

	matched, err = FindByBackingFile("/tmp/other.img")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matched) != 0 {
		t.Fatalf("expected no match; got %+v", matched)
	}
}

func TestLoopNumber(t *testing.T) {
	testCases := []struct {
		name           string
		expectedNumber uint64
		expectedOK     bool
	}{
		{name: "loop0", expectedNumber: 0, expectedOK: true},
		{name: "loop12", expectedNumber: 12, expectedOK: true},
		{name: "sda", expectedOK: false},
		{name: "loop", expectedOK: false},
		{name: "loop0p1", expectedOK: false},
	}

	for _, testCase := range testCases {
		number, ok := loopNumber(testCase.name)
		if ok != testCase.expectedOK || number != testCase.expectedNumber {
			t.Fatalf("%v: expected (%v, %v); got (%v, %v)",
				testCase.name, testCase.expectedNumber, testCase.expectedOK, number, ok)
		}
	}
}
