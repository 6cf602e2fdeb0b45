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

package loopback

import "testing"

func TestDeviceFromPath(t *testing.T) {
	testCases := []struct {
		path           string
		expectedNumber uint64
		expectErr      bool
	}{
		{path: "/dev/loop0", expectedNumber: 0},
		{path: "/dev/loop17", expectedNumber: 17},
		{path: "/dev/sda", expectErr: true},
		{path: "/dev/loop", expectErr: true},
		{path: "/dev/loopX", expectErr: true},
		{path: "loop0", expectErr: true},
		{path: "", expectErr: true},
	}

	for i, testCase := range testCases {
		dev, err := DeviceFromPath(testCase.path)
		if testCase.expectErr {
			if err == nil {
				t.Fatalf("case %v: expected error for %v", i, testCase.path)
			}
			continue
		}
		if err != nil {
			t.Fatalf("case %v: unexpected error: %v", i, err)
		}
		if dev.Number != testCase.expectedNumber {
			t.Fatalf("case %v: expected number %v; got %v", i, testCase.expectedNumber, dev.Number)
		}
		if dev.Path != testCase.path {
			t.Fatalf("case %v: expected path %v; got %v", i, testCase.path, dev.Path)
		}
	}
}

func TestNewDevice(t *testing.T) {
	dev := NewDevice(3)
	if dev.Path != "/dev/loop3" {
		t.Fatalf("expected /dev/loop3; got %v", dev.Path)
	}
}

func TestLoopInfoBackingFile(t *testing.T) {
	var info LoopInfo
	copy(info.FileName[:], "/tmp/disk.img")
	if backingFile := info.BackingFile(); backingFile != "/tmp/disk.img" {
		t.Fatalf("expected /tmp/disk.img; got %q", backingFile)
	}

	var empty LoopInfo
	if backingFile := empty.BackingFile(); backingFile != "" {
		t.Fatalf("expected empty backing file; got %q", backingFile)
	}
}

func TestStatusFlags(t *testing.T) {
	status := Status{Flags: FlagReadOnly | FlagAutoclear}
	if !status.ReadOnly() || !status.Autoclear() || status.DirectIO() {
		t.Fatalf("unexpected flag accessors for %#x", status.Flags)
	}
}
