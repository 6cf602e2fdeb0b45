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

package main

import "testing"

func TestParseBytesFlag(t *testing.T) {
	testCases := []struct {
		value        string
		expectedSize uint64
		expectErr    bool
	}{
		{value: "", expectedSize: 0},
		{value: "512", expectedSize: 512},
		{value: "4KiB", expectedSize: 4096},
		{value: "1MiB", expectedSize: 1048576},
		{value: "1MB", expectedSize: 1000000},
		{value: "junk", expectErr: true},
	}

	for i, testCase := range testCases {
		size, err := parseBytesFlag(testCase.value)
		if testCase.expectErr {
			if err == nil {
				t.Fatalf("case %v: expected error for %v", i, testCase.value)
			}
			continue
		}
		if err != nil {
			t.Fatalf("case %v: unexpected error: %v", i, err)
		}
		if size != testCase.expectedSize {
			t.Fatalf("case %v: expected %v; got %v", i, testCase.expectedSize, size)
		}
	}
}

func TestPrintableValues(t *testing.T) {
	if v := printableString(""); v != "-" {
		t.Fatalf("expected -; got %v", v)
	}
	if v := printableString("/tmp/disk.img"); v != "/tmp/disk.img" {
		t.Fatalf("expected /tmp/disk.img; got %v", v)
	}
	if v := printableBytes(0); v != "-" {
		t.Fatalf("expected -; got %v", v)
	}
	if v := printableBytes(1048576); v != "1.0 MiB" {
		t.Fatalf("expected 1.0 MiB; got %v", v)
	}
	if v := printableBool(true); v != "Yes" {
		t.Fatalf("expected Yes; got %v", v)
	}
	if v := printableBool(false); v != "No" {
		t.Fatalf("expected No; got %v", v)
	}
}
