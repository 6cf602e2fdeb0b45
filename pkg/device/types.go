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

import "path"

// LoopDevice is loop device information read from sysfs.
type LoopDevice struct {
	Name   string `json:"name"`   // Read from /sys/block
	Number uint64 `json:"number"` // Parsed from the name

	// Populated from /sys/class/block/<NAME>
	Size     uint64 `json:"size"`
	ReadOnly bool   `json:"readOnly"`

	// Populated from /sys/block/<NAME>/loop; empty/zero when unbound
	BackingFile string `json:"backingFile"`
	Offset      uint64 `json:"offset"`
	SizeLimit   uint64 `json:"sizeLimit"`
	Autoclear   bool   `json:"autoclear"`
	PartScan    bool   `json:"partScan"`
	DirectIO    bool   `json:"directIO"`
}

// Path returns the /dev notation of the device.
func (d LoopDevice) Path() string {
	return path.Join("/dev", d.Name)
}

// Bound reports whether the device has a backing file attached.
func (d LoopDevice) Bound() bool {
	return d.BackingFile != ""
}
