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

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// LoopInfo mirrors struct loop_info64 from <linux/loop.h>. It is the wire
// structure of the LOOP_SET_STATUS64 and LOOP_GET_STATUS64 ioctls.
type LoopInfo struct {
	Device         uint64
	INode          uint64
	RDevice        uint64
	Offset         uint64
	SizeLimit      uint64
	Number         uint32
	EncryptType    uint32
	EncryptKeySize uint32
	Flags          uint32
	FileName       [nameSize]byte
	CryptName      [nameSize]byte
	EncryptKey     [keySize]byte
	Init           [2]uint64
}

// BackingFile returns the backing file path recorded in the loop info.
func (info *LoopInfo) BackingFile() string {
	return string(bytes.TrimRight(info.FileName[:], "\x00"))
}

// Device identifies one loop device by number and device node path. It is a
// handle only; it owns no kernel state.
type Device struct {
	Number uint64 `json:"number"`
	Path   string `json:"path"`
}

// NewDevice returns the device handle for the given loop device number.
func NewDevice(number uint64) Device {
	return Device{
		Number: number,
		Path:   fmt.Sprintf(loopDeviceFormat, number),
	}
}

// DeviceFromPath parses a loop device node path such as /dev/loop7.
func DeviceFromPath(path string) (Device, error) {
	if !strings.HasPrefix(path, loopDevicePrefix) {
		return Device{}, fmt.Errorf("%v is not a loop device", path)
	}
	number, err := strconv.ParseUint(strings.TrimPrefix(path, loopDevicePrefix), 10, 64)
	if err != nil {
		return Device{}, fmt.Errorf("%v is not a loop device", path)
	}
	return Device{Number: number, Path: path}, nil
}

// AttachOptions control how a backing file is exposed through a loop device.
type AttachOptions struct {
	// Offset is the byte position in the backing file where the device starts.
	Offset uint64
	// SizeLimit caps the exposed size in bytes. Zero exposes the remaining file.
	SizeLimit uint64
	// ReadOnly exposes the device read-only.
	ReadOnly bool
	// Autoclear releases the device when its last reference closes.
	Autoclear bool
	// DirectIO bypasses page-cache buffering of the backing file.
	DirectIO bool
	// BlockSize sets the logical block size of the device. Zero keeps the default.
	BlockSize uint32
}

// Status is a point-in-time snapshot of a loop device binding.
type Status struct {
	Device        Device `json:"device"`
	BackingFile   string `json:"backingFile"`
	BackingDevice uint64 `json:"backingDevice"`
	BackingInode  uint64 `json:"backingInode"`
	Offset        uint64 `json:"offset"`
	SizeLimit     uint64 `json:"sizeLimit"`
	Flags         uint32 `json:"flags"`
}

// ReadOnly reports whether the device is exposed read-only.
func (s Status) ReadOnly() bool {
	return s.Flags&FlagReadOnly != 0
}

// Autoclear reports whether the device releases itself when the last
// reference closes.
func (s Status) Autoclear() bool {
	return s.Flags&FlagAutoclear != 0
}

// DirectIO reports whether the device bypasses page-cache buffering.
func (s Status) DirectIO() bool {
	return s.Flags&FlagDirectIO != 0
}
