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

const (
	// LoopControlPath is the kernel node used to allocate and release loop devices.
	LoopControlPath = "/dev/loop-control"

	loopDeviceFormat = "/dev/loop%d"
	loopDevicePrefix = "/dev/loop"

	nameSize = 64
	keySize  = 32

	// Device ioctls from <linux/loop.h>
	setFd        = 0x4C00
	clrFd        = 0x4C01
	setStatus64  = 0x4C04
	getStatus64  = 0x4C05
	changeFd     = 0x4C06
	setCapacity  = 0x4C07
	setDirectIO  = 0x4C08
	setBlockSize = 0x4C09

	// /dev/loop-control ioctls
	ctlAdd     = 0x4C80
	ctlRemove  = 0x4C81
	ctlGetFree = 0x4C82
)

// Loop device flags from <linux/loop.h>
const (
	FlagReadOnly  = 1 << 0
	FlagAutoclear = 1 << 2
	FlagPartScan  = 1 << 3
	FlagDirectIO  = 1 << 4
)
