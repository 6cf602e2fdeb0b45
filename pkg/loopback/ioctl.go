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

import "os"

// Ioctler is the loop device control surface. Each method issues one control
// request against /dev/loop-control or a loop device node, opening the node
// for the duration of the request only. Errors carry the kernel errno in
// their chain.
//
// The Controller classifies errors; implementations report them raw. Fake
// implements this interface on in-memory state for tests.
type Ioctler interface {
	// CtlGetFree issues LOOP_CTL_GET_FREE and returns a free device number.
	CtlGetFree() (uint64, error)

	// CtlAdd issues LOOP_CTL_ADD for the given device number.
	CtlAdd(number uint64) (uint64, error)

	// CtlRemove issues LOOP_CTL_REMOVE for the given device number.
	CtlRemove(number uint64) error

	// SetFd issues LOOP_SET_FD binding the backing file to the device.
	SetFd(devPath string, backing *os.File) error

	// ClrFd issues LOOP_CLR_FD releasing the device's backing file.
	ClrFd(devPath string) error

	// SetStatus64 issues LOOP_SET_STATUS64 with the given info.
	SetStatus64(devPath string, info *LoopInfo) error

	// GetStatus64 issues LOOP_GET_STATUS64 and returns the device info.
	GetStatus64(devPath string) (LoopInfo, error)

	// SetCapacity issues LOOP_SET_CAPACITY to re-read the backing file size.
	SetCapacity(devPath string) error

	// SetDirectIO issues LOOP_SET_DIRECT_IO toggling direct I/O.
	SetDirectIO(devPath string, enable bool) error

	// SetBlockSize issues LOOP_SET_BLOCK_SIZE.
	SetBlockSize(devPath string, size uint32) error
}
