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
	"errors"
	"syscall"
)

var (
	// ErrNoFreeDevice denotes the kernel has no unused loop device to hand out.
	ErrNoFreeDevice = errors.New("no free loop device")

	// ErrDeviceNotFound denotes the loop device node does not exist or cannot
	// be opened.
	ErrDeviceNotFound = errors.New("loop device not found")

	// ErrDeviceBusy denotes the loop device is bound or held by another user.
	ErrDeviceBusy = errors.New("loop device busy")

	// ErrNotBound denotes the loop device has no backing file attached.
	ErrNotBound = errors.New("loop device not bound to a backing file")

	// ErrInvalidBackingFile denotes the backing file cannot be opened in the
	// required mode, or the requested offset/size-limit does not fit it.
	ErrInvalidBackingFile = errors.New("invalid backing file")

	// ErrUnsupportedOption denotes the running kernel rejected a requested
	// loop device option.
	ErrUnsupportedOption = errors.New("option not supported by the kernel")
)

// errnoOf extracts the operating system failure code from an error chain.
// Zero means the chain carries no errno.
func errnoOf(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return 0
}
