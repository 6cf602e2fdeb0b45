//go:build !linux

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
	"os"
	"syscall"
)

// dummy stubs kept for compilation purposes

type sysIoctler struct{}

func defaultIoctler() Ioctler {
	return sysIoctler{}
}

func (sysIoctler) CtlGetFree() (uint64, error) {
	return 0, syscall.ENOTSUP
}

func (sysIoctler) CtlAdd(number uint64) (uint64, error) {
	return 0, syscall.ENOTSUP
}

func (sysIoctler) CtlRemove(number uint64) error {
	return syscall.ENOTSUP
}

func (sysIoctler) SetFd(devPath string, backing *os.File) error {
	return syscall.ENOTSUP
}

func (sysIoctler) ClrFd(devPath string) error {
	return syscall.ENOTSUP
}

func (sysIoctler) SetStatus64(devPath string, info *LoopInfo) error {
	return syscall.ENOTSUP
}

func (sysIoctler) GetStatus64(devPath string) (LoopInfo, error) {
	return LoopInfo{}, syscall.ENOTSUP
}

func (sysIoctler) SetCapacity(devPath string) error {
	return syscall.ENOTSUP
}

func (sysIoctler) SetDirectIO(devPath string, enable bool) error {
	return syscall.ENOTSUP
}

func (sysIoctler) SetBlockSize(devPath string, size uint32) error {
	return syscall.ENOTSUP
}
