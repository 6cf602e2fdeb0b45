//go:build linux

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
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// sysIoctler is the real Ioctler. Every request opens the target node, holds
// it for the single ioctl, and closes it on all exit paths.
type sysIoctler struct{}

func defaultIoctler() Ioctler {
	return sysIoctler{}
}

func (sysIoctler) withControl(fn func(fd uintptr) error) error {
	ctrl, err := os.OpenFile(LoopControlPath, os.O_RDWR, 0o660)
	if err != nil {
		return fmt.Errorf("could not open %v: %w", LoopControlPath, err)
	}
	defer ctrl.Close()
	return fn(ctrl.Fd())
}

func (sysIoctler) withDevice(devPath string, flag int, fn func(fd uintptr) error) error {
	dev, err := os.OpenFile(devPath, flag, 0o660)
	if err != nil {
		return fmt.Errorf("could not open %v: %w", devPath, err)
	}
	defer dev.Close()
	return fn(dev.Fd())
}

func ioctl(fd, request, arg uintptr) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, request, arg); errno != 0 {
		return errno
	}
	return nil
}

func (s sysIoctler) CtlGetFree() (uint64, error) {
	var number uint64
	err := s.withControl(func(fd uintptr) error {
		dev, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, ctlGetFree, 0)
		if errno != 0 {
			return fmt.Errorf("LOOP_CTL_GET_FREE failed: %w", errno)
		}
		number = uint64(dev)
		return nil
	})
	return number, err
}

func (s sysIoctler) CtlAdd(number uint64) (uint64, error) {
	var added uint64
	err := s.withControl(func(fd uintptr) error {
		dev, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, ctlAdd, uintptr(number))
		if errno != 0 {
			return fmt.Errorf("LOOP_CTL_ADD failed for loop%v: %w", number, errno)
		}
		added = uint64(dev)
		return nil
	})
	return added, err
}

func (s sysIoctler) CtlRemove(number uint64) error {
	return s.withControl(func(fd uintptr) error {
		if err := ioctl(fd, ctlRemove, uintptr(number)); err != nil {
			return fmt.Errorf("LOOP_CTL_REMOVE failed for loop%v: %w", number, err)
		}
		return nil
	})
}

func (s sysIoctler) SetFd(devPath string, backing *os.File) error {
	return s.withDevice(devPath, os.O_RDWR, func(fd uintptr) error {
		if err := ioctl(fd, setFd, backing.Fd()); err != nil {
			return fmt.Errorf("LOOP_SET_FD failed for %v: %w", devPath, err)
		}
		return nil
	})
}

func (s sysIoctler) ClrFd(devPath string) error {
	return s.withDevice(devPath, os.O_RDONLY, func(fd uintptr) error {
		if err := ioctl(fd, clrFd, 0); err != nil {
			return fmt.Errorf("LOOP_CLR_FD failed for %v: %w", devPath, err)
		}
		return nil
	})
}

func (s sysIoctler) SetStatus64(devPath string, info *LoopInfo) error {
	return s.withDevice(devPath, os.O_RDWR, func(fd uintptr) error {
		if err := ioctl(fd, setStatus64, uintptr(unsafe.Pointer(info))); err != nil {
			return fmt.Errorf("LOOP_SET_STATUS64 failed for %v: %w", devPath, err)
		}
		return nil
	})
}

func (s sysIoctler) GetStatus64(devPath string) (LoopInfo, error) {
	var info LoopInfo
	err := s.withDevice(devPath, os.O_RDONLY, func(fd uintptr) error {
		if err := ioctl(fd, getStatus64, uintptr(unsafe.Pointer(&info))); err != nil {
			return fmt.Errorf("LOOP_GET_STATUS64 failed for %v: %w", devPath, err)
		}
		return nil
	})
	return info, err
}

func (s sysIoctler) SetCapacity(devPath string) error {
	return s.withDevice(devPath, os.O_RDWR, func(fd uintptr) error {
		if err := ioctl(fd, setCapacity, 0); err != nil {
			return fmt.Errorf("LOOP_SET_CAPACITY failed for %v: %w", devPath, err)
		}
		return nil
	})
}

func (s sysIoctler) SetDirectIO(devPath string, enable bool) error {
	var arg uintptr
	if enable {
		arg = 1
	}
	return s.withDevice(devPath, os.O_RDWR, func(fd uintptr) error {
		if err := ioctl(fd, setDirectIO, arg); err != nil {
			return fmt.Errorf("LOOP_SET_DIRECT_IO failed for %v: %w", devPath, err)
		}
		return nil
	})
}

func (s sysIoctler) SetBlockSize(devPath string, size uint32) error {
	return s.withDevice(devPath, os.O_RDWR, func(fd uintptr) error {
		if err := ioctl(fd, setBlockSize, uintptr(size)); err != nil {
			return fmt.Errorf("LOOP_SET_BLOCK_SIZE failed for %v: %w", devPath, err)
		}
		return nil
	})
}
