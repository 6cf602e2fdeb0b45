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
	"syscall"
)

type fakeDevice struct {
	bound bool
	info  LoopInfo
}

// Fake implements Ioctler on in-memory state with kernel-like errno
// behavior, for testing controller logic without loop devices present.
type Fake struct {
	devices map[uint64]*fakeDevice
	next    uint64

	// Calls records every issued control request in order.
	Calls []string

	// BusySetFdCalls makes that many subsequent SetFd calls fail with
	// EBUSY, simulating another process winning the discovery race.
	BusySetFdCalls int

	// Error injection, applied when non-zero.
	GetFreeErrno   syscall.Errno
	SetStatusErrno syscall.Errno
	ClrFdErrno     syscall.Errno
	BlockSizeErrno syscall.Errno
	DirectIOErrno  syscall.Errno
}

// NewFake returns a fake control surface seeded with the given unbound
// loop device numbers.
func NewFake(numbers ...uint64) *Fake {
	f := &Fake{devices: map[uint64]*fakeDevice{}}
	for _, number := range numbers {
		f.devices[number] = &fakeDevice{}
		if number >= f.next {
			f.next = number + 1
		}
	}
	return f
}

func (f *Fake) record(format string, args ...interface{}) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

func (f *Fake) device(devPath string) (*fakeDevice, error) {
	dev, err := DeviceFromPath(devPath)
	if err != nil {
		return nil, syscall.ENOENT
	}
	fd, found := f.devices[dev.Number]
	if !found {
		return nil, syscall.ENOENT
	}
	return fd, nil
}

// CtlGetFree returns the lowest unbound device, creating a new one when
// all are bound, like the kernel does.
func (f *Fake) CtlGetFree() (uint64, error) {
	f.record("LOOP_CTL_GET_FREE")
	if f.GetFreeErrno != 0 {
		return 0, f.GetFreeErrno
	}
	free := uint64(1<<64 - 1)
	for number, fd := range f.devices {
		if !fd.bound && number < free {
			free = number
		}
	}
	if free != 1<<64-1 {
		return free, nil
	}
	number := f.next
	f.devices[number] = &fakeDevice{}
	f.next++
	return number, nil
}

// CtlAdd creates the device node, failing with EEXIST when present.
func (f *Fake) CtlAdd(number uint64) (uint64, error) {
	f.record("LOOP_CTL_ADD loop%d", number)
	if _, found := f.devices[number]; found {
		return 0, syscall.EEXIST
	}
	f.devices[number] = &fakeDevice{}
	if number >= f.next {
		f.next = number + 1
	}
	return number, nil
}

// CtlRemove deletes the device node, failing with EBUSY while bound.
func (f *Fake) CtlRemove(number uint64) error {
	f.record("LOOP_CTL_REMOVE loop%d", number)
	fd, found := f.devices[number]
	if !found {
		return syscall.ENOENT
	}
	if fd.bound {
		return syscall.EBUSY
	}
	delete(f.devices, number)
	return nil
}

// SetFd binds the backing file, failing with EBUSY when already bound.
func (f *Fake) SetFd(devPath string, backing *os.File) error {
	f.record("LOOP_SET_FD %s %s", devPath, backing.Name())
	fd, err := f.device(devPath)
	if err != nil {
		return err
	}
	if f.BusySetFdCalls > 0 {
		f.BusySetFdCalls--
		return syscall.EBUSY
	}
	if fd.bound {
		return syscall.EBUSY
	}
	fd.bound = true
	fd.info = LoopInfo{}
	return nil
}

// ClrFd releases the binding, failing with ENXIO when unbound.
func (f *Fake) ClrFd(devPath string) error {
	f.record("LOOP_CLR_FD %s", devPath)
	fd, err := f.device(devPath)
	if err != nil {
		return err
	}
	if f.ClrFdErrno != 0 {
		return f.ClrFdErrno
	}
	if !fd.bound {
		return syscall.ENXIO
	}
	fd.bound = false
	fd.info = LoopInfo{}
	return nil
}

// SetStatus64 applies offset, size limit and flags to a bound device.
func (f *Fake) SetStatus64(devPath string, info *LoopInfo) error {
	f.record("LOOP_SET_STATUS64 %s", devPath)
	fd, err := f.device(devPath)
	if err != nil {
		return err
	}
	if !fd.bound {
		return syscall.ENXIO
	}
	if f.SetStatusErrno != 0 {
		return f.SetStatusErrno
	}
	fd.info.Offset = info.Offset
	fd.info.SizeLimit = info.SizeLimit
	fd.info.Flags = info.Flags
	fd.info.FileName = info.FileName
	return nil
}

// GetStatus64 returns the current info, failing with ENXIO when unbound.
func (f *Fake) GetStatus64(devPath string) (LoopInfo, error) {
	f.record("LOOP_GET_STATUS64 %s", devPath)
	fd, err := f.device(devPath)
	if err != nil {
		return LoopInfo{}, err
	}
	if !fd.bound {
		return LoopInfo{}, syscall.ENXIO
	}
	return fd.info, nil
}

// SetCapacity succeeds on bound devices only.
func (f *Fake) SetCapacity(devPath string) error {
	f.record("LOOP_SET_CAPACITY %s", devPath)
	fd, err := f.device(devPath)
	if err != nil {
		return err
	}
	if !fd.bound {
		return syscall.ENXIO
	}
	return nil
}

// SetDirectIO toggles the direct I/O flag on bound devices.
func (f *Fake) SetDirectIO(devPath string, enable bool) error {
	f.record("LOOP_SET_DIRECT_IO %s %v", devPath, enable)
	fd, err := f.device(devPath)
	if err != nil {
		return err
	}
	if !fd.bound {
		return syscall.ENXIO
	}
	if f.DirectIOErrno != 0 {
		return f.DirectIOErrno
	}
	if enable {
		fd.info.Flags |= FlagDirectIO
	} else {
		fd.info.Flags &^= FlagDirectIO
	}
	return nil
}

// SetBlockSize succeeds on bound devices only.
func (f *Fake) SetBlockSize(devPath string, size uint32) error {
	f.record("LOOP_SET_BLOCK_SIZE %s %d", devPath, size)
	fd, err := f.device(devPath)
	if err != nil {
		return err
	}
	if !fd.bound {
		return syscall.ENXIO
	}
	if f.BlockSizeErrno != 0 {
		return f.BlockSizeErrno
	}
	return nil
}

// Bound reports whether the fake device with the given number is bound.
func (f *Fake) Bound(number uint64) bool {
	fd, found := f.devices[number]
	return found && fd.bound
}
