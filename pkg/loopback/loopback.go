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

// Package loopback manages Linux loop devices: finding a free device,
// attaching a backing file, querying status and detaching.
package loopback

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"go.uber.org/multierr"
)

// maxAttachRetries bounds the discovery-then-attach loop in AttachAny.
// A free device found by LOOP_CTL_GET_FREE can be claimed by another
// process before LOOP_SET_FD; per util-linux losetup this shows up as
// EBUSY and is retried with a fresh discovery.
const maxAttachRetries = 16

// Controller drives the kernel loop device control interface. All methods
// are synchronous; every kernel failure is classified into one of the
// package error kinds at the point of occurrence and returned. The
// controller never retries on its own except for the best-effort unbind
// rollback inside Attach.
type Controller struct {
	sys Ioctler
}

// New returns a controller backed by the real ioctl surface.
func New() *Controller {
	return &Controller{sys: defaultIoctler()}
}

// NewWithIoctler returns a controller backed by the given control surface.
func NewWithIoctler(sys Ioctler) *Controller {
	return &Controller{sys: sys}
}

// FindFreeDevice asks the kernel for a loop device that is unbound at the
// instant of the call. The device can be claimed by another process before
// a subsequent Attach; that race surfaces there as ErrDeviceBusy.
func (c *Controller) FindFreeDevice() (Device, error) {
	number, err := c.sys.CtlGetFree()
	if err != nil {
		switch errnoOf(err) {
		case syscall.ENODEV, syscall.ENOSPC:
			return Device{}, fmt.Errorf("%w; %v", ErrNoFreeDevice, err)
		case syscall.ENOENT:
			return Device{}, fmt.Errorf("%w; %v", ErrDeviceNotFound, err)
		}
		return Device{}, err
	}
	return NewDevice(number), nil
}

// Attach binds the backing file to the given loop device and applies the
// options. On success the device is bound. On any failure the device is
// left unbound: if LOOP_SET_FD succeeded but a later step fails, the
// binding is rolled back with a best-effort LOOP_CLR_FD, and a rollback
// failure is appended to the original error.
func (c *Controller) Attach(dev Device, backingFile string, opts AttachOptions) error {
	flag := os.O_RDWR
	if opts.ReadOnly {
		flag = os.O_RDONLY
	}
	back, err := os.OpenFile(backingFile, flag, 0o660)
	if err != nil {
		return fmt.Errorf("%w %v; %v", ErrInvalidBackingFile, backingFile, err)
	}
	defer back.Close()

	if err := validateBounds(back, opts); err != nil {
		return err
	}

	if err := c.sys.SetFd(dev.Path, back); err != nil {
		switch errnoOf(err) {
		case syscall.EBUSY:
			return fmt.Errorf("%w: %v claimed by another process; %v", ErrDeviceBusy, dev.Path, err)
		case syscall.ENOENT, syscall.ENODEV, syscall.ENXIO:
			return fmt.Errorf("%w: %v; %v", ErrDeviceNotFound, dev.Path, err)
		}
		return err
	}

	info := LoopInfo{
		Offset:    opts.Offset,
		SizeLimit: opts.SizeLimit,
		Flags:     optionFlags(opts),
	}
	copy(info.FileName[:], backingFile)

	if err := c.sys.SetStatus64(dev.Path, &info); err != nil {
		return c.rollback(dev, classifySetStatus(err, opts))
	}

	if opts.BlockSize != 0 {
		if err := c.sys.SetBlockSize(dev.Path, opts.BlockSize); err != nil {
			if errnoOf(err) == syscall.EINVAL {
				err = fmt.Errorf("%w: block size %v; %v", ErrUnsupportedOption, opts.BlockSize, err)
			}
			return c.rollback(dev, err)
		}
	}

	return nil
}

// rollback undoes a half-configured binding. The original error is always
// reported; a rollback failure is attached to it, never dropped.
func (c *Controller) rollback(dev Device, cause error) error {
	if err := c.sys.ClrFd(dev.Path); err != nil && errnoOf(err) != syscall.ENXIO {
		return multierr.Append(cause, fmt.Errorf("could not roll back binding of %v: %v", dev.Path, err))
	}
	return cause
}

// Status reads the current binding of the given loop device. It is a pure
// read; the snapshot has no relation to earlier ones.
func (c *Controller) Status(dev Device) (Status, error) {
	info, err := c.sys.GetStatus64(dev.Path)
	if err != nil {
		switch errnoOf(err) {
		case syscall.ENXIO:
			return Status{}, fmt.Errorf("%w: %v", ErrNotBound, dev.Path)
		case syscall.ENOENT, syscall.ENODEV:
			return Status{}, fmt.Errorf("%w: %v; %v", ErrDeviceNotFound, dev.Path, err)
		}
		return Status{}, err
	}
	return Status{
		Device:        dev,
		BackingFile:   info.BackingFile(),
		BackingDevice: info.Device,
		BackingInode:  info.INode,
		Offset:        info.Offset,
		SizeLimit:     info.SizeLimit,
		Flags:         info.Flags,
	}, nil
}

// Detach releases the backing file of the given loop device. Detaching an
// unbound device fails with ErrNotBound so double-detach bugs stay visible.
// ErrDeviceBusy is reported, never retried, when another holder still pins
// the device.
func (c *Controller) Detach(dev Device) error {
	if err := c.sys.ClrFd(dev.Path); err != nil {
		switch errnoOf(err) {
		case syscall.ENXIO:
			return fmt.Errorf("%w: %v", ErrNotBound, dev.Path)
		case syscall.EBUSY:
			return fmt.Errorf("%w: %v still in use; %v", ErrDeviceBusy, dev.Path, err)
		case syscall.ENOENT, syscall.ENODEV:
			return fmt.Errorf("%w: %v; %v", ErrDeviceNotFound, dev.Path, err)
		}
		return err
	}
	return nil
}

// AttachAny finds a free device and attaches the backing file to it,
// retrying discovery with a short backoff when the device is claimed by
// another process in between.
func (c *Controller) AttachAny(backingFile string, opts AttachOptions) (Device, error) {
	var err error
	for retry := 1; retry <= maxAttachRetries; retry++ {
		var dev Device
		if dev, err = c.FindFreeDevice(); err != nil {
			return Device{}, err
		}
		if err = c.Attach(dev, backingFile, opts); err == nil {
			return dev, nil
		}
		if !IsDeviceBusy(err) {
			return Device{}, err
		}
		time.Sleep(time.Duration(retry) * 10 * time.Millisecond)
	}
	return Device{}, fmt.Errorf("could not attach %v after %v attempts; %w", backingFile, maxAttachRetries, err)
}

// AddDevice asks the kernel to create the loop device node with the given
// number.
func (c *Controller) AddDevice(number uint64) (Device, error) {
	added, err := c.sys.CtlAdd(number)
	if err != nil {
		if errnoOf(err) == syscall.EEXIST {
			return Device{}, fmt.Errorf("%w: loop%v already exists; %v", ErrDeviceBusy, number, err)
		}
		return Device{}, err
	}
	return NewDevice(added), nil
}

// RemoveDevice asks the kernel to delete the given loop device.
func (c *Controller) RemoveDevice(dev Device) error {
	if err := c.sys.CtlRemove(dev.Number); err != nil {
		switch errnoOf(err) {
		case syscall.EBUSY:
			return fmt.Errorf("%w: %v still in use; %v", ErrDeviceBusy, dev.Path, err)
		case syscall.ENOENT, syscall.ENODEV:
			return fmt.Errorf("%w: %v; %v", ErrDeviceNotFound, dev.Path, err)
		}
		return err
	}
	return nil
}

// RefreshSize makes the kernel re-read the size of the backing file, after
// it grew or shrank.
func (c *Controller) RefreshSize(dev Device) error {
	if err := c.sys.SetCapacity(dev.Path); err != nil {
		switch errnoOf(err) {
		case syscall.ENXIO:
			return fmt.Errorf("%w: %v", ErrNotBound, dev.Path)
		case syscall.ENOENT, syscall.ENODEV:
			return fmt.Errorf("%w: %v; %v", ErrDeviceNotFound, dev.Path, err)
		}
		return err
	}
	return nil
}

// SetDirectIO toggles direct I/O on a bound loop device.
func (c *Controller) SetDirectIO(dev Device, enable bool) error {
	if err := c.sys.SetDirectIO(dev.Path, enable); err != nil {
		switch errnoOf(err) {
		case syscall.EINVAL:
			return fmt.Errorf("%w: direct I/O; %v", ErrUnsupportedOption, err)
		case syscall.ENXIO:
			return fmt.Errorf("%w: %v", ErrNotBound, dev.Path)
		case syscall.ENOENT, syscall.ENODEV:
			return fmt.Errorf("%w: %v; %v", ErrDeviceNotFound, dev.Path, err)
		}
		return err
	}
	return nil
}

// SetBlockSize sets the logical block size of a bound loop device.
func (c *Controller) SetBlockSize(dev Device, size uint32) error {
	if err := c.sys.SetBlockSize(dev.Path, size); err != nil {
		switch errnoOf(err) {
		case syscall.EINVAL:
			return fmt.Errorf("%w: block size %v; %v", ErrUnsupportedOption, size, err)
		case syscall.ENXIO:
			return fmt.Errorf("%w: %v", ErrNotBound, dev.Path)
		case syscall.ENOENT, syscall.ENODEV:
			return fmt.Errorf("%w: %v; %v", ErrDeviceNotFound, dev.Path, err)
		}
		return err
	}
	return nil
}

// IsDeviceBusy reports whether the error denotes a busy or already claimed
// loop device.
func IsDeviceBusy(err error) bool {
	return errors.Is(err, ErrDeviceBusy)
}

// IsNotBound reports whether the error denotes an unbound loop device.
func IsNotBound(err error) bool {
	return errors.Is(err, ErrNotBound)
}

func optionFlags(opts AttachOptions) uint32 {
	var flags uint32
	if opts.ReadOnly {
		flags |= FlagReadOnly
	}
	if opts.Autoclear {
		flags |= FlagAutoclear
	}
	if opts.DirectIO {
		flags |= FlagDirectIO
	}
	return flags
}

// validateBounds checks offset and size-limit against the backing file
// before issuing LOOP_SET_STATUS64, for a clearer error kind than the
// kernel's EINVAL. The kernel still enforces its own bounds.
func validateBounds(back *os.File, opts AttachOptions) error {
	if opts.Offset == 0 && opts.SizeLimit == 0 {
		return nil
	}
	st, err := back.Stat()
	if err != nil || !st.Mode().IsRegular() {
		return nil
	}
	size := uint64(st.Size())
	if opts.Offset > size {
		return fmt.Errorf("%w %v: offset %v beyond end of file (%v bytes)",
			ErrInvalidBackingFile, back.Name(), opts.Offset, size)
	}
	if opts.SizeLimit > 0 && opts.Offset+opts.SizeLimit > size {
		return fmt.Errorf("%w %v: offset %v with size limit %v beyond end of file (%v bytes)",
			ErrInvalidBackingFile, back.Name(), opts.Offset, opts.SizeLimit, size)
	}
	return nil
}

func classifySetStatus(err error, opts AttachOptions) error {
	switch errnoOf(err) {
	case syscall.EINVAL, syscall.ENOTTY:
		if opts.DirectIO || opts.Autoclear {
			return fmt.Errorf("%w; %v", ErrUnsupportedOption, err)
		}
		return fmt.Errorf("%w; %v", ErrInvalidBackingFile, err)
	}
	return err
}
