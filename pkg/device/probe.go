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

// Package device probes loop devices from sysfs. It is read-only; all
// state changes go through pkg/loopback.
package device

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"k8s.io/klog/v2"
)

const defaultBlockSize = 512

var (
	sysBlockDir      = "/sys/block"
	sysClassBlockDir = "/sys/class/block"
)

// Probe returns information of all loop devices known to the kernel,
// sorted by device number. Unbound devices report an empty backing file.
func Probe() ([]LoopDevice, error) {
	names, err := readdirnames(sysBlockDir, false)
	if err != nil {
		return nil, err
	}

	var devices []LoopDevice
	for _, name := range names {
		number, ok := loopNumber(name)
		if !ok {
			continue
		}
		dev, err := probeDevice(name, number)
		if err != nil {
			klog.V(3).Infof("unable to probe loop device %v; %v", name, err)
			continue
		}
		devices = append(devices, dev)
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Number < devices[j].Number
	})
	return devices, nil
}

// FindByBackingFile returns the loop devices whose backing file matches
// the given path.
func FindByBackingFile(backingFile string) ([]LoopDevice, error) {
	absPath, err := filepath.Abs(backingFile)
	if err != nil {
		absPath = backingFile
	}

	devices, err := Probe()
	if err != nil {
		return nil, err
	}

	var matched []LoopDevice
	for _, dev := range devices {
		if dev.BackingFile == absPath || dev.BackingFile == backingFile {
			matched = append(matched, dev)
		}
	}
	return matched, nil
}

func loopNumber(name string) (uint64, bool) {
	if !strings.HasPrefix(name, "loop") {
		return 0, false
	}
	number, err := strconv.ParseUint(strings.TrimPrefix(name, "loop"), 10, 64)
	if err != nil {
		return 0, false
	}
	return number, true
}

func probeDevice(name string, number uint64) (LoopDevice, error) {
	dev := LoopDevice{Name: name, Number: number}

	sectors, err := readUint(sysClassBlockDir + "/" + name + "/size")
	if err != nil {
		return dev, err
	}
	dev.Size = sectors * defaultBlockSize

	if dev.ReadOnly, err = readBool(sysClassBlockDir + "/" + name + "/ro"); err != nil {
		return dev, err
	}

	// <sys>/loop exists only while the device is bound
	loopDir := sysBlockDir + "/" + name + "/loop"
	if dev.BackingFile, err = readFirstLine(loopDir + "/backing_file"); err != nil {
		return dev, err
	}
	if dev.BackingFile == "" {
		return dev, nil
	}

	if dev.Offset, err = readUint(loopDir + "/offset"); err != nil {
		return dev, err
	}
	if dev.SizeLimit, err = readUint(loopDir + "/sizelimit"); err != nil {
		return dev, err
	}
	if dev.Autoclear, err = readBool(loopDir + "/autoclear"); err != nil {
		return dev, err
	}
	if dev.PartScan, err = readBool(loopDir + "/partscan"); err != nil {
		return dev, err
	}
	if dev.DirectIO, err = readBool(loopDir + "/dio"); err != nil {
		return dev, err
	}

	return dev, nil
}
