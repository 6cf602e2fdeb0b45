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

package main

import (
	"fmt"
	"os"

	"github.com/loopctl/loopctl/pkg/consts"
	"github.com/loopctl/loopctl/pkg/loopback"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var (
	attachDevice    = ""
	attachOffset    = ""
	attachSizeLimit = ""
	attachReadOnly  = false
	attachAutoclear = false
	attachDirectIO  = false
	attachBlockSize = uint32(0)
)

var attachCmd = &cobra.Command{
	Use:   "attach FILE",
	Short: "Attach a backing file to a loop device.",
	Example: `
# Attach a disk image to a free loop device
$ ` + consts.AppName + ` attach /tmp/disk.img

# Attach read-only, skipping the first MiB of the image
$ ` + consts.AppName + ` attach --read-only --offset 1MiB /tmp/disk.img

# Attach to a specific loop device
$ ` + consts.AppName + ` attach --device /dev/loop7 /tmp/disk.img`,
	Args: cobra.ExactArgs(1),
	Run: func(c *cobra.Command, args []string) {
		attachMain(args[0])
	},
}

func init() {
	attachCmd.PersistentFlags().StringVarP(&attachDevice, "device", "d", attachDevice,
		"attach to this loop device instead of finding a free one")
	attachCmd.PersistentFlags().StringVarP(&attachOffset, "offset", "", attachOffset,
		"byte offset into the backing file (supports suffixes like KiB, MiB)")
	attachCmd.PersistentFlags().StringVarP(&attachSizeLimit, "size-limit", "", attachSizeLimit,
		"limit the exposed size (supports suffixes like KiB, MiB)")
	attachCmd.PersistentFlags().BoolVarP(&attachReadOnly, "read-only", "r", attachReadOnly,
		"expose the device read-only")
	attachCmd.PersistentFlags().BoolVarP(&attachAutoclear, "autoclear", "", attachAutoclear,
		"release the device when its last reference closes")
	attachCmd.PersistentFlags().BoolVarP(&attachDirectIO, "direct-io", "", attachDirectIO,
		"bypass page-cache buffering of the backing file")
	attachCmd.PersistentFlags().Uint32VarP(&attachBlockSize, "block-size", "b", attachBlockSize,
		"logical block size of the device")
}

func attachMain(backingFile string) {
	offset, err := parseBytesFlag(attachOffset)
	if err != nil {
		eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}
	sizeLimit, err := parseBytesFlag(attachSizeLimit)
	if err != nil {
		eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}

	opts := loopback.AttachOptions{
		Offset:    offset,
		SizeLimit: sizeLimit,
		ReadOnly:  attachReadOnly,
		Autoclear: attachAutoclear,
		DirectIO:  attachDirectIO,
		BlockSize: attachBlockSize,
	}

	controller := loopback.New()
	var dev loopback.Device
	if attachDevice != "" {
		if dev, err = loopback.DeviceFromPath(attachDevice); err == nil {
			err = controller.Attach(dev, backingFile, opts)
		}
	} else {
		dev, err = controller.AttachAny(backingFile, opts)
	}
	if err != nil {
		eprintf(quietFlag, true, "unable to attach %v; %v\n", backingFile, err)
		os.Exit(1)
	}

	klog.V(2).Infof("attached %v to %v", backingFile, dev.Path)
	fmt.Println(dev.Path)
}
