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
	"os"

	"github.com/loopctl/loopctl/pkg/consts"
	"github.com/loopctl/loopctl/pkg/loopback"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var removeCmd = &cobra.Command{
	Use:   "remove DEVICE ...",
	Short: "Delete unbound loop devices.",
	Example: `
# Delete /dev/loop8
$ ` + consts.AppName + ` remove /dev/loop8`,
	Args: cobra.MinimumNArgs(1),
	Run: func(c *cobra.Command, args []string) {
		removeMain(args)
	},
}

func removeMain(args []string) {
	controller := loopback.New()
	var failed bool
	for _, arg := range args {
		dev, err := loopback.DeviceFromPath(arg)
		if err == nil {
			err = controller.RemoveDevice(dev)
		}
		if err != nil {
			failed = true
			eprintf(quietFlag, true, "unable to remove %v; %v\n", arg, err)
			continue
		}
		klog.V(2).Infof("removed %v", dev.Path)
	}
	if failed {
		os.Exit(1)
	}
}
