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
)

var resizeCmd = &cobra.Command{
	Use:   "resize DEVICE",
	Short: "Re-read the backing file size of a loop device.",
	Example: `
# Pick up the new size after growing the backing file
$ ` + consts.AppName + ` resize /dev/loop0`,
	Args: cobra.ExactArgs(1),
	Run: func(c *cobra.Command, args []string) {
		resizeMain(args[0])
	},
}

func resizeMain(arg string) {
	dev, err := loopback.DeviceFromPath(arg)
	if err != nil {
		eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}

	if err := loopback.New().RefreshSize(dev); err != nil {
		eprintf(quietFlag, true, "unable to resize %v; %v\n", arg, err)
		os.Exit(1)
	}
}
