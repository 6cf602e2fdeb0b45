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
	"strconv"

	"github.com/loopctl/loopctl/pkg/consts"
	"github.com/loopctl/loopctl/pkg/loopback"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add NUMBER",
	Short: "Create a loop device with the given number.",
	Example: `
# Create /dev/loop8
$ ` + consts.AppName + ` add 8`,
	Args: cobra.ExactArgs(1),
	Run: func(c *cobra.Command, args []string) {
		addMain(args[0])
	},
}

func addMain(arg string) {
	number, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		eprintf(quietFlag, true, "invalid device number %v\n", arg)
		os.Exit(1)
	}

	dev, err := loopback.New().AddDevice(number)
	if err != nil {
		eprintf(quietFlag, true, "unable to add loop%v; %v\n", number, err)
		os.Exit(1)
	}

	fmt.Println(dev.Path)
}
