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

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/loopctl/loopctl/pkg/consts"
	"github.com/loopctl/loopctl/pkg/device"
	"github.com/spf13/cobra"
)

var listAll = false

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List loop devices.",
	Example: `
# List bound loop devices
$ ` + consts.AppName + ` list

# List all loop devices including unbound ones
$ ` + consts.AppName + ` list --all`,
	Args: cobra.NoArgs,
	Run: func(c *cobra.Command, args []string) {
		listMain()
	},
}

func init() {
	listCmd.PersistentFlags().BoolVarP(&listAll, "all", "a", listAll,
		"list unbound loop devices too")
}

func listMain() {
	devices, err := device.Probe()
	if err != nil {
		eprintf(quietFlag, true, "unable to probe loop devices; %v\n", err)
		os.Exit(1)
	}

	if !listAll {
		var bound []device.LoopDevice
		for _, dev := range devices {
			if dev.Bound() {
				bound = append(bound, dev)
			}
		}
		devices = bound
	}

	if jsonOutput || yamlOutput {
		if err := printer(devices); err != nil {
			eprintf(quietFlag, true, "unable to %v marshal devices; %v\n", outputMode, err)
			os.Exit(1)
		}
		return
	}

	writer := newTableWriter(
		table.Row{
			"NAME",
			"SIZE",
			"OFFSET",
			"SIZE LIMIT",
			"RO",
			"AUTOCLEAR",
			"DIO",
			"BACKING FILE",
		},
		[]table.SortBy{
			{
				Name: "NAME",
				Mode: table.Asc,
			},
		},
		noHeaders,
	)

	for _, dev := range devices {
		writer.AppendRow(table.Row{
			dev.Path(),
			printableBytes(dev.Size),
			dev.Offset,
			printableBytes(dev.SizeLimit),
			printableBool(dev.ReadOnly),
			printableBool(dev.Autoclear),
			printableBool(dev.DirectIO),
			printableString(dev.BackingFile),
		})
	}
	writer.Render()
}
