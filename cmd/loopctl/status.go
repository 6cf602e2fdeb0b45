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
	"github.com/loopctl/loopctl/pkg/loopback"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status DEVICE",
	Short: "Show the current binding of a loop device.",
	Example: `
# Show the binding of /dev/loop0
$ ` + consts.AppName + ` status /dev/loop0

# Show the binding as JSON
$ ` + consts.AppName + ` status --output json /dev/loop0`,
	Args: cobra.ExactArgs(1),
	Run: func(c *cobra.Command, args []string) {
		statusMain(args[0])
	},
}

func statusMain(arg string) {
	dev, err := loopback.DeviceFromPath(arg)
	if err != nil {
		eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}

	status, err := loopback.New().Status(dev)
	if err != nil {
		eprintf(quietFlag, true, "unable to get status of %v; %v\n", arg, err)
		os.Exit(1)
	}

	if jsonOutput || yamlOutput {
		if err := printer(status); err != nil {
			eprintf(quietFlag, true, "unable to %v marshal status; %v\n", outputMode, err)
			os.Exit(1)
		}
		return
	}

	writer := newTableWriter(
		table.Row{
			"DEVICE",
			"BACKING FILE",
			"OFFSET",
			"SIZE LIMIT",
			"READ ONLY",
			"AUTOCLEAR",
			"DIRECT IO",
		},
		nil,
		noHeaders,
	)
	writer.AppendRow(table.Row{
		status.Device.Path,
		printableString(status.BackingFile),
		status.Offset,
		printableBytes(status.SizeLimit),
		printableBool(status.ReadOnly()),
		printableBool(status.Autoclear()),
		printableBool(status.DirectIO()),
	})
	writer.Render()
}
