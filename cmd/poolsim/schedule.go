// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vechain/corepool/builtin/corepool/emission"
)

func printSchedule(w io.Writer, schedule *emission.Schedule, periods uint32) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PERIOD\tFROM\tTO\tRATE/BLOCK\tTOTAL\t")
	for _, p := range schedule.Table(periods) {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%v\t%v\t\n", p.Index, p.FromBlock, p.ToBlock, p.RatePerBlock, p.Total)
	}
	fmt.Fprintf(tw, "\t\t%d\t\t%v\t\n", schedule.EndBlock(), schedule.Total())
	return tw.Flush()
}
