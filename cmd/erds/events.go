package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/cwbudde/algo-erds/eeg"
	"github.com/cwbudde/algo-erds/internal/dataset"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newEventsCmd(fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "events <file>",
		Short: "Print the label to code table of an event file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markers, err := dataset.ReadEvents(fs, args[0])
			if err != nil {
				return err
			}
			codes, err := eeg.EventCodes(markers)
			if err != nil {
				return err
			}
			count := make(map[string]int, len(codes.Entries))
			for _, m := range markers {
				count[m.Label]++
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Label\tCode\tEvents\n")
			for _, e := range codes.Entries {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", e.Label, e.Code, count[e.Label])
			}
			return tw.Flush()
		},
	}
}
