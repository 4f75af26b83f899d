// Command erds runs ERDS analyses of EEG recordings.
//
// Usage:
//
//	erds run --config analysis.yaml
//	erds tapers [flags]
//	erds events <file>
//
// Examples:
//
//	erds run -c analysis.yaml
//	erds tapers --sfreq 512 --fmin 5 --fmax 36 --num 8 --cycles 20
//	erds tapers --method morlet --cycles 7
//	erds events datasets/events_executed_tasks.txt
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	root := &cobra.Command{
		Use:           "erds",
		Short:         "Time-frequency ERDS analysis of epoched EEG",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(fs), newTapersCmd(), newEventsCmd(fs))
	return root
}
