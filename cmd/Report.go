package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/parkrl/experiment/trackers"
	"github.com/samuelfneumann/parkrl/storage"
	"github.com/samuelfneumann/parkrl/timestep"
)

// ReportCommand returns the command summarising the episodes in the
// episode store
func ReportCommand() *cobra.Command {
	var runs, reasonNames []string
	var plotFile string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise recorded episodes by run",
		RunE: func(cmd *cobra.Command, args []string) error {
			reasons := make([]timestep.EndType, len(reasonNames))
			for i, name := range reasonNames {
				reason, err := timestep.ParseEndType(name)
				if err != nil {
					return fmt.Errorf("report: %w", err)
				}
				reasons[i] = reason
			}

			c, logger, err := load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			store, err := storage.Open(c.Storage.Path, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(runs) == 0 {
				if runs, err = store.Runs(); err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tEPISODES\tMEAN RETURN\tSTD RETURN\tREASON\tCOUNT")

			series := make(map[string][]float64, len(runs))
			for _, run := range runs {
				returns, err := store.Returns(run, reasons...)
				if err != nil {
					return err
				}
				series[run] = returns

				counts, err := store.ReasonCounts(run, reasons...)
				if err != nil {
					return err
				}

				mean, std := 0.0, 0.0
				if len(returns) > 0 {
					mean = stat.Mean(returns, nil)
				}
				if len(returns) > 1 {
					std = stat.StdDev(returns, nil)
				}
				for i, count := range counts {
					if i == 0 {
						fmt.Fprintf(w, "%v\t%v\t%.2f\t%.2f\t%v\t%v\n", run,
							len(returns), mean, std, count.Reason, count.Count)
					} else {
						fmt.Fprintf(w, "\t\t\t\t%v\t%v\n", count.Reason,
							count.Count)
					}
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if plotFile != "" {
				if err := trackers.PlotReturns(plotFile, "Episodic return", series); err != nil {
					return err
				}
				logger.Info().Str("plot", plotFile).Msg("returns plotted")
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&runs, "run", nil, "Runs to report (default all)")
	cmd.Flags().StringSliceVar(&reasonNames, "reason", nil,
		"Only report episodes that ended for these reasons, e.g. Success")
	cmd.Flags().StringVar(&plotFile, "plot", "", "Save a plot of episodic returns to this PNG file")
	return cmd
}
