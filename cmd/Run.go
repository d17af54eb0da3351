package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/samuelfneumann/parkrl/agent/policy"
	"github.com/samuelfneumann/parkrl/experiment/trackers"
	"github.com/samuelfneumann/parkrl/storage"
	"github.com/samuelfneumann/parkrl/telemetry"
	"github.com/samuelfneumann/parkrl/utils/progressbar"
)

// RunCommand returns the command running an online experiment
func RunCommand() *cobra.Command {
	var steps uint
	var seed uint64
	var policyType string
	var run string
	var returnsFile string
	var plotFile string
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a policy in the car park and record every episode",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, logger, err := load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("steps") {
				c.Experiment.MaxSteps = steps
			}
			if flags.Changed("seed") {
				c.Experiment.Seed = seed
			}
			if flags.Changed("policy") {
				c.Experiment.Policy.Type = policy.Type(policyType)
			}
			if flags.Changed("run") {
				c.Storage.Run = run
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			env, _, err := c.Env().Create(c.Experiment.Seed, logger)
			if err != nil {
				return err
			}

			store, err := storage.Open(c.Storage.Path, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			t := []trackers.Tracker{
				trackers.NewOutcome(c.Storage.Run, store),
			}
			if returnsFile != "" {
				t = append(t, trackers.NewReturn(returnsFile))
			}
			if plotFile != "" {
				t = append(t, trackers.NewPlot(plotFile, c.Storage.Run))
			}
			if !noProgress {
				bar := progressbar.New(cmd.ErrOrStderr(), 50,
					int(c.Experiment.MaxSteps))
				t = append(t, trackers.NewProgress(bar, 100))
			}

			if c.Telemetry.Addr != "" {
				hub := telemetry.NewHub(logger)
				go hub.Run(ctx)

				mux := http.NewServeMux()
				mux.Handle("/ws", hub)
				server := &http.Server{Addr: c.Telemetry.Addr, Handler: mux}
				go func() {
					err := server.ListenAndServe()
					if err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error().Err(err).Msg("telemetry server failed")
					}
				}()
				defer func() {
					shutdown, cancel := context.WithTimeout(
						context.Background(), 5*time.Second)
					defer cancel()
					server.Shutdown(shutdown)
				}()

				logger.Info().Str("addr", c.Telemetry.Addr).
					Msg("streaming telemetry on /ws")
				t = append(t, trackers.NewStream(c.Storage.Run, hub, env))
			}

			exp, err := c.Experiment.CreateExp(env, logger, t...)
			if err != nil {
				return err
			}

			logger.Info().
				Str("run", c.Storage.Run).
				Str("environment", string(c.Environment)).
				Str("policy", string(c.Experiment.Policy.Type)).
				Uint("steps", c.Experiment.MaxSteps).
				Uint64("seed", c.Experiment.Seed).
				Msg("starting experiment")

			runErr := exp.Run(ctx)
			if errors.Is(runErr, context.Canceled) {
				logger.Warn().Msg("experiment interrupted")
				runErr = nil
			}

			if err := exp.Save(); err != nil {
				logger.Error().Err(err).Msg("could not save experiment data")
				if runErr == nil {
					runErr = err
				}
			}
			return runErr
		},
	}
	cmd.Flags().UintVar(&steps, "steps", 0, "Number of timesteps to run")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed of the environment and policy")
	cmd.Flags().StringVar(&policyType, "policy", "", "Policy to run (Random, Gaussian, Seeker)")
	cmd.Flags().StringVar(&run, "run", "", "Name of the run in the episode store")
	cmd.Flags().StringVar(&returnsFile, "returns", "", "Save episodic returns to this gob file")
	cmd.Flags().StringVar(&plotFile, "plot", "", "Save a plot of episodic returns to this PNG file")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Do not display a progress bar")
	return cmd
}
