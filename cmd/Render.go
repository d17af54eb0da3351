package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/samuelfneumann/parkrl/agent"
	"github.com/samuelfneumann/parkrl/agent/policy"
)

// RenderCommand returns the command rendering one episode as a
// sequence of PNG frames
func RenderCommand() *cobra.Command {
	var dir string
	var maxFrames int
	var policyType string
	var seed uint64

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a single episode as PNG frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, logger, err := load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dir") {
				c.Render.Dir = dir
			}
			if cmd.Flags().Changed("policy") {
				c.Experiment.Policy.Type = policy.Type(policyType)
			}
			if cmd.Flags().Changed("seed") {
				c.Experiment.Seed = seed
			}

			if err := os.MkdirAll(c.Render.Dir, 0o755); err != nil {
				return fmt.Errorf("render: %w", err)
			}

			env, step, err := c.Env().Create(c.Experiment.Seed, logger)
			if err != nil {
				return err
			}
			p, err := c.Experiment.Policy.Create(env, c.Experiment.Seed)
			if err != nil {
				return err
			}
			if observer, ok := p.(agent.Observer); ok {
				if err := observer.ObserveFirst(step); err != nil {
					return err
				}
			}

			frame := func(i int) error {
				path := filepath.Join(c.Render.Dir, fmt.Sprintf("frame_%04d.png", i))
				return env.Render(path)
			}

			frames := 0
			if err := frame(frames); err != nil {
				return err
			}
			for frames++; !step.Last() && frames < maxFrames; frames++ {
				step, _, err = env.Step(p.SelectAction(step))
				if err != nil {
					return err
				}
				if err := frame(frames); err != nil {
					return err
				}
			}

			logger.Info().
				Int("frames", frames).
				Str("dir", c.Render.Dir).
				Stringer("end", step.EndType).
				Float64("distance", env.DistanceToGoal()).
				Msg("episode rendered")
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to write frames to")
	cmd.Flags().IntVar(&maxFrames, "frames", 500, "Maximum number of frames to render")
	cmd.Flags().StringVar(&policyType, "policy", "", "Policy to run (Random, Gaussian, Seeker)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed of the environment and policy")
	return cmd
}
