package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/memstr/internal/check"
	"github.com/hupe1980/memstr/internal/kernel"
	"github.com/hupe1980/memstr/testutil"
)

var (
	stressOpts = struct {
		workers    int
		iterations int
		seed       int64
		size       int
	}{}

	stressCmd = &cobra.Command{
		Use:   "stress",
		Short: "Check the primitive properties concurrently",
		Long:  "Run the property checks from several goroutines at once. Each worker owns its buffers and its random source, so the run also exercises concurrent use of disjoint regions.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stressOpts.workers < 1 {
				return fmt.Errorf("workers must be positive, got %d", stressOpts.workers)
			}
			tier := kernel.ActiveTier().String()
			logger.LogKernel(cmd.Context(), tier, kernel.IsOverridden())
			log := logger.WithTier(tier)

			err := stress(cmd.Context(), stressOpts.workers, stressOpts.iterations, stressOpts.seed, stressOpts.size)
			log.LogStress(cmd.Context(), stressOpts.workers, stressOpts.iterations, err)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d workers x %d iterations\n", stressOpts.workers, stressOpts.iterations)
			return nil
		},
	}
)

func stress(ctx context.Context, workers, iterations int, seed int64, size int) error {
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			rng := testutil.NewRNG(seed + int64(w))
			for i := range iterations {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := check.Round(rng, size); err != nil {
					return fmt.Errorf("worker %d (seed %d) iteration %d: %w", w, rng.Seed(), i, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func init() {
	stressCmd.Flags().IntVarP(&stressOpts.workers, "workers", "w", runtime.NumCPU(), "number of concurrent workers")
	stressCmd.Flags().IntVarP(&stressOpts.iterations, "iterations", "i", 1000, "property rounds per worker")
	stressCmd.Flags().Int64Var(&stressOpts.seed, "seed", 1, "base random seed; worker w uses seed+w")
	stressCmd.Flags().IntVarP(&stressOpts.size, "size", "n", 256, "maximum buffer size in bytes")
}
