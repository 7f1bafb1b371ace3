package main

import (
	"fmt"
	"text/tabwriter"
	"time"
	"unsafe"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/memstr/cstr"
	"github.com/hupe1980/memstr/internal/kernel"
	"github.com/hupe1980/memstr/mem"
	"github.com/hupe1980/memstr/testutil"
)

// benchCase runs one primitive once over buffers prepared for size bytes.
type benchCase struct {
	name string
	run  func(dst, src []byte, str, sub []byte)
}

var benchCases = []benchCase{
	{"memcpy", func(dst, src, _, _ []byte) {
		mem.Copy(unsafe.Pointer(&dst[0]), unsafe.Pointer(&src[0]), uintptr(len(src)))
	}},
	{"memset", func(dst, _, _, _ []byte) {
		mem.Set(unsafe.Pointer(&dst[0]), 0x5A, uintptr(len(dst)))
	}},
	{"memcmp", func(dst, src, _, _ []byte) {
		mem.Compare(unsafe.Pointer(&dst[0]), unsafe.Pointer(&src[0]), uintptr(len(src)))
	}},
	{"memchr", func(_, src, _, _ []byte) {
		mem.Scan(unsafe.Pointer(&src[0]), 0xFF, uintptr(len(src)))
	}},
	{"memmove", func(dst, _, _, _ []byte) {
		mem.Move(unsafe.Pointer(&dst[1]), unsafe.Pointer(&dst[0]), uintptr(len(dst)-1))
	}},
	{"strlen", func(_, _, str, _ []byte) {
		cstr.Len(&str[0])
	}},
	{"strcmp", func(dst, _, str, _ []byte) {
		cstr.Compare(&str[0], &dst[0])
	}},
	{"strstr", func(_, _, str, sub []byte) {
		cstr.Str(&str[0], &sub[0])
	}},
}

var (
	benchOpts = struct {
		size int
		runs int
		tier string
	}{}

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the primitives",
		Long:  "Time every primitive over buffers of the given size and report the mean and standard deviation of ns/op across runs.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if benchOpts.size < 2 {
				return fmt.Errorf("size must be at least 2, got %d", benchOpts.size)
			}
			if benchOpts.runs < 1 {
				return fmt.Errorf("runs must be positive, got %d", benchOpts.runs)
			}
			if benchOpts.tier != "" {
				t, ok := kernel.ParseTier(benchOpts.tier)
				if !ok || !kernel.Select(t) {
					return fmt.Errorf("kernel tier %q is not available", benchOpts.tier)
				}
			}
			tier := kernel.ActiveTier().String()
			logger.LogKernel(cmd.Context(), tier, kernel.IsOverridden())
			log := logger.WithTier(tier)

			size := benchOpts.size
			rng := testutil.NewRNG(1)
			src := rng.Bytes(size)
			dst := make([]byte, size)
			// Periodic text makes strstr scan with many partial matches.
			str := append(testutil.PeriodicText(size-1, 3), 0)
			sub := append(testutil.PeriodicText(8, 4), 0)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "op\tsize\tmean ns/op\tstddev\t\n")
			for _, bc := range benchCases {
				// strcmp compares str against an identical copy.
				copy(dst, str)
				samples := measure(bc, dst, src, str, sub, benchOpts.runs)
				mean, stddev := stat.MeanStdDev(samples, nil)
				if len(samples) < 2 {
					stddev = 0
				}
				log.LogBench(cmd.Context(), bc.name, size,
					time.Duration(mean), time.Duration(stddev))
				fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t\n", bc.name, size, mean, stddev)
			}
			return w.Flush()
		},
	}
)

// measure returns one ns/op sample per run. Each run repeats the case
// until it has taken at least a millisecond.
func measure(bc benchCase, dst, src, str, sub []byte, runs int) []float64 {
	samples := make([]float64, 0, runs)
	for range runs {
		iters := 1
		for {
			start := time.Now()
			for range iters {
				bc.run(dst, src, str, sub)
			}
			elapsed := time.Since(start)
			if elapsed >= time.Millisecond || iters >= 1<<24 {
				samples = append(samples, float64(elapsed.Nanoseconds())/float64(iters))
				break
			}
			iters *= 2
		}
	}
	return samples
}

func init() {
	benchCmd.Flags().IntVarP(&benchOpts.size, "size", "n", 4096, "buffer size in bytes")
	benchCmd.Flags().IntVarP(&benchOpts.runs, "runs", "r", 10, "number of timed runs per primitive")
	benchCmd.Flags().StringVarP(&benchOpts.tier, "tier", "t", "", "kernel tier (generic, word, bulk); default is the detected tier")
}
