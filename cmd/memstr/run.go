package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hupe1980/memstr/wasmhost"
)

var (
	runOpts = struct {
		fn     string
		args   []string
		module string
		wasi   bool
		stats  bool
	}{}

	runCmd = &cobra.Command{
		Use:   "run <file.wasm>",
		Short: "Run a WebAssembly guest against the host module",
		Long:  "Instantiate the memstr host module, instantiate the guest and call one of its exported functions with integer arguments. Results are printed one per line.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			params, err := parseArgs(runOpts.args)
			if err != nil {
				return err
			}
			code, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			log, err := newZapLogger(rootOpts.logLevel, rootOpts.json)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			r := wazero.NewRuntime(ctx)
			defer r.Close(ctx)

			if runOpts.wasi {
				wasi_snapshot_preview1.MustInstantiate(ctx, r)
			}
			metrics := wasmhost.NewBasicMetricsCollector()
			if _, err := wasmhost.Instantiate(ctx, r,
				wasmhost.WithModuleName(runOpts.module),
				wasmhost.WithLogger(log),
				wasmhost.WithMetrics(metrics)); err != nil {
				return err
			}
			if runOpts.stats {
				defer func() { printStats(cmd.ErrOrStderr(), metrics.GetStats()) }()
			}

			compiled, err := r.CompileModule(ctx, code)
			if err != nil {
				return fmt.Errorf("compile %s: %w", args[0], err)
			}
			config := wazero.NewModuleConfig().
				WithName("guest").
				WithStdout(cmd.OutOrStdout()).
				WithStderr(cmd.ErrOrStderr()).
				WithStartFunctions()
			mod, err := r.InstantiateModule(ctx, compiled, config)
			if err != nil {
				return fmt.Errorf("instantiate %s: %w", args[0], err)
			}

			fn := mod.ExportedFunction(runOpts.fn)
			if fn == nil {
				return fmt.Errorf("function %q is not exported by %s", runOpts.fn, args[0])
			}
			log.Debug("calling guest",
				zap.String("func", runOpts.fn),
				zap.Uint64s("args", params))

			results, err := fn.Call(ctx, params...)
			if err := callError(runOpts.fn, err); err != nil {
				return err
			}
			for _, v := range results {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
)

// callError maps the error of a guest call. proc_exit(0) unwinds the
// call with an exit error but is a clean exit.
func callError(fn string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *sys.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 0 {
		return nil
	}
	return fmt.Errorf("call %s: %w", fn, err)
}

func printStats(out io.Writer, stats []wasmhost.CallStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "func\tcalls\ttraps\tavg ns\n")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", s.Func, s.Calls, s.Traps, s.AvgNanos)
	}
	w.Flush() //nolint:errcheck
}

func parseArgs(raw []string) ([]uint64, error) {
	params := make([]uint64, 0, len(raw))
	for _, s := range raw {
		v, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			// Negative values are passed as their two's complement.
			i, ierr := strconv.ParseInt(s, 0, 64)
			if ierr != nil {
				return nil, fmt.Errorf("invalid argument %q: %w", s, errors.Join(err, ierr))
			}
			v = uint64(i)
		}
		params = append(params, v)
	}
	return params, nil
}

func newZapLogger(level string, json bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if !json {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return cfg.Build()
}

func init() {
	runCmd.Flags().StringVarP(&runOpts.fn, "func", "f", "_start", "exported function to call")
	runCmd.Flags().StringSliceVarP(&runOpts.args, "arg", "a", nil, "function argument (repeatable, decimal or 0x hex)")
	runCmd.Flags().StringVar(&runOpts.module, "module", wasmhost.DefaultModuleName, "import module name of the host functions")
	runCmd.Flags().BoolVar(&runOpts.wasi, "wasi", true, "also instantiate wasi_snapshot_preview1")
	runCmd.Flags().BoolVar(&runOpts.stats, "stats", false, "print host call statistics to stderr")
}
